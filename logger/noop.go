package logger

// noopLogger discards everything.
type noopLogger struct{}

// NewNoopLogger creates a logger that does nothing.
func NewNoopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...Field) {}
func (noopLogger) Info(string, ...Field) {}
func (noopLogger) Warn(string, ...Field) {}
func (noopLogger) Error(string, ...Field) {}
func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any) {}
func (noopLogger) Warnf(string, ...any) {}
func (noopLogger) Errorf(string, ...any) {}
func (n noopLogger) With(...Field) Logger { return n }
func (n noopLogger) Named(string) Logger { return n }
func (noopLogger) Sync() error { return nil }
