package bridge_test

import (
	"context"
	"fmt"
	"sync"
)

type ILogger interface {
	Log(msg string)
}

type consoleLogger struct {
	mu    sync.Mutex
	lines []string
}

func newConsoleLogger() *consoleLogger {
	return &consoleLogger{}
}

func (l *consoleLogger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

type IRequestContext interface {
	RequestID() int
}

type requestContext struct {
	id     int
	logger ILogger
}

func (r *requestContext) RequestID() int { return r.id }

type IWidget interface {
	Name() string
}

type widget struct {
	name string
}

func (w *widget) Name() string { return w.name }

type Repository[T any] interface {
	Get() T
}

type intRepository struct {
	value int
}

func (r *intRepository) Get() int { return r.value }

// disposal log shared by tracked fixtures
type disposalLog struct {
	mu     sync.Mutex
	events []string
}

func (d *disposalLog) add(e string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

func (d *disposalLog) list() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

type connection struct {
	name string
	log  *disposalLog
	err  error
}

func (c *connection) Dispose() error {
	c.log.add(c.name)
	return c.err
}

type asyncConnection struct {
	name string
	log  *disposalLog
	ctx  context.Context
}

func (c *asyncConnection) DisposeAsync(ctx context.Context) error {
	c.ctx = ctx
	c.log.add(c.name)
	return nil
}

type file struct {
	log *disposalLog
}

func (f *file) Close() error {
	f.log.add("file")
	return nil
}

type sequence struct {
	mu sync.Mutex
	n  int
}

func (s *sequence) next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", prefix, s.n)
}
