package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// zapField wraps a zap.Field and implements the Field interface.
type zapField struct {
	field zap.Field
	value any
}

func (f zapField) Key() string { return f.field.Key }
func (f zapField) Value() any { return f.value }
func (f zapField) ZapField() zap.Field { return f.field }

func wrap(field zap.Field, value any) Field {
	return zapField{field: field, value: value}
}

// String creates a string field.
func String(key, value string) Field { return wrap(zap.String(key, value), value) }

// Int creates an int field.
func Int(key string, value int) Field { return wrap(zap.Int(key, value), value) }

// Int64 creates an int64 field.
func Int64(key string, value int64) Field { return wrap(zap.Int64(key, value), value) }

// Bool creates a bool field.
func Bool(key string, value bool) Field { return wrap(zap.Bool(key, value), value) }

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field { return wrap(zap.Duration(key, value), value) }

// Time creates a time field.
func Time(key string, value time.Time) Field { return wrap(zap.Time(key, value), value) }

// Error creates an error field under the "error" key.
func Error(err error) Field { return wrap(zap.Error(err), err) }

// Stringer creates a field from a fmt.Stringer.
func Stringer(key string, value fmt.Stringer) Field { return wrap(zap.Stringer(key, value), value) }

// Any creates a field from an arbitrary value.
func Any(key string, value any) Field { return wrap(zap.Any(key, value), value) }

// fieldsToZap converts Field interfaces to zap.Field
func fieldsToZap(fields []Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if field == nil {
			continue
		}
		zapFields = append(zapFields, field.ZapField())
	}
	return zapFields
}
