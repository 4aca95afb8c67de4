// Package fallback separates "use a default and carry on" outcomes from real failures.
package fallback

import (
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// Value is a result that may have been substituted with a default.
type Value[T any] struct {
	Value    T
	Degraded bool
	Cause    error
}

func Of[T any](v T) Value[T] {
	return Value[T]{Value: v}
}

// Default records that def replaced the real value because of cause.
func Default[T any](def T, cause error) Value[T] {
	return Value[T]{Value: def, Degraded: true, Cause: cause}
}

// Try returns fn's value, or def when fn fails. The failure is logged under step.
func Try[T any](step string, def T, fn func() (T, error)) Value[T] {
	v, err := fn()
	if err != nil {
		log.WithField("step", step).WithError(err).Warn("step degraded, using default")
		return Default(def, err)
	}
	return Of(v)
}

// Recover converts a panic in the calling function into onPanic(). Use with defer.
func Recover(scope string, onPanic func()) {
	if r := recover(); r != nil {
		log.
			WithField("scope", scope).
			WithField("panic_stack", string(debug.Stack())).
			Errorf("panic: (%v)", r)
		if onPanic != nil {
			onPanic()
		}
	}
}
