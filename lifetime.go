package bridge

import (
	"fmt"

	"github.com/xraph/bridge/internal/container"
)

// Lifetime controls how long a resolved service lives.
type Lifetime int

const (
	// Singleton services are created once and shared by every scope.
	Singleton Lifetime = iota
	// Scoped services are created once per scope.
	Scoped
	// Transient services are created on every resolution.
	Transient
)

// String returns the lifetime name.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return fmt.Sprintf("Lifetime(%d)", int(l))
	}
}

// classify maps a lifetime onto the native lifestyle. An unknown lifetime is a
// programming error.
func classify(l Lifetime) container.Lifestyle {
	switch l {
	case Singleton:
		return container.Singleton
	case Scoped:
		return container.PerScope
	case Transient:
		return container.Transient
	default:
		panic(fmt.Sprintf("bridge: unknown lifetime %d", int(l)))
	}
}

// lifetimeOf is the inverse of classify, used for diagnostics.
func lifetimeOf(l container.Lifestyle) Lifetime {
	switch l {
	case container.Singleton:
		return Singleton
	case container.PerScope:
		return Scoped
	default:
		return Transient
	}
}
