// SPDX-License-Identifier: MPL-2.0

package typeinfo

import (
	"errors"
	"fmt"
)

const (
	// LifetimeSingleton shares one instance for the life of the process.
	LifetimeSingleton Lifetime = "singleton"
	// LifetimeScoped shares one instance per logical request scope.
	LifetimeScoped Lifetime = "scoped"
	// LifetimeTransient constructs a fresh instance on every resolution.
	LifetimeTransient Lifetime = "transient"
)

// ErrInvalidLifetime is returned when a Lifetime value is not one of the defined lifetimes.
var ErrInvalidLifetime = errors.New("invalid lifetime")

type (
	// Lifetime is how long a constructed instance is shared.
	Lifetime string

	// InvalidLifetimeError is returned when a Lifetime value is not recognized.
	InvalidLifetimeError struct {
		Value Lifetime
	}
)

// Lifetimes returns all defined lifetimes in declaration order.
func Lifetimes() []Lifetime {
	return []Lifetime{LifetimeSingleton, LifetimeScoped, LifetimeTransient}
}

// String returns the string representation of the Lifetime.
func (l Lifetime) String() string { return string(l) }

// IsValid returns whether the Lifetime is one of the defined lifetimes.
// The zero value is not valid: every registration intent names a lifetime.
func (l Lifetime) IsValid() (bool, []error) {
	switch l {
	case LifetimeSingleton, LifetimeScoped, LifetimeTransient:
		return true, nil
	default:
		return false, []error{&InvalidLifetimeError{Value: l}}
	}
}

// Error implements the error interface.
func (e *InvalidLifetimeError) Error() string {
	return fmt.Sprintf("invalid lifetime %q (valid: singleton, scoped, transient)", e.Value)
}

// Unwrap returns ErrInvalidLifetime for errors.Is() compatibility.
func (e *InvalidLifetimeError) Unwrap() error { return ErrInvalidLifetime }
