// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "errors"

// ErrUnavailable means the curtainutils conversion capability could not be
// located or loaded. Backends return it (possibly wrapped) from their
// constructors, before any side effect.
var ErrUnavailable = errors.New("curtainutils package not found. Please install it using: pip install curtainutils")

// ConversionError wraps any failure raised by the delegated conversion.
// Run has already reported it on stderr when it is returned.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string { return "error during conversion: " + e.Err.Error() }

func (e *ConversionError) Unwrap() error { return e.Err }
