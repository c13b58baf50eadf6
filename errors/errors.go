// Package errors provides error handling for avrflags.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints attached to configuration failures
//
// Usage:
//
//	// Wrap with context
//	if err := v.Unmarshal(&cfg); err != nil {
//	    return errors.Wrap(err, "failed to unmarshal config")
//	}
//
//	// Mark as a configuration error and tell the user what to do
//	return errors.WithHint(errors.Wrap(errors.ErrConfig, "board.cpu is empty"),
//	    "set board.cpu in avrflags.toml")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Mark tags err so that Is(err, reference) holds without changing its message.
var Mark = crdb.Mark

// ErrConfig indicates the configuration cannot produce a usable flag list.
// It is the only error kind the flag provider raises, and it is raised once
// at load time.
var ErrConfig = New("configuration error")

// IsConfigError checks if an error is or wraps ErrConfig
func IsConfigError(err error) bool {
	return err != nil && Is(err, ErrConfig)
}

// NewConfigError creates a configuration error with a formatted message
func NewConfigError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConfig)
}
