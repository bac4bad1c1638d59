package style

import (
	"errors"
	"fmt"
)

// ErrConfig is matched by every *ConfigError via errors.Is.
var ErrConfig = errors.New("invalid style configuration")

// ConfigError reports a malformed style descriptor. It is fatal: a
// registry containing the descriptor is never built.
type ConfigError struct {
	// Descriptor is the name of the offending descriptor (may be empty).
	Descriptor string
	// Pattern is the offending pattern (may be empty).
	Pattern string
	// Reason describes what is wrong.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("style %q: %s", e.Descriptor, e.Reason)
	if e.Pattern != "" {
		msg += fmt.Sprintf(" (pattern %q)", e.Pattern)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func configErr(name, pattern, reason string, err error) *ConfigError {
	return &ConfigError{Descriptor: name, Pattern: pattern, Reason: reason, Err: err}
}
