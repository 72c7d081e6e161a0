package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure kinds of query construction.
// None of them is transient; they all indicate a malformed tree or schema.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrMissingValue  = errors.New("missing value")
	ErrMalformedRaw  = errors.New("malformed raw fragment")
)

// ConfigurationError reports an unknown condition type, an unknown model or
// field, or a structurally invalid tree.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// Is makes ConfigurationError match ErrConfiguration.
func (*ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Configf creates a ConfigurationError with a formatted reason.
func Configf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// MalformedRawError reports a raw fragment whose placeholder count does not
// match its value count.
type MalformedRawError struct {
	Text         string
	Placeholders int
	Values       int
}

func (e *MalformedRawError) Error() string {
	return fmt.Sprintf("malformed raw fragment %q: %d placeholders, %d values", e.Text, e.Placeholders, e.Values)
}

// Is makes MalformedRawError match ErrMalformedRaw.
func (*MalformedRawError) Is(target error) bool {
	return target == ErrMalformedRaw
}

// MissingValue creates an ErrMissingValue wrapped with where it happened.
func MissingValue(where string) error {
	return fmt.Errorf("%w: %s (use an explicit null check instead)", ErrMissingValue, where)
}
