package render

import (
	"fmt"

	"github.com/zoobzio/predql/internal/types"
)

// UnsupportedFeatureError reports a clause the target dialect cannot
// express. It matches types.ErrConfiguration: the tree is valid, just not
// for this dialect.
type UnsupportedFeatureError struct {
	Feature string
	Dialect string
	Hint    string
}

func (e UnsupportedFeatureError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
}

// Is makes UnsupportedFeatureError match ErrConfiguration.
func (UnsupportedFeatureError) Is(target error) bool {
	return target == types.ErrConfiguration
}

// NewUnsupportedFeatureError creates an UnsupportedFeatureError with an
// optional hint.
func NewUnsupportedFeatureError(dialect, feature string, hint ...string) error {
	err := UnsupportedFeatureError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}
