package predql

import (
	"github.com/zoobzio/predql/internal/render"
	"github.com/zoobzio/predql/internal/types"
)

// Sentinel errors. Use errors.Is to classify a failure.
var (
	ErrConfiguration = types.ErrConfiguration
	ErrMissingValue  = types.ErrMissingValue
	ErrMalformedRaw  = types.ErrMalformedRaw
)

// ConfigurationError reports an unknown condition type, model or field, or
// a structurally invalid tree.
type ConfigurationError = types.ConfigurationError

// MalformedRawError reports a raw fragment whose placeholder count does not
// match its value count.
type MalformedRawError = types.MalformedRawError

// UnsupportedFeatureError indicates a feature the dialect cannot express.
type UnsupportedFeatureError = render.UnsupportedFeatureError
