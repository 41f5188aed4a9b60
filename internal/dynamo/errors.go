package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for scene construction. The tick loop itself never fails.
var (
	// ErrNoSegments indicates a scene without any enclosure segment.
	ErrNoSegments = errors.New("ballsim: scene has no enclosure segments")

	// ErrNoSink indicates the body at index 0 is missing or not static.
	ErrNoSink = errors.New("ballsim: body 0 must be a static sink")

	// ErrInvalidBody indicates a body with a non-positive radius or negative density.
	ErrInvalidBody = errors.New("ballsim: invalid body definition")

	// ErrInvalidCylinder indicates a cylinder with a non-positive length or radius.
	ErrInvalidCylinder = errors.New("ballsim: invalid cylinder definition")

	// ErrParameterBounds indicates a scalar parameter outside its valid range.
	ErrParameterBounds = errors.New("ballsim: parameter out of valid bounds")

	// ErrUnreachableVolume indicates teleport destinations that lie outside the play volume.
	ErrUnreachableVolume = errors.New("ballsim: teleport destination outside play volume")

	// ErrSnapshotMismatch indicates a snapshot taken from a different scene layout.
	ErrSnapshotMismatch = errors.New("ballsim: snapshot does not match scene")
)

// ConfigError wraps a validation failure with the offending field path.
type ConfigError struct {
	Field   string
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

// FieldError builds a ConfigError for field, wrapping err.
func FieldError(field string, err error) error {
	return &ConfigError{Field: field, Wrapped: err}
}
