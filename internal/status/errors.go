package status

import "codeberg.org/mutker/fleetmon/internal/errors"

const (
	ErrInvalidRange  = errors.ErrInvalidConfig
	ErrInvalidValue  = errors.ErrInvalidArgument
	ErrMissingMetric = errors.ErrInvalidArgument
)
