package telemetry

import "codeberg.org/mutker/fleetmon/internal/errors"

const (
	// Registry errors
	ErrInvalidDescriptor = errors.ErrInvalidConfig
	ErrDuplicateMetric   = errors.ErrInvalidConfig

	// Snapshot errors
	ErrInvalidVehicle = errors.ErrInvalidArgument

	// Source errors
	ErrSourceUnavailable = errors.ErrSourceUnavailable
	ErrOperationTimeout  = errors.ErrTimeout
)
