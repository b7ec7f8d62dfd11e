package panel

import "codeberg.org/mutker/fleetmon/internal/errors"

const (
	ErrInvalidOptions    = errors.ErrInvalidConfig
	ErrInvalidVehicle    = errors.ErrInvalidArgument
	ErrSourceUnavailable = errors.ErrSourceUnavailable
	ErrOperationTimeout  = errors.ErrTimeout
)
