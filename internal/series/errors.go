package series

import "codeberg.org/mutker/fleetmon/internal/errors"

const (
	ErrInvalidArgument = errors.ErrInvalidArgument
	ErrUnknownProfile  = errors.ErrInvalidArgument
)
