package metrics

import "codeberg.org/mutker/fleetmon/internal/errors"

const (
	ErrInvalidConfig    = errors.ErrInvalidConfig
	ErrInvalidNamespace = errors.ErrorCode("metrics_invalid_namespace")
	ErrRegister         = errors.ErrInitMetrics
)
