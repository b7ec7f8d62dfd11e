package metrics

import "codeberg.org/mutker/fleetmon/internal/errors"

const defaultNamespace = "fleetmon"

type Config struct {
	Enabled   bool
	Namespace string
}

func DefaultConfig() Config {
	return Config{
		Enabled:   false, // Disabled by default
		Namespace: defaultNamespace,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Enabled && c.Namespace == "" {
		return errFactory.New(ErrInvalidNamespace)
	}
	return nil
}
