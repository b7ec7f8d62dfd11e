package config

import (
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/series"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix   = "FLEETMON"
	DefaultLogLevel    = "info"
	DefaultInterval    = 5 * time.Second
	DefaultProfile     = "live"
	DefaultMetricsAddr = ":9108"

	configName = "fleetmon"
	configType = "toml"
)

// DefaultVehicles is the vehicle list used when none is configured.
var DefaultVehicles = []string{"1"}

type Config struct {
	LogLevel    string        `mapstructure:"log_level"`
	Interval    time.Duration `mapstructure:"interval"`
	Vehicles    []string      `mapstructure:"vehicles"`
	Profile     string        `mapstructure:"profile"`
	Seed        int64         `mapstructure:"seed"`
	Once        bool          `mapstructure:"once"`
	JSON        bool          `mapstructure:"json"`
	Metrics     bool          `mapstructure:"metrics"`
	MetricsAddr string        `mapstructure:"metrics_addr"`
	PIDDir      string        `mapstructure:"pid_dir"`
	Fleet       bool          `mapstructure:"fleet"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"log-level":    "log_level",
	"interval":     "interval",
	"vehicles":     "vehicles",
	"profile":      "profile",
	"seed":         "seed",
	"once":         "once",
	"json":         "json",
	"metrics":      "metrics",
	"metrics-addr": "metrics_addr",
	"pid-dir":      "pid_dir",
	"fleet":        "fleet",
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)

	fs.String("config", "", "Path to a TOML configuration file")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Duration("interval", DefaultInterval, "Interval between panel refreshes")
	fs.StringSlice("vehicles", DefaultVehicles, "Vehicle IDs to monitor")
	fs.String("profile", DefaultProfile, "Chart profile ("+strings.Join(series.ProfileNames(), ", ")+")")
	fs.Int64("seed", 0, "Random seed for simulated data (0 seeds from the clock)")
	fs.Bool("once", false, "Render each vehicle once and exit")
	fs.Bool("json", false, "Write panels to stdout as JSON")
	fs.Bool("metrics", false, "Serve Prometheus metrics")
	fs.String("metrics-addr", DefaultMetricsAddr, "Listen address for the metrics endpoint")
	fs.String("pid-dir", "", "Directory for the PID file (default: OS temp dir)")
	fs.Bool("fleet", false, "Also render the daily fleet KPI trends")

	return fs
}

// Load builds the configuration from defaults, an optional TOML file,
// environment variables and the given command line arguments, in
// increasing order of precedence.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrParseFlags, err)
	}

	v := viper.New()
	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	if err := readConfigFile(v, configPath(fs, o)); err != nil {
		return nil, err
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrDecodeConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// configPath picks the config file: --config, then the option, then the
// <PREFIX>_CONFIG env var. Empty means search the default locations.
func configPath(fs *pflag.FlagSet, o *options) string {
	if path, _ := fs.GetString("config"); path != "" {
		return path
	}
	if o.configPath != "" {
		return o.configPath
	}
	return os.Getenv(o.envPrefix + "_CONFIG")
}

func readConfigFile(v *viper.Viper, path string) error {
	errFactory := errors.New()

	v.SetConfigType(configType)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
		return nil
	}

	v.SetConfigName(configName)
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/fleetmon")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.Wrap(errors.ErrInvalidLogLevel,
			&fieldError{field: "log_level", value: c.LogLevel, reason: "must be debug, info, warning or error"})
	}
	if c.Interval <= 0 {
		return errFactory.Wrap(errors.ErrInvalidInterval,
			&fieldError{field: "interval", value: c.Interval, reason: "must be positive"})
	}
	if _, err := series.ProfileByName(c.Profile); err != nil {
		return errFactory.Wrap(errors.ErrInvalidConfig,
			&fieldError{field: "profile", value: c.Profile, reason: "unknown chart profile"})
	}
	if len(c.Vehicles) == 0 {
		return errFactory.Wrap(errors.ErrInvalidConfig,
			&fieldError{field: "vehicles", value: c.Vehicles, reason: "at least one vehicle is required"})
	}
	for _, id := range c.Vehicles {
		if strings.TrimSpace(id) == "" {
			return errFactory.Wrap(errors.ErrInvalidConfig,
				&fieldError{field: "vehicles", value: c.Vehicles, reason: "vehicle id must not be empty"})
		}
	}
	if c.Metrics && c.MetricsAddr == "" {
		return errFactory.Wrap(errors.ErrInvalidConfig,
			&fieldError{field: "metrics_addr", value: c.MetricsAddr, reason: "required when metrics are enabled"})
	}

	return nil
}
