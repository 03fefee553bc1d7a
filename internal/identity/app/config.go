package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/changelog"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ConfigFileEnv names an optional YAML file read before the environment.
const ConfigFileEnv = "IDENTITY_CONFIG_FILE"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env      string `yaml:"env" env:"IDENTITY_ENV" env-default:"dev" env-description:"Environment: dev, uat or prod"`
	DBDriver string `yaml:"db_driver" env:"IDENTITY_DB_DRIVER" env-default:"sqlite" env-description:"Storage driver: sqlite or postgres"`
	DBDSN    string `yaml:"db_dsn" env:"IDENTITY_DB_DSN" env-default:"identity.db" env-description:"SQLite file or PostgreSQL connection string"`

	SeedOnStart bool   `yaml:"seed_on_start" env:"IDENTITY_SEED_ON_START" env-default:"true" env-description:"Apply the seed changelog at startup"`
	PepperFile  string `yaml:"pepper_file" env:"IDENTITY_PEPPER_FILE" env-default:"pepper" env-description:"Pepper for seeded password hashes; empty disables"`

	LogLevel            string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat           string        `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	Port                int           `yaml:"port" env:"PORT" env-default:"8080"`
	ShutdownGracePeriod time.Duration `yaml:"shutdown_grace_period" env:"SHUTDOWN_GRACE_PERIOD" env-default:"10s"`
}

// LoadConfig reads the YAML file named by IDENTITY_CONFIG_FILE, if set, then
// applies environment variables and defaults.
func LoadConfig() (Config, error) {
	var cfg Config

	var err error
	if path := os.Getenv(ConfigFileEnv); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !changelog.ValidEnv(c.Env) {
		return fmt.Errorf("%w: unknown environment %q", ErrInvalidConfig, c.Env)
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: unknown db driver %q", ErrInvalidConfig, c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("%w: empty db dsn", ErrInvalidConfig)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	return nil
}
