package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/adanyl0v/tasktrackr/internal/storage"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return nil, fmt.Errorf("unknown env: %q", cfg.Env)
	}

	switch cfg.Store.Driver {
	case storage.DriverMongo, storage.DriverPostgres, storage.DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
	}
	return cfg, nil
}

// ReadClient reads the terminal client configuration from the environment.
// An empty session file path defaults to tasktrackr/session.json under the
// user config directory.
func ReadClient() (*ClientConfig, error) {
	cfg := new(ClientConfig)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate user config dir: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, "tasktrackr", "session.json")
	}
	return cfg, nil
}
