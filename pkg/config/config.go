package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	xdgAppName = "turkhit"
	configFile = "config.toml"
	ledgerFile = "hits.json"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "TURKHIT_CONFIG"
)

var (
	ErrNotFound           = errors.New("config file not found")
	ErrMissingCredentials = errors.New("access-key-id and secret-access-key are required")
)

type Config struct {
	LogLevel    string      `toml:"log-level"`
	Credentials Credentials `toml:"credentials"`
	Calendar    Calendar    `toml:"calendar"`
	Ledger      Ledger      `toml:"ledger"`
}

type Credentials struct {
	AccessKeyID     string `toml:"access-key-id"`
	SecretAccessKey string `toml:"secret-access-key"`
}

// Calendar enables the Google Calendar annotation when Name is set.
type Calendar struct {
	Name string `toml:"name"`
}

type Ledger struct {
	Path string `toml:"path"`
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

// GetConfigPath resolves the config file, honouring TURKHIT_CONFIG.
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config at path, or the default location when path is empty.
// A missing file or missing credentials is an error.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if cfg.Credentials.AccessKeyID == "" || cfg.Credentials.SecretAccessKey == "" {
		return nil, errors.WithStack(ErrMissingCredentials)
	}
	return cfg, nil
}

// Read is Load without the credential check, for commands that never reach
// the marketplace.
func Read(path string) (*Config, error) {
	cfg, err := decode(path)
	if err != nil {
		return nil, err
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Ledger.Path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		cfg.Ledger.Path = filepath.Join(dir, ledgerFile)
	}
	return cfg, nil
}

func decode(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(ErrNotFound, path)
		}
		return nil, errors.Wrap(err, "failed to decode config")
	}
	return cfg, nil
}

// Save writes cfg to path (or the default location), creating the directory.
// The file holds secrets and is written owner-only.
func Save(path string, cfg *Config) error {
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "failed to open config file for writing")
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// SetCalendar updates only the calendar name, keeping the rest of an existing
// file. Credentials are not required.
func SetCalendar(path, name string) error {
	cfg, err := decode(path)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		cfg = &Config{}
	}
	cfg.Calendar.Name = name
	return Save(path, cfg)
}
