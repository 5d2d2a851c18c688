package bot

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/shopbot/core/config"
	coredatabase "github.com/m3rciful/shopbot/core/database"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is the shop configuration: the core settings plus storage.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	// Storage selects the catalog and order backend: "postgres" or "memory".
	Storage string `yaml:"storage" envconfig:"SHOP_STORAGE"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Config }

// LoadConfig reads the YAML file at path, applies environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the core settings and the selected storage backend.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	switch c.Storage {
	case "", StoragePostgres:
		c.Storage = StoragePostgres
		return c.Database.Normalize()
	case StorageMemory:
		return nil
	}
	return fmt.Errorf("invalid storage %q; allowed: postgres, memory", c.Storage)
}
