// Package config loads the TOML config file and resolves it against
// environment variables and defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Pointer fields are
// nil when the key is absent.
type FileConfig struct {
	Generator GeneratorConfig `toml:"generator"`
	Scoring   ScoringConfig   `toml:"scoring"`
	Storage   StorageConfig   `toml:"storage"`
	Server    ServerConfig    `toml:"server"`
	LLM       LLMConfig       `toml:"llm"`
}

// GeneratorConfig maps the coefficient domain.
type GeneratorConfig struct {
	AValues     []float64 `toml:"a_values"`
	BMin        *int      `toml:"b_min"`
	BMax        *int      `toml:"b_max"`
	CMin        *int      `toml:"c_min"`
	CMax        *int      `toml:"c_max"`
	MaxAttempts *int      `toml:"max_attempts"`
}

// ScoringConfig maps point values.
type ScoringConfig struct {
	ChoicePoints  *int `toml:"choice_points"`
	DrawingPoints *int `toml:"drawing_points"`
	PerfectBonus  *int `toml:"perfect_bonus"`
}

// StorageConfig maps the database connection.
type StorageConfig struct {
	Driver *string `toml:"driver"`
	DSN    *string `toml:"dsn"`
}

// ServerConfig maps the HTTP API settings.
type ServerConfig struct {
	Addr        *string  `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// LLMConfig maps the explanation backend.
type LLMConfig struct {
	Provider *string `toml:"provider"`
	Model    *string `toml:"model"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
