package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Bradwave/parabolawhat/internal/llm"
	"github.com/Bradwave/parabolawhat/internal/problemgen"
	"github.com/Bradwave/parabolawhat/internal/scoring"
	"github.com/Bradwave/parabolawhat/internal/store"
)

const defaultAddr = ":8080"

// Config is the resolved runtime configuration.
type Config struct {
	Generator problemgen.Config
	Scoring   scoring.Policy

	DBDriver store.Driver
	// DBDSN is empty when the default SQLite path should be used.
	DBDSN string

	Addr        string
	CORSOrigins []string

	LLM      llm.Config
	LogLevel slog.Level
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Generator:   problemgen.DefaultConfig(),
		Scoring:     scoring.DefaultPolicy(),
		DBDriver:    store.DriverSQLite,
		Addr:        defaultAddr,
		CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		LLM:         llm.DefaultConfig(),
		LogLevel:    slog.LevelInfo,
	}
}

// Resolve layers the file over the defaults and the environment over the
// file. Command-line flags are applied by the caller.
func Resolve(file FileConfig) (Config, error) {
	cfg := Defaults()
	cfg.applyFile(file)
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path and resolves it.
func Load(path string) (Config, error) {
	file, err := LoadConfig(path)
	if err != nil {
		return Config{}, err
	}
	return Resolve(file)
}

func (c *Config) applyFile(f FileConfig) {
	g := f.Generator
	if len(g.AValues) > 0 {
		c.Generator.AValues = g.AValues
	}
	setInt(&c.Generator.BMin, g.BMin)
	setInt(&c.Generator.BMax, g.BMax)
	setInt(&c.Generator.CMin, g.CMin)
	setInt(&c.Generator.CMax, g.CMax)
	setInt(&c.Generator.MaxAttempts, g.MaxAttempts)

	setInt(&c.Scoring.ChoicePoints, f.Scoring.ChoicePoints)
	setInt(&c.Scoring.DrawingPoints, f.Scoring.DrawingPoints)
	setInt(&c.Scoring.PerfectBonus, f.Scoring.PerfectBonus)

	if f.Storage.Driver != nil {
		c.DBDriver = store.Driver(*f.Storage.Driver)
	}
	if f.Storage.DSN != nil {
		c.DBDSN = *f.Storage.DSN
	}

	if f.Server.Addr != nil {
		c.Addr = *f.Server.Addr
	}
	if len(f.Server.CORSOrigins) > 0 {
		c.CORSOrigins = f.Server.CORSOrigins
	}

	if f.LLM.Provider != nil {
		c.LLM.Provider = *f.LLM.Provider
	}
	if f.LLM.Model != nil {
		c.LLM.SetModel(*f.LLM.Model)
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PARABOLA_DB_DRIVER"); v != "" {
		c.DBDriver = store.Driver(v)
	}
	if v := os.Getenv("PARABOLA_DB"); v != "" {
		c.DBDSN = v
	}
	if v := os.Getenv("PARABOLA_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("PARABOLA_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitCSV(v)
	}
	if v := os.Getenv("PARABOLA_LOG_LEVEL"); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("PARABOLA_LOG_LEVEL: %w", err)
		}
	}

	c.LLM.ApplyEnv()
	if !c.LLM.Enabled() {
		if discovered, ok := llm.DiscoverConfig(); ok {
			c.LLM = discovered
		}
	}
	return nil
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	// A postgres DSN may still arrive through --db, so its presence is
	// checked when the database is opened.
	if _, err := store.ParseDriver(string(c.DBDriver)); err != nil {
		return err
	}
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if c.Scoring.ChoicePoints < 0 || c.Scoring.DrawingPoints < 0 || c.Scoring.PerfectBonus < 0 {
		return fmt.Errorf("scoring points must not be negative")
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}

// Driver returns the normalised database driver.
func (c Config) Driver() store.Driver {
	d, err := store.ParseDriver(string(c.DBDriver))
	if err != nil {
		return c.DBDriver
	}
	return d
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
