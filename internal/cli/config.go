package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/zoobzio/predql"
	"github.com/zoobzio/predql/driver"
)

const (
	maxWalkDepth = 25
)

// Config represents the predql configuration from predql.yaml.
type Config struct {
	// Dialect renders statements. Empty means the database backend, or the
	// standard dialect when no backend is set.
	Dialect string `mapstructure:"dialect" json:"dialect"`
	// Strict turns empty groupings into errors.
	Strict bool `mapstructure:"strict" json:"strict"`

	Models   []ModelConfig  `mapstructure:"models" json:"models"`
	Database DatabaseConfig `mapstructure:"database" json:"database"`
	Log      LogConfig      `mapstructure:"log" json:"log"`
}

// ModelConfig declares one schema model.
type ModelConfig struct {
	Name    string        `mapstructure:"name" json:"name"`
	Table   string        `mapstructure:"table" json:"table"`
	Schema  string        `mapstructure:"schema" json:"schema,omitempty"`
	Columns []string      `mapstructure:"columns" json:"columns,omitempty"`
	Fields  []FieldConfig `mapstructure:"fields" json:"fields,omitempty"`
}

// FieldConfig maps a logical field onto a column. Fields are a list rather
// than a map so their case survives viper's key folding.
type FieldConfig struct {
	Name   string `mapstructure:"name" json:"name"`
	Column string `mapstructure:"column" json:"column"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Backend       string        `mapstructure:"backend" json:"backend"`
	URL           string        `mapstructure:"url" json:"url"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold" json:"slow_threshold"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PREDQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dialect", "")
	v.SetDefault("strict", false)

	v.SetDefault("database.backend", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.slow_threshold", 100*time.Millisecond)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for predql.yaml or predql.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"predql.yaml", "predql.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// Schema builds the configured models into a schema.
func (c *Config) Schema() (*predql.Schema, error) {
	if len(c.Models) == 0 {
		return nil, fmt.Errorf("no models configured")
	}

	models := make([]*predql.Model, len(c.Models))
	for i, mc := range c.Models {
		table := mc.Table
		if table == "" {
			table = mc.Name
		}
		m := predql.NewModel(mc.Name, table).Columns(mc.Columns...)
		if mc.Schema != "" {
			m.InSchema(mc.Schema)
		}
		for _, f := range mc.Fields {
			m.Map(f.Name, f.Column)
		}
		models[i] = m
	}
	return predql.NewSchema(models...)
}

// ResolvedBackend returns the database backend, falling back to the
// dialect name.
func (c *Config) ResolvedBackend() string {
	if c.Database.Backend != "" {
		return c.Database.Backend
	}
	return c.Dialect
}

// ResolveDialect returns the rendering dialect. An explicit dialect wins
// over the database backend; "standard" or nothing selects predql.Standard.
func (c *Config) ResolveDialect() (predql.Dialect, error) {
	name := c.Dialect
	if name == "" {
		name = c.Database.Backend
	}
	if name == "" || strings.EqualFold(name, "standard") {
		return predql.Standard, nil
	}
	b, err := driver.Lookup(name)
	if err != nil {
		return nil, err
	}
	return b.Dialect, nil
}

// RenderOptions returns the render options implied by the config.
func (c *Config) RenderOptions() []predql.Option {
	if c.Strict {
		return []predql.Option{predql.Strict()}
	}
	return nil
}

// Logger builds a slog logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.Log.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log.format %q: want text or json", c.Log.Format)
	}
}
