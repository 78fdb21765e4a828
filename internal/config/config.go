// Package config loads ITC27 settings from YAML, an optional .env file and
// ITC27_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/piyushranjan2301/ITC27/internal/catalog"
	"github.com/piyushranjan2301/ITC27/internal/results"
)

// Config holds all ITC27 configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Survey  SurveyConfig  `yaml:"survey"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig locates the results database.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	DBFile  string `yaml:"db_file"`
}

// SurveyConfig tunes new sessions.
type SurveyConfig struct {
	Language string `yaml:"language"` // en, hi
	Seed     int64  `yaml:"seed"`     // 0 seeds from the clock
}

// LoggingConfig configures the zap logger and its rotating file.
type LoggingConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error
	File       string `yaml:"file"`  // empty logs to stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DefaultDir is ~/.itc27.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".itc27")
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir: DefaultDir(),
			DBFile:  "results.db",
		},
		Survey: SurveyConfig{
			Language: string(catalog.LangEnglish),
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none)
// into the process environment. Variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("ITC27_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("ITC27_DB"); v != "" {
		c.Storage.DBFile = v
	}
	if v := os.Getenv("ITC27_LANGUAGE"); v != "" {
		c.Survey.Language = strings.ToLower(v)
	}
	if v := os.Getenv("ITC27_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("ITC27_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("ITC27_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ITC27_SEED %q: %w", v, err)
		}
		c.Survey.Seed = seed
	}
	return nil
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		return fmt.Errorf("storage.data_dir is required")
	}
	if err := catalog.ValidateLanguage(c.Language()); err != nil {
		return fmt.Errorf("survey.language: %w", err)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("logging rotation limits must not be negative")
	}
	return nil
}

// Language is the default survey language.
func (c *Config) Language() catalog.Language {
	return catalog.Language(c.Survey.Language)
}

// Results returns the store configuration.
func (c *Config) Results() results.Config {
	return results.Config{DataDir: c.Storage.DataDir, DBFile: c.Storage.DBFile}
}
