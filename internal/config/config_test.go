package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushranjan2301/ITC27/internal/catalog"
)

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ITC27_DATA_DIR", "ITC27_DB", "ITC27_LANGUAGE", "ITC27_LOG_LEVEL", "ITC27_LOG_FILE", "ITC27_SEED"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "results.db", cfg.Storage.DBFile)
	assert.Equal(t, catalog.LangEnglish, cfg.Language())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
	assert.Zero(t, cfg.Survey.Seed)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ParsesYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
storage:
  data_dir: /srv/itc27
survey:
  language: hi
  seed: 42
logging:
  level: debug
  file: /var/log/itc27.log
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/itc27", cfg.Storage.DataDir)
	assert.Equal(t, "results.db", cfg.Storage.DBFile, "unset keys keep defaults")
	assert.Equal(t, catalog.LangHindi, cfg.Language())
	assert.Equal(t, int64(42), cfg.Survey.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Logging.MaxSizeMB)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("every variable applies", func(t *testing.T) {
		t.Setenv("ITC27_DATA_DIR", "/data")
		t.Setenv("ITC27_DB", "other.db")
		t.Setenv("ITC27_LANGUAGE", "HI")
		t.Setenv("ITC27_LOG_LEVEL", "WARN")
		t.Setenv("ITC27_LOG_FILE", "/tmp/itc27.log")
		t.Setenv("ITC27_SEED", "7")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())

		assert.Equal(t, "/data", cfg.Storage.DataDir)
		assert.Equal(t, "other.db", cfg.Storage.DBFile)
		assert.Equal(t, catalog.LangHindi, cfg.Language())
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, "/tmp/itc27.log", cfg.Logging.File)
		assert.Equal(t, int64(7), cfg.Survey.Seed)
	})

	t.Run("environment beats file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ITC27_LANGUAGE", "en")
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("survey:\n  language: hi\n"), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, catalog.LangEnglish, cfg.Language())
	})

	t.Run("bad seed", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ITC27_SEED", "soon")
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "ITC27_SEED")
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ITC27_DB=fromdotenv.db\n"), 0644))

	// godotenv keeps variables that are already non-empty; clearEnv left
	// ITC27_DB set to "", so unset it for the file to take effect.
	require.NoError(t, os.Unsetenv("ITC27_DB"))
	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { os.Unsetenv("ITC27_DB") })

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "fromdotenv.db", cfg.Storage.DBFile)

	assert.Error(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Survey.Language = "hi"
	cfg.Logging.Compress = true

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty data dir", func(c *Config) { c.Storage.DataDir = " " }, "data_dir"},
		{"bad language", func(c *Config) { c.Survey.Language = "fr" }, "invalid language"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "invalid log level"},
		{"negative rotation", func(c *Config) { c.Logging.MaxBackups = -1 }, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestResults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.DataDir = "/x"
	rc := cfg.Results()
	assert.Equal(t, "/x", rc.DataDir)
	assert.Equal(t, "results.db", rc.DBFile)
}
