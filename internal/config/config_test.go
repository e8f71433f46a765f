package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Artifacts: ArtifactsConfig{Dir: "artifacts"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "port too small",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid log format",
		},
		{
			name:    "empty artifacts dir",
			mutate:  func(c *Config) { c.Artifacts.Dir = "" },
			wantErr: "artifacts dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9090
  shutdown_timeout: 10s
logging:
  level: debug
  format: text
artifacts:
  dir: /opt/radiosignals/artifacts
  fm_model: best_fm_model.json
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "/opt/radiosignals/artifacts", cfg.Artifacts.Dir)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := loadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))
	_, err = loadFromFile(path)
	assert.Error(t, err)
}

func TestArtifactPaths(t *testing.T) {
	a := ArtifactsConfig{
		Dir:            "artifacts",
		DigitalModel:   "best_digital_model.json",
		FMModel:        "best_fm_model.json",
		DigitalMetrics: "metrics_digital.json",
		FMMetrics:      "metrics_fm.json",
		LocationLookup: "location_registry.json",
	}

	assert.Equal(t, filepath.Join("artifacts", "best_digital_model.json"), a.DigitalModelPath())
	assert.Equal(t, filepath.Join("artifacts", "best_fm_model.json"), a.FMModelPath())
	assert.Equal(t, filepath.Join("artifacts", "metrics_digital.json"), a.DigitalMetricsPath())
	assert.Equal(t, filepath.Join("artifacts", "metrics_fm.json"), a.FMMetricsPath())
	assert.Equal(t, filepath.Join("artifacts", "location_registry.json"), a.LocationLookupPath())
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := *validConfig()
	fileCfg.Server.Port = 9090
	fileCfg.Logging.Level = "debug"

	envCfg := *validConfig()
	envCfg.Artifacts.Dir = "/opt/artifacts"

	merged := mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, 9090, merged.Server.Port, "file value kept when env holds the default")
	assert.Equal(t, "debug", merged.Logging.Level)
	assert.Equal(t, "/opt/artifacts", merged.Artifacts.Dir, "explicit env value wins")
}
