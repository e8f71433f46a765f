package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Artifacts ArtifactsConfig `yaml:"artifacts" envconfig:"ARTIFACTS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/predictd.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// ArtifactsConfig locates the trained model artifacts produced by the
// preparation pipeline. All files live under Dir.
type ArtifactsConfig struct {
	Dir            string `yaml:"dir" envconfig:"DIR" default:"artifacts"`
	DigitalModel   string `yaml:"digital_model" envconfig:"DIGITAL_MODEL" default:"best_digital_model.json"`
	FMModel        string `yaml:"fm_model" envconfig:"FM_MODEL" default:"best_fm_model.json"`
	DigitalMetrics string `yaml:"digital_metrics" envconfig:"DIGITAL_METRICS" default:"metrics_digital.json"`
	FMMetrics      string `yaml:"fm_metrics" envconfig:"FM_METRICS" default:"metrics_fm.json"`
	LocationLookup string `yaml:"location_lookup" envconfig:"LOCATION_LOOKUP" default:"location_registry.json"`
}

// DigitalModelPath returns the absolute path to the digital TV model artifact.
func (a ArtifactsConfig) DigitalModelPath() string { return filepath.Join(a.Dir, a.DigitalModel) }

// FMModelPath returns the absolute path to the FM model artifact.
func (a ArtifactsConfig) FMModelPath() string { return filepath.Join(a.Dir, a.FMModel) }

// DigitalMetricsPath returns the path to the digital feature schema document.
func (a ArtifactsConfig) DigitalMetricsPath() string { return filepath.Join(a.Dir, a.DigitalMetrics) }

// FMMetricsPath returns the path to the FM feature schema document.
func (a ArtifactsConfig) FMMetricsPath() string { return filepath.Join(a.Dir, a.FMMetrics) }

// LocationLookupPath returns the path to the location registry file.
func (a ArtifactsConfig) LocationLookupPath() string { return filepath.Join(a.Dir, a.LocationLookup) }

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("RADIOSIGNALS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// getConfigFilePath returns the configuration file path
func getConfigFilePath() string {
	if path := os.Getenv("RADIOSIGNALS_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileCfg, envCfg Config) Config {
	merged := fileCfg

	if envCfg.Server.Port != 8080 {
		merged.Server.Port = envCfg.Server.Port
	}
	if envCfg.Logging.Level != "info" {
		merged.Logging.Level = envCfg.Logging.Level
	}
	if envCfg.Artifacts.Dir != "artifacts" {
		merged.Artifacts.Dir = envCfg.Artifacts.Dir
	}

	return merged
}

// validate checks the configuration for correctness
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Artifacts.Dir == "" {
		return fmt.Errorf("artifacts dir must not be empty")
	}

	return nil
}
