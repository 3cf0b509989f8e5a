package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
// It is loaded once at process start and treated as read-only afterwards.
type Config struct {
	Port        int            `yaml:"port"`
	Environment string         `yaml:"environment"`
	Database    DatabaseConfig `yaml:"database"`
	LLM         LLMConfig      `yaml:"llm"`
	Auth        AuthConfig     `yaml:"auth"`
	Log         LogConfig      `yaml:"log"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}

// DatabaseConfig selects the storage driver and its connection string
type DatabaseConfig struct {
	Driver       string `yaml:"driver"` // sqlite3 or postgres
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	LogMode      bool   `yaml:"log_mode"`
}

// LLMConfig configures the text generation backend
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // openai or azure
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Endpoint    string  `yaml:"endpoint"`   // azure only
	Deployment  string  `yaml:"deployment"` // azure only
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// AuthConfig holds the secret used to verify owner tokens
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// LogConfig mirrors logging.Config in yaml form
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Port:        8080,
		Environment: "development",
		Database: DatabaseConfig{
			Driver: "sqlite3",
			URL:    "caterer.db",
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   2000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// Load reads the yaml file at path on top of the defaults, then applies
// variables from a .env file and the process environment.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Environment, "CATERER_ENV")
	setInt(&c.Port, "CATERER_PORT")
	setString(&c.Database.Driver, "CATERER_DATABASE_DRIVER")
	setString(&c.Database.URL, "CATERER_DATABASE_URL")
	setString(&c.LLM.Provider, "CATERER_LLM_PROVIDER")
	setString(&c.LLM.Model, "CATERER_LLM_MODEL")
	setString(&c.LLM.BaseURL, "CATERER_LLM_BASE_URL")
	setString(&c.LLM.APIKey, "OPENAI_API_KEY")
	setString(&c.LLM.Endpoint, "AZURE_OPENAI_ENDPOINT")
	setString(&c.LLM.Deployment, "AZURE_OPENAI_DEPLOYMENT_NAME")
	if c.LLM.Provider == "azure" {
		setString(&c.LLM.APIKey, "AZURE_OPENAI_API_KEY")
	}
	setString(&c.Auth.JWTSecret, "CATERER_JWT_SECRET")
	setString(&c.Log.Level, "CATERER_LOG_LEVEL")
	setInt(&c.Metrics.Port, "CATERER_METRICS_PORT")
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return errors.New("database url is required")
	}
	switch c.LLM.Provider {
	case "openai", "azure":
	default:
		return fmt.Errorf("unsupported llm provider: %s", c.LLM.Provider)
	}
	if c.Environment == "production" && c.Auth.JWTSecret == "" {
		return errors.New("jwt secret is required in production")
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}
