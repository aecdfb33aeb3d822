package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envRefPrefix marks a value that names an environment variable instead of
// holding the secret itself, e.g. "ENV:OPENAI_API_KEY".
const envRefPrefix = "ENV:"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	Output    OutputConfig    `mapstructure:"output"`
	History   HistoryConfig   `mapstructure:"history"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
	// APIKeys enables bearer auth on /v1 when non-empty.
	APIKeys []string `mapstructure:"api_keys"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// OCR modes.
const (
	OCRModeSystem = "system"
	OCRModeAI     = "ai"
)

type OCRConfig struct {
	Mode          string        `mapstructure:"mode"`
	TesseractPath string        `mapstructure:"tesseract_path"`
	AIAPIKey      string        `mapstructure:"ai_api_key"`
	AIBaseURL     string        `mapstructure:"ai_base_url"`
	AIModel       string        `mapstructure:"ai_model"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

type OutputConfig struct {
	Format  string `mapstructure:"format"`
	Minimal bool   `mapstructure:"minimal"`
}

type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// LoadConfig reads configuration from the file named by CONFIG_FILE, or the
// first config.yaml found on the search path, and the environment.
func LoadConfig() (*Config, error) {
	return Load(os.Getenv("CONFIG_FILE"))
}

// Load is LoadConfig with an explicit config file. An empty path searches
// the default locations; a missing file there is not an error.
func Load(path string) (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".formatapi"))
		}
	}

	setDefaults(v)

	// Environment Variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Resolve secrets
	cfg.OCR.AIAPIKey = resolveEnvRef(v, cfg.OCR.AIAPIKey)
	cfg.Redis.Password = resolveEnvRef(v, cfg.Redis.Password)
	keys := cfg.Server.APIKeys[:0]
	for _, k := range cfg.Server.APIKeys {
		if k = resolveEnvRef(v, strings.TrimSpace(k)); k != "" {
			keys = append(keys, k)
		}
	}
	cfg.Server.APIKeys = keys

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.api_keys", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("store.dsn", "file:~/.formatapi/formatapi.db?_busy_timeout=5000&_foreign_keys=on")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("ocr.mode", OCRModeSystem)
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.ai_api_key", "")
	v.SetDefault("ocr.ai_base_url", "https://api.openai.com/v1")
	v.SetDefault("ocr.ai_model", "gpt-4-vision-preview")
	v.SetDefault("ocr.timeout", 60*time.Second)
	v.SetDefault("ocr.cache_ttl", 24*time.Hour)
	v.SetDefault("output.format", "env")
	v.SetDefault("output.minimal", false)
	v.SetDefault("history.limit", 100)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.sample_ratio", 1.0)
}

func resolveEnvRef(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, envRefPrefix) {
		return value
	}
	envVar := strings.TrimPrefix(value, envRefPrefix)
	// Check process environment first (explicit override)
	val := os.Getenv(envVar)
	if val == "" {
		// Then check viper (which might have it from other sources)
		val = v.GetString(envVar)
	}
	return val
}
