package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is consulted when CONFIG_FILE is unset. Missing file is
// not an error; a file named by CONFIG_FILE must exist.
const DefaultConfigFile = "arcana.yaml"

type Config struct {
	HTTPAddr string
	LogLevel slog.Level

	LLMProvider    string
	LLMModel       string
	LLMAPIKey      string
	LLMBaseURL     string
	LLMTimeout     time.Duration
	LLMMaxTokens   int
	LLMTemperature float64

	RatePerMinute int
	RateBurst     int
}

// HasCredential reports whether the generation provider has an API key. A
// missing key is not fatal at startup: the form surfaces it as an inline
// configuration error and no network attempt is made.
func (c Config) HasCredential() bool {
	return c.LLMAPIKey != ""
}

// fileConfig mirrors the optional YAML config file. Environment variables
// always win over file values.
type fileConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	LogLevel string `yaml:"log_level"`
	LLM      struct {
		Provider    string   `yaml:"provider"`
		Model       string   `yaml:"model"`
		APIKey      string   `yaml:"api_key"`
		BaseURL     string   `yaml:"base_url"`
		Timeout     string   `yaml:"timeout"`
		MaxTokens   *int     `yaml:"max_tokens"`
		Temperature *float64 `yaml:"temperature"`
	} `yaml:"llm"`
	Rate struct {
		PerMinute *int `yaml:"per_minute"`
		Burst     *int `yaml:"burst"`
	} `yaml:"rate"`
}

func Load() (Config, error) {
	c := Config{
		HTTPAddr:       ":8080",
		LogLevel:       slog.LevelInfo,
		LLMProvider:    "openrouter",
		LLMModel:       "qwen/qwen3-4b:free",
		LLMTimeout:     10 * time.Second,
		LLMMaxTokens:   512,
		LLMTemperature: 0.7,
		RatePerMinute:  6,
		RateBurst:      2,
	}

	rawLevel := ""
	rawTimeout := ""

	if fc, path, err := loadFile(); err != nil {
		return Config{}, err
	} else if fc != nil {
		slog.Debug("loaded config file", "path", path)
		applyString(&c.HTTPAddr, fc.HTTPAddr)
		applyString(&c.LLMProvider, fc.LLM.Provider)
		applyString(&c.LLMModel, fc.LLM.Model)
		applyString(&c.LLMAPIKey, fc.LLM.APIKey)
		applyString(&c.LLMBaseURL, fc.LLM.BaseURL)
		applyString(&rawLevel, fc.LogLevel)
		applyString(&rawTimeout, fc.LLM.Timeout)
		if fc.LLM.MaxTokens != nil {
			c.LLMMaxTokens = *fc.LLM.MaxTokens
		}
		if fc.LLM.Temperature != nil {
			c.LLMTemperature = *fc.LLM.Temperature
		}
		if fc.Rate.PerMinute != nil {
			c.RatePerMinute = *fc.Rate.PerMinute
		}
		if fc.Rate.Burst != nil {
			c.RateBurst = *fc.Rate.Burst
		}
	}

	applyString(&c.HTTPAddr, os.Getenv("HTTP_ADDR"))
	applyString(&c.LLMProvider, os.Getenv("LLM_PROVIDER"))
	applyString(&c.LLMModel, os.Getenv("LLM_MODEL"))
	applyString(&rawLevel, os.Getenv("LOG_LEVEL"))
	applyString(&rawTimeout, os.Getenv("LLM_TIMEOUT"))

	switch c.LLMProvider {
	case "openrouter":
		applyString(&c.LLMAPIKey, os.Getenv("OPENROUTER_API_KEY"))
		if c.LLMBaseURL == "" {
			c.LLMBaseURL = "https://openrouter.ai/api/v1"
		}
		applyString(&c.LLMBaseURL, os.Getenv("OPENROUTER_BASE_URL"))
	case "openai":
		applyString(&c.LLMAPIKey, os.Getenv("OPENAI_API_KEY"))
		applyString(&c.LLMBaseURL, os.Getenv("OPENAI_BASE_URL"))
	default:
		return Config{}, fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}

	if rawLevel != "" {
		level, err := parseLogLevel(rawLevel)
		if err != nil {
			return Config{}, err
		}
		c.LogLevel = level
	}

	if rawTimeout != "" {
		d, err := time.ParseDuration(rawTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LLM_TIMEOUT %q: %w", rawTimeout, err)
		}
		c.LLMTimeout = d
	}

	if err := applyInt(&c.LLMMaxTokens, "LLM_MAX_TOKENS"); err != nil {
		return Config{}, err
	}
	if err := applyFloat(&c.LLMTemperature, "LLM_TEMPERATURE"); err != nil {
		return Config{}, err
	}
	if err := applyInt(&c.RatePerMinute, "RATE_PER_MINUTE"); err != nil {
		return Config{}, err
	}
	if err := applyInt(&c.RateBurst, "RATE_BURST"); err != nil {
		return Config{}, err
	}

	if c.LLMMaxTokens < 1 {
		return Config{}, fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", c.LLMMaxTokens)
	}
	if c.RatePerMinute < 1 || c.RateBurst < 1 {
		return Config{}, fmt.Errorf("rate limit settings must be positive")
	}

	return c, nil
}

func loadFile() (*fileConfig, string, error) {
	path := os.Getenv("CONFIG_FILE")
	required := path != ""
	if path == "" {
		path = DefaultConfigFile
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, "", fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, path, nil
}

func applyString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func applyInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func applyFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = f
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
