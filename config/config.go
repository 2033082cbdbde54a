// Package config loads the gateway configuration from a JSON file with
// environment-variable overrides. Credentials are read once at startup and
// stay immutable for the process lifetime.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the application configuration.
type Config struct {
	Listen    string       `json:"listen"`
	LogLevel  string       `json:"log_level"`
	LogFormat string       `json:"log_format"`
	LogFile   string       `json:"log_file"`
	Gemini    GeminiConfig `json:"gemini"`
	Tools     ToolsConfig  `json:"tools"`
}

// GeminiConfig holds the Gemini API configuration shared by both pipes.
type GeminiConfig struct {
	APIKey            string  `json:"api_key"`
	APIURL            string  `json:"api_url"`
	Model             string  `json:"model"`
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	APITimeoutSeconds int     `json:"api_timeout_seconds"`
	EnableVision      bool    `json:"enable_vision"`
	AutoDetectYouTube bool    `json:"auto_detect_youtube"`
	VideoFPS          float64 `json:"video_fps"`
}

// ToolsConfig holds the auxiliary tool endpoints.
type ToolsConfig struct {
	WeatherURL string `json:"weather_url"`
	ShuttleURL string `json:"shuttle_url"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() Config {
	return Config{
		Listen:    ":8188",
		LogLevel:  "info",
		LogFormat: "json",
		Gemini: GeminiConfig{
			Model:             "gemini-1.5-flash",
			Temperature:       0.7,
			MaxTokens:         2048,
			APITimeoutSeconds: 60,
			EnableVision:      true,
			AutoDetectYouTube: true,
			VideoFPS:          1.0,
		},
	}
}

// Load reads the configuration from the given path, creating a default file
// when none exists. Environment variables override file values.
func Load(configPath string) (Config, error) {
	slog.Debug("loading configuration", "config_path", configPath)

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return Config{}, fmt.Errorf("create config directory: %w", err)
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Unmarshal over the defaults so absent fields keep them.
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		slog.Info("config file not found, creating default config", "config_path", configPath)
		if err := Save(configPath, cfg); err != nil {
			return Config{}, fmt.Errorf("create default config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg = applyEnvironmentOverrides(cfg)
	return cfg, nil
}

// Save writes the configuration to the specified path.
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides applies environment variable overrides.
func applyEnvironmentOverrides(cfg Config) Config {
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		slog.Debug("overriding api key from environment", "has_api_key", true)
		cfg.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		slog.Debug("overriding model from environment", "GEMINI_MODEL", model)
		cfg.Gemini.Model = model
	}
	if listen := os.Getenv("GEMINI_PIPES_LISTEN"); listen != "" {
		cfg.Listen = listen
	}
	if logLevel := os.Getenv("GEMINI_PIPES_LOG_LEVEL"); logLevel != "" {
		switch strings.ToLower(logLevel) {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = strings.ToLower(logLevel)
		}
	}
	if tempStr := os.Getenv("GEMINI_PIPES_TEMPERATURE"); tempStr != "" {
		if temp, err := strconv.ParseFloat(tempStr, 64); err == nil && temp >= 0 && temp <= 2 {
			cfg.Gemini.Temperature = temp
		}
	}
	if tokensStr := os.Getenv("GEMINI_PIPES_MAX_TOKENS"); tokensStr != "" {
		if tokens, err := strconv.Atoi(tokensStr); err == nil && tokens > 0 {
			cfg.Gemini.MaxTokens = tokens
		}
	}
	if timeoutStr := os.Getenv("GEMINI_PIPES_API_TIMEOUT"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil && timeout > 0 {
			cfg.Gemini.APITimeoutSeconds = timeout
		}
	}
	if visionStr := os.Getenv("GEMINI_PIPES_ENABLE_VISION"); visionStr != "" {
		if vision, err := strconv.ParseBool(visionStr); err == nil {
			cfg.Gemini.EnableVision = vision
		}
	}
	if autoStr := os.Getenv("GEMINI_PIPES_AUTO_DETECT_YOUTUBE"); autoStr != "" {
		if auto, err := strconv.ParseBool(autoStr); err == nil {
			cfg.Gemini.AutoDetectYouTube = auto
		}
	}
	return cfg
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return errors.New("Gemini API key is required (set GEMINI_API_KEY environment variable or add to config file)")
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got: %f", c.Gemini.Temperature)
	}
	if c.Gemini.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got: %d", c.Gemini.MaxTokens)
	}
	if c.Gemini.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive, got: %d", c.Gemini.APITimeoutSeconds)
	}
	return nil
}

// GetConfigPath returns the default path for the config file.
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".gemini_pipes", "config.json")
	}
	return filepath.Join(homeDir, ".gemini_pipes", "config.json")
}
