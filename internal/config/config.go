// Package config handles configuration and API key resolution for codeassist.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variables consulted for the API key, in order.
const (
	EnvAPIKey     = "CODEASSIST_API_KEY"
	EnvGroqAPIKey = "GROQ_API_KEY"
)

// Defaults for the completion request
const (
	DefaultEndpoint       = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel          = "llama-3.3-70b-versatile"
	DefaultTemperature    = 0.7
	DefaultMaxTokens      = 2048
	DefaultRequestTimeout = 300
	DefaultLanguage       = "javascript"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// APIKey is used only when neither environment variable is set.
	APIKey      string  `json:"api_key,omitempty"`
	Endpoint    string  `json:"endpoint"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	// RequestTimeout is the transport ceiling in seconds for one completion call.
	RequestTimeout  int    `json:"request_timeout"`
	DefaultLanguage string `json:"default_language"`
	// Verbose prints model and timing details in one-shot mode.
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	CodeStyle       string         `json:"code_style,omitempty"` // chroma style for code blocks
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
	LogLevel        string         `json:"log_level,omitempty"`
	Telemetry       bool           `json:"telemetry"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:        DefaultEndpoint,
		Model:           DefaultModel,
		Temperature:     DefaultTemperature,
		MaxTokens:       DefaultMaxTokens,
		RequestTimeout:  DefaultRequestTimeout,
		DefaultLanguage: DefaultLanguage,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		CodeStyle:       "monokai",
		Markdown:        DefaultMarkdownConfig(),
		LogLevel:        "info",
		Telemetry:       false,
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".codeassist"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the config file may hold the API key
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogDir returns the directory for log and telemetry files
func GetLogDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "logs"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults restores zero values that would break a request
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
	}
	if c.Model == "" {
		c.Model = d.Model
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if strings.TrimSpace(c.DefaultLanguage) == "" {
		c.DefaultLanguage = d.DefaultLanguage
	}
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveAPIKey returns the API key from the environment or the config file.
// An empty result is not an error here; the completion client reports it.
func (c Config) ResolveAPIKey() string {
	for _, env := range []string{EnvAPIKey, EnvGroqAPIKey} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(c.APIKey)
}

// SettableKeys lists the keys accepted by Set, in display order
func SettableKeys() []string {
	return []string{
		"api_key",
		"endpoint",
		"model",
		"temperature",
		"max_tokens",
		"request_timeout",
		"default_language",
		"verbose",
		"copy_to_clipboard",
		"tui_theme",
		"code_style",
		"markdown.style",
		"log_level",
		"telemetry",
	}
}

// Set updates a single field addressed by its JSON key
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "api_key":
		c.APIKey = value
	case "endpoint":
		if value == "" {
			return fmt.Errorf("endpoint cannot be empty")
		}
		c.Endpoint = value
	case "model":
		if value == "" {
			return fmt.Errorf("model cannot be empty")
		}
		c.Model = value
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 2 {
			return fmt.Errorf("temperature must be a number between 0 and 2")
		}
		c.Temperature = f
	case "max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("max_tokens must be a positive integer")
		}
		c.MaxTokens = n
	case "request_timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("request_timeout must be a positive number of seconds")
		}
		c.RequestTimeout = n
	case "default_language":
		if value == "" {
			return fmt.Errorf("default_language cannot be empty")
		}
		c.DefaultLanguage = value
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose must be true or false")
		}
		c.Verbose = b
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard must be true or false")
		}
		c.CopyToClipboard = b
	case "tui_theme":
		c.TUITheme = value
	case "code_style":
		c.CodeStyle = value
	case "markdown.style":
		c.Markdown.Style = value
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("log_level must be one of debug, info, warn, error")
		}
	case "telemetry":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("telemetry must be true or false")
		}
		c.Telemetry = b
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(SettableKeys(), ", "))
	}

	return nil
}

// AvailableModels returns the model names offered by the config menu.
// Any other model name accepted by the endpoint can be set by hand.
func AvailableModels() []string {
	return []string{
		"llama-3.3-70b-versatile",
		"llama-3.1-8b-instant",
		"openai/gpt-oss-120b",
		"qwen/qwen3-32b",
	}
}
