package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Notification channel constants.
const (
	ChannelTelegram = "telegram"
	ChannelConsole  = "console"
)

// Digest provider type constants (duplicated from api package to avoid import cycle)
const (
	ProviderDeepSeek = "deepseek"
	ProviderOllama   = "ollama"
	ProviderNone     = "none"
)

type Config struct {
	Backend BackendConfig `koanf:"backend"`
	Poller  PollerConfig  `koanf:"poller"`
	Notify  NotifyConfig  `koanf:"notify"`
	Digest  DigestConfig  `koanf:"digest"`
	Cache   CacheConfig   `koanf:"cache"`
	UI      UIConfig      `koanf:"ui"`
	Log     LogConfig     `koanf:"log"`
}

type BackendConfig struct {
	BaseURL string `koanf:"base_url"`
	Timeout int    `koanf:"timeout"` // seconds
}

type PollerConfig struct {
	CheckInterval   int `koanf:"check_interval"`   // seconds between classification passes
	RefreshInterval int `koanf:"refresh_interval"` // seconds between list refreshes
}

type NotifyConfig struct {
	Channel      string         `koanf:"channel"`       // telegram or console
	SettingsFile string         `koanf:"settings_file"` // persisted notification settings
	SoundCommand string         `koanf:"sound_command"` // external player; empty = terminal bell
	Telegram     TelegramConfig `koanf:"telegram"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   string `koanf:"chat_id"`
}

type DigestConfig struct {
	Enabled        bool        `koanf:"enabled"`
	Schedule       string      `koanf:"schedule"` // cron expression
	Provider       string      `koanf:"provider"` // deepseek, ollama, none
	SystemPrompt   string      `koanf:"system_prompt"`
	PromptTemplate string      `koanf:"prompt_template"`
	DeepSeek       APIConfig   `koanf:"deepseek"`
	Ollama         APIConfig   `koanf:"ollama"`
	Model          ModelConfig `koanf:"model"`
}

type APIConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	Timeout int    `koanf:"timeout"`
}

type ModelConfig struct {
	Name        string  `koanf:"name"`
	MaxTokens   int     `koanf:"max_tokens"`
	Temperature float64 `koanf:"temperature"`
}

type CacheConfig struct {
	Path string `koanf:"path"`
}

type UIConfig struct {
	ColoredOutput bool `koanf:"colored_output"`
}

type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("REMINDERD_", ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Common secrets get dedicated variables
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		k.Set("notify.telegram.bot_token", token)
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		k.Set("notify.telegram.chat_id", chatID)
	}
	if apiKey := os.Getenv("DEEPSEEK_API_KEY"); apiKey != "" {
		k.Set("digest.deepseek.api_key", apiKey)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Notify.SettingsFile = expandPath(cfg.Notify.SettingsFile)
	cfg.Cache.Path = expandPath(cfg.Cache.Path)

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required (set REMINDERD_BACKEND_BASE_URL or add to config file)")
	}

	if c.Poller.CheckInterval <= 0 {
		return fmt.Errorf("poller check_interval must be positive")
	}
	if c.Poller.RefreshInterval <= 0 {
		return fmt.Errorf("poller refresh_interval must be positive")
	}

	switch c.Notify.Channel {
	case ChannelTelegram:
		if c.Notify.Telegram.BotToken == "" || c.Notify.Telegram.ChatID == "" {
			return fmt.Errorf("telegram channel requires bot_token and chat_id (set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID)")
		}
	case ChannelConsole:
		// no external requirements
	default:
		return fmt.Errorf("unknown notify channel: %s (supported: %s, %s)",
			c.Notify.Channel, ChannelTelegram, ChannelConsole)
	}

	if c.Digest.Enabled {
		switch c.Digest.Provider {
		case ProviderDeepSeek:
			if c.Digest.DeepSeek.APIKey == "" {
				return fmt.Errorf("digest provider deepseek requires an API key (set DEEPSEEK_API_KEY)")
			}
		case ProviderOllama, ProviderNone:
		default:
			return fmt.Errorf("unknown digest provider: %s (supported: %s, %s, %s)",
				c.Digest.Provider, ProviderDeepSeek, ProviderOllama, ProviderNone)
		}
		if c.Digest.Schedule == "" {
			return fmt.Errorf("digest schedule is required when digest is enabled")
		}
	}

	return nil
}

// envToKey maps REMINDERD_BACKEND_BASE_URL to backend.base_url. Section
// names are single words, so the first underscore separates section from key.
func envToKey(s string) string {
	s = stripPrefix(s, "REMINDERD_")
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			return lower(s[:i]) + "." + lower(s[i+1:])
		}
	}
	return lower(s)
}

func stripPrefix(s, prefix string) string {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}

func lower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
