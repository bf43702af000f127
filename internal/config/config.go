// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is loaded once at
// startup and treated as an immutable snapshot afterwards.
type Config struct {
	CoinflipGUI   GUIConfig           `mapstructure:"coinflip-gui"`
	Settings      SettingsConfig      `mapstructure:"settings"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Messages      map[string]string   `mapstructure:"messages"`
}

// GUIConfig holds the coinflip display configuration.
type GUIConfig struct {
	Title     string          `mapstructure:"title"`
	Animation AnimationConfig `mapstructure:"animation"`
}

// AnimationConfig holds the two alternating filler visuals used while
// the coin is "spinning". Either entry may be absent; the engine falls
// back to its default visuals.
type AnimationConfig struct {
	First  *VisualConfig `mapstructure:"1"`
	Second *VisualConfig `mapstructure:"2"`
}

// VisualConfig describes a configured cell visual.
type VisualConfig struct {
	Kind string `mapstructure:"kind"`
	Name string `mapstructure:"name"`
}

// SettingsConfig holds gameplay settings.
type SettingsConfig struct {
	Tax                      TaxConfig `mapstructure:"tax"`
	MinimumBroadcastWinnings int64     `mapstructure:"minimum-broadcast-winnings"`
}

// TaxConfig holds the house tax policy applied at settlement.
type TaxConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"`
}

// NotificationsConfig holds external notification hook configuration.
type NotificationsConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig holds the Telegram completion-notification settings.
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
	ChatID  int64  `mapstructure:"chat-id"`
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the given directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. SETTINGS_TAX_RATE, NOTIFICATIONS_TELEGRAM_TOKEN.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - defaults and env vars apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("coinflip-gui.title", "Coinflip")

	v.SetDefault("settings.tax.enabled", false)
	v.SetDefault("settings.tax.rate", 0.0)
	v.SetDefault("settings.minimum-broadcast-winnings", 1000)

	v.SetDefault("notifications.telegram.enabled", false)

	v.SetDefault("messages", map[string]string{
		"player-challenge":   "{OPPONENT} has challenged you to a coinflip!",
		"game-summary-win":   "You won {WINNINGS} {CURRENCY} against {LOSER}! (tax: {TAX_DEDUCTION} at {TAX_RATE}%)",
		"game-summary-loss":  "You lost the coinflip against {WINNER}. They took {WINNINGS} {CURRENCY}.",
		"coinflip-broadcast": "{WINNER} beat {LOSER} in a coinflip and won {WINNINGS} {CURRENCY}!",
	})
}

// Message returns the template registered under the given key, or the
// empty string when no such template is configured.
func (c *Config) Message(key string) string {
	return c.Messages[key]
}
