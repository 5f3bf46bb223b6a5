// Package config loads the settings of deckquiz from a YAML file, environment variables and defaults.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/at-ishikawa/deckquiz/internal/deck"
	"github.com/at-ishikawa/deckquiz/internal/session"
)

type Config struct {
	Quiz      session.Settings `mapstructure:"quiz"`
	Assets    AssetsConfig     `mapstructure:"assets"`
	Templates TemplatesConfig  `mapstructure:"templates"`
	Outputs   OutputsConfig    `mapstructure:"outputs"`
}

type AssetsConfig struct {
	// Directory receives the pictures extracted from decks. Empty means "{deck directory}/{deck name}_assets".
	Directory string `mapstructure:"directory"`
}

type TemplatesConfig struct {
	ReviewMarkdown string `mapstructure:"review_markdown"`
}

type OutputsConfig struct {
	ReviewDirectory string `mapstructure:"review_directory" validate:"required"`
	ReviewFormat    string `mapstructure:"review_format" validate:"oneof=txt md pdf"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/deckquiz")
	}

	v.SetDefault("quiz.question_count", 0)
	v.SetDefault("quiz.timer_seconds", 0)
	v.SetDefault("quiz.allow_repeats", true)
	v.SetDefault("quiz.test_mode", false)
	v.SetDefault("quiz.allow_breaks", true)
	v.SetDefault("assets.directory", "")
	v.SetDefault("templates.review_markdown", filepath.Join("assets", "templates", "review.md.go.tmpl"))
	v.SetDefault("outputs.review_directory", ".")
	v.SetDefault("outputs.review_format", "txt")

	if err := v.BindEnv("outputs.review_directory", "DECKQUIZ_REVIEW_DIR"); err != nil {
		return nil, fmt.Errorf("failed to bind DECKQUIZ_REVIEW_DIR environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	return &cfg, nil
}

// AssetsDirectory returns where the pictures of the deck at deckPath are written
func (c *Config) AssetsDirectory(deckPath string) string {
	if c.Assets.Directory != "" {
		return c.Assets.Directory
	}
	return deck.DefaultAssetsDirectory(deckPath)
}
