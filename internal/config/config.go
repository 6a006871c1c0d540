package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AppName names the config directory and data files
const AppName = "lazyplist"

// Config holds all application configuration
type Config struct {
	UI       UIConfig       `mapstructure:"ui"`
	Editor   EditorConfig   `mapstructure:"editor"`
	Document DocumentConfig `mapstructure:"document"`
	Session  SessionConfig  `mapstructure:"session"`
	History  HistoryConfig  `mapstructure:"history"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
	ShowPreview  bool   `mapstructure:"show_preview"`
}

type EditorConfig struct {
	// AllowScalarRoot offers scalar kinds in the root's type selector
	AllowScalarRoot bool    `mapstructure:"allow_scalar_root"`
	RealStep        float64 `mapstructure:"real_step"`
}

type DocumentConfig struct {
	// SaveFormat is auto, xml or binary. auto keeps the format the file was
	// opened with, except OpenStep which is written as XML.
	SaveFormat string `mapstructure:"save_format"`
	Watch      bool   `mapstructure:"watch"`
}

type SessionConfig struct {
	PersistExpansion bool `mapstructure:"persist_expansion"`
}

type HistoryConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
			ShowPreview:  false,
		},
		Editor: EditorConfig{
			AllowScalarRoot: true,
			RealStep:        1.0,
		},
		Document: DocumentConfig{
			SaveFormat: "auto",
			Watch:      true,
		},
		Session: SessionConfig{
			PersistExpansion: true,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 50,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("ui.show_preview", d.UI.ShowPreview)
	v.SetDefault("editor.allow_scalar_root", d.Editor.AllowScalarRoot)
	v.SetDefault("editor.real_step", d.Editor.RealStep)
	v.SetDefault("document.save_format", d.Document.SaveFormat)
	v.SetDefault("document.watch", d.Document.Watch)
	v.SetDefault("session.persist_expansion", d.Session.PersistExpansion)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.max_entries", d.History.MaxEntries)
}

// Load loads configuration from files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths in priority order
	// 1. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, AppName))
	}

	// 2. Current directory
	v.AddConfigPath(".")

	// 3. Default config directory
	v.AddConfigPath("./config")

	setDefaults(v)

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	return decode(v)
}

// LoadFile loads configuration from a single file, applying defaults for
// anything it leaves out
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the application cannot honour
func (c *Config) Validate() error {
	switch c.Document.SaveFormat {
	case "auto", "xml", "binary":
	default:
		return fmt.Errorf("document.save_format: unknown format %q", c.Document.SaveFormat)
	}
	if c.Editor.RealStep <= 0 {
		return fmt.Errorf("editor.real_step must be positive, got %v", c.Editor.RealStep)
	}
	if c.History.MaxEntries < 1 {
		return fmt.Errorf("history.max_entries must be at least 1, got %d", c.History.MaxEntries)
	}
	return nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}
