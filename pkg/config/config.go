package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Storage
	Root    string `yaml:"root"`
	Backend string `yaml:"backend" validate:"oneof=table delimited sqlite"`

	// Import
	AllowedExtensions []string `yaml:"allowed_extensions" validate:"required,dive,required"`

	// Display
	Viewer            string `yaml:"viewer"`
	ColorTheme        string `yaml:"color_theme" validate:"oneof=auto light dark"`
	DisplayDateFormat string `yaml:"display_date_format" validate:"required"`
	DefaultSort       string `yaml:"default_sort" validate:"oneof=added name"`
	ReverseSort       bool   `yaml:"reverse_sort"`

	// Logging
	LogLevel string `yaml:"log_level" validate:"oneof=trace debug info warn error"`

	// Watch
	WatchDebounceMS int `yaml:"watch_debounce_ms" validate:"min=0,max=60000"`

	// Command shortcuts, e.g. recent: "list --sort added --reverse"
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

// DefaultExtensions are the image types accepted by import without --any
var DefaultExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "tiff", "tif", "webp"}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		Root:              "",
		Backend:           "table",
		AllowedExtensions: append([]string(nil), DefaultExtensions...),
		Viewer:            "",
		ColorTheme:        "auto",
		DisplayDateFormat: "2006-01-02 15:04",
		DefaultSort:       "added",
		ReverseSort:       false,
		LogLevel:          "warn",
		WatchDebounceMS:   500,
		Aliases:           make(map[string]string),
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.Backend == "" {
		cfg.Backend = "table"
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = append([]string(nil), DefaultExtensions...)
	}
	if cfg.ColorTheme == "" {
		cfg.ColorTheme = "auto"
	}
	if cfg.DisplayDateFormat == "" {
		cfg.DisplayDateFormat = "2006-01-02 15:04"
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = "added"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
	if cfg.Aliases == nil {
		cfg.Aliases = make(map[string]string)
	}

	for i, ext := range cfg.AllowedExtensions {
		cfg.AllowedExtensions[i] = normalizeExt(ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks field values against their allowed sets
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: %q fails %s %s",
					fe.Field(), fmt.Sprint(fe.Value()), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// AllowsExtension reports whether a file extension (with or without dot) may be imported
func (c *Config) AllowsExtension(ext string) bool {
	ext = normalizeExt(ext)
	for _, allowed := range c.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
