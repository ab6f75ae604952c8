package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultTheme       = "tokyo-night"
	defaultFontSize    = 12
	defaultDoubleClick = 400
	defaultLogLevel    = "info"
)

// FontConfig selects the font used for labels
type FontConfig struct {
	Path string  `toml:"path,omitempty"` // TTF/OTF file; empty selects Go Regular
	Size float64 `toml:"size,omitempty"` // Points at 72 DPI
	Wrap bool    `toml:"wrap,omitempty"` // Wrap long labels instead of truncating
}

// SkinConfig holds optional image paths; empty entries use built-in bitmaps
type SkinConfig struct {
	ItemIcon   string `toml:"item_icon,omitempty"`
	OpenIcon   string `toml:"open_icon,omitempty"`
	ClosedIcon string `toml:"closed_icon,omitempty"`
	Background string `toml:"background,omitempty"`
}

// Config holds application configuration
type Config struct {
	Theme         string            `toml:"theme"`
	Flat          bool              `toml:"flat"`
	DoubleClickMs int               `toml:"double_click_ms,omitempty"`
	LogLevel      string            `toml:"log_level,omitempty"`
	Font          FontConfig        `toml:"font"`
	Skin          SkinConfig        `toml:"skin"`
	Settings      map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes TOML config data and applies defaults
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Theme == "" {
		c.Theme = defaultTheme
	}
	if c.Font.Size == 0 {
		c.Font.Size = defaultFontSize
	}
	if c.DoubleClickMs == 0 {
		c.DoubleClickMs = defaultDoubleClick
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Settings == nil {
		c.Settings = make(map[string]string)
	}
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
}

func (c *Config) validate() error {
	if c.Font.Size < 0 {
		return fmt.Errorf("invalid font size %v", c.Font.Size)
	}
	if c.DoubleClickMs < 0 {
		return fmt.Errorf("invalid double_click_ms %d", c.DoubleClickMs)
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "tui-treeview"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	return os.MkdirAll(configDir, 0755)
}

// DoubleClickInterval returns the maximum delay between two presses on the
// same row that counts as a double click. A session setting "dblclick"
// (milliseconds) overrides the file value.
func (c *Config) DoubleClickInterval() time.Duration {
	ms := c.DoubleClickMs
	if v := c.Get("dblclick"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ms = n
		}
	}
	if ms <= 0 {
		ms = defaultDoubleClick
	}
	return time.Duration(ms) * time.Millisecond
}

// IsFlat reports whether the tree is shown as a flat list of leaves. A
// "flat" setting overrides the file value.
func (c *Config) IsFlat() bool {
	if v := c.Get("flat"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return c.Flat
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string if not found in either source
func (c *Config) Get(key string) string {
	if c.sessionSettings != nil {
		if val, ok := c.sessionSettings[key]; ok {
			return val
		}
	}

	if c.Settings != nil {
		if val, ok := c.Settings[key]; ok {
			return val
		}
	}

	return ""
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string)

	for k, v := range c.Settings {
		result[k] = v
	}
	for k, v := range c.sessionSettings {
		result[k] = v
	}

	return result
}

// Save persists the configuration to the standard TOML file
// Note: This only persists the Settings map, not session settings
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return c.SaveToFile(configPath)
}

// SaveToFile writes the configuration to filePath
func (c *Config) SaveToFile(filePath string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
