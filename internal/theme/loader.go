package theme

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration
type ThemeConfig struct {
	Name   string `toml:"name"`
	Colors struct {
		Foreground       string `toml:"foreground"`
		Playing          string `toml:"playing"`
		Background1      string `toml:"background1"`
		Background2      string `toml:"background2"`
		Selection        string `toml:"selection"`
		StatusText       string `toml:"status_text"`
		StatusBackground string `toml:"status_background"`
		StatusMessage    string `toml:"status_message"`
	} `toml:"colors"`
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	paths := []string{}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "tui-treeview", "themes"),
			filepath.Join(home, ".local", "share", "tui-treeview", "themes"),
		)
	}

	return paths
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	return ParseTheme(data)
}

// ParseTheme parses TOML theme data. Missing colors fall back to Tokyo Night.
func ParseTheme(data []byte) (*Theme, error) {
	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config)
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}

	return LoadThemeFromFile(filePath)
}

// configToTheme converts a ThemeConfig to a Theme, with fallback to Tokyo Night for missing colors
func configToTheme(config ThemeConfig) (*Theme, error) {
	t := TokyoNight()

	overrides := []struct {
		key   string
		value string
		dst   *color.RGBA
	}{
		{"foreground", config.Colors.Foreground, &t.Palette.Foreground},
		{"playing", config.Colors.Playing, &t.Palette.Playing},
		{"background1", config.Colors.Background1, &t.Palette.Background1},
		{"background2", config.Colors.Background2, &t.Palette.Background2},
		{"selection", config.Colors.Selection, &t.Palette.Selection},
		{"status_text", config.Colors.StatusText, &t.Status.Text},
		{"status_background", config.Colors.StatusBackground, &t.Status.Background},
		{"status_message", config.Colors.StatusMessage, &t.Status.Message},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		c, err := ParseColorString(o.value)
		if err != nil {
			return nil, fmt.Errorf("color %s: %w", o.key, err)
		}
		*o.dst = c
	}

	if config.Name != "" {
		t.Name = config.Name
	}

	return t, nil
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	switch themeName {
	case "default":
		return Default()
	case "", "tokyo-night":
		return TokyoNight()
	}

	theme, err := LoadTheme(themeName)
	if err != nil {
		return TokyoNight()
	}

	return theme
}
