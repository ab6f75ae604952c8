package theme

import (
	"image/color"
)

// Palette holds the colors used to paint the tree control
type Palette struct {
	Foreground  color.RGBA // Label color
	Playing     color.RGBA // Label color of the playing item
	Background1 color.RGBA // Odd rows
	Background2 color.RGBA // Even rows
	Selection   color.RGBA // Selected rows
}

// Status holds the colors of the terminal status line
type Status struct {
	Text       color.RGBA
	Background color.RGBA
	Message    color.RGBA
}

// Theme represents a complete color theme
type Theme struct {
	Name    string
	Palette Palette
	Status  Status
}

// Default returns a plain black-on-white theme
func Default() *Theme {
	return &Theme{
		Name: "default",
		Palette: Palette{
			Foreground:  mustHex("#000000"),
			Playing:     mustHex("#0000ff"),
			Background1: mustHex("#ffffff"),
			Background2: mustHex("#ffffff"),
			Selection:   mustHex("#c0c0c0"),
		},
		Status: Status{
			Text:       mustHex("#000000"),
			Background: mustHex("#c0c0c0"),
			Message:    mustHex("#000080"),
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	return &Theme{
		Name: "tokyo-night",
		Palette: Palette{
			Foreground:  mustHex("#c0caf5"), // Light gray-blue
			Playing:     mustHex("#9ece6a"), // Green
			Background1: mustHex("#1a1b26"), // Dark background
			Background2: mustHex("#1f2335"),
			Selection:   mustHex("#364a82"),
		},
		Status: Status{
			Text:       mustHex("#bb9af7"), // Magenta
			Background: mustHex("#16161e"),
			Message:    mustHex("#9ece6a"),
		},
	}
}
