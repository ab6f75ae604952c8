package theme

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// HexToRGBA converts a hex color string (#RRGGBB or #RGB) to an opaque color.RGBA
func HexToRGBA(hexColor string) (color.RGBA, error) {
	hexColor = strings.TrimPrefix(strings.TrimSpace(hexColor), "#")

	// Handle short form (#RGB)
	if len(hexColor) == 3 {
		hexColor = string(hexColor[0]) + string(hexColor[0]) +
			string(hexColor[1]) + string(hexColor[1]) +
			string(hexColor[2]) + string(hexColor[2])
	}

	if len(hexColor) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", hexColor)
	}

	c, err := colorful.Hex("#" + hexColor)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hexColor, err)
	}

	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// ParseColorString handles multiple color formats: #RRGGBB, #RGB, or rgb(r,g,b)
func ParseColorString(colorStr string) (color.RGBA, error) {
	colorStr = strings.TrimSpace(colorStr)

	if strings.HasPrefix(colorStr, "#") {
		return HexToRGBA(colorStr)
	}

	if strings.HasPrefix(colorStr, "rgb(") && strings.HasSuffix(colorStr, ")") {
		innerStr := strings.TrimSuffix(strings.TrimPrefix(colorStr, "rgb("), ")")
		parts := strings.Split(innerStr, ",")
		if len(parts) != 3 {
			return color.RGBA{}, fmt.Errorf("invalid rgb color %q", colorStr)
		}

		var rgb [3]uint8
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || v < 0 || v > 255 {
				return color.RGBA{}, fmt.Errorf("invalid rgb component %q in %q", p, colorStr)
			}
			rgb[i] = uint8(v)
		}
		return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}, nil
	}

	return color.RGBA{}, fmt.Errorf("unsupported color format %q", colorStr)
}

// mustHex is used for the built-in palettes only
func mustHex(hexColor string) color.RGBA {
	c, err := HexToRGBA(hexColor)
	if err != nil {
		panic(err)
	}
	return c
}

// ToTcell converts a color to the terminal's RGB color
func ToTcell(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

// Blend mixes two colors in Lab space; t=0 gives a, t=1 gives b
func Blend(a, b color.RGBA, t float64) color.RGBA {
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	r, g, bl := ca.BlendLab(cb, t).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 0xff}
}
