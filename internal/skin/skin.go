// Package skin bundles the font, icons, background and palette used to
// paint a tree control
package skin

import (
	"fmt"
	"image"
	"image/color"

	"git.sr.ht/~sbinet/gg"

	"github.com/pstuifzand/tui-treeview/internal/config"
	"github.com/pstuifzand/tui-treeview/internal/font"
	"github.com/pstuifzand/tui-treeview/internal/theme"
)

// Font shapes a label into a bitmap no wider than maxWidth
type Font interface {
	Size() int
	DrawString(text string, col color.Color, maxWidth int) (image.Image, error)
}

// Skin holds everything the renderer needs besides the model. Any image may
// be nil.
type Skin struct {
	Font       Font
	Palette    theme.Palette
	Background image.Image
	ItemIcon   image.Image
	OpenIcon   image.Image
	ClosedIcon image.Image
}

// DefaultIconSize is the edge length of the built-in icons
const DefaultIconSize = 9

// Default returns a skin with the given font and palette and built-in icons
func Default(f Font, p theme.Palette) *Skin {
	iconColor := theme.Blend(p.Foreground, p.Background1, 0.3)
	return &Skin{
		Font:       f,
		Palette:    p,
		ItemIcon:   ItemIcon(DefaultIconSize, iconColor),
		OpenIcon:   OpenIcon(DefaultIconSize, iconColor),
		ClosedIcon: ClosedIcon(DefaultIconSize, iconColor),
	}
}

// Load builds a skin from the configuration and theme. Paths left empty use
// the built-in icons and no background image.
func Load(cfg *config.Config, th *theme.Theme) (*Skin, error) {
	f, err := font.New(font.Options{
		Path: cfg.Font.Path,
		Size: cfg.Font.Size,
		Wrap: cfg.Font.Wrap,
	})
	if err != nil {
		return nil, err
	}

	s := Default(f, th.Palette)

	images := []struct {
		path string
		dst  *image.Image
	}{
		{cfg.Skin.ItemIcon, &s.ItemIcon},
		{cfg.Skin.OpenIcon, &s.OpenIcon},
		{cfg.Skin.ClosedIcon, &s.ClosedIcon},
		{cfg.Skin.Background, &s.Background},
	}
	for _, im := range images {
		if im.path == "" {
			continue
		}
		img, err := gg.LoadPNG(im.path)
		if err != nil {
			return nil, fmt.Errorf("failed to load skin image %s: %w", im.path, err)
		}
		*im.dst = img
	}

	return s, nil
}
