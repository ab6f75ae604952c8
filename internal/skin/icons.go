package skin

import (
	"image"
	"image/color"

	"git.sr.ht/~sbinet/gg"
)

// ClosedIcon draws a right-pointing triangle
func ClosedIcon(size int, col color.Color) image.Image {
	dc := gg.NewContext(size, size)
	s := float64(size)
	dc.MoveTo(s*0.25, s*0.1)
	dc.LineTo(s*0.85, s*0.5)
	dc.LineTo(s*0.25, s*0.9)
	dc.ClosePath()
	dc.SetColor(col)
	dc.Fill()
	return dc.Image()
}

// OpenIcon draws a down-pointing triangle
func OpenIcon(size int, col color.Color) image.Image {
	dc := gg.NewContext(size, size)
	s := float64(size)
	dc.MoveTo(s*0.1, s*0.25)
	dc.LineTo(s*0.9, s*0.25)
	dc.LineTo(s*0.5, s*0.85)
	dc.ClosePath()
	dc.SetColor(col)
	dc.Fill()
	return dc.Image()
}

// ItemIcon draws a small dot
func ItemIcon(size int, col color.Color) image.Image {
	dc := gg.NewContext(size, size)
	s := float64(size)
	dc.DrawCircle(s/2, s/2, s/5)
	dc.SetColor(col)
	dc.Fill()
	return dc.Image()
}
