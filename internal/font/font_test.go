package font

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = color.RGBA{0xff, 0xff, 0xff, 0xff}

func TestBasicMetrics(t *testing.T) {
	f := Basic()
	assert.Equal(t, 13, f.Size())
	assert.Equal(t, 21, f.Measure("abc"))
}

func TestDrawStringFits(t *testing.T) {
	f := Basic()
	img, err := f.DrawString("abc", white, 100)
	require.NoError(t, err)
	assert.Equal(t, 21, img.Bounds().Dx())
	assert.Equal(t, 13, img.Bounds().Dy())

	// Some pixel must carry the label color
	found := false
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "label bitmap is empty")
}

func TestDrawStringTruncates(t *testing.T) {
	f := Basic()
	assert.Equal(t, "abcd…", f.truncate("abcdefghij", 35))
	assert.Equal(t, "", f.truncate("abcdefghij", 5))

	img, err := f.DrawString("abcdefghij", white, 35)
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 35)
}

func TestDrawStringWraps(t *testing.T) {
	f := Basic()
	f.wrap = true

	assert.Equal(t, []string{"aa bb", "cc"}, f.wrapLines("aa bb cc", 35))

	img, err := f.DrawString("aa bb cc", white, 35)
	require.NoError(t, err)
	assert.Equal(t, 26, img.Bounds().Dy(), "two lines")
}

func TestDrawStringErrors(t *testing.T) {
	f := Basic()

	_, err := f.DrawString("bad \xff", white, 100)
	assert.ErrorIs(t, err, ErrInvalidText)

	img, err := f.DrawString("abc", white, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, img.Bounds().Dx())
}

func TestNew(t *testing.T) {
	f, err := New(Options{Size: 12})
	require.NoError(t, err)
	assert.Greater(t, f.Size(), 0)

	_, err = New(Options{Size: 0})
	assert.Error(t, err)

	_, err = New(Options{Size: 12, Path: filepath.Join(t.TempDir(), "missing.ttf")})
	assert.Error(t, err)
}
