package main

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"git.sr.ht/~sbinet/gg"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-treeview/internal/config"
	"github.com/pstuifzand/tui-treeview/internal/model"
	"github.com/pstuifzand/tui-treeview/internal/storage"
	"github.com/pstuifzand/tui-treeview/internal/theme"
)

func writeOutline(t *testing.T) string {
	t.Helper()
	album := &model.Item{ID: "album", Text: "Album"}
	album.AddChild(&model.Item{ID: "t1", Text: "Track one"})
	doc := &storage.Document{Title: "Snap", Items: []*model.Item{{ID: "a", Text: "Alpha"}, album}}
	path := filepath.Join(t.TempDir(), "outline.json")
	require.NoError(t, storage.NewJSONStore(path).Save(doc))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`theme = "default"`))
	require.NoError(t, err)
	return cfg
}

// selectedRows returns the y coordinates whose right-most pixel has the
// selection color
func selectedRows(img *image.RGBA) []int {
	sel := color.RGBAModel.Convert(theme.Default().Palette.Selection).(color.RGBA)
	var rows []int
	x := img.Bounds().Max.X - 1
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		if img.RGBAAt(x, y) == sel {
			rows = append(rows, y)
		}
	}
	return rows
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
	}{
		{"Down", tcell.KeyDown, 0},
		{"pgdn", tcell.KeyPgDn, 0},
		{"Enter", tcell.KeyEnter, 0},
		{"Space", tcell.KeyRune, ' '},
		{"x", tcell.KeyRune, 'x'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := parseKey(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.key, ev.Key())
			if tt.key == tcell.KeyRune {
				assert.Equal(t, tt.r, ev.Rune())
			}
		})
	}

	_, err := parseKey("Hyper")
	assert.Error(t, err)
}

func TestSnapshotWithoutSelection(t *testing.T) {
	img, err := snapshot(writeOutline(t), testConfig(t), snapshotOptions{width: 120, height: 60})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 60), img.Bounds())
	assert.Empty(t, selectedRows(img))
}

func TestSnapshotReplaysKeys(t *testing.T) {
	img, err := snapshot(writeOutline(t), testConfig(t), snapshotOptions{
		width: 120, height: 60, keys: []string{"Down", "Down"},
	})
	require.NoError(t, err)

	rows := selectedRows(img)
	require.NotEmpty(t, rows)
	assert.Greater(t, rows[0], 0, "second row is selected")
}

func TestSnapshotSelectsByID(t *testing.T) {
	path := writeOutline(t)
	img, err := snapshot(path, testConfig(t), snapshotOptions{width: 120, height: 60, selectID: "t1"})
	require.NoError(t, err)
	assert.NotEmpty(t, selectedRows(img))

	_, err = snapshot(path, testConfig(t), snapshotOptions{width: 120, height: 60, selectID: "missing"})
	assert.EqualError(t, err, "no item with ID missing")
}

func TestSnapshotRejectsBadInput(t *testing.T) {
	path := writeOutline(t)
	_, err := snapshot(path, testConfig(t), snapshotOptions{width: 0, height: 10})
	assert.Error(t, err)
	_, err = snapshot(path, testConfig(t), snapshotOptions{width: 10, height: 10, keys: []string{"Nope"}})
	assert.EqualError(t, err, `unknown key "Nope"`)
}

func TestCommandWritesPNG(t *testing.T) {
	path := writeOutline(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, testConfig(t).SaveToFile(cfgPath))
	out := filepath.Join(t.TempDir(), "snap.png")

	cmd := newCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{path, "-o", out, "--config", cfgPath, "--width", "80", "--height", "40", "--keys", "Down,Right"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "(80x40)")

	img, err := gg.LoadPNG(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 40), img.Bounds())
}
