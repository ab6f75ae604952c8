// Command tree-snapshot renders an outline file with the tree control and
// writes the frame as a PNG. Key names are replayed first, so a snapshot
// can show any scroll and selection state.
package main

import (
	"fmt"
	"image"
	"os"
	"strings"
	"unicode/utf8"

	"git.sr.ht/~sbinet/gg"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/pstuifzand/tui-treeview/internal/config"
	"github.com/pstuifzand/tui-treeview/internal/skin"
	"github.com/pstuifzand/tui-treeview/internal/storage"
	"github.com/pstuifzand/tui-treeview/internal/theme"
	"github.com/pstuifzand/tui-treeview/internal/ui"
)

type snapshotOptions struct {
	output     string
	configPath string
	width      int
	height     int
	flat       bool
	keys       []string
	selectID   string
}

func main() {
	if err := newCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var opts snapshotOptions

	cmd := &cobra.Command{
		Use:          "tree-snapshot <file>",
		Short:        "Render an outline file to a PNG image",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			img, err := snapshot(args[0], cfg, opts)
			if err != nil {
				return err
			}
			if err := gg.SavePNG(opts.output, img); err != nil {
				return fmt.Errorf("failed to write %s: %w", opts.output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d)\n", opts.output, opts.width, opts.height)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "tree.png", "PNG file to write")
	f.StringVar(&opts.configPath, "config", "", "Config file (default: the user config)")
	f.IntVar(&opts.width, "width", 320, "Image width in pixels")
	f.IntVar(&opts.height, "height", 240, "Image height in pixels")
	f.BoolVar(&opts.flat, "flat", false, "Show only the leaves")
	f.StringSliceVar(&opts.keys, "keys", nil, "Key names to replay, e.g. Down,Down,Right,PgDn,Space")
	f.StringVar(&opts.selectID, "select", "", "ID of the item to select before replaying keys")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

// snapshot loads the outline, replays the keys and returns the frame
func snapshot(path string, cfg *config.Config, opts snapshotOptions) (*image.RGBA, error) {
	if opts.width <= 0 || opts.height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.width, opts.height)
	}

	events := make([]*tcell.EventKey, 0, len(opts.keys))
	for _, name := range opts.keys {
		ev, err := parseKey(name)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	doc, _, err := storage.OpenDocument(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load outline: %w", err)
	}
	sk, err := skin.Load(cfg, theme.LoadThemeOrDefault(cfg.Theme))
	if err != nil {
		return nil, fmt.Errorf("failed to load skin: %w", err)
	}

	tree := doc.Tree()
	bounds := image.Rect(0, 0, opts.width, opts.height)
	c := ui.NewTreeControl(tree, sk, ui.WithFlat(opts.flat || cfg.IsFlat()))
	defer c.Close()
	c.SetBounds(bounds)

	if opts.selectID != "" {
		it := tree.FindByID(opts.selectID)
		if it == nil {
			return nil, fmt.Errorf("no item with ID %s", opts.selectID)
		}
		c.Select(it)
	}
	for _, ev := range events {
		c.HandleEvent(ev)
	}

	img := image.NewRGBA(bounds)
	c.Draw(img, bounds)
	return img, nil
}

var keysByName = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		m[strings.ToLower(name)] = k
	}
	return m
}()

// parseKey accepts tcell key names (case-insensitive), "Space", or a
// single character
func parseKey(name string) (*tcell.EventKey, error) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "space") {
		return tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), nil
	}
	if k, ok := keysByName[strings.ToLower(name)]; ok {
		return tcell.NewEventKey(k, 0, tcell.ModNone), nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone), nil
	}
	return nil, fmt.Errorf("unknown key %q", name)
}
