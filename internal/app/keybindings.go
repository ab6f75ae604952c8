package app

import (
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-treeview/internal/export"
	"github.com/pstuifzand/tui-treeview/internal/search"
)

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         rune
	Description string
	Handler     func(*App)
}

// InitializeKeybindings sets up the bindings for keys the tree control
// does not consume
func (a *App) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		{
			Key:         '/',
			Description: "Find item",
			Handler: func(app *App) {
				app.finding = true
				app.findInput = app.findInput[:0]
				app.findHistory.Reset()
				app.needsRender = true
			},
		},
		{
			Key:         'n',
			Description: "Find next match",
			Handler: func(app *App) {
				app.findNext()
			},
		},
		{
			Key:         'p',
			Description: "Play selected item",
			Handler: func(app *App) {
				if it := app.control.LastSelected(); it != nil {
					app.play(it)
				} else {
					app.SetStatus("Nothing selected")
				}
			},
		},
		{
			Key:         'f',
			Description: "Toggle flat list",
			Handler: func(app *App) {
				app.setControl(!app.control.Flat())
			},
		},
		{
			Key:         'x',
			Description: "Export as Markdown",
			Handler: func(app *App) {
				app.exportMarkdown()
			},
		},
		{
			Key:         '[',
			Description: "Show older backup",
			Handler: func(app *App) {
				app.handlePreviousBackup()
			},
		},
		{
			Key:         ']',
			Description: "Show newer backup",
			Handler: func(app *App) {
				app.handleNextBackup()
			},
		},
		{
			Key:         'q',
			Description: "Save and quit",
			Handler: func(app *App) {
				app.Quit()
			},
		},
		{
			Key:         'Q',
			Description: "Quit without saving",
			Handler: func(app *App) {
				app.quit = true
			},
		},
		{
			Key:         '?',
			Description: "Show key help",
			Handler: func(app *App) {
				app.SetStatus(app.helpText())
			},
		},
	}
}

// GetKeybindingByKey returns a keybinding for a given key
func (a *App) GetKeybindingByKey(key rune) *KeyBinding {
	for i := range a.keybindings {
		if a.keybindings[i].Key == key {
			return &a.keybindings[i]
		}
	}
	return nil
}

func (a *App) helpText() string {
	parts := make([]string, 0, len(a.keybindings))
	for _, kb := range a.keybindings {
		parts = append(parts, string(kb.Key)+" "+strings.ToLower(kb.Description))
	}
	return strings.Join(parts, ", ")
}

// handleKeypress offers the key to the tree control first
func (a *App) handleKeypress(ev *tcell.EventKey) {
	if a.finding {
		a.handleFindKey(ev)
		return
	}

	if a.control.HandleEvent(ev) {
		if ev.Key() == tcell.KeyDelete && a.tree.HasDeleted() {
			a.compactPending = true
			a.markDirty()
		}
		return
	}

	switch ev.Key() {
	case tcell.KeyCtrlS:
		if err := a.Save(); err != nil {
			a.SetStatus("Failed to save: " + err.Error())
		} else {
			a.SetStatus("Saved")
		}
		return
	case tcell.KeyCtrlC:
		a.Quit()
		return
	case tcell.KeyRune:
		if kb := a.GetKeybindingByKey(ev.Rune()); kb != nil {
			kb.Handler(a)
		}
	}
}

// handleFindKey edits the find prompt
func (a *App) handleFindKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.finding = false
	case tcell.KeyEnter:
		a.finding = false
		if query := strings.TrimSpace(string(a.findInput)); query != "" {
			if err := a.findHistory.Add(query); err != nil {
				a.log.Warn().Err(err).Msg("Cannot save find history")
			}
			a.lastQuery = query
			a.findNext()
		}
	case tcell.KeyUp:
		if entry, ok := a.findHistory.Previous(string(a.findInput)); ok {
			a.findInput = []rune(entry)
		}
	case tcell.KeyDown:
		if entry, ok := a.findHistory.Next(); ok {
			a.findInput = []rune(entry)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(a.findInput); n > 0 {
			a.findInput = a.findInput[:n-1]
		}
	case tcell.KeyRune:
		a.findInput = append(a.findInput, ev.Rune())
	}
	a.needsRender = true
}

// exportMarkdown writes the tree next to the outline file
func (a *App) exportMarkdown() {
	path := strings.TrimSuffix(a.store.FilePath, filepath.Ext(a.store.FilePath)) + ".md"
	if err := export.ExportToMarkdown(a.title, a.tree, path); err != nil {
		a.SetStatus("Export failed: " + err.Error())
		return
	}
	a.SetStatus("Exported " + path)
}

// findNext selects the next item after the selection matching the last
// query. Queries without an exact match fall back to the closest fuzzy
// match.
func (a *App) findNext() {
	if a.lastQuery == "" {
		a.SetStatus("No previous search")
		return
	}
	expr, err := search.ParseQuery(a.lastQuery)
	if err != nil {
		a.SetStatus("Invalid query: " + err.Error())
		return
	}
	if a.control.Flat() {
		expr = search.NewAndExpr(expr, search.NewFlagFilter("leaf"))
	}

	match := search.NextMatch(a.tree, expr, a.control.LastSelected())
	if match == nil {
		for _, it := range search.RankFuzzy(a.tree, a.lastQuery) {
			if !a.control.Flat() || it.IsLeaf() {
				match = it
				break
			}
		}
	}
	if match == nil {
		a.SetStatus("No match for " + a.lastQuery)
		return
	}
	a.control.Select(match)
	a.SetStatus("Found: " + match.Text)
}
