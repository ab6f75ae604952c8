// Package app runs the interactive viewer: a tree control on a terminal
// screen, fed by the keyboard, the mouse, a file watcher and a Unix socket.
package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/pstuifzand/tui-treeview/internal/config"
	"github.com/pstuifzand/tui-treeview/internal/history"
	"github.com/pstuifzand/tui-treeview/internal/model"
	"github.com/pstuifzand/tui-treeview/internal/skin"
	"github.com/pstuifzand/tui-treeview/internal/socket"
	"github.com/pstuifzand/tui-treeview/internal/storage"
	"github.com/pstuifzand/tui-treeview/internal/term"
	"github.com/pstuifzand/tui-treeview/internal/theme"
	"github.com/pstuifzand/tui-treeview/internal/ui"
	"github.com/pstuifzand/tui-treeview/internal/watcher"
)

const (
	frameInterval    = 50 * time.Millisecond
	autoSaveDelay    = 5 * time.Second
	statusTimeout    = 3 * time.Second
	selfWriteGrace   = time.Second
	backupsPerFile   = 20
	sessionIDLength  = 8
	findHistorySize  = 100
	defaultTitleText = "Untitled"

	defaultOutlineFile = "outline.json"
	findHistoryFile    = "find.toml"
)

// Options configures NewApp
type Options struct {
	FilePath string
	Config   *config.Config // Nil loads the user configuration
	Logger   zerolog.Logger
	Screen   tcell.Screen // Nil opens the terminal

	Flat       bool   // Force the flat leaf list
	SocketDir  string // Empty uses socket.DefaultDir
	BackupDir  string // Empty uses storage.GetBackupDir
	HistoryDir string // Empty uses history.DefaultDir
	NoSocket   bool
	NoWatch    bool
}

// App is the main application controller
type App struct {
	screen    tcell.Screen
	presenter *term.Presenter
	skin      *skin.Skin
	tree      *model.Tree
	control   *ui.TreeControl
	store     *storage.JSONStore
	backups   *storage.BackupManager
	watcher   *watcher.Watcher
	server    *socket.Server
	cfg       *config.Config
	log       zerolog.Logger
	now       func() time.Time

	title     string
	sessionID string

	statusMsg   string
	statusTime  time.Time
	dirty       bool
	dirtySince  time.Time
	lastSave    time.Time
	backedUp    bool
	needsRender bool
	quit        bool

	// Deleted items are compacted on the next tick, after every observer
	// has seen the delete notifications
	compactPending bool

	finding     bool
	findInput   []rune
	lastQuery   string
	findHistory *history.History

	keybindings []KeyBinding
	backupIndex int // Position in the backup list while browsing, -1 otherwise
}

// NewApp loads the outline at opts.FilePath and prepares the screen
func NewApp(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	th := theme.LoadThemeOrDefault(cfg.Theme)
	sk, err := skin.Load(cfg, th)
	if err != nil {
		return nil, fmt.Errorf("failed to load skin: %w", err)
	}

	if opts.FilePath == "" {
		opts.FilePath = defaultOutlineFile
	}
	doc, savePath, err := storage.OpenDocument(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load outline: %w", err)
	}
	store := storage.NewJSONStore(savePath)

	screen := opts.Screen
	if screen == nil {
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, fmt.Errorf("failed to create screen: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	a := &App{
		screen:      screen,
		presenter:   term.NewPresenter(screen, th.Status),
		skin:        sk,
		tree:        doc.Tree(),
		store:       store,
		cfg:         cfg,
		log:         opts.Logger,
		now:         time.Now,
		title:       doc.Title,
		sessionID:   newSessionID(),
		statusMsg:   "Ready",
		needsRender: true,
		backupIndex: -1,
	}
	if a.title == "" {
		a.title = defaultTitleText
	}
	a.statusTime = a.now()
	a.keybindings = a.InitializeKeybindings()
	a.tree.SetActivateHandler(a.play)
	a.setControl(opts.Flat || cfg.IsFlat())

	if backups, err := storage.NewBackupManager(opts.BackupDir); err != nil {
		a.log.Warn().Err(err).Msg("Backups disabled")
	} else {
		a.backups = backups
	}

	a.findHistory = a.openFindHistory(opts.HistoryDir)
	if savePath != opts.FilePath {
		a.SetStatus(fmt.Sprintf("Imported %s, saving to %s", opts.FilePath, savePath))
	}

	if !opts.NoWatch {
		a.startWatcher(savePath)
	}
	if !opts.NoSocket {
		server, err := socket.NewServer(opts.SocketDir, os.Getpid(), a.log)
		if err != nil {
			a.log.Warn().Err(err).Msg("Socket server disabled")
		} else {
			a.server = server
			a.server.Start()
		}
	}

	a.log.Info().Str("file", opts.FilePath).Str("session", a.sessionID).Int("items", len(a.tree.All())).Msg("Outline loaded")
	return a, nil
}

func newSessionID() string {
	id := strings.ToLower(ulid.Make().String())
	return id[len(id)-sessionIDLength:]
}

// setControl replaces the tree control, keeping the selection
func (a *App) setControl(flat bool) {
	var selected *model.Item
	if a.control != nil {
		selected = a.control.LastSelected()
		a.control.Close()
	}
	a.control = ui.NewTreeControl(a.tree, a.skin,
		ui.WithFlat(flat),
		ui.WithLogger(a.log),
		ui.WithDoubleClickInterval(a.cfg.DoubleClickInterval()),
		ui.WithLayoutNotifier(func() { a.needsRender = true }),
	)
	a.control.SetBounds(a.presenter.Resize())
	if selected != nil {
		a.control.Select(selected)
	}
	a.needsRender = true
}

func (a *App) openFindHistory(dir string) *history.History {
	m, err := history.NewManager(dir)
	if err != nil {
		a.log.Warn().Err(err).Msg("Find history is not persisted")
		return history.New(findHistorySize)
	}
	h, err := history.Open(findHistorySize, m, findHistoryFile)
	if err != nil {
		a.log.Warn().Err(err).Msg("Cannot read find history")
	}
	return h
}

func (a *App) startWatcher(path string) {
	w, err := watcher.New(path, watcher.WithOnError(func(err error) {
		a.log.Warn().Err(err).Str("file", path).Msg("Watch error")
	}))
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("Live reload disabled")
		return
	}
	a.log.Debug().Bool("polling", w.IsPolling()).Msg("Watching outline file")
	a.watcher = w
}

// Run starts the main event loop
func (a *App) Run() error {
	defer a.Close()

	eventChan := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)

	screen := a.screen
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	var changed <-chan struct{}
	if a.watcher != nil {
		changed = a.watcher.Changed()
	}
	var messages <-chan socket.Message
	if a.server != nil {
		messages = a.server.Messages()
	}

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for !a.quit {
		select {
		case ev := <-eventChan:
			a.handleEvent(ev)
		case <-changed:
			a.reload()
		case msg := <-messages:
			a.handleSocketMessage(msg)
		case <-ticker.C:
			a.tick()
		}
	}
	return nil
}

// Close releases the screen, the watcher and the socket
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
	if a.server != nil {
		a.server.Stop()
		a.server = nil
	}
	if a.control != nil {
		a.control.Close()
	}
	if a.screen != nil {
		a.screen.Fini()
		a.screen = nil
	}
}

// tick runs deferred work and redraws when something changed
func (a *App) tick() {
	if a.compactPending {
		a.compactPending = false
		if n := a.tree.Compact(); n > 0 {
			a.log.Debug().Int("removed", n).Msg("Compacted deleted items")
		}
	}

	if a.dirty && a.now().Sub(a.dirtySince) > autoSaveDelay {
		if err := a.Save(); err != nil {
			a.SetStatus("Failed to save: " + err.Error())
		} else {
			a.SetStatus("Saved")
		}
	}

	if a.statusMsg != "" && a.now().Sub(a.statusTime) > statusTimeout {
		a.statusMsg = ""
		a.needsRender = true
	}

	if a.needsRender {
		a.render()
	}
}

// render paints the control and the status line
func (a *App) render() {
	a.needsRender = false
	canvas := a.presenter.Canvas()
	a.control.Draw(canvas, canvas.Bounds())
	a.presenter.Flush()
	a.presenter.SetStatus(a.statusText(), a.statusMsg)
	a.presenter.Show()
}

func (a *App) statusText() string {
	if a.finding {
		return "/" + string(a.findInput)
	}
	mode := "tree"
	if a.control.Flat() {
		mode = "flat"
	}
	text := fmt.Sprintf(" %s [%s]", a.title, mode)
	if a.dirty {
		text += " (modified)"
	}
	return text
}

// handleEvent dispatches one terminal event
func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.control.SetBounds(a.presenter.Resize())
		a.needsRender = true
	case *tcell.EventKey:
		a.handleKeypress(ev)
	case *tcell.EventMouse:
		if a.presenter.InStatusLine(ev) {
			return
		}
		a.control.HandleEvent(a.presenter.PixelEvent(ev))
	}
}

// reload replaces the tree with the file content after an outside change
func (a *App) reload() {
	if a.now().Sub(a.lastSave) < selfWriteGrace {
		return
	}
	if a.dirty {
		a.SetStatus("File changed on disk, keeping unsaved changes")
		return
	}
	doc, err := a.store.Load()
	if err != nil {
		a.log.Warn().Err(err).Msg("Reload failed")
		a.SetStatus("Reload failed: " + err.Error())
		return
	}
	if doc.Title != "" {
		a.title = doc.Title
	}
	a.tree.Replace(doc.Items)
	a.backupIndex = -1
	a.log.Info().Int("items", len(a.tree.All())).Msg("Outline reloaded")
	a.SetStatus("Reloaded")
}

// markDirty schedules an autosave
func (a *App) markDirty() {
	if !a.dirty {
		a.dirtySince = a.now()
	}
	a.dirty = true
	a.needsRender = true
}

// play marks it as the playing item
func (a *App) play(it *model.Item) {
	a.tree.SetPlaying(it)
	a.markDirty()
	a.SetStatus("Playing: " + it.Text)
}

// SetStatus sets the status message
func (a *App) SetStatus(msg string) {
	a.statusMsg = msg
	a.statusTime = a.now()
	a.needsRender = true
}

// Quit saves pending changes and ends the event loop. A failed save keeps
// the app running.
func (a *App) Quit() {
	if a.dirty {
		if err := a.Save(); err != nil {
			a.SetStatus("Failed to save: " + err.Error() + " (Q quits anyway)")
			return
		}
	}
	a.quit = true
}

// Tree returns the displayed tree
func (a *App) Tree() *model.Tree {
	return a.tree
}
