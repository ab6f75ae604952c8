package history

// History is a bounded list of prompt entries with Up/Down style
// navigation. The newest entry is last.
type History struct {
	entries []string
	max     int

	// Index while navigating, -1 otherwise
	cursor int
	// Input typed before navigation started, restored past the newest entry
	pending string

	manager  *Manager
	filename string
}

// New creates an in-memory history keeping at most max entries
func New(max int) *History {
	return &History{max: max, cursor: -1}
}

// Open creates a history persisted by manager under filename and loads
// the stored entries
func Open(max int, manager *Manager, filename string) (*History, error) {
	h := New(max)
	h.manager = manager
	h.filename = filename

	entries, err := manager.Load(filename)
	if err != nil {
		return h, err
	}
	if len(entries) > max {
		entries = entries[len(entries)-max:]
	}
	h.entries = entries
	return h, nil
}

// Add appends entry unless it is empty or repeats the newest entry, ends
// navigation and saves when persisted
func (h *History) Add(entry string) error {
	h.Reset()
	if entry == "" || (len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry) {
		return nil
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	if h.manager == nil {
		return nil
	}
	return h.manager.Save(h.filename, h.entries)
}

// Previous steps to the next older entry. current is the input shown
// before the first step and comes back from Next.
func (h *History) Previous(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor < 0:
		h.pending = current
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps to the next newer entry, or back to the pending input
func (h *History) Next() (string, bool) {
	if h.cursor < 0 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		pending := h.pending
		h.Reset()
		return pending, true
	}
	return h.entries[h.cursor], true
}

// Reset ends navigation
func (h *History) Reset() {
	h.cursor = -1
	h.pending = ""
}

// Entries returns a copy of the entries, oldest first
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// IsNavigating reports whether Previous was called since the last Reset
func (h *History) IsNavigating() bool {
	return h.cursor >= 0
}
