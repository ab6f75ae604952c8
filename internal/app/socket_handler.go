package app

import (
	"fmt"
	"strings"

	"github.com/pstuifzand/tui-treeview/internal/model"
	"github.com/pstuifzand/tui-treeview/internal/socket"
)

// handleSocketMessage processes messages received from the Unix socket
func (a *App) handleSocketMessage(msg socket.Message) {
	a.log.Debug().Str("command", msg.Command).Str("text", msg.Text).Str("id", msg.ID).Str("parent", msg.Parent).Msg("Received socket message")

	switch msg.Command {
	case socket.CommandAppend:
		a.handleAppendCommand(msg)
	case socket.CommandPlay:
		a.handlePlayCommand(msg)
	default:
		a.log.Warn().Str("command", msg.Command).Msg("Unknown socket command")
	}
}

// handleAppendCommand adds a new item under the requested parent
func (a *App) handleAppendCommand(msg socket.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		a.log.Warn().Msg("Append command missing text")
		return
	}

	var parent *model.Item
	if msg.Parent != "" {
		parent = a.tree.FindByID(msg.Parent)
		if parent == nil || parent.Deleted {
			a.log.Warn().Str("parent", msg.Parent).Msg("Append to unknown parent")
			a.SetStatus("Error: no item with ID " + msg.Parent)
			return
		}
	}

	a.tree.Append(parent, model.NewItem(text))
	a.markDirty()
	a.SetStatus("Added: " + text)
}

// handlePlayCommand marks an item as playing and answers the client
func (a *App) handlePlayCommand(msg socket.Message) {
	it := a.tree.FindByID(msg.ID)
	if it == nil || it.Deleted {
		msg.Reply(&socket.Response{Success: false, Message: fmt.Sprintf("No item with ID %s", msg.ID)})
		return
	}
	a.play(it)
	msg.Reply(&socket.Response{Success: true, Message: "Playing " + it.Text})
}
