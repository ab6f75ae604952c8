// Package socket lets other processes send commands to a running viewer
// over a Unix socket
package socket

// Message represents a command sent to the running tuv instance
type Message struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`
	ID      string `json:"id,omitempty"`     // Item addressed by play
	Parent  string `json:"parent,omitempty"` // Default: top level

	// Set by the server for commands answered by the event loop
	ResponseChan chan *Response `json:"-"`
}

// Response represents the response from the server
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Command types
const (
	CommandAppend = "append"
	CommandPlay   = "play"
)

// Reply sends resp to a waiting client; it never blocks
func (m Message) Reply(resp *Response) {
	if m.ResponseChan == nil {
		return
	}
	select {
	case m.ResponseChan <- resp:
	default:
	}
}
