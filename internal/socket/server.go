package socket

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	socketPrefix = "tuv-"
	socketSuffix = ".sock"

	// ReplyTimeout bounds how long a client waits for the event loop
	ReplyTimeout = 10 * time.Second
)

// Server represents a Unix socket server for accepting external commands
type Server struct {
	socketPath string
	listener   net.Listener
	msgChan    chan Message
	stopChan   chan struct{}
	log        zerolog.Logger
}

// DefaultDir returns the directory sockets are created in
func DefaultDir() string {
	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		return filepath.Join(xdgRuntime, "tui-treeview")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "tui-treeview")
}

// NewServer listens on <dir>/tuv-<pid>.sock; an empty dir uses DefaultDir
func NewServer(dir string, pid int, log zerolog.Logger) (*Server, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	socketPath := filepath.Join(dir, fmt.Sprintf("%s%d%s", socketPrefix, pid, socketSuffix))
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}
	log.Info().Str("path", socketPath).Msg("Socket server listening")

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		msgChan:    make(chan Message, 10),
		stopChan:   make(chan struct{}),
		log:        log,
	}, nil
}

// Start begins accepting connections on the socket
func (s *Server) Start() {
	go s.acceptLoop()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn().Err(err).Msg("Error accepting connection")
			continue
		}
		go s.handleConnection(conn)
	}
}

// handleConnection processes a single client connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	encoder := json.NewEncoder(conn)
	reply := func(r Response) {
		if err := encoder.Encode(r); err != nil {
			s.log.Debug().Err(err).Msg("Failed to write response")
		}
	}

	var msg Message
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		if err != io.EOF {
			s.log.Warn().Err(err).Msg("Error decoding message")
		}
		reply(Response{Success: false, Message: fmt.Sprintf("Invalid message format: %v", err)})
		return
	}

	switch msg.Command {
	case "":
		reply(Response{Success: false, Message: "Missing command field"})
		return
	case CommandPlay:
		msg.ResponseChan = make(chan *Response, 1)
	case CommandAppend:
	default:
		reply(Response{Success: false, Message: fmt.Sprintf("Unknown command: %s", msg.Command)})
		return
	}

	select {
	case s.msgChan <- msg:
	case <-s.stopChan:
		reply(Response{Success: false, Message: "Server is shutting down"})
		return
	}

	if msg.ResponseChan == nil {
		reply(Response{Success: true, Message: "Command queued"})
		return
	}
	select {
	case r := <-msg.ResponseChan:
		reply(*r)
	case <-time.After(ReplyTimeout):
		reply(Response{Success: false, Message: "Command timed out"})
	case <-s.stopChan:
		reply(Response{Success: false, Message: "Server is shutting down"})
	}
}

// Messages returns the channel for receiving messages
func (s *Server) Messages() <-chan Message {
	return s.msgChan
}

// SocketPath returns the path to the Unix socket
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop stops the server and removes the socket file
func (s *Server) Stop() {
	close(s.stopChan)
	s.listener.Close()
	os.Remove(s.socketPath)
	s.log.Info().Msg("Socket server stopped")
}
