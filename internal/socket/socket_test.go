package socket

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer(t.TempDir(), os.Getpid(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	t.Cleanup(server.Stop)
	server.Start()
	return server
}

func TestAppendIsQueued(t *testing.T) {
	server := startServer(t)

	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	response, err := client.SendAppend("New track", "album")
	if err != nil {
		t.Fatalf("Failed to send append: %v", err)
	}
	if !response.Success {
		t.Errorf("Expected success=true, got success=false: %s", response.Message)
	}

	select {
	case msg := <-server.Messages():
		if msg.Command != CommandAppend {
			t.Errorf("Expected command=%s, got command=%s", CommandAppend, msg.Command)
		}
		if msg.Text != "New track" || msg.Parent != "album" {
			t.Errorf("Unexpected message: %+v", msg)
		}
		if msg.ResponseChan != nil {
			t.Error("append should not wait for a reply")
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

func TestPlayWaitsForReply(t *testing.T) {
	server := startServer(t)

	go func() {
		msg := <-server.Messages()
		if msg.ID == "t1" {
			msg.Reply(&Response{Success: true, Message: "Playing Track 1"})
			return
		}
		msg.Reply(&Response{Success: false, Message: "no such item"})
	}()

	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	response, err := client.SendPlay("t1")
	if err != nil {
		t.Fatalf("Failed to send play: %v", err)
	}
	if !response.Success || response.Message != "Playing Track 1" {
		t.Errorf("Unexpected response: %+v", response)
	}
}

func TestRejectsInvalidMessages(t *testing.T) {
	server := startServer(t)
	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	for _, msg := range []Message{{}, {Command: "explode"}} {
		response, err := client.Send(msg)
		if err != nil {
			t.Fatalf("Send(%+v): %v", msg, err)
		}
		if response.Success {
			t.Errorf("Send(%+v) succeeded", msg)
		}
	}

	select {
	case msg := <-server.Messages():
		t.Errorf("invalid message was forwarded: %+v", msg)
	default:
	}
}

func TestFindRunningInstance(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := FindRunningInstance(dir); err == nil {
		t.Error("expected an error without a running instance")
	}

	server, err := NewServer(dir, 4242, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	defer server.Stop()
	server.Start()

	socketPath, pid, err := FindRunningInstance(dir)
	if err != nil {
		t.Fatalf("Failed to find running instance: %v", err)
	}
	if socketPath != server.SocketPath() {
		t.Errorf("Expected socketPath=%s, got socketPath=%s", server.SocketPath(), socketPath)
	}
	if pid != 4242 {
		t.Errorf("Expected pid=4242, got pid=%d", pid)
	}
}

func TestNewClientMissingSocket(t *testing.T) {
	if _, err := NewClient("/nonexistent/tuv-1.sock"); err == nil {
		t.Error("expected an error for a missing socket")
	}
}
