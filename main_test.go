package main

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-treeview/internal/socket"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParentRequiresAppend(t *testing.T) {
	_, err := execute(t, "--parent", "x")
	assert.EqualError(t, err, "--parent requires --append")
}

func TestAppendAndPlayAreExclusive(t *testing.T) {
	_, err := execute(t, "--append", "a", "--play", "b")
	assert.Error(t, err)
}

func TestAppendWithoutInstance(t *testing.T) {
	_, err := execute(t, "--socket-dir", t.TempDir(), "--append", "hello")
	assert.ErrorContains(t, err, "no running tuv instance found")
}

func TestAppendSendsToInstance(t *testing.T) {
	dir := t.TempDir()
	server, err := socket.NewServer(dir, os.Getpid(), zerolog.Nop())
	require.NoError(t, err)
	defer server.Stop()
	server.Start()

	out, err := execute(t, "--socket-dir", dir, "--append", "  hello ", "--parent", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Command queued\n", out)

	select {
	case msg := <-server.Messages():
		assert.Equal(t, socket.CommandAppend, msg.Command)
		assert.Equal(t, "hello", msg.Text)
		assert.Equal(t, "p1", msg.Parent)
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, zerolog.WarnLevel, newLogger(&buf, "warn", false).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger(&buf, "loud", false).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, newLogger(&buf, "warn", true).GetLevel())
}
