package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pstuifzand/tui-treeview/internal/app"
	"github.com/pstuifzand/tui-treeview/internal/config"
	"github.com/pstuifzand/tui-treeview/internal/socket"
)

const logFileName = "tuv.log"

type rootOptions struct {
	debug     bool
	flat      bool
	noSocket  bool
	noWatch   bool
	appendTxt string
	parent    string
	play      string
	socketDir string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "tuv [file]",
		Short: "Browse a tree of items in the terminal",
		Long: "tuv shows an outline file as a scrollable tree or flat list. A running\n" +
			"instance accepts --append and --play from other tuv processes.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.parent != "" && opts.appendTxt == "" {
				return errors.New("--parent requires --append")
			}
			if opts.appendTxt != "" || opts.play != "" {
				return sendCommand(cmd.OutOrStdout(), opts)
			}

			var filePath string
			if len(args) > 0 {
				filePath = args[0]
			}
			return runViewer(filePath, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.debug, "debug", false, "Log at debug level")
	f.BoolVar(&opts.flat, "flat", false, "Show only the leaves as a flat list")
	f.BoolVar(&opts.noSocket, "no-socket", false, "Do not accept commands from other processes")
	f.BoolVar(&opts.noWatch, "no-watch", false, "Do not reload the file when it changes on disk")
	f.StringVar(&opts.appendTxt, "append", "", "Append an item to a running instance")
	f.StringVar(&opts.parent, "parent", "", "ID of the item to append under (default: top level)")
	f.StringVar(&opts.play, "play", "", "Mark the item with this ID as playing in a running instance")
	f.StringVar(&opts.socketDir, "socket-dir", "", "Directory holding instance sockets")
	cmd.MarkFlagsMutuallyExclusive("append", "play")

	return cmd
}

func runViewer(filePath string, opts rootOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, cfg.LogLevel, opts.debug)

	application, err := app.NewApp(app.Options{
		FilePath:  filePath,
		Config:    cfg,
		Logger:    logger,
		Flat:      opts.flat,
		SocketDir: opts.socketDir,
		NoSocket:  opts.noSocket,
		NoWatch:   opts.noWatch,
	})
	if err != nil {
		return err
	}

	if err := application.Run(); err != nil {
		logger.Error().Err(err).Msg("Runtime error")
		return fmt.Errorf("runtime error: %w", err)
	}
	return nil
}

// newLogger writes timestamped entries to w. An unknown level falls back
// to info.
func newLogger(w io.Writer, level string, debug bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// sendCommand forwards --append or --play to the newest running instance
func sendCommand(out io.Writer, opts rootOptions) error {
	socketPath, _, err := socket.FindRunningInstance(opts.socketDir)
	if err != nil {
		return err
	}
	client, err := socket.NewClient(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	var response *socket.Response
	if opts.play != "" {
		response, err = client.SendPlay(opts.play)
	} else {
		text := strings.TrimSpace(opts.appendTxt)
		if text == "" {
			return errors.New("item text cannot be empty")
		}
		response, err = client.SendAppend(text, opts.parent)
	}
	if err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	if !response.Success {
		return fmt.Errorf("server error: %s", response.Message)
	}

	fmt.Fprintln(out, response.Message)
	return nil
}
