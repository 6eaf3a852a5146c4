package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogOptions configures SetupLogging.
type LogOptions struct {
	Verbose bool
	JSON    bool

	// File also receives every record. It is truncated first.
	File string

	// Header lines are written to File between two rules before any
	// record.
	Header []string

	// Stderr defaults to os.Stderr.
	Stderr io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogging installs the default slog logger. The returned closer
// releases the log file.
func SetupLogging(opts LogOptions) (io.Closer, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	var w io.Writer = os.Stderr
	if opts.Stderr != nil {
		w = opts.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.Create(opts.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		if len(opts.Header) > 0 {
			rule := strings.Repeat("=", 60)
			fmt.Fprintln(f, rule)
			for _, line := range opts.Header {
				fmt.Fprintln(f, line)
			}
			fmt.Fprintf(f, "Timestamp: %s\n", time.Now().Format(time.DateTime))
			fmt.Fprintln(f, rule)
		}
		w = io.MultiWriter(w, f)
		closer = f
	}

	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, hopts)
	if opts.JSON {
		h = slog.NewJSONHandler(w, hopts)
	}
	slog.SetDefault(slog.New(h))
	return closer, nil
}
