package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"
)

// OutputFormat selects how command results are printed.
type OutputFormat string

const (
	FormatYAML  OutputFormat = "yaml"
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatRaw   OutputFormat = "raw"
)

// Tabler is implemented by results that render themselves as a terminal
// table.
type Tabler interface {
	Table() string
}

// OutputOptions configures Output.
type OutputOptions struct {
	Format OutputFormat

	// File receives the output instead of stdout. It is replaced
	// atomically.
	File string

	// Indent is the JSON indentation, two spaces by default.
	Indent string

	// Writer overrides File and stdout.
	Writer io.Writer
}

// Output writes result in the configured format.
func Output(result any, opts OutputOptions) error {
	var buf bytes.Buffer
	if err := encode(&buf, result, opts); err != nil {
		return err
	}
	switch {
	case opts.Writer != nil:
		_, err := opts.Writer.Write(buf.Bytes())
		return err
	case opts.File != "":
		if err := atomic.WriteFile(opts.File, &buf); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	_, err := os.Stdout.Write(buf.Bytes())
	return err
}

func encode(w io.Writer, result any, opts OutputOptions) error {
	switch opts.Format {
	case FormatJSON:
		return outputJSON(w, result, opts.Indent)
	case FormatYAML, "":
		return outputYAML(w, result)
	case FormatTable:
		if t, ok := result.(Tabler); ok {
			_, err := io.WriteString(w, t.Table()+"\n")
			return err
		}
		return outputYAML(w, result)
	case FormatRaw:
		return outputRaw(w, result)
	}
	return fmt.Errorf("unsupported output format: %s", opts.Format)
}

func outputJSON(w io.Writer, result any, indent string) error {
	enc := json.NewEncoder(w)
	if indent == "" {
		indent = "  "
	}
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

func outputYAML(w io.Writer, result any) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func outputRaw(w io.Writer, result any) error {
	switch v := result.(type) {
	case []byte:
		_, err := w.Write(v)
		return err
	case string:
		_, err := io.WriteString(w, v)
		return err
	}
	return outputYAML(w, result)
}

func PrintSuccess(format string, args ...any) {
	fmt.Printf("✓ "+format+"\n", args...)
}

// PrintError prints to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

func PrintInfo(format string, args ...any) {
	fmt.Printf("ℹ "+format+"\n", args...)
}

func PrintWarning(format string, args ...any) {
	fmt.Printf("⚠ "+format+"\n", args...)
}
