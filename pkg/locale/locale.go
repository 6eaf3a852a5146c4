// Package locale loads localization files and prepares them for speech
// generation.
//
// Raw files are flat JSON objects mapping translation keys to text, one file
// per in-game locale ("af_za.json"). [Preprocess] reduces them to the keys
// that should be spoken and writes "{code}_processed.json" files, which the
// rest of the pipeline reads as [Unit] values.
package locale

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
)

// ProcessedSuffix ends every preprocessed localization file name.
const ProcessedSuffix = "_processed.json"

// Unit is the translated text of one in-game locale.
type Unit struct {
	InGameCode string
	Entries    map[string]string
}

// SortedKeys returns the entry keys in lexicographic order.
func (u Unit) SortedKeys() []string {
	keys := make([]string, 0, len(u.Entries))
	for k := range u.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CodeFromFile derives the in-game code from a raw or processed file name.
func CodeFromFile(name string) string {
	base := filepath.Base(name)
	if code, ok := strings.CutSuffix(base, ProcessedSuffix); ok {
		return code
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func readEntries(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("locale: parse %s: %w", path, err)
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return entries, nil
}

func writeEntries(path string, entries map[string]string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(path, &buf)
}

// LoadUnit reads a processed localization file.
func LoadUnit(path string) (Unit, error) {
	entries, err := readEntries(path)
	if err != nil {
		return Unit{}, err
	}
	return Unit{InGameCode: CodeFromFile(path), Entries: entries}, nil
}

// ListUnits returns the processed files in dir, sorted by name.
func ListUnits(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ProcessedSuffix) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Keys returns the union of keys across every processed file in dir.
// Unreadable files are skipped.
func Keys(dir string) (map[string]struct{}, error) {
	files, err := ListUnits(dir)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	for _, f := range files {
		entries, err := readEntries(f)
		if err != nil {
			slog.Warn("locale: skipping unreadable file", "file", f, "error", err)
			continue
		}
		for k := range entries {
			keys[k] = struct{}{}
		}
	}
	return keys, nil
}
