package locale

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AcceptedPrefixes are the key namespaces that are spoken.
var AcceptedPrefixes = []string{
	"item.minecraft.",
	"entity.minecraft.",
	"block.minecraft.",
	"biome.minecraft.",
}

// MissingLogLimit bounds how many missing keys are logged per file.
const MissingLogLimit = 10

// FileStats describes one preprocessed file.
type FileStats struct {
	InGameCode string
	Original   int
	Filtered   int
	Kept       int
	Missing    int
}

// PreprocessStats aggregates a preprocessing pass.
type PreprocessStats struct {
	FilesProcessed int
	FilesFailed    int
	EntriesKept    int
	MissingKeys    int
	Files          []FileStats
}

func accepted(key string) bool {
	for _, p := range AcceptedPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// Filter keeps entries in an accepted namespace whose key is also in
// reference. It returns the kept entries and the reference keys that were
// missing, sorted.
func Filter(entries map[string]string, reference map[string]struct{}) (kept map[string]string, missing []string) {
	kept = make(map[string]string)
	for key := range reference {
		text, ok := entries[key]
		if ok && accepted(key) {
			kept[key] = text
			continue
		}
		missing = append(missing, key)
	}
	sort.Strings(missing)
	return kept, missing
}

// ReferenceKeys reads the key set of the reference localization.
func ReferenceKeys(path string) (map[string]struct{}, error) {
	entries, err := readEntries(path)
	if err != nil {
		return nil, fmt.Errorf("locale: reference: %w", err)
	}
	keys := make(map[string]struct{}, len(entries))
	for k := range entries {
		keys[k] = struct{}{}
	}
	return keys, nil
}

// PreprocessFile filters one raw localization file into outDir.
func PreprocessFile(path, outDir string, reference map[string]struct{}) (FileStats, error) {
	code := CodeFromFile(path)
	st := FileStats{InGameCode: code}

	entries, err := readEntries(path)
	if err != nil {
		return st, err
	}
	st.Original = len(entries)
	for k := range entries {
		if accepted(k) {
			st.Filtered++
		}
	}

	kept, missing := Filter(entries, reference)
	st.Kept = len(kept)
	st.Missing = len(missing)

	if err := writeEntries(filepath.Join(outDir, code+ProcessedSuffix), kept); err != nil {
		return st, fmt.Errorf("locale: write %s: %w", code, err)
	}

	if len(missing) > 0 {
		shown := missing[:min(len(missing), MissingLogLimit)]
		slog.Warn("locale: missing keys", "locale", code, "missing", len(missing), "first", shown)
	}
	return st, nil
}

// Preprocess filters every raw "*.json" file in inDir against the keys of
// referenceFile. A file that fails is counted and skipped.
func Preprocess(inDir, outDir, referenceFile string) (PreprocessStats, error) {
	var st PreprocessStats

	reference, err := ReferenceKeys(referenceFile)
	if err != nil {
		return st, err
	}

	dirEntries, err := os.ReadDir(inDir)
	if err != nil {
		return st, fmt.Errorf("locale: preprocess: %w", err)
	}
	var files []string
	for _, e := range dirEntries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, filepath.Join(inDir, e.Name()))
		}
	}
	if len(files) == 0 {
		return st, fmt.Errorf("locale: preprocess: %w: no json files in %s", os.ErrNotExist, inDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return st, err
	}

	slog.Info("locale: preprocessing", "files", len(files), "reference_keys", len(reference))
	for _, f := range files {
		fs, err := PreprocessFile(f, outDir, reference)
		if err != nil {
			slog.Error("locale: preprocess failed", "file", f, "error", err)
			st.FilesFailed++
			continue
		}
		st.FilesProcessed++
		st.EntriesKept += fs.Kept
		st.MissingKeys += fs.Missing
		st.Files = append(st.Files, fs)
	}
	if st.FilesProcessed == 0 {
		return st, errors.New("locale: preprocess: every file failed")
	}
	slog.Info("locale: preprocessing done",
		"processed", st.FilesProcessed,
		"failed", st.FilesFailed,
		"kept", st.EntriesKept,
		"missing", st.MissingKeys)
	return st, nil
}
