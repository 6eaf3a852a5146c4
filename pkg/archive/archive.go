// Package archive stores the inputs and audio of a run under a versioned
// directory, e.g. "Archive/1.21.4-2".
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Aufco/AudioProject-Female/pkg/locale"
	"github.com/natefinch/atomic"
)

// NextVersion returns version if root has no directory of that name, else
// the first free "version-N" with N starting at 1.
func NextVersion(root, version string) string {
	if !exists(filepath.Join(root, version)) {
		return version
	}
	for n := 1; ; n++ {
		v := version + "-" + strconv.Itoa(n)
		if !exists(filepath.Join(root, v)) {
			return v
		}
	}
}

// Request describes what to archive.
type Request struct {
	Version         string
	TranslationsDir string
	ReferenceDir    string
	OGGDirs         []string
	// Keys limits the archived OGG files by stem. When nil it is read from
	// the processed files in TranslationsDir.
	Keys map[string]struct{}
	// MoveTranslations removes TranslationsDir once it is copied.
	MoveTranslations bool
}

// DirResult counts the archived files of one OGG directory.
type DirResult struct {
	Name    string `json:"name"`
	Copied  int    `json:"copied"`
	Skipped int    `json:"skipped"`
}

// Result describes a finished archive.
type Result struct {
	Dir     string      `json:"dir"`
	Version string      `json:"version"`
	Keys    int         `json:"keys"`
	OGG     []DirResult `json:"ogg"`
	Copied  int         `json:"copied"`
}

// Archiver writes archives under Root.
type Archiver struct {
	Root string
}

// Archive copies the run into a new version directory. Missing inputs are
// logged and skipped.
func (a *Archiver) Archive(req Request) (Result, error) {
	if req.Version == "" {
		return Result{}, errors.New("archive: empty version")
	}
	if err := os.MkdirAll(a.Root, 0o755); err != nil {
		return Result{}, fmt.Errorf("archive: %w", err)
	}
	version := NextVersion(a.Root, req.Version)
	res := Result{Dir: filepath.Join(a.Root, version), Version: version}
	if err := os.MkdirAll(res.Dir, 0o755); err != nil {
		return res, fmt.Errorf("archive: %w", err)
	}
	slog.Info("archive: start", "dir", res.Dir)

	keys := req.Keys
	if keys == nil && req.TranslationsDir != "" {
		k, err := locale.Keys(req.TranslationsDir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("archive: keys: %w", err)
		}
		keys = k
	}
	res.Keys = len(keys)

	if req.TranslationsDir != "" {
		if !exists(req.TranslationsDir) {
			slog.Warn("archive: translations not found", "dir", req.TranslationsDir)
		} else {
			if err := CopyTree(req.TranslationsDir, filepath.Join(res.Dir, "Translations")); err != nil {
				return res, fmt.Errorf("archive: translations: %w", err)
			}
			if req.MoveTranslations {
				if err := os.RemoveAll(req.TranslationsDir); err != nil {
					return res, fmt.Errorf("archive: remove translations: %w", err)
				}
			}
		}
	}

	if req.ReferenceDir != "" {
		if !exists(req.ReferenceDir) {
			slog.Warn("archive: reference files not found", "dir", req.ReferenceDir)
		} else if err := CopyTree(req.ReferenceDir, filepath.Join(res.Dir, filepath.Base(req.ReferenceDir))); err != nil {
			return res, fmt.Errorf("archive: reference files: %w", err)
		}
	}

	for _, dir := range req.OGGDirs {
		dr, err := copyOGG(dir, filepath.Join(res.Dir, filepath.Base(dir)), keys)
		if err != nil {
			slog.Warn("archive: ogg directory skipped", "dir", dir, "error", err)
			continue
		}
		slog.Info("archive: copied", "dir", dr.Name, "copied", dr.Copied, "skipped", dr.Skipped)
		res.OGG = append(res.OGG, dr)
		res.Copied += dr.Copied
	}

	slog.Info("archive: done", "dir", res.Dir, "ogg_dirs", len(res.OGG), "files", res.Copied)
	return res, nil
}

// copyOGG copies the .ogg files of src whose stem is in keys.
func copyOGG(src, dst string, keys map[string]struct{}) (DirResult, error) {
	dr := DirResult{Name: filepath.Base(src)}
	entries, err := os.ReadDir(src)
	if err != nil {
		return dr, err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return dr, err
	}
	for _, e := range entries {
		key, ok := strings.CutSuffix(e.Name(), ".ogg")
		if e.IsDir() || !ok {
			continue
		}
		if _, keep := keys[key]; !keep {
			dr.Skipped++
			continue
		}
		if err := CopyFile(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
			return dr, err
		}
		dr.Copied++
	}
	return dr, nil
}

// OGGDirs returns the "*-OGG" directories directly under root, sorted.
func OGGDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), "-OGG") {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// RemoveEmptyDirs removes empty "*-WAV" and "*-OGG" directories under root
// and returns how many were removed.
func RemoveEmptyDirs(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || !(strings.HasSuffix(name, "-WAV") || strings.HasSuffix(name, "-OGG")) {
			continue
		}
		p := filepath.Join(root, name)
		children, err := os.ReadDir(p)
		if err != nil || len(children) > 0 {
			continue
		}
		if err := os.Remove(p); err != nil {
			slog.Warn("archive: remove empty dir failed", "dir", p, "error", err)
			continue
		}
		n++
	}
	return n, nil
}

// CopyTree copies the regular files below src to dst.
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return CopyFile(p, target)
	})
}

// CopyFile copies src to dst keeping the modification time.
func CopyFile(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(dst, f); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
