package voices

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"
)

var (
	// ErrNoCatalog is returned when the persisted catalog is missing or empty.
	ErrNoCatalog = errors.New("voices: no voice catalog")

	// ErrQuota is returned by fetchers and synthesizers when the provider
	// rejects a request because a quota is exhausted.
	ErrQuota = errors.New("voices: provider quota exceeded")
)

// Fetcher lists the voices a provider currently offers.
type Fetcher interface {
	ListVoices(ctx context.Context) (Catalog, error)
}

// LoadFile reads a catalog persisted by [SaveFile]. Voices without any
// language code are dropped.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoCatalog, path)
		}
		return nil, fmt.Errorf("voices: read catalog: %w", err)
	}

	var raw Catalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("voices: parse catalog %s: %w", path, err)
	}

	cat := make(Catalog, 0, len(raw))
	for _, v := range raw {
		if len(v.LanguageCodes) == 0 {
			slog.Warn("voices: dropping voice without language codes", "voice", v.ID)
			continue
		}
		cat = append(cat, v)
	}
	if len(cat) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNoCatalog, path)
	}
	return cat, nil
}

// SaveFile writes the catalog as indented JSON. The file is replaced
// atomically so a crash never leaves a truncated catalog behind.
func SaveFile(path string, c Catalog) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("voices: encode catalog: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("voices: write catalog: %w", err)
	}
	return nil
}

// Refresh queries the provider and persists the result at path.
func Refresh(ctx context.Context, f Fetcher, path string) (Catalog, error) {
	c, err := f.ListVoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("voices: refresh: %w", err)
	}
	if len(c) == 0 {
		return nil, fmt.Errorf("%w: provider returned no voices", ErrNoCatalog)
	}
	if err := SaveFile(path, c); err != nil {
		return nil, err
	}
	slog.Info("voices: catalog refreshed", "voices", len(c), "languages", len(c.Languages()), "path", path)
	return c, nil
}
