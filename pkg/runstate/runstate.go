// Package runstate decides which languages already have generated audio in
// the durable store, so repeated runs do not regenerate them or spend a voice
// on them.
//
// A language is complete for a gender when any directory named like
// "{code}-*-{gender}-*" exists. Existence is the only signal; the number of
// files inside is not checked.
package runstate

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/Aufco/AudioProject-Female/pkg/storage"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

// Inspector lists the top-level voice directories of a durable store.
type Inspector interface {
	ListDirs(ctx context.Context) ([]string, error)
}

// LocalInspector lists directories under Root.
type LocalInspector struct {
	Root string
}

func (l LocalInspector) ListDirs(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}

// RemoteInspector lists the first path segment of objects under Prefix.
type RemoteInspector struct {
	Store  storage.Lister
	Prefix string
}

func (r RemoteInspector) ListDirs(ctx context.Context) ([]string, error) {
	return storage.Dirs(ctx, r.Store, r.Prefix)
}

// Tracker answers completion queries from one cached listing per run.
type Tracker struct {
	Inspectors []Inspector

	once sync.Once
	dirs []string
}

// NewTracker returns a tracker that consults every inspector. A language is
// complete if any of them holds its output.
func NewTracker(inspectors ...Inspector) *Tracker {
	return &Tracker{Inspectors: inspectors}
}

func (t *Tracker) load(ctx context.Context) {
	t.once.Do(func() {
		for _, in := range t.Inspectors {
			dirs, err := in.ListDirs(ctx)
			if err != nil {
				// A failed listing counts as nothing complete.
				slog.Warn("runstate: list failed, assuming nothing is complete", "error", err)
				continue
			}
			t.dirs = append(t.dirs, dirs...)
		}
	})
}

// IsComplete reports whether output for code and g exists.
func (t *Tracker) IsComplete(ctx context.Context, code string, g voices.Gender) bool {
	t.load(ctx)
	for _, d := range t.dirs {
		if voices.HasOutputFor(d, code, g) {
			return true
		}
	}
	return false
}

// Dirs returns the cached listing.
func (t *Tracker) Dirs(ctx context.Context) []string {
	t.load(ctx)
	return append([]string(nil), t.dirs...)
}
