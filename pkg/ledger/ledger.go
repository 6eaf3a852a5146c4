// Package ledger keeps the history of pipeline runs in a kv store.
//
// Key layout:
//
//	run:{started_ns}:{id}  → msgpack-encoded Record
//	rid:{id}               → started_ns (reverse index)
//
// The zero-padded timestamp makes lexicographic key order chronological.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/Aufco/AudioProject-Female/pkg/kv"
	"github.com/Aufco/AudioProject-Female/pkg/pipeline"
	"github.com/Aufco/AudioProject-Female/pkg/voicematch"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotFound is returned for an unknown run id.
var ErrNotFound = errors.New("ledger: run not found")

// Selection is one generated language of a run.
type Selection struct {
	InGameCode   string         `msgpack:"in_game_code" json:"in_game_code"`
	LanguageCode string         `msgpack:"language_code" json:"language_code"`
	VoiceID      string         `msgpack:"voice_id" json:"voice_id"`
	Gender       string         `msgpack:"gender" json:"gender"`
	Stats        pipeline.Stats `msgpack:"stats" json:"stats"`
	Error        string         `msgpack:"error,omitempty" json:"error,omitempty"`
}

// Record describes one run.
type Record struct {
	ID         string            `msgpack:"id" json:"id"`
	Version    string            `msgpack:"version" json:"version"`
	Provider   string            `msgpack:"provider,omitempty" json:"provider,omitempty"`
	StartedAt  time.Time         `msgpack:"started_at" json:"started_at"`
	FinishedAt time.Time         `msgpack:"finished_at" json:"finished_at"`
	Selections []Selection       `msgpack:"selections" json:"selections"`
	Misses     []voicematch.Miss `msgpack:"misses" json:"misses"`
	Totals     pipeline.RunStats `msgpack:"totals" json:"totals"`
	ArchiveDir string            `msgpack:"archive_dir,omitempty" json:"archive_dir,omitempty"`
}

// Ledger stores run records.
type Ledger struct {
	store kv.Store
}

// New returns a ledger over store.
func New(store kv.Store) *Ledger {
	return &Ledger{store: store}
}

func runKey(startedNs int64, id string) kv.Key {
	return kv.Key{"run", fmt.Sprintf("%020d", startedNs), id}
}

// Save stores r, assigning an id and start time when missing. Saving a
// record again overwrites it.
func (l *Ledger) Save(ctx context.Context, r *Record) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	data, err := msgpack.Marshal(r)
	if err != nil {
		return fmt.Errorf("ledger: marshal: %w", err)
	}
	ts := r.StartedAt.UnixNano()
	return l.store.BatchSet(ctx, []kv.Entry{
		{Key: runKey(ts, r.ID), Value: data},
		{Key: kv.Key{"rid", r.ID}, Value: []byte(strconv.FormatInt(ts, 10))},
	})
}

// Get returns the run with id.
func (l *Ledger) Get(ctx context.Context, id string) (Record, error) {
	raw, err := l.store.Get(ctx, kv.Key{"rid", id})
	if errors.Is(err, kv.ErrNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	ts, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("ledger: bad index for %s: %w", id, err)
	}
	data, err := l.store.Get(ctx, runKey(ts, id))
	if errors.Is(err, kv.ErrNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	var r Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("ledger: unmarshal %s: %w", id, err)
	}
	return r, nil
}

// List returns every run, newest first.
func (l *Ledger) List(ctx context.Context) ([]Record, error) {
	var out []Record
	for e, err := range l.store.List(ctx, kv.Key{"run"}) {
		if err != nil {
			return nil, err
		}
		var r Record
		if err := msgpack.Unmarshal(e.Value, &r); err != nil {
			return nil, fmt.Errorf("ledger: unmarshal %s: %w", e.Key, err)
		}
		out = append(out, r)
	}
	slices.Reverse(out)
	return out, nil
}

// Latest returns the newest run.
func (l *Ledger) Latest(ctx context.Context) (Record, error) {
	runs, err := l.List(ctx)
	if err != nil {
		return Record{}, err
	}
	if len(runs) == 0 {
		return Record{}, ErrNotFound
	}
	return runs[0], nil
}

// Prune keeps the newest keep runs and deletes the rest. It returns the
// number of deleted runs.
func (l *Ledger) Prune(ctx context.Context, keep int) (int, error) {
	runs, err := l.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(runs) <= keep {
		return 0, nil
	}
	var keys []kv.Key
	for _, r := range runs[max(keep, 0):] {
		keys = append(keys, runKey(r.StartedAt.UnixNano(), r.ID), kv.Key{"rid", r.ID})
	}
	if err := l.store.BatchDelete(ctx, keys); err != nil {
		return 0, err
	}
	return len(keys) / 2, nil
}
