// Package kv is the key-value layer under the run history.
//
// Keys are hierarchical paths such as Key{"run", "1700000000", "<uuid>"}
// joined with a separator (':' by default) before they reach the backend, so
// a List over Key{"run"} visits every run in encoded key order.
//
// [Badger] persists to disk under the application data directory. [Memory]
// is used by tests.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Key is a hierarchical path. Segments must not contain the separator.
type Key []string

// String joins the segments with ':' for display.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Entry is a key-value pair.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is a key-value store with path-based keys.
type Store interface {
	// Get returns ErrNotFound if key is not present.
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	// Delete does not fail for a missing key.
	Delete(ctx context.Context, key Key) error
	// List visits the entries below prefix in lexicographic order of the
	// encoded key. An empty prefix visits everything.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]
	BatchSet(ctx context.Context, entries []Entry) error
	BatchDelete(ctx context.Context, keys []Key) error
	Close() error
}

// DefaultSeparator joins key segments.
const DefaultSeparator byte = ':'

// Options configures key encoding. A nil *Options is valid.
type Options struct {
	Separator byte
}

func (o *Options) sep() byte {
	if o != nil && o.Separator != 0 {
		return o.Separator
	}
	return DefaultSeparator
}

func (o *Options) encode(k Key) []byte {
	return []byte(strings.Join(k, string(o.sep())))
}

func (o *Options) decode(b []byte) Key {
	return Key(strings.Split(string(b), string(o.sep())))
}

// prefix returns the encoded scan prefix of k. The trailing separator keeps
// "run:1" from matching "run:10".
func (o *Options) prefix(k Key) []byte {
	if len(k) == 0 {
		return nil
	}
	return append(o.encode(k), o.sep())
}
