// Package storage abstracts where generated audio is kept durably: the local
// filesystem, a Google Cloud Storage bucket, or any S3-compatible object store.
//
// Paths are forward-slash separated and relative to the store root. Remote
// layout for audio is "{prefix}/{voiceId}-{gender}-{FORMAT}/{file}", see
// [Bucket].
package storage

import (
	"context"
	"fmt"
	"io"
	"iter"
	"path"
	"strings"
)

// FileStore is a minimal interface for file-oriented storage.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading.
	// If the file does not exist, an error wrapping os.ErrNotExist is returned.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing, truncating it if it exists.
	// The caller must close the returned WriteCloser to flush data.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// Lister enumerates stored files.
type Lister interface {
	// List yields the path of every file whose path starts with prefix,
	// in lexicographic order.
	List(ctx context.Context, prefix string) iter.Seq2[string, error]
}

// Store is a FileStore that can also be listed.
type Store interface {
	FileStore
	Lister
}

// Put copies r into the named file and returns the number of bytes written.
func Put(ctx context.Context, s FileStore, path string, r io.Reader) (int64, error) {
	w, err := s.Write(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("storage: put %s: %w", path, err)
	}
	n, err := io.Copy(w, r)
	if err != nil {
		w.Close()
		return n, fmt.Errorf("storage: put %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("storage: put %s: %w", path, err)
	}
	return n, nil
}

// ContentType returns the MIME type stored with an object.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".json":
		return "application/json"
	}
	return "application/octet-stream"
}
