package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSStore implements Store on a Google Cloud Storage bucket.
type GCSStore struct {
	bucket *gcs.BucketHandle
	prefix string
}

// NewGCS wraps a bucket handle. Pass "" for no key prefix.
func NewGCS(client *gcs.Client, bucket, prefix string) *GCSStore {
	return &GCSStore{bucket: client.Bucket(bucket), prefix: strings.Trim(prefix, "/")}
}

func (s *GCSStore) key(path string) string {
	if s.prefix == "" {
		return path
	}
	return s.prefix + "/" + path
}

func (s *GCSStore) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	r, err := s.bucket.Object(s.key(path)).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, fmt.Errorf("storage: read %s: %w", path, os.ErrNotExist)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Write uploads on Close.
func (s *GCSStore) Write(ctx context.Context, path string) (io.WriteCloser, error) {
	w := s.bucket.Object(s.key(path)).NewWriter(ctx)
	w.ContentType = ContentType(path)
	return w, nil
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	err := s.bucket.Object(s.key(path)).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCSStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.bucket.Object(s.key(path)).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	return false, err
}

func (s *GCSStore) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		it := s.bucket.Objects(ctx, &gcs.Query{Prefix: s.key(prefix)})
		for {
			attrs, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				yield("", fmt.Errorf("storage: list %s: %w", prefix, err))
				return
			}
			name := attrs.Name
			if s.prefix != "" {
				name = strings.TrimPrefix(name, s.prefix+"/")
			}
			if !yield(name, nil) {
				return
			}
		}
	}
}

var _ Store = (*GCSStore)(nil)
