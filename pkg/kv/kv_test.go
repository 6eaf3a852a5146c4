package kv_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/Aufco/AudioProject-Female/pkg/kv"
)

type factory func(t *testing.T, opts *kv.Options) kv.Store

func memoryStore(t *testing.T, opts *kv.Options) kv.Store {
	t.Helper()
	s := kv.NewMemory(opts)
	t.Cleanup(func() { s.Close() })
	return s
}

func badgerStore(t *testing.T, opts *kv.Options) kv.Store {
	t.Helper()
	s, err := kv.NewBadger(kv.BadgerOptions{Options: opts, InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func forEachStore(t *testing.T, test func(t *testing.T, newStore factory)) {
	t.Run("memory", func(t *testing.T) { test(t, memoryStore) })
	t.Run("badger", func(t *testing.T) { test(t, badgerStore) })
}

func listKeys(t *testing.T, s kv.Store, prefix kv.Key) []string {
	t.Helper()
	var keys []string
	for e, err := range s.List(context.Background(), prefix) {
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		keys = append(keys, e.Key.String())
	}
	return keys
}

func TestGetSetDelete(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t, nil)
		key := kv.Key{"run", "1700000000", "a"}

		if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("Get missing = %v, want ErrNotFound", err)
		}
		if err := s.Set(ctx, key, []byte("v1")); err != nil {
			t.Fatal(err)
		}
		if err := s.Set(ctx, key, []byte("v2")); err != nil {
			t.Fatal(err)
		}
		got, err := s.Get(ctx, key)
		if err != nil || string(got) != "v2" {
			t.Fatalf("Get = %q, %v", got, err)
		}
		if err := s.Delete(ctx, key); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("Get after delete = %v", err)
		}
		if err := s.Delete(ctx, kv.Key{"no", "such"}); err != nil {
			t.Fatalf("Delete missing: %v", err)
		}
	})
}

func TestListPrefix(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t, nil)
		for _, k := range []kv.Key{
			{"run", "2", "b"},
			{"run", "1", "a"},
			{"run", "10", "c"},
			{"runs", "x"},
			{"meta", "latest"},
		} {
			if err := s.Set(ctx, k, []byte(k.String())); err != nil {
				t.Fatal(err)
			}
		}

		got := listKeys(t, s, kv.Key{"run"})
		want := []string{"run:10:c", "run:1:a", "run:2:b"}
		if !slices.Equal(got, want) {
			t.Fatalf("List(run) = %v, want %v", got, want)
		}
		if got := listKeys(t, s, kv.Key{"run", "1"}); !slices.Equal(got, []string{"run:1:a"}) {
			t.Fatalf("List(run:1) = %v", got)
		}
		if got := listKeys(t, s, nil); len(got) != 5 {
			t.Fatalf("List(all) = %v", got)
		}
	})
}

func TestListStopsEarly(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t, nil)
		for _, id := range []string{"a", "b", "c"} {
			if err := s.Set(ctx, kv.Key{"run", id}, nil); err != nil {
				t.Fatal(err)
			}
		}
		n := 0
		for range s.List(ctx, kv.Key{"run"}) {
			n++
			if n == 2 {
				break
			}
		}
		if n != 2 {
			t.Fatalf("visited %d", n)
		}
	})
}

func TestBatch(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t, nil)
		entries := []kv.Entry{
			{Key: kv.Key{"run", "1"}, Value: []byte("a")},
			{Key: kv.Key{"run", "2"}, Value: []byte("b")},
			{Key: kv.Key{"meta", "latest"}, Value: []byte("2")},
		}
		if err := s.BatchSet(ctx, entries); err != nil {
			t.Fatal(err)
		}
		if got := listKeys(t, s, nil); len(got) != 3 {
			t.Fatalf("after BatchSet = %v", got)
		}
		if err := s.BatchDelete(ctx, []kv.Key{{"run", "1"}, {"run", "2"}}); err != nil {
			t.Fatal(err)
		}
		if got := listKeys(t, s, nil); !slices.Equal(got, []string{"meta:latest"}) {
			t.Fatalf("after BatchDelete = %v", got)
		}
	})
}

func TestCustomSeparator(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t, &kv.Options{Separator: '/'})
		if err := s.Set(ctx, kv.Key{"run", "1.21.4:beta"}, []byte("x")); err != nil {
			t.Fatal(err)
		}
		var got []kv.Key
		for e, err := range s.List(ctx, kv.Key{"run"}) {
			if err != nil {
				t.Fatal(err)
			}
			got = append(got, e.Key)
		}
		if len(got) != 1 || len(got[0]) != 2 || got[0][1] != "1.21.4:beta" {
			t.Fatalf("keys = %v", got)
		}
	})
}

func TestMemoryValueIsolation(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory(nil)
	val := []byte("abc")
	if err := s.Set(ctx, kv.Key{"k"}, val); err != nil {
		t.Fatal(err)
	}
	val[0] = 'X'
	got, _ := s.Get(ctx, kv.Key{"k"})
	if string(got) != "abc" {
		t.Fatalf("stored value changed to %q", got)
	}
	got[1] = 'Y'
	again, _ := s.Get(ctx, kv.Key{"k"})
	if string(again) != "abc" {
		t.Fatalf("returned value aliases the store: %q", again)
	}
}

func TestBadgerDirRequired(t *testing.T) {
	if _, err := kv.NewBadger(kv.BadgerOptions{}); err == nil {
		t.Fatal("expected error without Dir")
	}
}

func TestBadgerOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, kv.Key{"run", "1"}, []byte("persisted")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Get(ctx, kv.Key{"run", "1"})
	if err != nil || string(got) != "persisted" {
		t.Fatalf("Get = %q, %v", got, err)
	}
}
