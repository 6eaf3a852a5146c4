package locale

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCodeFromFile(t *testing.T) {
	tests := map[string]string{
		"af_za.json":                "af_za",
		"/x/y/af_za_processed.json": "af_za",
		"en_us_processed.json":      "en_us",
		"lol_us":                    "lol_us",
	}
	for in, want := range tests {
		if got := CodeFromFile(in); got != want {
			t.Fatalf("CodeFromFile(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilter(t *testing.T) {
	reference := map[string]struct{}{
		"item.minecraft.apple":  {},
		"block.minecraft.stone": {},
		"biome.minecraft.beach": {},
	}
	entries := map[string]string{
		"item.minecraft.apple":  "Appel",
		"block.minecraft.stone": "Klip",
		"gui.done":              "Klaar",
		"entity.minecraft.pig":  "Vark",
	}
	kept, missing := Filter(entries, reference)
	want := map[string]string{"item.minecraft.apple": "Appel", "block.minecraft.stone": "Klip"}
	if !reflect.DeepEqual(kept, want) {
		t.Fatalf("kept = %v, want %v", kept, want)
	}
	if !reflect.DeepEqual(missing, []string{"biome.minecraft.beach"}) {
		t.Fatalf("missing = %v", missing)
	}
}

func TestPreprocess(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "Translations")
	ref := filepath.Join(t.TempDir(), "en_us_processed.json")

	writeJSON(t, ref, map[string]string{
		"item.minecraft.apple":  "Apple",
		"block.minecraft.stone": "Stone",
	})
	writeJSON(t, filepath.Join(in, "af_za.json"), map[string]string{
		"item.minecraft.apple":  "Appel",
		"block.minecraft.stone": "Klip",
		"gui.done":              "Klaar",
	})
	writeJSON(t, filepath.Join(in, "de_de.json"), map[string]string{
		"item.minecraft.apple": "Apfel <grün>",
	})
	if err := os.WriteFile(filepath.Join(in, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := Preprocess(in, out, ref)
	if err != nil {
		t.Fatal(err)
	}
	if st.FilesProcessed != 2 || st.FilesFailed != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if st.EntriesKept != 3 || st.MissingKeys != 1 {
		t.Fatalf("kept %d missing %d", st.EntriesKept, st.MissingKeys)
	}

	files, err := ListUnits(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("ListUnits = %v", files)
	}
	u, err := LoadUnit(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if u.InGameCode != "af_za" {
		t.Fatalf("first unit = %s", u.InGameCode)
	}
	if !reflect.DeepEqual(u.SortedKeys(), []string{"block.minecraft.stone", "item.minecraft.apple"}) {
		t.Fatalf("keys = %v", u.SortedKeys())
	}

	raw, err := os.ReadFile(filepath.Join(out, "de_de_processed.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "Apfel <grün>") {
		t.Fatalf("non-ASCII and markup must be written verbatim: %s", raw)
	}
	if !strings.Contains(string(raw), "\n  \"item") {
		t.Fatalf("output should be indented: %s", raw)
	}

	keys, err := Keys(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("Keys = %v", keys)
	}
}

func TestPreprocessMissingReference(t *testing.T) {
	_, err := Preprocess(t.TempDir(), t.TempDir(), filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}
