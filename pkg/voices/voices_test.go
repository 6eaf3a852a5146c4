package voices

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestTiersOf(t *testing.T) {
	tests := []struct {
		id   string
		tier int
		kind string
	}{
		{"en-US-Chirp3-HD-Aoede", 1, "Chirp3-HD"},
		{"en-US-Chirp-HD-F", 2, "Chirp-HD"},
		{"en-US-Neural2-C", 3, "Neural2"},
		{"en-US-WaveNet-F", 4, "WaveNet"},
		{"en-US-Wavenet-F", 4, "Wavenet"},
		{"af-ZA-Standard-A", LowestTier, StandardKind},
		{"en-US-Studio-O", LowestTier, StandardKind},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := DefaultTiers.Of(tt.id); got != tt.tier {
				t.Fatalf("Of(%q) = %d, want %d", tt.id, got, tt.tier)
			}
			if got := DefaultTiers.Kind(tt.id); got != tt.kind {
				t.Fatalf("Kind(%q) = %q, want %q", tt.id, got, tt.kind)
			}
		})
	}
}

func TestTiersFirstRuleWins(t *testing.T) {
	tiers := Tiers{{Marker: "HD", Tier: 2}, {Marker: "Chirp3-HD", Tier: 1}}
	if got := tiers.Of("en-US-Chirp3-HD-Aoede"); got != 2 {
		t.Fatalf("Of = %d, want 2 (first rule wins)", got)
	}
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		in   string
		want Gender
		err  bool
	}{
		{"FEMALE", Female, false},
		{"female", Female, false},
		{"MALE", Male, false},
		{"NEUTRAL", Unspecified, false},
		{"SSML_VOICE_GENDER_UNSPECIFIED", Unspecified, false},
		{"", Unspecified, false},
		{"robot", Unspecified, true},
	}
	for _, tt := range tests {
		got, err := ParseGender(tt.in)
		if (err != nil) != tt.err {
			t.Fatalf("ParseGender(%q) err = %v, want err %v", tt.in, err, tt.err)
		}
		if got != tt.want {
			t.Fatalf("ParseGender(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if Female.Dir() != "female" || Male.Dir() != "male" || Unspecified.Dir() != "neutral" {
		t.Fatal("unexpected Dir() spelling")
	}
}

func TestCatalogLookups(t *testing.T) {
	c := Catalog{
		{ID: "af-ZA-Standard-A", LanguageCodes: []string{"af-ZA"}, Gender: Female},
		{ID: "en-US-Neural2-C", LanguageCodes: []string{"en-US"}, Gender: Female},
		{ID: "en-US-Neural2-D", LanguageCodes: []string{"en-US"}, Gender: Male},
		{ID: "cmn-CN-Standard-A", LanguageCodes: []string{"cmn-CN", "zh-CN"}, Gender: Female},
	}

	want := []string{"af-ZA", "en-US", "cmn-CN", "zh-CN"}
	if got := c.Languages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Languages() = %v, want %v", got, want)
	}

	if v, ok := c.Find("en-US-Neural2-D"); !ok || v.Gender != Male {
		t.Fatalf("Find = %+v, %v", v, ok)
	}
	if _, ok := c.Find("missing"); ok {
		t.Fatal("Find should miss unknown id")
	}

	if got := c.ForLanguage("zh-CN"); len(got) != 1 || got[0].ID != "cmn-CN-Standard-A" {
		t.Fatalf("ForLanguage(zh-CN) = %v", got)
	}
	if got := c.ForLanguage("en-us"); len(got) != 0 {
		t.Fatalf("ForLanguage must compare exactly, got %v", got)
	}
}

type stubFetcher struct {
	cat Catalog
	err error
}

func (f stubFetcher) ListVoices(context.Context) (Catalog, error) { return f.cat, f.err }

func TestRefreshSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voices.json")
	cat := Catalog{
		{ID: "af-ZA-Standard-A", LanguageCodes: []string{"af-ZA"}, Gender: Female, SampleRateHz: 24000},
	}

	got, err := Refresh(context.Background(), stubFetcher{cat: cat}, path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, cat) {
		t.Fatalf("Refresh = %v", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"name"`, `"language_codes"`, `"ssml_gender": "FEMALE"`, `"natural_sample_rate_hertz"`} {
		if !strings.Contains(string(data), field) {
			t.Fatalf("persisted catalog missing %s:\n%s", field, data)
		}
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, cat) {
		t.Fatalf("LoadFile = %v, want %v", loaded, cat)
	}
}

func TestRefreshQuota(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voices.json")
	_, err := Refresh(context.Background(), stubFetcher{err: ErrQuota}, path)
	if !errors.Is(err, ErrQuota) {
		t.Fatalf("err = %v, want ErrQuota", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("catalog must not be written on failure")
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrNoCatalog) {
		t.Fatalf("err = %v, want ErrNoCatalog", err)
	}
}

func TestLoadFileDropsVoicesWithoutLanguages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voices.json")
	data := `[
  {"name": "x-Standard-A", "language_codes": [], "ssml_gender": "FEMALE", "natural_sample_rate_hertz": 24000},
  {"name": "af-ZA-Standard-A", "language_codes": ["af-ZA"], "ssml_gender": "FEMALE", "natural_sample_rate_hertz": 24000}
]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cat) != 1 || cat[0].ID != "af-ZA-Standard-A" {
		t.Fatalf("LoadFile = %v", cat)
	}
}

func TestDirName(t *testing.T) {
	name := DirName("af-ZA-Standard-A", Female, "wav")
	if name != "af-ZA-Standard-A-female-WAV" {
		t.Fatalf("DirName = %q", name)
	}
	id, g, format, ok := ParseDirName(name)
	if !ok || id != "af-ZA-Standard-A" || g != Female || format != "WAV" {
		t.Fatalf("ParseDirName = %q %v %q %v", id, g, format, ok)
	}
	if _, g, _, ok := ParseDirName("de-DE-WaveNet-B-male-OGG"); !ok || g != Male {
		t.Fatalf("ParseDirName male = %v %v", g, ok)
	}
	for _, bad := range []string{"BucketLogs", "female-WAV", "af-ZA-Standard-A-WAV", "x-female-"} {
		if _, _, _, ok := ParseDirName(bad); ok {
			t.Fatalf("ParseDirName(%q) should fail", bad)
		}
	}
}

func TestHasOutputFor(t *testing.T) {
	tests := []struct {
		dir  string
		code string
		g    Gender
		want bool
	}{
		{"af-ZA-Standard-A-female-OGG", "af-ZA", Female, true},
		{"af-ZA-Standard-A-female-WAV", "af-ZA", Male, false},
		{"af-ZA-Standard-B-male-WAV", "af-ZA", Male, true},
		{"af-ZA-female-WAV", "af-ZA", Female, false},
		{"cmn-CN-Standard-A-female-OGG", "cmn-CN", Female, true},
	}
	for _, tt := range tests {
		if got := HasOutputFor(tt.dir, tt.code, tt.g); got != tt.want {
			t.Fatalf("HasOutputFor(%q, %q, %v) = %v, want %v", tt.dir, tt.code, tt.g, got, tt.want)
		}
	}
}
