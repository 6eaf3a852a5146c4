package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Aufco/AudioProject-Female/pkg/locale"
	"github.com/Aufco/AudioProject-Female/pkg/voicematch"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

type fakeSynth struct {
	calls     int
	fail      map[string]bool
	languages []string
}

func (f *fakeSynth) Synthesize(_ context.Context, v voices.Voice, language, text string) ([]byte, error) {
	f.calls++
	f.languages = append(f.languages, language)
	if f.fail[text] {
		return nil, errors.New("quota exceeded")
	}
	return []byte("RIFF:" + v.ID + ":" + text), nil
}

type fakeTranscoder struct {
	calls int
	fail  bool
}

func (f *fakeTranscoder) Transcode(_ context.Context, in []byte, from, to Format) ([]byte, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("ffmpeg exited 1")
	}
	return append([]byte(string(to)+":"), in...), nil
}

type fakeRemote struct {
	paths map[string]bool
	err   error
}

func (f fakeRemote) Exists(_ context.Context, p string) (bool, error) {
	return f.paths[p], f.err
}

var afVoice = voices.Voice{ID: "af-ZA-Standard-A", LanguageCodes: []string{"af-ZA"}, Gender: voices.Female, SampleRateHz: 24000}

func afMatch() voicematch.MatchResult {
	return voicematch.MatchResult{
		InGameCode:    "af_za",
		CanonicalCode: "af-ZA",
		Voice:         afVoice,
		Voices:        []voices.Voice{afVoice},
	}
}

func newGenerator(t *testing.T) (*Generator, *fakeSynth, *fakeTranscoder) {
	t.Helper()
	s := &fakeSynth{}
	tc := &fakeTranscoder{}
	return &Generator{Synth: s, Transcoder: tc, Layout: Layout{Root: t.TempDir(), RemotePrefix: "AudioProject-Female"}}, s, tc
}

func checkConservation(t *testing.T, st Stats) {
	t.Helper()
	if st.WAVMade+st.WAVSkipped+st.WAVFailed != st.TotalEntries {
		t.Fatalf("wav counts do not add up: %+v", st)
	}
	if st.OGGMade+st.OGGSkipped+st.OGGFailed != st.TotalEntries {
		t.Fatalf("ogg counts do not add up: %+v", st)
	}
}

func TestGenerateAfrikaans(t *testing.T) {
	g, synth, _ := newGenerator(t)
	unit := locale.Unit{InGameCode: "af_za", Entries: map[string]string{
		"item.minecraft.apple":  "Appel",
		"block.minecraft.stone": "Klip",
	}}

	st, err := g.Generate(context.Background(), unit, afMatch(), true)
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{TotalEntries: 2, WAVMade: 2, OGGMade: 2}
	if st != want {
		t.Fatalf("stats = %+v, want %+v", st, want)
	}
	if synth.calls != 2 {
		t.Fatalf("synth calls = %d", synth.calls)
	}
	for _, lang := range synth.languages {
		if lang != "af-ZA" {
			t.Fatalf("synthesized in %q, want the matched af-ZA", lang)
		}
	}

	root := g.Layout.Root
	for _, p := range []string{
		"af-ZA-Standard-A-female-WAV/item.minecraft.apple.wav",
		"af-ZA-Standard-A-female-WAV/block.minecraft.stone.wav",
		"af-ZA-Standard-A-female-OGG/item.minecraft.apple.ogg",
		"af-ZA-Standard-A-female-OGG/block.minecraft.stone.ogg",
		"af-ZA-Standard-A-female-OGG/summary.txt",
	} {
		if _, err := os.Stat(filepath.Join(root, p)); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}
	ogg, err := os.ReadFile(filepath.Join(root, "af-ZA-Standard-A-female-OGG/item.minecraft.apple.ogg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(ogg) != "ogg:RIFF:af-ZA-Standard-A:Appel" {
		t.Fatalf("ogg content = %q", ogg)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	g, synth, tc := newGenerator(t)
	unit := locale.Unit{InGameCode: "af_za", Entries: map[string]string{"a": "een", "b": "twee", "c": "drie"}}
	ctx := context.Background()

	if _, err := g.Generate(ctx, unit, afMatch(), true); err != nil {
		t.Fatal(err)
	}
	synthCalls, tcCalls := synth.calls, tc.calls

	st, err := g.Generate(ctx, unit, afMatch(), true)
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{TotalEntries: 3, WAVSkipped: 3, OGGSkipped: 3}
	if st != want {
		t.Fatalf("second run = %+v, want %+v", st, want)
	}
	if synth.calls != synthCalls || tc.calls != tcCalls {
		t.Fatal("second run must not call the synthesizer or transcoder")
	}
}

func TestGenerateWithoutSkipRegenerates(t *testing.T) {
	g, synth, _ := newGenerator(t)
	unit := locale.Unit{Entries: map[string]string{"a": "een"}}
	ctx := context.Background()
	for range 2 {
		if _, err := g.Generate(ctx, unit, afMatch(), false); err != nil {
			t.Fatal(err)
		}
	}
	if synth.calls != 2 {
		t.Fatalf("synth calls = %d, want 2", synth.calls)
	}
}

func TestGenerateWhitespaceExcluded(t *testing.T) {
	g, synth, _ := newGenerator(t)
	unit := locale.Unit{Entries: map[string]string{"a": "een", "b": "   ", "c": "", "d": "\t\n"}}

	st, err := g.Generate(context.Background(), unit, afMatch(), true)
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalEntries != 1 || st.WAVMade != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if synth.calls != 1 {
		t.Fatalf("synth calls = %d", synth.calls)
	}
	checkConservation(t, st)
}

func TestGenerateSynthesisFailure(t *testing.T) {
	g, synth, tc := newGenerator(t)
	synth.fail = map[string]bool{"twee": true}
	unit := locale.Unit{Entries: map[string]string{"a": "een", "b": "twee"}}

	st, err := g.Generate(context.Background(), unit, afMatch(), true)
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{TotalEntries: 2, WAVMade: 1, WAVFailed: 1, OGGMade: 1, OGGFailed: 1}
	if st != want {
		t.Fatalf("stats = %+v, want %+v", st, want)
	}
	if tc.calls != 1 {
		t.Fatalf("transcoder calls = %d, want 1", tc.calls)
	}
	checkConservation(t, st)
}

func TestGenerateTranscodeFailureResumes(t *testing.T) {
	g, synth, tc := newGenerator(t)
	unit := locale.Unit{Entries: map[string]string{"a": "een"}}
	ctx := context.Background()

	tc.fail = true
	st, err := g.Generate(ctx, unit, afMatch(), true)
	if err != nil {
		t.Fatal(err)
	}
	if st.WAVMade != 1 || st.OGGFailed != 1 {
		t.Fatalf("first run = %+v", st)
	}

	tc.fail = false
	st, err = g.Generate(ctx, unit, afMatch(), true)
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{TotalEntries: 1, WAVSkipped: 1, OGGMade: 1}
	if st != want {
		t.Fatalf("second run = %+v, want %+v", st, want)
	}
	if synth.calls != 1 {
		t.Fatalf("synth calls = %d, want 1", synth.calls)
	}
}

func TestGenerateRemoteSkip(t *testing.T) {
	g, synth, _ := newGenerator(t)
	g.Remote = fakeRemote{paths: map[string]bool{
		"AudioProject-Female/af-ZA-Standard-A-female-WAV/a.wav": true,
		"AudioProject-Female/af-ZA-Standard-A-female-OGG/a.ogg": true,
	}}
	unit := locale.Unit{Entries: map[string]string{"a": "een", "b": "twee"}}

	st, err := g.Generate(context.Background(), unit, afMatch(), true)
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{TotalEntries: 2, WAVMade: 1, WAVSkipped: 1, OGGMade: 1, OGGSkipped: 1}
	if st != want {
		t.Fatalf("stats = %+v, want %+v", st, want)
	}
	if synth.calls != 1 {
		t.Fatalf("synth calls = %d", synth.calls)
	}
}

func TestGenerateRemoteErrorMeansMissing(t *testing.T) {
	g, synth, _ := newGenerator(t)
	g.Remote = fakeRemote{err: errors.New("permission denied")}
	unit := locale.Unit{Entries: map[string]string{"a": "een"}}

	st, err := g.Generate(context.Background(), unit, afMatch(), true)
	if err != nil {
		t.Fatal(err)
	}
	if st.WAVMade != 1 || synth.calls != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestGenerateNoVoice(t *testing.T) {
	g, synth, _ := newGenerator(t)
	unit := locale.Unit{Entries: map[string]string{"a": "een", "b": " "}}

	st, err := g.Generate(context.Background(), unit, voicematch.MatchResult{InGameCode: "xx_yy"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if st != (Stats{TotalEntries: 1}) {
		t.Fatalf("stats = %+v", st)
	}
	if synth.calls != 0 {
		t.Fatal("no voice means no synthesis")
	}
}

func TestGenerateCanceled(t *testing.T) {
	g, synth, _ := newGenerator(t)
	unit := locale.Unit{Entries: map[string]string{"a": "een"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, unit, afMatch(), true)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if synth.calls != 0 {
		t.Fatal("canceled run must not synthesize")
	}
}

func TestSummary(t *testing.T) {
	dir := t.TempDir()
	st := Stats{TotalEntries: 3, WAVMade: 2, WAVSkipped: 1, OGGMade: 1, OGGSkipped: 1, OGGFailed: 1}
	if err := WriteSummary(dir, st); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	if err != nil {
		t.Fatal(err)
	}
	want := "Language Processing Summary\n" + strings.Repeat("=", 30) + "\n\n" +
		"Total entries: 3\n" +
		"WAV files made: 2\n" +
		"WAV files skipped: 1\n" +
		"WAV files failed: 0\n" +
		"OGG files made: 1\n" +
		"OGG files skipped: 1\n" +
		"OGG files failed: 1\n"
	if string(data) != want {
		t.Fatalf("summary = %q", data)
	}
}

func TestRunStatsFold(t *testing.T) {
	var r RunStats
	r.Fold(Stats{TotalEntries: 2, WAVMade: 2}, nil)
	r.Fold(Stats{TotalEntries: 5}, context.Canceled)
	r.Fold(Stats{TotalEntries: 1, WAVSkipped: 1}, nil)
	if r.Languages != 2 || r.LanguagesFailed != 1 {
		t.Fatalf("run = %+v", r)
	}
	if r.Totals.TotalEntries != 3 || r.Totals.WAVMade != 2 || r.Totals.WAVSkipped != 1 {
		t.Fatalf("totals = %+v", r.Totals)
	}
}
