package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aufco/AudioProject-Female/pkg/locale"
	"github.com/Aufco/AudioProject-Female/pkg/voicematch"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
	"github.com/natefinch/atomic"
)

// Generator produces audio for matched localizations.
type Generator struct {
	Synth      Synthesizer
	Transcoder Transcoder
	// Remote is optional. When set, files already in the remote store are
	// skipped too.
	Remote RemoteChecker
	Layout Layout
	// NoSummary disables summary.txt.
	NoSummary bool
}

// Generate produces audio for every voice of match. With zero voices it
// returns stats that only count the entries.
//
// Per-entry failures are counted, not returned. The error is non-nil only
// when ctx is done, in which case the stats so far are returned as well.
func (g *Generator) Generate(ctx context.Context, unit locale.Unit, match voicematch.MatchResult, skipExisting bool) (Stats, error) {
	keys := spokenKeys(unit)

	vs := match.Voices
	if len(vs) == 0 && !match.Voice.IsZero() {
		vs = []voices.Voice{match.Voice}
	}
	if len(vs) == 0 {
		slog.Warn("pipeline: no voice for language", "locale", unit.InGameCode, "language", match.CanonicalCode)
		return Stats{TotalEntries: len(keys)}, nil
	}

	var total Stats
	for _, v := range vs {
		st, err := g.generateVoice(ctx, unit, keys, v, match.CanonicalCode, skipExisting)
		total.Add(st)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// spokenKeys returns the sorted keys whose text is not blank.
func spokenKeys(unit locale.Unit) []string {
	var keys []string
	for _, k := range unit.SortedKeys() {
		if strings.TrimSpace(unit.Entries[k]) != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (g *Generator) generateVoice(ctx context.Context, unit locale.Unit, keys []string, v voices.Voice, language string, skipExisting bool) (Stats, error) {
	st := Stats{TotalEntries: len(keys)}
	slog.Info("pipeline: generating", "locale", unit.InGameCode, "voice", v.ID, "entries", len(keys))

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		text := unit.Entries[key]

		wavPath := g.Layout.File(v, WAV, key)
		if skipExisting && g.exists(ctx, wavPath, g.Layout.Remote(v, WAV, key)) {
			st.WAVSkipped++
		} else if err := g.makeWAV(ctx, v, language, text, wavPath); err != nil {
			slog.Error("pipeline: wav failed", "voice", v.ID, "key", key, "error", err)
			st.WAVFailed++
			// No WAV, no OGG.
			st.OGGFailed++
			continue
		} else {
			st.WAVMade++
		}

		oggPath := g.Layout.File(v, OGG, key)
		if skipExisting && g.exists(ctx, oggPath, g.Layout.Remote(v, OGG, key)) {
			st.OGGSkipped++
			continue
		}
		if err := g.makeOGG(ctx, wavPath, oggPath); err != nil {
			slog.Error("pipeline: ogg failed", "voice", v.ID, "key", key, "error", err)
			st.OGGFailed++
			continue
		}
		st.OGGMade++
	}

	if !g.NoSummary {
		if err := WriteSummary(g.Layout.Dir(v, OGG), st); err != nil {
			slog.Warn("pipeline: write summary failed", "voice", v.ID, "error", err)
		}
	}
	slog.Info("pipeline: language done",
		"locale", unit.InGameCode,
		"voice", v.ID,
		"wav_made", st.WAVMade,
		"wav_skipped", st.WAVSkipped,
		"wav_failed", st.WAVFailed,
		"ogg_made", st.OGGMade,
		"ogg_skipped", st.OGGSkipped,
		"ogg_failed", st.OGGFailed)
	return st, nil
}

// exists checks the local file first, then the remote store. A remote
// failure counts as missing.
func (g *Generator) exists(ctx context.Context, local, remote string) bool {
	if fileExists(local) {
		return true
	}
	if g.Remote == nil {
		return false
	}
	ok, err := g.Remote.Exists(ctx, remote)
	if err != nil {
		slog.Debug("pipeline: remote check failed", "path", remote, "error", err)
		return false
	}
	return ok
}

func (g *Generator) makeWAV(ctx context.Context, v voices.Voice, language, text, dst string) error {
	data, err := g.Synth.Synthesize(ctx, v, language, text)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSynthesis, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty audio", ErrSynthesis)
	}
	return writeFile(dst, data)
}

func (g *Generator) makeOGG(ctx context.Context, wavPath, dst string) error {
	if !fileExists(wavPath) {
		return fmt.Errorf("%w: wav missing: %s", ErrTranscode, wavPath)
	}
	in, err := os.ReadFile(wavPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTranscode, err)
	}
	out, err := g.Transcoder.Transcode(ctx, in, WAV, OGG)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTranscode, err)
	}
	return writeFile(dst, out)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
