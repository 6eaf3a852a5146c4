package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aufco/AudioProject-Female/pkg/storage"
	"github.com/natefinch/atomic"
)

// Stats counts what happened to the entries of one language.
//
// For every generated voice WAVMade+WAVSkipped+WAVFailed equals the number of
// non-empty entries, and so does the OGG sum.
type Stats struct {
	TotalEntries int `json:"total_entries" msgpack:"total_entries"`
	WAVMade      int `json:"wav_made" msgpack:"wav_made"`
	WAVSkipped   int `json:"wav_skipped" msgpack:"wav_skipped"`
	WAVFailed    int `json:"wav_failed" msgpack:"wav_failed"`
	OGGMade      int `json:"ogg_made" msgpack:"ogg_made"`
	OGGSkipped   int `json:"ogg_skipped" msgpack:"ogg_skipped"`
	OGGFailed    int `json:"ogg_failed" msgpack:"ogg_failed"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.TotalEntries += o.TotalEntries
	s.WAVMade += o.WAVMade
	s.WAVSkipped += o.WAVSkipped
	s.WAVFailed += o.WAVFailed
	s.OGGMade += o.OGGMade
	s.OGGSkipped += o.OGGSkipped
	s.OGGFailed += o.OGGFailed
}

// Failed is the number of failed steps.
func (s Stats) Failed() int { return s.WAVFailed + s.OGGFailed }

// RunStats aggregates the languages of one run.
type RunStats struct {
	Languages       int   `json:"languages" msgpack:"languages"`
	LanguagesFailed int   `json:"languages_failed" msgpack:"languages_failed"`
	Totals          Stats `json:"totals" msgpack:"totals"`
}

// Fold adds the outcome of one language.
func (r *RunStats) Fold(s Stats, err error) {
	if err != nil {
		r.LanguagesFailed++
		return
	}
	r.Languages++
	r.Totals.Add(s)
}

// Summary renders s the way summary.txt stores it.
func (s Stats) Summary() string {
	var b strings.Builder
	b.WriteString("Language Processing Summary\n")
	b.WriteString(strings.Repeat("=", 30) + "\n\n")
	fmt.Fprintf(&b, "Total entries: %d\n", s.TotalEntries)
	fmt.Fprintf(&b, "WAV files made: %d\n", s.WAVMade)
	fmt.Fprintf(&b, "WAV files skipped: %d\n", s.WAVSkipped)
	fmt.Fprintf(&b, "WAV files failed: %d\n", s.WAVFailed)
	fmt.Fprintf(&b, "OGG files made: %d\n", s.OGGMade)
	fmt.Fprintf(&b, "OGG files skipped: %d\n", s.OGGSkipped)
	fmt.Fprintf(&b, "OGG files failed: %d\n", s.OGGFailed)
	return b.String()
}

// WriteSummary writes summary.txt into dir.
func WriteSummary(dir string, s Stats) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(filepath.Join(dir, storage.SummaryFile), strings.NewReader(s.Summary()))
}
