// Package report writes the per-run language table and compares earlier
// voice selections with what the current tier rules would pick.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Aufco/AudioProject-Female/pkg/voicematch"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
	"github.com/natefinch/atomic"
)

// FileName is the conventional name of the language table.
const FileName = "language_table.csv"

// Column headers of the language table.
const (
	ColLocale       = "Locale"
	ColDisplayName  = "Name"
	ColLanguage     = "Language"
	ColISOCode      = "ISO code"
	ColLanguageCode = "Language code"
	ColVoiceName    = "Voice name"
	ColVoiceType    = "Voice type"
	ColGender       = "Gender"
	ColFemale       = "Female"
	ColComplete     = "Complete"
)

// Header is the column order written by WriteCSV.
var Header = []string{
	ColLocale, ColDisplayName, ColLanguage, ColISOCode,
	ColLanguageCode, ColVoiceName, ColVoiceType, ColGender, ColFemale, ColComplete,
}

// ErrMissingColumn is returned by ReadCSV when a required column is absent.
var ErrMissingColumn = errors.New("report: missing column")

// Row is one language/voice pair of a run.
type Row struct {
	Locale          string `json:"locale"`
	DisplayName     string `json:"display_name"`
	DisplayLanguage string `json:"display_language"`
	ISOCode         string `json:"iso_code"`
	LanguageCode    string `json:"language_code"`
	VoiceName       string `json:"voice_name"`
	VoiceType       string `json:"voice_type"`
	Gender          string `json:"gender"`
	Female          bool   `json:"female"`
	Complete        bool   `json:"complete,omitempty"`
}

// Rows expands matches into one row per voice, sorted by locale.
func Rows(matches []voicematch.MatchResult, tiers voices.Tiers) []Row {
	var rows []Row
	for _, m := range matches {
		vs := m.Voices
		if len(vs) == 0 && !m.Voice.IsZero() {
			vs = []voices.Voice{m.Voice}
		}
		for _, v := range vs {
			rows = append(rows, Row{
				Locale:          m.InGameCode,
				DisplayName:     m.Record.DisplayName,
				DisplayLanguage: m.Record.DisplayLanguage,
				ISOCode:         m.ISOCode,
				LanguageCode:    m.CanonicalCode,
				VoiceName:       v.ID,
				VoiceType:       tiers.Kind(v.ID),
				Gender:          v.Gender.String(),
				Female:          v.Gender == voices.Female,
				Complete:        m.Complete,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Locale < rows[j].Locale })
	return rows
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (r Row) record() []string {
	return []string{
		r.Locale, r.DisplayName, r.DisplayLanguage, r.ISOCode,
		r.LanguageCode, r.VoiceName, r.VoiceType, r.Gender, yesNo(r.Female), yesNo(r.Complete),
	}
}

// Encode writes rows as CSV with a header line.
func Encode(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV atomically writes rows to path.
func WriteCSV(path string, rows []Row) error {
	var b strings.Builder
	if err := Encode(&b, rows); err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(path, strings.NewReader(b.String()))
}

// Decode reads rows by header name. Only "Language code" and "Voice name"
// are required; rows where either is empty are dropped.
func Decode(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("report: read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range []string{ColLanguageCode, ColVoiceName} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("report: read: %w", err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		row := Row{
			Locale:          get(ColLocale),
			DisplayName:     get(ColDisplayName),
			DisplayLanguage: get(ColLanguage),
			ISOCode:         get(ColISOCode),
			LanguageCode:    get(ColLanguageCode),
			VoiceName:       get(ColVoiceName),
			VoiceType:       get(ColVoiceType),
			Gender:          get(ColGender),
			Female:          get(ColFemale) == "yes",
			Complete:        get(ColComplete) == "yes",
		}
		if row.LanguageCode == "" || row.VoiceName == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadCSV reads a language table written by WriteCSV.
func ReadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
