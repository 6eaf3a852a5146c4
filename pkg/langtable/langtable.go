// Package langtable parses the reference table that maps a game's in-game
// locale codes to ISO codes.
//
// The upstream table has a multi-row header that is not machine readable, so
// column positions are pinned in a [Layout] rather than inferred. When the
// upstream document changes shape, only the layout needs to be re-verified.
package langtable

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse is returned when the document has no recognizable table.
var ErrParse = errors.New("langtable: parse error")

// ParseError describes a reference document that could not be parsed.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("langtable: parse %s", e.Source)
	}
	return fmt.Sprintf("langtable: parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes every ParseError match [ErrParse].
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Record is one usable row of the reference table.
type Record struct {
	InGameCode      string `json:"in_game_code" yaml:"in_game_code" msgpack:"in_game_code"`
	ISOCode         string `json:"iso_code" yaml:"iso_code" msgpack:"iso_code"`
	DisplayName     string `json:"display_name,omitempty" yaml:"display_name,omitempty" msgpack:"display_name,omitempty"`
	DisplayLanguage string `json:"display_language,omitempty" yaml:"display_language,omitempty" msgpack:"display_language,omitempty"`
}

// Layout pins the column index of each field.
type Layout struct {
	Name        int    `yaml:"name" json:"name"`
	Language    int    `yaml:"language" json:"language"`
	InGameCode  int    `yaml:"in_game_code" json:"in_game_code"`
	ISOCode     int    `yaml:"iso_code" json:"iso_code"`
	// Placeholder is the glyph the table uses for "no value".
	Placeholder string `yaml:"placeholder" json:"placeholder"`
}

// DefaultLayout matches the Minecraft wiki language table.
var DefaultLayout = Layout{
	Name:        1,
	Language:    2,
	InGameCode:  4,
	ISOCode:     5,
	Placeholder: "–",
}

// ErrLayout is returned for a layout whose code columns cannot be indexed.
var ErrLayout = errors.New("langtable: invalid layout")

// Validate rejects negative or coinciding code columns.
func (l Layout) Validate() error {
	if l.InGameCode < 0 || l.ISOCode < 0 {
		return fmt.Errorf("%w: negative column (in_game_code %d, iso_code %d)", ErrLayout, l.InGameCode, l.ISOCode)
	}
	if l.InGameCode == l.ISOCode {
		return fmt.Errorf("%w: in_game_code and iso_code are both column %d", ErrLayout, l.InGameCode)
	}
	return nil
}

// Source yields the data rows of a table as cell text.
type Source interface {
	Rows() ([][]string, error)
}

// Parse maps in-game codes to records. Rows too short to hold both code
// columns, and rows whose in-game or ISO cell is empty or the placeholder,
// are skipped. When two rows carry the same in-game code the later row wins.
func Parse(rows [][]string, layout Layout) map[string]Record {
	need := max(layout.InGameCode, layout.ISOCode)
	out := make(map[string]Record)
	for _, row := range rows {
		if len(row) <= need {
			continue
		}
		inGame := cell(row, layout.InGameCode)
		iso := cell(row, layout.ISOCode)
		if layout.missing(inGame) || layout.missing(iso) {
			continue
		}
		out[inGame] = Record{
			InGameCode:      inGame,
			ISOCode:         iso,
			DisplayName:     cell(row, layout.Name),
			DisplayLanguage: cell(row, layout.Language),
		}
	}
	return out
}

// Load reads rows from src and parses them.
func Load(src Source, layout Layout) (map[string]Record, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	rows, err := src.Rows()
	if err != nil {
		return nil, err
	}
	return Parse(rows, layout), nil
}

func (l Layout) missing(v string) bool {
	return v == "" || (l.Placeholder != "" && v == l.Placeholder)
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
