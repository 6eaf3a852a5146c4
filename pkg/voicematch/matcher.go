// Package voicematch resolves localizations to provider language codes and
// selects the voices that will speak them.
//
// Matching for one run goes through a [Matcher]: each localization is resolved
// to the catalog's language code, checked against the run's [Session] and the
// durable [Completion] state, and only then assigned voices. A language that
// is already complete never consumes a voice.
package voicematch

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Aufco/AudioProject-Female/pkg/langtable"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

// Completion reports whether a language already has generated audio for a
// gender in the durable store.
type Completion interface {
	IsComplete(ctx context.Context, code string, gender voices.Gender) bool
}

// MatchResult is a localization paired with its language and voices.
type MatchResult struct {
	InGameCode    string           `json:"in_game_code" msgpack:"in_game_code"`
	CanonicalCode string           `json:"language_code" msgpack:"language_code"`
	ISOCode       string           `json:"iso_code" msgpack:"iso_code"`
	Voice         voices.Voice     `json:"voice" msgpack:"voice"`
	Voices        []voices.Voice   `json:"voices" msgpack:"voices"`
	Record        langtable.Record `json:"record" msgpack:"record"`
	// Complete marks a language reported only because the policy asks for
	// complete languages too. It must not be generated again.
	Complete bool `json:"complete,omitempty" msgpack:"complete,omitempty"`
}

// Reason explains why a localization produced no match.
type Reason string

const (
	ReasonNoLanguage Reason = "no matching provider language"
	ReasonClaimed    Reason = "language already claimed in this run"
	ReasonComplete   Reason = "language already complete"
	ReasonNoVoice    Reason = "no voice for the requested genders"
)

// Miss records a localization excluded from the run.
type Miss struct {
	InGameCode    string `json:"in_game_code" msgpack:"in_game_code"`
	CanonicalCode string `json:"language_code,omitempty" msgpack:"language_code,omitempty"`
	Reason        Reason `json:"reason" msgpack:"reason"`
}

// Matcher matches localizations for one run.
type Matcher struct {
	Policy     Policy
	Completion Completion
	Session    *Session
}

// NewMatcher returns a matcher with a fresh session.
func NewMatcher(policy Policy, completion Completion) *Matcher {
	return &Matcher{Policy: policy, Completion: completion, Session: NewSession()}
}

// Match processes the in-game codes in sorted order. Codes missing from the
// reference table are still tried with an empty ISO code.
func (m *Matcher) Match(ctx context.Context, units []string, table map[string]langtable.Record, catalog voices.Catalog) ([]MatchResult, []Miss) {
	if m.Session == nil {
		m.Session = NewSession()
	}
	sorted := append([]string(nil), units...)
	sort.Strings(sorted)

	var (
		results  []MatchResult
		misses   []Miss
		reported = make(map[string]struct{})
	)
	for _, code := range sorted {
		res, miss, ok := m.matchOne(ctx, code, table, catalog, reported)
		if !ok {
			slog.Info("voicematch: skipped", "locale", code, "language", miss.CanonicalCode, "reason", miss.Reason)
			misses = append(misses, miss)
			continue
		}
		results = append(results, res)
	}
	return results, misses
}

func (m *Matcher) matchOne(ctx context.Context, code string, table map[string]langtable.Record, catalog voices.Catalog, reported map[string]struct{}) (MatchResult, Miss, bool) {
	rec, ok := table[code]
	if !ok {
		rec = langtable.Record{InGameCode: code}
	}

	canonical, ok := Resolve(code, rec.ISOCode, catalog)
	if !ok {
		return MatchResult{}, Miss{InGameCode: code, Reason: ReasonNoLanguage}, false
	}
	miss := Miss{InGameCode: code, CanonicalCode: canonical}

	if _, dup := reported[canonical]; dup || m.Session.Claimed(canonical) {
		miss.Reason = ReasonClaimed
		return MatchResult{}, miss, false
	}

	var missing []voices.Gender
	for _, g := range m.Policy.genders() {
		if m.Completion != nil && m.Completion.IsComplete(ctx, canonical, g) {
			continue
		}
		missing = append(missing, g)
	}

	res := MatchResult{
		InGameCode:    code,
		CanonicalCode: canonical,
		ISOCode:       rec.ISOCode,
		Record:        rec,
	}

	if len(missing) == 0 {
		if !m.Policy.AlwaysReport {
			miss.Reason = ReasonComplete
			return MatchResult{}, miss, false
		}
		res.Complete = true
		res.Voices = SelectAll(canonical, m.Policy.genders(), catalog, m.Policy)
		if len(res.Voices) > 0 {
			res.Voice = res.Voices[0]
		}
		reported[canonical] = struct{}{}
		slog.Info("voicematch: already complete, reporting", "locale", code, "language", canonical)
		return res, Miss{}, true
	}

	res.Voices = SelectAll(canonical, missing, catalog, m.Policy)
	if len(res.Voices) == 0 {
		miss.Reason = ReasonNoVoice
		return MatchResult{}, miss, false
	}
	res.Voice = res.Voices[0]

	m.Session.Claim(canonical)
	reported[canonical] = struct{}{}
	slog.Info("voicematch: matched", "locale", code, "language", canonical, "voice", res.Voice.ID, "voices", len(res.Voices))
	return res, Miss{}, true
}
