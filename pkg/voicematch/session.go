package voicematch

import "sort"

// Session records the language codes claimed during one run. A code is
// claimed at most once; a later localization resolving to the same code is
// skipped. A Session is not safe for concurrent use.
type Session struct {
	claimed map[string]struct{}
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{claimed: make(map[string]struct{})}
}

// Claim marks code as used. It reports false if code was already claimed.
func (s *Session) Claim(code string) bool {
	if _, ok := s.claimed[code]; ok {
		return false
	}
	s.claimed[code] = struct{}{}
	return true
}

// Claimed reports whether code has been claimed.
func (s *Session) Claimed(code string) bool {
	_, ok := s.claimed[code]
	return ok
}

// Codes returns the claimed codes in sorted order.
func (s *Session) Codes() []string {
	out := make([]string, 0, len(s.claimed))
	for c := range s.claimed {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
