package voices

import "strings"

// LowestTier is assigned to voices that match no tier rule.
const LowestTier = 5

// StandardKind is the kind reported for voices that match no tier rule.
const StandardKind = "Standard"

// TierRule maps a marker found in a voice id to a quality tier.
// Lower tiers are better.
type TierRule struct {
	Marker string `yaml:"marker" json:"marker"`
	Tier   int    `yaml:"tier" json:"tier"`
}

// Tiers is an ordered rule table. Rules are evaluated in order and the first
// rule whose marker occurs in the voice id wins, so more specific markers
// must come first.
type Tiers []TierRule

// DefaultTiers ranks Google Cloud TTS voice families.
var DefaultTiers = Tiers{
	{Marker: "Chirp3-HD", Tier: 1},
	{Marker: "Chirp-HD", Tier: 2},
	{Marker: "Neural2", Tier: 3},
	{Marker: "WaveNet", Tier: 4},
	{Marker: "Wavenet", Tier: 4},
}

func (t Tiers) match(id string) (TierRule, bool) {
	for _, r := range t {
		if r.Marker != "" && strings.Contains(id, r.Marker) {
			return r, true
		}
	}
	return TierRule{}, false
}

// Of returns the tier of the voice id.
func (t Tiers) Of(id string) int {
	if r, ok := t.match(id); ok {
		return r.Tier
	}
	return LowestTier
}

// Kind returns the marker that classified the voice id, or [StandardKind].
func (t Tiers) Kind(id string) string {
	if r, ok := t.match(id); ok {
		return r.Marker
	}
	return StandardKind
}
