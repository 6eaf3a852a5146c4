package voicematch

import (
	"sort"

	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

// Policy controls which voices are selected for a language.
type Policy struct {
	// Genders lists the genders to select, in order.
	Genders []voices.Gender
	// VoicesPerLanguage is the number of voices kept per gender.
	VoicesPerLanguage int
	// Tiers ranks candidate voices.
	Tiers voices.Tiers
	// AlwaysReport keeps already complete languages in the match results,
	// flagged Complete, so catalogs and bucket logs can be regenerated.
	AlwaysReport bool
}

// DefaultPolicy selects one female voice per language.
var DefaultPolicy = Policy{
	Genders:           []voices.Gender{voices.Female},
	VoicesPerLanguage: 1,
	Tiers:             voices.DefaultTiers,
}

func (p Policy) perLanguage() int {
	if p.VoicesPerLanguage <= 0 {
		return 1
	}
	return p.VoicesPerLanguage
}

func (p Policy) tiers() voices.Tiers {
	if p.Tiers == nil {
		return voices.DefaultTiers
	}
	return p.Tiers
}

func (p Policy) genders() []voices.Gender {
	if len(p.Genders) == 0 {
		return []voices.Gender{voices.Female}
	}
	return p.Genders
}

// rank returns the voices of gender g that declare code, best tier first.
// Voices of equal tier keep catalog order.
func rank(code string, g voices.Gender, catalog voices.Catalog, tiers voices.Tiers) voices.Catalog {
	var out voices.Catalog
	for _, v := range catalog.ForLanguage(code) {
		if v.Gender == g {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return tiers.Of(out[i].ID) < tiers.Of(out[j].ID)
	})
	return out
}

// Select returns the best voice of the policy's first gender for code.
func Select(code string, catalog voices.Catalog, policy Policy) (voices.Voice, bool) {
	ranked := rank(code, policy.genders()[0], catalog, policy.tiers())
	if len(ranked) == 0 {
		return voices.Voice{}, false
	}
	return ranked[0], true
}

// SelectAll returns up to VoicesPerLanguage voices for each gender in
// genders, grouped by gender in the given order.
func SelectAll(code string, genders []voices.Gender, catalog voices.Catalog, policy Policy) []voices.Voice {
	var out []voices.Voice
	n := policy.perLanguage()
	for _, g := range genders {
		ranked := rank(code, g, catalog, policy.tiers())
		if len(ranked) > n {
			ranked = ranked[:n]
		}
		out = append(out, ranked...)
	}
	return out
}
