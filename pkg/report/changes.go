package report

import (
	"sort"

	"github.com/Aufco/AudioProject-Female/pkg/voicematch"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

// Change is a language whose voice would differ under the current rules.
type Change struct {
	LanguageCode string        `json:"language_code"`
	Gender       voices.Gender `json:"gender"`
	OldVoice     string        `json:"old_voice"`
	OldType      string        `json:"old_type"`
	NewVoice     string        `json:"new_voice"`
	NewType      string        `json:"new_type"`
}

// Analysis splits earlier selections into changed and unchanged ones.
type Analysis struct {
	Changes   []Change `json:"changes"`
	Unchanged []Row    `json:"unchanged"`
}

// Changes re-runs voice selection for every language of previous. A language
// with no candidate left in catalog counts as unchanged. When previous holds
// a language twice for one gender the later row wins.
func Changes(previous []Row, catalog voices.Catalog, policy voicematch.Policy) Analysis {
	tiers := policy.Tiers
	if len(tiers) == 0 {
		tiers = voices.DefaultTiers
	}

	type slot struct {
		code string
		g    voices.Gender
	}
	latest := make(map[slot]Row)
	var order []slot
	for _, r := range previous {
		g, err := voices.ParseGender(r.Gender)
		if err != nil || g == voices.Unspecified {
			g = voices.Female
		}
		s := slot{r.LanguageCode, g}
		if _, seen := latest[s]; !seen {
			order = append(order, s)
		}
		latest[s] = r
	}

	var a Analysis
	for _, s := range order {
		r := latest[s]
		p := policy
		p.Genders = []voices.Gender{s.g}
		v, ok := voicematch.Select(s.code, catalog, p)
		if !ok || v.ID == r.VoiceName {
			a.Unchanged = append(a.Unchanged, r)
			continue
		}
		oldType := r.VoiceType
		if oldType == "" {
			oldType = tiers.Kind(r.VoiceName)
		}
		a.Changes = append(a.Changes, Change{
			LanguageCode: s.code,
			Gender:       s.g,
			OldVoice:     r.VoiceName,
			OldType:      oldType,
			NewVoice:     v.ID,
			NewType:      tiers.Kind(v.ID),
		})
	}
	sort.SliceStable(a.Changes, func(i, j int) bool { return a.Changes[i].LanguageCode < a.Changes[j].LanguageCode })
	return a
}
