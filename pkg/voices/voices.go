// Package voices models a speech provider's voice catalog: the voices it
// offers, the language codes each voice declares, and the quality tier rules
// used to rank voices of the same language.
//
// A catalog is read-only for the duration of a run. It is refreshed from the
// provider at run start (see [Refresh]) and persisted as JSON so later runs and
// offline commands can reuse it.
package voices

import (
	"fmt"
	"strings"
)

// Gender is the SSML gender a provider declares for a voice.
type Gender int

const (
	Unspecified Gender = iota
	Female
	Male
)

// ParseGender accepts provider spellings ("FEMALE", "female", "SSML_VOICE_GENDER_UNSPECIFIED", ...).
func ParseGender(s string) (Gender, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FEMALE":
		return Female, nil
	case "MALE":
		return Male, nil
	case "", "NEUTRAL", "UNSPECIFIED", "SSML_VOICE_GENDER_UNSPECIFIED":
		return Unspecified, nil
	}
	return Unspecified, fmt.Errorf("voices: unknown gender %q", s)
}

func (g Gender) String() string {
	switch g {
	case Female:
		return "FEMALE"
	case Male:
		return "MALE"
	default:
		return "NEUTRAL"
	}
}

// Dir is the lowercase form used in output directory names.
func (g Gender) Dir() string {
	return strings.ToLower(g.String())
}

func (g Gender) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Gender) UnmarshalText(b []byte) error {
	v, err := ParseGender(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// Voice is one entry of the provider catalog.
type Voice struct {
	ID            string   `json:"name" yaml:"name" msgpack:"name"`
	LanguageCodes []string `json:"language_codes" yaml:"language_codes" msgpack:"language_codes"`
	Gender        Gender   `json:"ssml_gender" yaml:"ssml_gender" msgpack:"ssml_gender"`
	SampleRateHz  int      `json:"natural_sample_rate_hertz" yaml:"natural_sample_rate_hertz" msgpack:"natural_sample_rate_hertz"`
}

// IsZero reports whether v is the empty voice.
func (v Voice) IsZero() bool {
	return v.ID == ""
}

// Speaks reports whether code is one of the voice's declared language codes.
// The comparison is exact.
func (v Voice) Speaks(code string) bool {
	for _, c := range v.LanguageCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Catalog is an ordered list of voices. Order is the provider's enumeration
// order and is used as the tie-break when ranking voices.
type Catalog []Voice

// Languages returns every declared language code, in catalog order, without
// duplicates. Codes keep the provider's casing.
func (c Catalog) Languages() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range c {
		for _, code := range v.LanguageCodes {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			out = append(out, code)
		}
	}
	return out
}

// Find returns the voice with the given id.
func (c Catalog) Find(id string) (Voice, bool) {
	for _, v := range c {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// ForLanguage returns the voices that declare code exactly, in catalog order.
func (c Catalog) ForLanguage(code string) Catalog {
	var out Catalog
	for _, v := range c {
		if v.Speaks(code) {
			out = append(out, v)
		}
	}
	return out
}
