package voicematch

import (
	"strings"

	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

// NormalizeInGameCode turns "ll_cc" into "ll-CC". Codes that do not split into
// exactly two parts on "_" are returned unchanged.
func NormalizeInGameCode(code string) string {
	parts := strings.Split(code, "_")
	if len(parts) != 2 {
		return code
	}
	return strings.ToLower(parts[0]) + "-" + strings.ToUpper(parts[1])
}

// foldCode is the form used only for comparing codes across naming schemes.
func foldCode(code string) string {
	return strings.ReplaceAll(strings.ToLower(code), "_", "-")
}

// Resolve finds the catalog language code for a localization. The in-game code
// is tried first, then the ISO code. Codes are compared case-insensitively
// with "_" and "-" treated alike, and the catalog's own spelling is returned.
func Resolve(inGameCode, isoCode string, catalog voices.Catalog) (string, bool) {
	index := make(map[string]string)
	for _, code := range catalog.Languages() {
		key := foldCode(code)
		if _, ok := index[key]; !ok {
			index[key] = code
		}
	}

	for _, candidate := range []string{NormalizeInGameCode(inGameCode), isoCode} {
		if candidate == "" {
			continue
		}
		if code, ok := index[foldCode(candidate)]; ok {
			return code, true
		}
	}
	return "", false
}
