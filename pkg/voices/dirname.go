package voices

import "strings"

// DirName names the output directory of a voice for one audio format, e.g.
// "af-ZA-Standard-A-female-WAV".
func DirName(voiceID string, g Gender, format string) string {
	return voiceID + "-" + g.Dir() + "-" + strings.ToUpper(format)
}

// ParseDirName splits a name produced by [DirName].
func ParseDirName(name string) (voiceID string, g Gender, format string, ok bool) {
	i := strings.LastIndexByte(name, '-')
	if i <= 0 || i == len(name)-1 {
		return "", Unspecified, "", false
	}
	rest, format := name[:i], name[i+1:]
	for _, cand := range []Gender{Female, Male, Unspecified} {
		suffix := "-" + cand.Dir()
		if strings.HasSuffix(rest, suffix) && len(rest) > len(suffix) {
			return rest[:len(rest)-len(suffix)], cand, format, true
		}
	}
	return "", Unspecified, "", false
}

// HasOutputFor reports whether dir is an output directory of a voice of
// language code and gender g, i.e. it looks like "{code}-*-{gender}-*".
func HasOutputFor(dir, code string, g Gender) bool {
	rest, ok := strings.CutPrefix(dir, code+"-")
	if !ok {
		return false
	}
	return strings.Contains(rest, "-"+g.Dir()+"-")
}
