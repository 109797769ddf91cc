package dupguard

import (
	"path/filepath"
	"regexp"
	"strings"
)

// duplicateSuffixes are the trailing patterns a copying tool appends to a
// duplicated file's basename. Matched against the basename with the
// extension stripped.
var duplicateSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i) copy$`),
	regexp.MustCompile(` ?\(\d+\)$`),
	regexp.MustCompile(`(?i)[_-]copy$`),
}

// stripExt returns the basename of path without its extension.
func stripExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsDuplicateOf reports whether candidate looks like a duplicate of
// original: stripping one duplicate suffix from candidate's base must
// yield exactly original's base.
func IsDuplicateOf(candidate, original string) bool {
	cBase := stripExt(candidate)
	oBase := stripExt(original)
	for _, re := range duplicateSuffixes {
		loc := re.FindStringIndex(cBase)
		if loc == nil {
			continue
		}
		if cBase[:loc[0]] == oBase {
			return true
		}
	}
	return false
}
