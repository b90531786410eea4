package sink

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SafeFileName reduces a client-declared filename to a single safe path
// element: directory components are stripped (both separator styles, since
// the declaring OS is unknown), the result is NFC-normalized so visually
// identical names compare equal, and control characters are dropped.
// Returns "file" when nothing usable remains.
func SafeFileName(name string) string {
	// Declared filenames may embed paths from either OS family.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	name = norm.NFC.String(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
