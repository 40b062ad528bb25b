package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns name in Unicode NFC form with surrounding whitespace
// removed. Filesystems such as APFS report names in decomposed form, which the
// catalog search and whitelist comparisons do not match.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
