package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanText NFC-normalizes s and collapses whitespace runs (NBSP included) to one space.
// Hangul pasted from some editors arrives decomposed; markers only match after NFC.
func CleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
