package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// arabicMarks covers tashkeel and Quranic annotation marks.
var arabicMarks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0610, Hi: 0x061A, Stride: 1},
		{Lo: 0x064B, Hi: 0x065F, Stride: 1},
		{Lo: 0x0670, Hi: 0x0670, Stride: 1},
		{Lo: 0x06D6, Hi: 0x06ED, Stride: 1},
	},
}

// Normalize lower-cases s, strips Arabic diacritic marks and collapses
// whitespace. Decomposition runs first, so hamza carriers (أ, إ, ؤ) lose the
// combining hamza and fold onto their bare letters.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(arabicMarks)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	return strings.Join(strings.Fields(cases.Lower(language.Und).String(stripped)), " ")
}
