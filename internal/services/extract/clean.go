package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// invisibles are characters extraction libraries emit that never render.
var invisibles = strings.NewReplacer(
	"\x00", "",
	"\u00ad", "", // soft hyphen
	"\u200b", "", // zero width space
	"\ufeff", "", // byte order mark
)

// Clean puts extracted text into Unicode NFC and drops invisible characters,
// so "é" written as one code point in the DOCX matches "e" + combining acute
// in the PDF. Whitespace is left for textnorm.Normalize.
func Clean(s string) string {
	return norm.NFC.String(invisibles.Replace(s))
}
