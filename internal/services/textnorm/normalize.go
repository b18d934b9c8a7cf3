// Package textnorm collapses the whitespace noise that document extraction
// leaves behind, so two renderings of the same text compare equal.
package textnorm

import (
	"strings"
)

// lineBreaks maps every line-terminating sequence we accept onto "\n".
// "\r\n" is listed first so it is replaced as a pair, not as two breaks.
var lineBreaks = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\f", "\n",
	"\v", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
)

// Normalize returns raw with every run of horizontal whitespace collapsed to
// a single space, every run of line breaks (including lines that hold only
// whitespace) collapsed to a single "\n", and leading/trailing whitespace
// removed from the text and from each line.
//
// Normalize is total and idempotent, and Normalize("") == "".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))

	for _, line := range strings.Split(lineBreaks.Replace(raw), "\n") {
		// strings.Fields splits on unicode.IsSpace, which also covers
		// tabs and non-breaking spaces that PDF extraction produces.
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(fields, " "))
	}

	return b.String()
}
