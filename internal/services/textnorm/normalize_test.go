package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", " \t\n\r\n  ", ""},
		{"already normal", "Hello world\nLine two", "Hello world\nLine two"},
		{"collapses spaces and tabs", "Hello \t  world", "Hello world"},
		{"collapses blank lines", "one\n\n\n\ntwo", "one\ntwo"},
		{"whitespace-only lines count as blank", "one\n   \n\t\ntwo", "one\ntwo"},
		{"trims each line", "  one  \n  two  ", "one\ntwo"},
		{"windows line endings", "one\r\ntwo\r\n", "one\ntwo"},
		{"old mac line endings", "one\rtwo", "one\ntwo"},
		{"form feed between pages", "page one\fpage two", "page one\npage two"},
		{"unicode line separator", "one\u2028two", "one\ntwo"},
		{"non-breaking space", "one\u00a0two", "one two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"  a  b  \n\n c \r\n\td ",
		"\n\n\n",
		"x  y\f\fz",
		"tab\tseparated\tvalues\n\nnext",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize(%q) is not idempotent", in)
	}
}
