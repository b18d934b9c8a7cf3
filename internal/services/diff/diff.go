// Package diff compares two normalized text bodies line by line.
//
// The comparison is strictly positional: line i of the Word text is compared
// with line i of the PDF text and nothing else. A line inserted near the top
// of one document therefore shows up as a difference on every line after it.
// Callers that need the two texts aligned first must do that themselves.
package diff

import (
	"strings"

	"github.com/Shimizu-Technology/doc-compare-api/internal/models"
)

// Options tunes Compare. The zero value is the default behavior.
type Options struct {
	// WordsOnEveryLine attaches differentWords to every record instead of
	// only the record for line 1.
	WordsOnEveryLine bool
}

// Compare runs Diff and then annotates the result with differentWords.
func Compare(text1, text2 string, opts Options) []models.DifferenceRecord {
	lines1, lines2 := Lines(text1), Lines(text2)
	records := diffLines(lines1, lines2)

	if opts.WordsOnEveryLine {
		return AnnotateEveryLine(records)
	}
	return AnnotateFirstLine(records, lines1, lines2)
}

// Diff returns one record per line position where text1 and text2 differ.
// A position that exists on only one side is compared against "".
// The result is never nil.
func Diff(text1, text2 string) []models.DifferenceRecord {
	return diffLines(Lines(text1), Lines(text2))
}

func diffLines(lines1, lines2 []string) []models.DifferenceRecord {
	n := max(len(lines1), len(lines2))

	records := make([]models.DifferenceRecord, 0)
	for i := 0; i < n; i++ {
		a, b := lineAt(lines1, i), lineAt(lines2, i)
		if a == b {
			continue
		}
		records = append(records, models.DifferenceRecord{
			Line:     i + 1,
			WordText: a,
			PDFText:  b,
		})
	}
	return records
}

// AnnotateFirstLine attaches the words found in the first line of lines2 but
// not in the first line of lines1 to the record for line 1.
//
// If there is no record for line 1 but the word set is non-empty, a line-1
// record is synthesized at the front to carry it. With zero lines on both
// sides this is a no-op.
func AnnotateFirstLine(records []models.DifferenceRecord, lines1, lines2 []string) []models.DifferenceRecord {
	if len(lines1) == 0 && len(lines2) == 0 {
		return records
	}

	first1, first2 := lineAt(lines1, 0), lineAt(lines2, 0)
	words := MissingWords(first1, first2)

	if len(records) > 0 && records[0].Line == 1 {
		records[0].DifferentWords = words
		return records
	}
	if len(words) == 0 {
		return records
	}

	synthesized := models.DifferenceRecord{
		Line:           1,
		WordText:       first1,
		PDFText:        first2,
		DifferentWords: words,
	}
	return append([]models.DifferenceRecord{synthesized}, records...)
}

// AnnotateEveryLine gives each record the words present in its PDF line but
// absent from its Word line.
func AnnotateEveryLine(records []models.DifferenceRecord) []models.DifferenceRecord {
	for i := range records {
		records[i].DifferentWords = MissingWords(records[i].WordText, records[i].PDFText)
	}
	return records
}

// MissingWords returns, in order, every word of line2 that does not occur in
// line1. Duplicates in line2 are reported each time they occur. The result
// is never nil.
func MissingWords(line1, line2 string) []string {
	seen := make(map[string]struct{})
	for _, w := range Words(line1) {
		seen[w] = struct{}{}
	}

	missing := make([]string, 0)
	for _, w := range Words(line2) {
		if _, ok := seen[w]; !ok {
			missing = append(missing, w)
		}
	}
	return missing
}

// Lines splits normalized text into its line sequence.
// The empty text has zero lines.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Words splits a line on single spaces. The empty line has no words.
func Words(line string) []string {
	if line == "" {
		return nil
	}
	return strings.Split(line, " ")
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
