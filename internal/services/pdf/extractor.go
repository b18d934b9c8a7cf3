// Package pdf provides PDF text extraction.
//
// We use the ledongthuc/pdf library for text extraction.
// It's a pure Go implementation, so no CGO or external dependencies are required.
// This makes deployment simpler (just a single binary).
package pdf

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/Shimizu-Technology/doc-compare-api/internal/services/extract"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/textnorm"
)

// Extract reads the PDF at path and returns its normalized text, one line
// per visual text row, pages in order.
//
// Every failure is an *extract.Error of kind extract.PDFParseFailure.
func Extract(path string) (text string, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		return "", extract.PDFMissing(path, statErr)
	}

	mt, sniffErr := extract.DetectMIME(path)
	if sniffErr != nil {
		return "", extract.PDFInvalid(path, sniffErr)
	}
	if !extract.LooksLikePDF(mt) {
		return "", extract.PDFInvalid(path, fmt.Errorf("content sniffed as %s", mt.String()))
	}

	// ledongthuc/pdf reports some malformed-input errors by panicking.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = extract.PDFInvalid(path, fmt.Errorf("pdf reader panic: %v", r))
		}
	}()

	f, reader, openErr := pdf.Open(path)
	if openErr != nil {
		return "", extract.PDFInvalid(path, openErr)
	}
	defer f.Close()

	raw, readErr := readText(reader)
	if readErr != nil {
		return "", extract.PDFInvalid(path, readErr)
	}

	return textnorm.Normalize(extract.Clean(raw)), nil
}

// readText extracts every page. A page that fails is an error: a partial
// extraction would be reported as differences that are not really there.
func readText(reader *pdf.Reader) (string, error) {
	var allText strings.Builder

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := pageText(page)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}

		allText.WriteString(text)
		allText.WriteByte('\n')
	}

	return allText.String(), nil
}

// pageText returns one line per text row. Rows are keyed on the Y position
// set by the Tm operator, so content that only moves with Td lands on a
// single row; for those pages the plain-text walk, which breaks at every
// text object, gives better lines.
func pageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	if len(rows) > 1 {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, joinRow(row.Content))
		}
		return strings.Join(lines, "\n"), nil
	}

	return page.GetPlainText(nil)
}

// joinRow concatenates the text runs of a row in X order. Runs drawn from
// the same origin (pieces of one TJ array) are glued together; runs placed
// separately get a space between them unless one already ends or starts
// with whitespace.
func joinRow(runs []pdf.Text) string {
	var sb strings.Builder
	var prev *pdf.Text

	for i := range runs {
		run := &runs[i]
		if run.S == "" {
			continue
		}
		if prev != nil && run.X != prev.X && !boundaryHasSpace(prev.S, run.S) {
			sb.WriteByte(' ')
		}
		sb.WriteString(run.S)
		prev = run
	}

	return sb.String()
}

func boundaryHasSpace(left, right string) bool {
	last, _ := utf8.DecodeLastRuneInString(left)
	first, _ := utf8.DecodeRuneInString(right)
	return unicode.IsSpace(last) || unicode.IsSpace(first)
}
