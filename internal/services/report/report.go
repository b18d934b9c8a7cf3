// Package report renders a comparison result in the formats the API and the
// CLI can return.
//
// Supported formats:
//   - json: the ComparisonResult itself, indented
//   - txt:  a human-readable listing of the differing lines
//   - csv:  one row per difference record
//   - xlsx: a workbook with a Differences sheet and a Summary sheet
//
// Go Pattern: Each format is its own function and Render switches on the
// format. Adding a format means one new case and one new function.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/Shimizu-Technology/doc-compare-api/internal/models"
)

// Format names an output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format in the order they are documented.
var Formats = []Format{FormatJSON, FormatText, FormatCSV, FormatXLSX}

// Document is a rendered report ready to be written out.
type Document struct {
	Body        []byte
	ContentType string
	Extension   string // Without the dot
}

// ParseFormat validates a format name. The empty string means JSON.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatJSON, nil
	}
	f := Format(strings.ToLower(s))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (supported: %s)", s, supportedList())
}

func supportedList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Render produces result in the given format.
func Render(result *models.ComparisonResult, format Format) (*Document, error) {
	switch format {
	case FormatJSON, "":
		body, err := JSON(result)
		if err != nil {
			return nil, err
		}
		return &Document{Body: body, ContentType: "application/json; charset=utf-8", Extension: "json"}, nil
	case FormatText:
		return &Document{Body: Text(result), ContentType: "text/plain; charset=utf-8", Extension: "txt"}, nil
	case FormatCSV:
		body, err := CSV(result)
		if err != nil {
			return nil, err
		}
		return &Document{Body: body, ContentType: "text/csv; charset=utf-8", Extension: "csv"}, nil
	case FormatXLSX:
		body, err := XLSX(result)
		if err != nil {
			return nil, err
		}
		return &Document{
			Body:        body,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Extension:   "xlsx",
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// JSON returns the result as indented JSON.
func JSON(result *models.ComparisonResult) ([]byte, error) {
	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return append(body, '\n'), nil
}

// Text returns a plain-text listing of the differences.
func Text(result *models.ComparisonResult) []byte {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Word: %s\n", describe(result.Word))
	fmt.Fprintf(&sb, "PDF:  %s\n", describe(result.PDF))

	if len(result.Differences) == 0 {
		sb.WriteString("\nNo differences found.\n")
		return []byte(sb.String())
	}

	fmt.Fprintf(&sb, "Differences: %d\n", len(result.Differences))
	for _, d := range result.Differences {
		fmt.Fprintf(&sb, "\nLine %d\n", d.Line)
		fmt.Fprintf(&sb, "  word: %s\n", d.WordText)
		fmt.Fprintf(&sb, "  pdf:  %s\n", d.PDFText)
		if len(d.DifferentWords) > 0 {
			fmt.Fprintf(&sb, "  only in pdf: %s\n", strings.Join(d.DifferentWords, " "))
		}
	}
	return []byte(sb.String())
}

func describe(info models.DocumentInfo) string {
	return fmt.Sprintf("%s (%d lines, %d words)", info.Filename, info.LineCount, info.WordCount)
}

var csvHeader = []string{"line", "wordText", "pdfText", "differentWords"}

// CSV returns one row per difference. differentWords is space-separated.
func CSV(result *models.ComparisonResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, d := range result.Differences {
		row := []string{strconv.Itoa(d.Line), d.WordText, d.PDFText, strings.Join(d.DifferentWords, " ")}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

const (
	differencesSheet = "Differences"
	summarySheet     = "Summary"
)

// XLSX returns a workbook with the differences on the first sheet and the
// document metadata on a second one.
func XLSX(result *models.ComparisonResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", differencesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("add summary sheet: %w", err)
	}

	rows := [][]any{{"Line", "Word Text", "PDF Text", "Different Words"}}
	for _, d := range result.Differences {
		rows = append(rows, []any{d.Line, d.WordText, d.PDFText, strings.Join(d.DifferentWords, " ")})
	}
	if err := writeRows(f, differencesSheet, rows); err != nil {
		return nil, err
	}
	if err := setWidths(f, differencesSheet, map[string]float64{"A": 8, "B": 60, "C": 60, "D": 30}); err != nil {
		return nil, err
	}

	summary := [][]any{
		{"Field", "Word", "PDF"},
		{"File", result.Word.Filename, result.PDF.Filename},
		{"Lines", result.Word.LineCount, result.PDF.LineCount},
		{"Words", result.Word.WordCount, result.PDF.WordCount},
		{"Differences", len(result.Differences), ""},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, err
	}
	if err := setWidths(f, summarySheet, map[string]float64{"A": 14, "B": 40, "C": 40}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// writeRows fills sheet from A1, one slice per row, stopping at the first
// error.
func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, values := range rows {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("%s cell name: %w", sheet, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("%s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func setWidths(f *excelize.File, sheet string, widths map[string]float64) error {
	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("%s column %s width: %w", sheet, col, err)
		}
	}
	return nil
}

// Filename builds a download name for a report about the named Word file.
func Filename(wordFilename string, format Format) string {
	base := strings.TrimSuffix(wordFilename, ".docx")
	base = SanitizeFilename(base)
	if base == "" {
		base = "comparison"
	}
	return base + "-diff." + string(format)
}

// maxFilenameRunes caps download names.
const maxFilenameRunes = 100

// SanitizeFilename maps characters that aren't safe in a Content-Disposition
// filename to hyphens or spaces, squeezes repeats of either, and keeps at most
// maxFilenameRunes runes.
func SanitizeFilename(name string) string {
	var sb strings.Builder
	var last rune
	count := 0

	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			r = '-'
		case '\n', '\t':
			r = ' '
		case '\r':
			continue
		}
		if unicode.IsControl(r) || r == utf8.RuneError {
			continue
		}
		if (r == '-' || r == ' ') && r == last {
			continue
		}
		if count == maxFilenameRunes {
			break
		}
		sb.WriteRune(r)
		last = r
		count++
	}

	return strings.TrimSpace(sb.String())
}

// ContentDisposition builds an attachment header for filename. Names that
// are not plain ASCII also get an RFC 5987 filename* parameter, with an
// ASCII-only fallback in filename.
func ContentDisposition(filename string) string {
	if isASCII(filename) {
		return fmt.Sprintf(`attachment; filename="%s"`, filename)
	}

	fallback := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, encodeRFC5987(filename))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// encodeRFC5987 percent-encodes every byte outside the attr-char set.
func encodeRFC5987(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		b := s[i]
		if isAttrChar(b) {
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[b>>4])
		sb.WriteByte(hex[b&0x0f])
	}
	return sb.String()
}

func isAttrChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", b) >= 0
}
