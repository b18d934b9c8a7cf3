// Package word extracts plain text from Word (.docx) documents.
//
// We use the nguyenthenguyen/docx library to open the archive. It hands back
// the raw word/document.xml, which we walk with encoding/xml to turn
// paragraphs into lines.
package word

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/Shimizu-Technology/doc-compare-api/internal/services/extract"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/textnorm"
)

// Extract reads the .docx file at path and returns its normalized text, one
// line per paragraph.
//
// Every failure is an *extract.Error of kind extract.WordParseFailure.
func Extract(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", extract.WordMissing(path, err)
	}

	mt, err := extract.DetectMIME(path)
	if err != nil {
		return "", extract.WordInvalid(path, err)
	}
	if !extract.LooksLikeWord(mt) {
		return "", extract.WordInvalid(path, fmt.Errorf("content sniffed as %s", mt.String()))
	}

	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", extract.WordInvalid(path, err)
	}
	defer doc.Close()

	raw, err := paragraphText(doc.Editable().GetContent())
	if err != nil {
		return "", extract.WordInvalid(path, err)
	}

	return textnorm.Normalize(extract.Clean(raw)), nil
}

// paragraphText walks document XML and returns the visible text.
//
// w:p ends a line, w:br and w:cr are line breaks inside a paragraph, and
// w:tab becomes a space. Deleted revisions (w:delText) and field codes
// (w:instrText) are different elements and are skipped naturally.
func paragraphText(documentXML string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(documentXML))

	var sb strings.Builder
	inText := 0

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText++
			case "tab":
				sb.WriteByte(' ')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				if inText > 0 {
					inText--
				}
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText > 0 {
				sb.Write(el)
			}
		}
	}

	return sb.String(), nil
}
