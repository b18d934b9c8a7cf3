// Package extract holds what the Word and PDF extraction adapters share:
// the typed extraction error, MIME sniffing, and Unicode cleanup.
package extract

import (
	"errors"
	"fmt"
)

// Kind identifies which adapter failed.
// Go Pattern: string constants instead of enums, the same way the rest of
// the codebase names statuses.
type Kind string

const (
	WordParseFailure Kind = "word_parse_failure"
	PDFParseFailure  Kind = "pdf_parse_failure"
)

// Error is returned by every extraction adapter.
//
// Message is safe to show to API clients. Err keeps the underlying cause for
// logs and for errors.Is/errors.As checks.
type Error struct {
	Kind    Kind
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Messages reported to clients, one per failure mode.
const (
	msgWordMissing = "Word file does not exist or was not uploaded correctly."
	msgWordInvalid = "Failed to extract text from Word file. Make sure it is a valid .docx file."
	msgPDFMissing  = "PDF file does not exist or was not uploaded correctly."
	msgPDFInvalid  = "Failed to extract text from PDF file."
)

// WordMissing reports a Word path that does not exist.
func WordMissing(path string, err error) *Error {
	return &Error{Kind: WordParseFailure, Path: path, Message: msgWordMissing, Err: err}
}

// WordInvalid reports a Word file that could not be parsed.
func WordInvalid(path string, err error) *Error {
	return &Error{Kind: WordParseFailure, Path: path, Message: msgWordInvalid, Err: err}
}

// PDFMissing reports a PDF path that does not exist.
func PDFMissing(path string, err error) *Error {
	return &Error{Kind: PDFParseFailure, Path: path, Message: msgPDFMissing, Err: err}
}

// PDFInvalid reports a PDF file that could not be parsed.
func PDFInvalid(path string, err error) *Error {
	return &Error{Kind: PDFParseFailure, Path: path, Message: msgPDFInvalid, Err: err}
}

// KindOf returns the extraction kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
