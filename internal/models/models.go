// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// Nothing here is persisted: every value lives for exactly one comparison
// request and is discarded once the response has been written.
package models

// DifferenceRecord is one line position where the Word text and the PDF text
// disagree.
//
// Go Pattern: `omitzero` (Go 1.24+) skips a field only when it holds its zero
// value. For a slice that means nil, so a non-nil empty slice still
// serializes as `[]`. We rely on that: the line-1 record always carries
// `differentWords`, even when it is empty, and every other record omits it.
type DifferenceRecord struct {
	Line           int      `json:"line"`     // 1-based line position
	WordText       string   `json:"wordText"` // "" when the Word text has no line here
	PDFText        string   `json:"pdfText"`  // "" when the PDF text has no line here
	DifferentWords []string `json:"differentWords,omitzero"`
}

// DocumentInfo describes one side of a comparison.
type DocumentInfo struct {
	Filename  string `json:"filename"`
	LineCount int    `json:"line_count"`
	WordCount int    `json:"word_count"`
}

// ComparisonResult is the success body of POST /upload.
// Differences is always a non-nil slice so clients get `[]`, never `null`.
type ComparisonResult struct {
	Differences []DifferenceRecord `json:"differences"`
	RequestID   string             `json:"request_id,omitempty"`
	Word        DocumentInfo       `json:"word"`
	PDF         DocumentInfo       `json:"pdf"`
	Identical   bool               `json:"identical"`
	ElapsedMS   int64              `json:"elapsed_ms"`
}

// --- Response DTOs ---

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Workers    int    `json:"workers"`
	QueueDepth int    `json:"queue_depth"`
}
