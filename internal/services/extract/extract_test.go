package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := WordInvalid("/tmp/a.docx", cause)

	assert.Equal(t, WordParseFailure, err.Kind)
	assert.Contains(t, err.Error(), "valid .docx file")
	assert.Contains(t, err.Error(), "zip: not a valid zip file")
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("extract word: %w", err)
	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, WordParseFailure, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)

	assert.Equal(t, msgPDFMissing, PDFMissing("/x.pdf", nil).Error())
}

func TestDeclaredType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		filename    string
		want        string
	}{
		{"docx declared", WordMIMEType, "report.docx", WordMIMEType},
		{"pdf declared", "application/pdf", "report.pdf", PDFMIMEType},
		{"parameters dropped", "application/pdf; charset=binary", "x", PDFMIMEType},
		{"uppercase", "Application/PDF", "x", PDFMIMEType},
		{"octet stream falls back to extension", "application/octet-stream", "Report.DOCX", WordMIMEType},
		{"empty falls back to extension", "", "scan.pdf", PDFMIMEType},
		{"unknown extension", "", "notes.txt", ""},
		{"declared type wins over extension", "text/plain", "report.pdf", "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeclaredType(tt.contentType, tt.filename))
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"decomposed accent composed", "cafe\u0301", "caf\u00e9"},
		{"soft hyphen removed", "hyph\u00adenated", "hyphenated"},
		{"nul removed", "a\x00b", "ab"},
		{"bom removed", "\ufeffstart", "start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestSniffing(t *testing.T) {
	dir := t.TempDir()

	pdfPath := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4\n%%EOF\n"), 0o600))

	var zbuf bytes.Buffer
	zw := zip.NewWriter(&zbuf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<w:document/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	zipPath := filepath.Join(dir, "a.docx")
	require.NoError(t, os.WriteFile(zipPath, zbuf.Bytes(), 0o600))

	txtPath := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("just some text"), 0o600))

	pdfType, err := DetectMIME(pdfPath)
	require.NoError(t, err)
	assert.True(t, LooksLikePDF(pdfType))
	assert.False(t, LooksLikeWord(pdfType))

	zipType, err := DetectMIME(zipPath)
	require.NoError(t, err)
	assert.True(t, LooksLikeWord(zipType))
	assert.False(t, LooksLikePDF(zipType))

	txtType, err := DetectMIME(txtPath)
	require.NoError(t, err)
	assert.False(t, LooksLikeWord(txtType))
	assert.False(t, LooksLikePDF(txtType))

	_, err = DetectMIME(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
}
