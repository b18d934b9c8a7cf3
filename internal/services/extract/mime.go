package extract

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Accepted upload types.
const (
	WordMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	PDFMIMEType  = "application/pdf"

	// zipMIMEType is the sniffed parent of every OOXML document.
	zipMIMEType = "application/zip"
)

// extensionTypes is consulted only when a client declares no useful type.
var extensionTypes = map[string]string{
	".docx": WordMIMEType,
	".pdf":  PDFMIMEType,
}

// DeclaredType resolves the MIME type a client declared for an upload.
//
// Parameters such as "; charset=binary" are dropped. When the declared type
// is empty or the generic application/octet-stream, the file extension
// decides instead.
func DeclaredType(contentType, filename string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	if mediaType == "" || mediaType == "application/octet-stream" {
		return extensionTypes[strings.ToLower(filepath.Ext(filename))]
	}
	return mediaType
}

// DetectMIME sniffs the file content at path.
func DetectMIME(path string) (*mimetype.MIME, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to sniff %s: %w", filepath.Base(path), err)
	}
	return mt, nil
}

// LooksLikeWord reports whether sniffed content can be a DOCX archive.
// mimetype only recognises DOCX when the "word/" entries come early in the
// archive, so any ZIP is accepted here and the DOCX reader has the final say.
func LooksLikeWord(mt *mimetype.MIME) bool {
	return hasAncestor(mt, WordMIMEType) || hasAncestor(mt, zipMIMEType)
}

// LooksLikePDF reports whether sniffed content is a PDF.
func LooksLikePDF(mt *mimetype.MIME) bool {
	return hasAncestor(mt, PDFMIMEType)
}

func hasAncestor(mt *mimetype.MIME, want string) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(want) {
			return true
		}
	}
	return false
}
