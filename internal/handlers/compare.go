// compare.go implements the upload endpoint: two documents in, their line
// differences out.
//
// POST /upload            (multipart: wordFile, pdfFile)
// POST /api/v1/compare    (same handler)
//
// Query parameters:
//   - format=json|txt|csv|xlsx  (default json; others download as a file)
//   - words=first|all           (which records carry differentWords)
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shimizu-Technology/doc-compare-api/internal/middleware"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/comparison"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/diff"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/extract"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/report"
)

// Multipart field names.
const (
	wordField = "wordFile"
	pdfField  = "pdfFile"
)

// multipartMemory is how much of the form is held in memory before the
// standard library spills parts to disk.
const multipartMemory = 8 << 20

const (
	msgMissingUploads   = "Both Word (.docx) and PDF files must be uploaded."
	msgUnsupportedTypes = "Only .docx and PDF files are allowed"
)

// upload is one validated file part.
type upload struct {
	field  string
	ext    string
	header *multipart.FileHeader
}

// CompareDocuments handles a comparison upload.
func (h *Handler) CompareDocuments(c *gin.Context) {
	requestID := middleware.GetRequestID(c)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	// Validate the query before reading the body.
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		h.writeError(c, &uploadError{kind: InvalidQuery, message: err.Error()})
		return
	}
	opts, err := parseWordsOption(c.Query("words"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	word, pdf, err := h.readUploads(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer c.Request.MultipartForm.RemoveAll()

	// Go Pattern: `defer` runs when the function returns, on every path.
	// Each temp file is scheduled for removal as soon as it exists.
	wordPath, err := h.saveUpload(word)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer h.removeUpload(wordPath)

	pdfPath, err := h.saveUpload(pdf)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer h.removeUpload(pdfPath)

	result, err := h.Comparer.Compare(c.Request.Context(), comparison.Request{
		ID:           requestID,
		WordPath:     wordPath,
		PDFPath:      pdfPath,
		WordFilename: word.header.Filename,
		PDFFilename:  pdf.header.Filename,
		Options:      opts,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	if format == report.FormatJSON {
		c.JSON(http.StatusOK, result)
		return
	}

	doc, err := report.Render(result, format)
	if err != nil {
		h.writeError(c, fmt.Errorf("render %s report: %w", format, err))
		return
	}
	filename := report.Filename(word.header.Filename, format)
	c.Header("Content-Disposition", report.ContentDisposition(filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

// readUploads parses the multipart body and returns both file parts,
// rejecting missing parts and undeclared types before anything is written
// to disk.
func (h *Handler) readUploads(c *gin.Context) (word, pdf upload, err error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Options.MaxUploadBytes)

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return upload{}, upload{}, &uploadError{
				kind:    UploadTooLarge,
				message: fmt.Sprintf("Upload exceeds the %d MB limit.", h.Options.MaxUploadBytes>>20),
				err:     err,
			}
		}
		return upload{}, upload{}, &uploadError{kind: MissingUpload, message: msgMissingUploads, err: err}
	}

	files := c.Request.MultipartForm.File
	if len(files[wordField]) == 0 || len(files[pdfField]) == 0 {
		return upload{}, upload{}, &uploadError{kind: MissingUpload, message: msgMissingUploads}
	}

	word = upload{field: wordField, ext: ".docx", header: files[wordField][0]}
	pdf = upload{field: pdfField, ext: ".pdf", header: files[pdfField][0]}

	if !declares(word.header, extract.WordMIMEType) || !declares(pdf.header, extract.PDFMIMEType) {
		return upload{}, upload{}, &uploadError{kind: UnsupportedType, message: msgUnsupportedTypes}
	}
	return word, pdf, nil
}

func declares(fh *multipart.FileHeader, want string) bool {
	return extract.DeclaredType(fh.Header.Get("Content-Type"), fh.Filename) == want
}

// saveUpload copies a file part into a temp file named <uuid>-<field><ext>
// and returns its path. The name never comes from the client, so the file
// stays inside UploadDir and belongs to this request alone. On failure
// nothing is left behind.
func (h *Handler) saveUpload(up upload) (string, error) {
	src, err := up.header.Open()
	if err != nil {
		return "", fmt.Errorf("open %s part: %w", up.field, err)
	}
	defer src.Close()

	path := filepath.Join(h.Options.UploadDir, uuid.NewString()+"-"+up.field+up.ext)
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create temp file for %s: %w", up.field, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write temp file for %s: %w", up.field, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp file for %s: %w", up.field, err)
	}

	return path, nil
}

func (h *Handler) removeUpload(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		h.Log.WithError(err).WithField("path", path).Warn("⚠️ Failed to remove temp upload")
	}
}

// parseWordsOption maps the words query parameter onto diff.Options.
func parseWordsOption(v string) (diff.Options, error) {
	switch v {
	case "", "first":
		return diff.Options{}, nil
	case "all":
		return diff.Options{WordsOnEveryLine: true}, nil
	default:
		return diff.Options{}, &uploadError{
			kind:    InvalidQuery,
			message: fmt.Sprintf("unsupported words value %q (supported: first, all)", v),
		}
	}
}
