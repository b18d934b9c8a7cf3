package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Shimizu-Technology/doc-compare-api/internal/middleware"
	"github.com/Shimizu-Technology/doc-compare-api/internal/models"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/extract"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/worker"
)

// UploadErrorKind classifies a request rejected before extraction starts.
type UploadErrorKind string

const (
	MissingUpload   UploadErrorKind = "missing_upload"
	UnsupportedType UploadErrorKind = "unsupported_type"
	UploadTooLarge  UploadErrorKind = "upload_too_large"
	InvalidQuery    UploadErrorKind = "invalid_query"
)

// uploadError is a client-side validation failure.
type uploadError struct {
	kind    UploadErrorKind
	message string
	err     error
}

func (e *uploadError) Error() string {
	if e.err == nil {
		return e.message
	}
	return e.message + ": " + e.err.Error()
}

func (e *uploadError) Unwrap() error {
	return e.err
}

func (e *uploadError) status() int {
	if e.kind == UploadTooLarge {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

const msgUnexpected = "An unexpected error occurred while comparing the documents."

// writeError maps err to a status code and an ErrorResponse body. Every
// failure path of the comparison endpoints goes through here.
func (h *Handler) writeError(c *gin.Context, err error) {
	resp := models.ErrorResponse{
		Error:   "unexpected_error",
		Message: msgUnexpected,
		Code:    http.StatusInternalServerError,
	}

	var upErr *uploadError
	var exErr *extract.Error
	switch {
	case errors.As(err, &upErr):
		resp = models.ErrorResponse{Error: string(upErr.kind), Message: upErr.message, Code: upErr.status()}
	case errors.As(err, &exErr):
		resp = models.ErrorResponse{Error: string(exErr.Kind), Message: exErr.Message, Code: http.StatusInternalServerError}
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrStopped):
		resp = models.ErrorResponse{
			Error:   "queue_full",
			Message: "The server is busy comparing other documents. Try again shortly.",
			Code:    http.StatusServiceUnavailable,
		}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		resp = models.ErrorResponse{
			Error:   "timeout",
			Message: "The comparison did not finish in time.",
			Code:    http.StatusServiceUnavailable,
		}
	}

	entry := h.Log.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(c),
		"error_kind": resp.Error,
	}).WithError(err)
	if resp.Code >= http.StatusInternalServerError {
		entry.Error("❌ Comparison failed")
	} else {
		entry.Warn("⚠️ Upload rejected")
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(resp.Code, resp)
}
