// Package comparison runs one Word-vs-PDF comparison end to end: both
// documents are extracted concurrently on the worker pool, then diffed.
package comparison

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Shimizu-Technology/doc-compare-api/internal/models"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/diff"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/pdf"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/word"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/worker"
)

// Extractors maps each job type to its extraction adapter, ready to hand
// to worker.NewPool.
func Extractors() map[worker.JobType]worker.Extractor {
	return map[worker.JobType]worker.Extractor{
		worker.JobWordExtraction: word.Extract,
		worker.JobPDFExtraction:  pdf.Extract,
	}
}

// Runner executes a single extraction job. *worker.Pool satisfies it.
type Runner interface {
	Run(ctx context.Context, id string, jobType worker.JobType, path string) (string, error)
}

// Request describes the two documents to compare.
type Request struct {
	ID           string
	WordPath     string
	PDFPath      string
	WordFilename string // Original client file name; defaults to the base of WordPath
	PDFFilename  string
	Options      diff.Options
}

// Service compares documents.
type Service struct {
	runner Runner
	log    logrus.FieldLogger
}

// New creates a comparison service that extracts through runner.
func New(runner Runner, log logrus.FieldLogger) *Service {
	return &Service{runner: runner, log: log}
}

// Compare extracts both documents and returns their line differences.
//
// Extraction errors are returned unchanged (an *extract.Error for parse
// failures), so callers can tell which document was at fault.
func (s *Service) Compare(ctx context.Context, req Request) (*models.ComparisonResult, error) {
	start := time.Now()

	// Go Pattern: errgroup runs both extractions in parallel and cancels the
	// shared context as soon as one fails, so we don't wait on a doomed job.
	g, gctx := errgroup.WithContext(ctx)

	var wordText, pdfText string
	g.Go(func() error {
		var err error
		wordText, err = s.runner.Run(gctx, req.ID, worker.JobWordExtraction, req.WordPath)
		return err
	})
	g.Go(func() error {
		var err error
		pdfText, err = s.runner.Run(gctx, req.ID, worker.JobPDFExtraction, req.PDFPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	differences := diff.Compare(wordText, pdfText, req.Options)

	result := &models.ComparisonResult{
		Differences: differences,
		RequestID:   req.ID,
		Word:        describe(orDefault(req.WordFilename, req.WordPath), wordText),
		PDF:         describe(orDefault(req.PDFFilename, req.PDFPath), pdfText),
		Identical:   len(differences) == 0,
		ElapsedMS:   time.Since(start).Milliseconds(),
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  req.ID,
		"differences": len(differences),
		"word_lines":  result.Word.LineCount,
		"pdf_lines":   result.PDF.LineCount,
		"elapsed_ms":  result.ElapsedMS,
	}).Info("📊 Comparison finished")

	return result, nil
}

func describe(filename, text string) models.DocumentInfo {
	return models.DocumentInfo{
		Filename:  filename,
		LineCount: len(diff.Lines(text)),
		WordCount: len(strings.Fields(text)),
	}
}

func orDefault(name, path string) string {
	if name != "" {
		return name
	}
	return filepath.Base(path)
}
