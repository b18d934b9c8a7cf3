package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Shimizu-Technology/doc-compare-api/internal/logging"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/comparison"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/diff"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/report"
	"github.com/Shimizu-Technology/doc-compare-api/internal/services/worker"
)

// ErrDifferencesFound is returned by compare --exit-code when the documents
// differ, so main can exit with status 1.
var ErrDifferencesFound = errors.New("documents differ")

var (
	compareFormat   string
	compareWordsAll bool
	compareOutput   string
	compareExitCode bool
	compareVerbose  bool
)

var compareCmd = &cobra.Command{
	Use:   "compare [word.docx] [file.pdf]",
	Short: "Compare a Word document with a PDF",
	Long: `Extracts the text of both documents and prints the lines that differ.
Lines are compared by position; the record for line 1 also lists the words
found in the PDF's first line but not in the Word document's.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&compareFormat, "format", "f", "txt", "output format: json, txt, csv or xlsx")
	compareCmd.Flags().BoolVar(&compareWordsAll, "words-all", false, "list differing words on every record, not just line 1")
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "", "write the report to this file instead of stdout")
	compareCmd.Flags().BoolVar(&compareExitCode, "exit-code", false, "exit with status 1 when the documents differ")
	compareCmd.Flags().BoolVarP(&compareVerbose, "verbose", "v", false, "log extraction progress to stderr")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(compareFormat)
	if err != nil {
		return err
	}
	if format == report.FormatXLSX && compareOutput == "" {
		return errors.New("xlsx output is binary; use --output to write it to a file")
	}

	log := logging.Discard()
	if compareVerbose {
		log.Out = cmd.ErrOrStderr()
		log.SetLevel(logrus.DebugLevel)
	}

	// Two documents, two workers: both extractions run at once.
	pool := worker.NewPool(2, 2, comparison.Extractors(), log)
	pool.Start()
	defer pool.Stop()

	result, err := comparison.New(pool, log).Compare(context.Background(), comparison.Request{
		ID:           uuid.NewString(),
		WordPath:     args[0],
		PDFPath:      args[1],
		WordFilename: filepath.Base(args[0]),
		PDFFilename:  filepath.Base(args[1]),
		Options:      diff.Options{WordsOnEveryLine: compareWordsAll},
	})
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	doc, err := report.Render(result, format)
	if err != nil {
		return err
	}

	if compareOutput != "" {
		if err := os.WriteFile(compareOutput, doc.Body, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		cmd.Printf("Wrote %d difference(s) to %s\n", len(result.Differences), compareOutput)
	} else if _, err := cmd.OutOrStdout().Write(doc.Body); err != nil {
		return err
	}

	if compareExitCode && !result.Identical {
		return ErrDifferencesFound
	}
	return nil
}
