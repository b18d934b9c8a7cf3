// Package cli implements the docdiff command line tool, which compares a
// Word document with a PDF on the local disk without going through HTTP.
package cli

import (
	"github.com/spf13/cobra"
)

// version is reported by the version command. Set it with SetVersion.
var version = "dev"

// SetVersion records the build version.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "docdiff",
	Short: "Compare the text of a Word document with a PDF",
	Long: `docdiff extracts the text of a .docx file and a PDF, normalizes the
whitespace of both, and lists the lines whose text differs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
