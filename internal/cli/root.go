package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "docsentry",
	Short: "File classification and DLP enforcement",
	Long: "Attaches permanent, tamper-evident sensitivity classifications to files\n" +
		"and enforces DLP policy on them: blocked operations for confidential\n" +
		"files, clipboard scrubbing, and duplicate-file interdiction.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default ~/.docsentry/config.yaml)")
}

// exitError carries a process exit code out of a RunE handler, so the
// handler's deferred cleanup runs before the process exits.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}
