package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsentry/docsentry"
	"github.com/docsentry/docsentry/internal/audit"
	"github.com/docsentry/docsentry/internal/config"
)

var verifyAudit bool

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&verifyAudit, "audit", false, "Verify the DLP audit log hash chain instead of a file record")
}

var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Verify a classification record or the audit log",
	Long: "Without --audit, recomputes a file's integrity digest and compares it\n" +
		"to the stored one. With --audit, validates the hash chain of the DLP\n" +
		"event log.",
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	if verifyAudit {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		result := audit.Verify(cfg.AuditLog)
		if !result.Valid {
			fmt.Printf("audit log INVALID: %s (line %d)\n", result.Error, result.ErrorLine)
			os.Exit(1)
		}
		fmt.Printf("audit log ok: %d entries, chain intact\n", result.Lines)
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("a file argument is required unless --audit is set")
	}

	core, err := docsentry.New(docsentry.WithConfigFile(configPath))
	if err != nil {
		return err
	}
	defer core.Close()

	rec, err := core.Inspect(args[0])
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%s is unclassified", args[0])
	}

	ok, err := core.VerifyIntegrity(args[0])
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("%s: integrity check FAILED — record has been tampered with\n", args[0])
		os.Exit(1)
	}
	fmt.Printf("%s: integrity ok (%s)\n", args[0], rec.Level)
	return nil
}
