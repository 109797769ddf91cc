package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsentry/docsentry"
)

var showFormat string

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "text", "Output format (text|json)")
}

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show a file's classification record",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
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
		fmt.Printf("%s: unclassified\n", args[0])
		return nil
	}

	verified, err := core.VerifyIntegrity(args[0])
	if err != nil {
		return err
	}

	if showFormat == "json" {
		out, err := json.MarshalIndent(map[string]any{
			"identity":       rec.Identity,
			"level":          rec.Level,
			"created_at":     rec.CreatedAt,
			"integrity_hash": rec.IntegrityHash,
			"verified":       verified,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("file:       %s\n", rec.Identity)
	fmt.Printf("level:      %s\n", rec.Level)
	fmt.Printf("created:    %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Printf("integrity:  %s\n", rec.IntegrityHash)
	if verified {
		fmt.Println("verified:   ok")
	} else {
		fmt.Println("verified:   FAILED — record has been tampered with")
	}
	return nil
}
