package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsentry/docsentry"
)

var checkFormat string

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
}

var checkCmd = &cobra.Command{
	Use:   "check <file> <action>",
	Short: "Evaluate a file operation against DLP policy",
	Long: "Looks up the file's classification and evaluates the requested action\n" +
		"(copy, cut, paste, duplicate, rename, save_as, delete, external_upload)\n" +
		"against the decision table.\n\n" +
		"Exit code 0 for allow, 2 for warn, 1 for block.",
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	core, err := docsentry.New(docsentry.WithConfigFile(configPath))
	if err != nil {
		return err
	}
	defer core.Close()

	decision, err := core.EvaluateFileAction(args[0], docsentry.ParseAction(args[1]))
	if err != nil {
		return err
	}

	if checkFormat == "json" {
		out, err := json.Marshal(decision)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		fmt.Printf("%s %s: %s", args[1], args[0], decision.Level)
		if decision.Message != "" {
			fmt.Printf(" — %s", decision.Message)
		}
		fmt.Println()
	}

	switch decision.Level {
	case "block":
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return exitError{code: 1}
	case "warn":
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return exitError{code: 2}
	}
	return nil
}
