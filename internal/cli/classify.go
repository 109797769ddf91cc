package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsentry/docsentry"
	"github.com/docsentry/docsentry/internal/model"
)

func init() {
	rootCmd.AddCommand(classifyCmd)
}

var classifyCmd = &cobra.Command{
	Use:   "classify <file> <level>",
	Short: "Attach a permanent classification to a file",
	Long: "Classifies a file as public, internal, confidential, or personal.\n" +
		"Classification is write-once: a file that already carries one cannot\n" +
		"be reclassified, by design.",
	Args: cobra.ExactArgs(2),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	path := args[0]
	level := docsentry.ParseLevel(args[1])
	if !level.IsAssignable() {
		return fmt.Errorf("unknown level %q (expected one of: %s)", args[1], levelList())
	}

	core, err := docsentry.New(docsentry.WithConfigFile(configPath))
	if err != nil {
		return err
	}
	defer core.Close()

	if err := core.Classify(path, level); err != nil {
		if errors.Is(err, docsentry.ErrAlreadyClassified) {
			existing, _ := core.GetClassification(path)
			return fmt.Errorf("%s is already classified as %q; classifications are permanent", path, existing)
		}
		return err
	}

	fmt.Printf("classified %s as %s\n", path, level)
	return nil
}

func levelList() string {
	names := make([]string, len(model.Levels))
	for i, l := range model.Levels {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}
