package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"labelsplit/internal/application/commands"
)

var labelCmd = &cobra.Command{
	Use:   "label <stem|image>",
	Short: "Print the tokens of an image's label",
	Long: `Resolve the label file of an image and print the tokens of its first line.

Examples:
  labelsplit-cli label 0001
  labelsplit-cli label 0001.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		label, err := commands.NewParseLabelCommand(repo, args[0]).Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %s\n", label.Record.Filename, formatTokens(label.Tokens))
		if label.Record.Ambiguous {
			fmt.Printf("  also matched: %s\n", strings.Join(label.Record.Candidates[1:], ", "))
		}
		return nil
	},
}

// formatTokens renders tokens as a bracketed, quoted list so empty tokens stay visible
func formatTokens(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func init() {
	rootCmd.AddCommand(labelCmd)
}
