package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"labelsplit/internal/adapters/tui/styles"
	"labelsplit/internal/application/commands"
	"labelsplit/internal/domain"
)

var recordRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Split the dataset and parse training labels",
	Long: `Discover images, split them into train and test, then resolve and
tokenize the label of each of the first --max-items training images.

Images whose label is missing or unusable are reported and skipped.
A missing or unreadable data directory is fatal.

Examples:
  labelsplit-cli run
  labelsplit-cli run --ratio 90% --max-items 0
  labelsplit-cli run --match-mode prefix --record`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ratio, err := resolveRatio(cmd)
		if err != nil {
			return err
		}

		prepareCmd := commands.NewPrepareCommand(repo, logger, ratio, cfg.MaxItems)
		if err := prepareCmd.Validate(); err != nil {
			return err
		}

		result, err := prepareCmd.Execute(ctx)
		if err != nil {
			return err
		}

		printRunResult(result)

		if !recordRun {
			return nil
		}

		idx, err := openIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		run, err := commands.NewRecordRunCommand(idx, repo.DataPath(), cfg.MaxItems, result).Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(styles.Success.Render("Recorded run " + run.ID))
		return nil
	},
}

func printRunResult(result *domain.RunResult) {
	fmt.Println(styles.Title.Render(fmt.Sprintf("train %d / test %d (ratio %.2f)",
		len(result.Split.Train), len(result.Split.Test), result.Split.Ratio)))

	for _, img := range result.Split.Train[:result.Processed] {
		if d, ok := result.DiagnosticFor(img.Filename); ok {
			fmt.Println(styles.WarningMsg.Render(d.Message))
		}
		if label, ok := result.LabelFor(img.Stem); ok {
			fmt.Printf("%s %s\n", img.Filename, formatTokens(label.Tokens))
		}
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("ratio", "", "fraction of images used for training (default from config)")
	runCmd.Flags().Int("max-items", 0, "training images to resolve labels for, 0 for all (default from config)")
	runCmd.Flags().String("match-mode", "", "label matching: exact or prefix (default from config)")
	runCmd.Flags().BoolVar(&recordRun, "record", false, "store the run in the manifest database")
}
