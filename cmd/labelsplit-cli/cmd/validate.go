package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"labelsplit/internal/adapters/imagecheck"
	"labelsplit/internal/adapters/tui/styles"
	"labelsplit/internal/application/commands"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Decode every image to find corrupt files",
	Long: `Decode every image in the data directory and report the ones that fail.

Exits with a non-zero status when any image is invalid.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var bar *progressbar.ProgressBar
		validateCmd := commands.NewValidateImagesCommand(repo, imagecheck.NewValidator())
		validateCmd.OnStart = func(total int) {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("decoding"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		validateCmd.OnProgress = func(done int) {
			_ = bar.Set(done)
		}

		result, err := validateCmd.Execute(ctx)
		if err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Finish()
		}

		for _, r := range result.InvalidReports() {
			fmt.Println(styles.ErrorMsg.Render(fmt.Sprintf("%s: %v", r.Image.Filename, r.Err)))
		}

		fmt.Printf("%s valid, %s invalid, %s total\n",
			humanize.Comma(int64(result.Valid)),
			humanize.Comma(int64(result.Invalid)),
			humanize.Bytes(uint64(result.TotalSize)),
		)

		if result.Invalid > 0 {
			return fmt.Errorf("%d images failed to decode", result.Invalid)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
