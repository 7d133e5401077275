package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"labelsplit/internal/adapters/tui/styles"
	"labelsplit/internal/application/commands"
	"labelsplit/internal/domain"
)

var (
	fullSync bool
	lsKind   string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the sample index",
}

var indexSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the index from the data directory",
	Long: `Scan the data directory and update the cached file listing.

Only changed files are rewritten unless --full is given or the index
was built for another directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		idx, err := openIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		stats, err := commands.NewSyncIndexCommand(idx, fullSync).Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%s scanned: +%d ~%d -%d in %s\n",
			humanize.Comma(int64(stats.FilesScanned)),
			stats.FilesAdded, stats.FilesUpdated, stats.FilesDeleted,
			stats.Duration.Round(time.Millisecond),
		)
		fmt.Println(styles.MutedText.Render(idx.Path()))
		return nil
	},
}

var indexLsCmd = &cobra.Command{
	Use:   "ls [filename]",
	Short: "List indexed files",
	Long: `Print the cached file listing with kind, size and modification time.

The index is refreshed incrementally first. With a filename, only that
entry is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		idx, err := openIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		if _, err := commands.NewSyncIndexCommand(idx, false).Execute(ctx); err != nil {
			return err
		}

		var files []domain.IndexedFile
		if len(args) == 1 {
			file, err := commands.NewGetIndexedFileCommand(idx, args[0]).Execute(ctx)
			if err != nil {
				return err
			}
			files = append(files, *file)
		} else {
			files, err = commands.NewListIndexedFilesCommand(idx, domain.FileKind(lsKind)).Execute(ctx)
			if err != nil {
				return err
			}
		}

		if len(files) == 0 {
			fmt.Println("No files indexed")
			return nil
		}

		for _, f := range files {
			fmt.Printf("%-5s %9s  %s  %s\n",
				f.Kind, humanize.Bytes(uint64(f.Size)), f.Name,
				styles.MutedText.Render(humanize.Time(time.Unix(0, f.Mtime))))
		}
		return nil
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		idx, err := openIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		runs, err := commands.NewListRunsCommand(idx).Execute(ctx)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded")
			return nil
		}

		for _, r := range runs {
			fmt.Printf("%s  train %d / test %d  ratio %.2f  %s\n",
				r.ID, r.TrainCount, r.TestCount, r.Ratio,
				styles.MutedText.Render(humanize.Time(r.CreatedAt)))
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the entries of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		idx, err := openIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		shown, err := commands.NewShowRunCommand(idx, args[0]).Execute(ctx)
		if err != nil {
			return err
		}

		r := shown.Run
		fmt.Println(styles.Title.Render(r.ID))
		fmt.Printf("data: %s\nratio: %.2f  max items: %d\ncreated: %s\n\n",
			r.DataPath, r.Ratio, r.MaxItems, r.CreatedAt.Format("2006-01-02 15:04:05"))

		for _, e := range shown.Entries {
			line := fmt.Sprintf("%-5s %4d  %s", e.Partition, e.Position, e.Image)
			if e.LabelFile != "" {
				line += "  " + e.LabelFile + " " + formatTokens(e.Tokens)
			}
			if e.Diagnostic != "" {
				line += "  " + styles.WarningMsg.Render(string(e.Diagnostic))
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexSyncCmd)
	indexSyncCmd.Flags().BoolVar(&fullSync, "full", false, "rebuild the index from scratch")
	indexCmd.AddCommand(indexLsCmd)
	indexLsCmd.Flags().StringVar(&lsKind, "kind", "", "only list image or label files")

	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
}
