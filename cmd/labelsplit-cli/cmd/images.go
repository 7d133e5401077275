package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"labelsplit/internal/adapters/tui/styles"
	"labelsplit/internal/application/commands"
	"labelsplit/internal/domain"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List images in the data directory",
	Long: `List every image in the data directory in the order used for splitting.

Examples:
  labelsplit-cli images
  labelsplit-cli images --data ~/datasets/ears`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		images, err := commands.NewDiscoverImagesCommand(repo).Execute(ctx)
		if err != nil {
			return err
		}

		for _, img := range images {
			fmt.Println(img.Filename)
		}
		return nil
	},
}

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Show the train/test split",
	Long: `Partition the images into a training prefix and a test suffix.

The ratio is a fraction or a percentage.

Examples:
  labelsplit-cli split
  labelsplit-cli split --ratio 0.7
  labelsplit-cli split --ratio 70%`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ratio, err := resolveRatio(cmd)
		if err != nil {
			return err
		}

		split, err := commands.NewSplitCommand(repo, ratio).Execute(ctx)
		if err != nil {
			return err
		}

		printPartition(domain.PartitionTrain, split.Train)
		printPartition(domain.PartitionTest, split.Test)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search images by filename",
	Long: `Search for images whose filename matches a query.

Results are ranked by relevance using fuzzy matching.

Examples:
  labelsplit-cli search 0001
  labelsplit-cli search left`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		results, err := commands.NewSearchImagesCommand(repo, args[0]).Execute(ctx)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			fmt.Printf("%s %s\n", r.Filename, styles.MutedText.Render(fmt.Sprintf("(%d)", r.Score)))
		}
		return nil
	},
}

func printPartition(p domain.Partition, images []domain.ImageRecord) {
	fmt.Println(styles.PartitionTitle(p).Render(fmt.Sprintf("%s (%d)", p, len(images))))
	for _, img := range images {
		fmt.Printf("  %s\n", img.Filename)
	}
}

func init() {
	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(searchCmd)

	splitCmd.Flags().String("ratio", "", "fraction of images used for training (default from config)")
}
