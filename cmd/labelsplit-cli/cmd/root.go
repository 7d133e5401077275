package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"labelsplit/internal/adapters/filesystem"
	"labelsplit/internal/adapters/sqlite"
	"labelsplit/internal/config"
	"labelsplit/internal/logging"
	"labelsplit/internal/ports"
)

var (
	configPath string
	v          = config.NewViper()

	cfg    *config.Config
	logger *zap.Logger
	repo   ports.DatasetRepository
)

// flagKeys maps config keys to the flag names that override them
var flagKeys = map[string]string{
	"data_path":     "data",
	"log_mode":      "log-mode",
	"max_items":     "max-items",
	"match_mode":    "match-mode",
	"manifest_path": "manifest",
}

var rootCmd = &cobra.Command{
	Use:   "labelsplit-cli",
	Short: "Prepare image/label datasets for training",
	Long: `labelsplit-cli discovers images in a flat data directory, splits them
into train and test partitions, and resolves the label file of each
training image.

Settings come from flags, LABELSPLIT_* environment variables, and
labelsplit.yaml, in that order of precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		if err := bindFlags(cmd, v); err != nil {
			return err
		}

		loaded, err := config.Load(v, configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = logging.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}

		repo = filesystem.NewRepository(cfg.DataPath,
			filesystem.WithImageExt(cfg.ImageExt),
			filesystem.WithLabelExt(cfg.LabelExt),
			filesystem.WithMatchMode(cfg.Match()),
			filesystem.WithLogger(logger),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync(logger)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./"+config.DefaultConfigFile+" when present)")
	rootCmd.PersistentFlags().StringP("data", "d", config.DefaultDataPath, "directory holding images and labels")
	rootCmd.PersistentFlags().String("log-mode", "development", "logger mode: development or release")
	rootCmd.PersistentFlags().String("manifest", "", "manifest database path (default under $XDG_DATA_HOME/labelsplit)")
}

// bindFlags lets the flags of the executing command override config values
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for key, name := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// resolveRatio returns the --ratio flag when given, the configured split ratio otherwise
func resolveRatio(cmd *cobra.Command) (float64, error) {
	f := cmd.Flags().Lookup("ratio")
	if f == nil || !f.Changed {
		return cfg.SplitRatio, nil
	}
	return config.ParseRatio(f.Value.String())
}

// openIndex opens the sample index for the configured data directory
func openIndex() (*sqlite.Index, error) {
	var opts []sqlite.Option
	opts = append(opts, sqlite.WithExtensions(cfg.ImageExt, cfg.LabelExt))
	if cfg.ManifestPath != "" {
		opts = append(opts, sqlite.WithDatabasePath(filesystem.ExpandHome(cfg.ManifestPath)))
	}

	idx := sqlite.NewIndex(opts...)
	if err := idx.Open(repo.DataPath()); err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return idx, nil
}
