package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"labelsplit/internal/adapters/editor"
	"labelsplit/internal/adapters/filesystem"
	"labelsplit/internal/adapters/tui"
	"labelsplit/internal/config"
)

func main() {
	configFlag := flag.String("config", "", "config file (default ./"+config.DefaultConfigFile+" when present)")
	dataFlag := flag.String("data", "", "directory holding images and labels")
	flag.Parse()

	v := config.NewViper()
	if *dataFlag != "" {
		v.Set("data_path", *dataFlag)
	}

	cfg, err := config.Load(v, *configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Initialize adapters
	repo := filesystem.NewRepository(cfg.DataPath,
		filesystem.WithImageExt(cfg.ImageExt),
		filesystem.WithLabelExt(cfg.LabelExt),
		filesystem.WithMatchMode(cfg.Match()),
	)
	editorOpener := editor.NewOpener()

	// Create and run TUI app
	app := tui.NewApp(repo, editorOpener, cfg.SplitRatio)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
