package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"labelsplit/internal/adapters/filesystem"
	mcpadapter "labelsplit/internal/adapters/mcp"
	"labelsplit/internal/adapters/sqlite"
	"labelsplit/internal/config"
	"labelsplit/internal/logging"
	"labelsplit/internal/ports"
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
		log.Fatalf("labelsplit-mcp: %v", err)
	}

	// stdout carries the protocol, so the logger must write to stderr only
	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("labelsplit-mcp: %v", err)
	}
	defer logging.Sync(logger)

	repo := filesystem.NewRepository(cfg.DataPath,
		filesystem.WithImageExt(cfg.ImageExt),
		filesystem.WithLabelExt(cfg.LabelExt),
		filesystem.WithMatchMode(cfg.Match()),
		filesystem.WithLogger(logger),
	)

	var index ports.SampleIndex
	idx := newIndex(cfg)
	if err := idx.Open(repo.DataPath()); err != nil {
		logger.Warn("manifest database unavailable, runs will not be recorded", zap.Error(err))
	} else {
		defer idx.Close()
		index = idx
	}

	mcpServer := server.NewMCPServer(
		"labelsplit-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, repo, cfg.SplitRatio)
	mcpadapter.RegisterRunTools(mcpServer, repo, index, cfg, logger)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("labelsplit-mcp: %v", err)
	}
}

func newIndex(cfg *config.Config) *sqlite.Index {
	opts := []sqlite.Option{sqlite.WithExtensions(cfg.ImageExt, cfg.LabelExt)}
	if cfg.ManifestPath != "" {
		opts = append(opts, sqlite.WithDatabasePath(filesystem.ExpandHome(cfg.ManifestPath)))
	}
	return sqlite.NewIndex(opts...)
}
