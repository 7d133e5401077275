package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"labelsplit/internal/application/commands"
	"labelsplit/internal/config"
	"labelsplit/internal/domain"
	"labelsplit/internal/ports"
)

// RegisterRunTools adds the tools that run the pipeline and touch the index.
// index may be nil, in which case runs cannot be recorded and the index tools are not registered.
func RegisterRunTools(s *server.MCPServer, repo ports.DatasetRepository, index ports.SampleIndex, cfg *config.Config, logger *zap.Logger) {
	s.AddTool(runTool(), runHandler(repo, index, cfg, logger))
	if index != nil {
		s.AddTool(syncIndexTool(), syncIndexHandler(index))
		s.AddTool(indexedFilesTool(), indexedFilesHandler(index))
	}
}

// --- run ---

func runTool() mcp.Tool {
	return mcp.NewTool("run",
		mcp.WithDescription("Split the dataset and parse the labels of the first max_items training images. Missing or unusable labels are reported as diagnostics."),
		mcp.WithNumber("ratio",
			mcp.Description("Fraction of images in the training partition. Omit to use the configured ratio."),
			mcp.Min(0),
			mcp.Max(1),
		),
		mcp.WithNumber("max_items",
			mcp.Description("Training images to resolve labels for, 0 for all. Omit to use the configured value."),
		),
		mcp.WithBoolean("record",
			mcp.Description("Store the run in the manifest database"),
		),
	)
}

func runHandler(repo ports.DatasetRepository, index ports.SampleIndex, cfg *config.Config, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ratio := req.GetFloat("ratio", cfg.SplitRatio)
		maxItems := req.GetInt("max_items", cfg.MaxItems)
		record := req.GetBool("record", false)

		prepareCmd := commands.NewPrepareCommand(repo, logger, ratio, maxItems)
		if err := prepareCmd.Validate(); err != nil {
			return toolError(err)
		}

		result, err := prepareCmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "train %d / test %d (ratio %.2f)\n", len(result.Split.Train), len(result.Split.Test), result.Split.Ratio)
		for _, img := range result.Split.Train[:result.Processed] {
			if d, ok := result.DiagnosticFor(img.Filename); ok {
				fmt.Fprintf(&sb, "%s: %s\n", d.Kind, d.Message)
			}
			if label, ok := result.LabelFor(img.Stem); ok {
				fmt.Fprintf(&sb, "%s  %q\n", img.Filename, label.Tokens)
			}
		}

		if record {
			if index == nil {
				return toolError(fmt.Errorf("manifest database is not available"))
			}
			run, err := commands.NewRecordRunCommand(index, repo.DataPath(), maxItems, result).Execute(ctx)
			if err != nil {
				return toolError(err)
			}
			fmt.Fprintf(&sb, "recorded run %s\n", run.ID)
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- sync_index ---

func syncIndexTool() mcp.Tool {
	return mcp.NewTool("sync_index",
		mcp.WithDescription("Refresh the cached file listing of the data directory."),
		mcp.WithBoolean("full",
			mcp.Description("Rebuild from scratch instead of applying changes"),
		),
	)
}

func syncIndexHandler(index ports.SampleIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := commands.NewSyncIndexCommand(index, req.GetBool("full", false)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("scanned %d: +%d ~%d -%d",
			stats.FilesScanned, stats.FilesAdded, stats.FilesUpdated, stats.FilesDeleted)), nil
	}
}

// --- indexed_files ---

func indexedFilesTool() mcp.Tool {
	return mcp.NewTool("indexed_files",
		mcp.WithDescription("List the cached file listing with sizes. Call sync_index first to pick up changes."),
		mcp.WithString("kind",
			mcp.Description("Only list files of this kind"),
			mcp.Enum(string(domain.FileKindImage), string(domain.FileKindLabel)),
		),
	)
}

func indexedFilesHandler(index ports.SampleIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind := domain.FileKind(req.GetString("kind", ""))

		files, err := commands.NewListIndexedFilesCommand(index, kind).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(files, formatIndexedFile)
	}
}

func formatIndexedFile(f domain.IndexedFile) string {
	return fmt.Sprintf("%s\t%s\t%d", f.Name, f.Kind, f.Size)
}
