package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"labelsplit/internal/application/commands"
	"labelsplit/internal/domain"
	"labelsplit/internal/ports"
)

// RegisterReadTools adds all read-only dataset tools to the MCP server.
// defaultRatio is used when a tool call omits the ratio.
func RegisterReadTools(s *server.MCPServer, repo ports.DatasetRepository, defaultRatio float64) {
	s.AddTool(imagesTool(), imagesHandler(repo))
	s.AddTool(splitTool(), splitHandler(repo, defaultRatio))
	s.AddTool(labelTool(), labelHandler(repo))
	s.AddTool(searchTool(), searchHandler(repo))
}

// --- images ---

func imagesTool() mcp.Tool {
	return mcp.NewTool("images",
		mcp.WithDescription("List the images of the data directory, sorted by filename."),
	)
}

func imagesHandler(repo ports.DatasetRepository) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		images, err := commands.NewDiscoverImagesCommand(repo).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(images, formatImage)
	}
}

// --- split ---

func splitTool() mcp.Tool {
	return mcp.NewTool("split",
		mcp.WithDescription("Partition the images into a training prefix and a test suffix."),
		mcp.WithNumber("ratio",
			mcp.Description("Fraction of images in the training partition, between 0 and 1. Omit to use the configured ratio."),
			mcp.Min(0),
			mcp.Max(1),
		),
	)
}

func splitHandler(repo ports.DatasetRepository, defaultRatio float64) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ratio := req.GetFloat("ratio", defaultRatio)

		split, err := commands.NewSplitCommand(repo, ratio).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		for _, p := range []domain.Partition{domain.PartitionTrain, domain.PartitionTest} {
			images := split.Images(p)
			fmt.Fprintf(&sb, "%s (%d)\n", p, len(images))
			for _, img := range images {
				fmt.Fprintf(&sb, "  %s\n", img.Filename)
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- label ---

func labelTool() mcp.Tool {
	return mcp.NewTool("label",
		mcp.WithDescription("Parse the label of an image: the first line of its label file split on single spaces."),
		mcp.WithString("image",
			mcp.Description("Image stem or filename (e.g. 0001 or 0001.png)"),
			mcp.Required(),
		),
	)
}

func labelHandler(repo ports.DatasetRepository) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		image := req.GetString("image", "")
		if image == "" {
			return toolError(fmt.Errorf("image is required"))
		}

		label, err := commands.NewParseLabelCommand(repo, image).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(formatLabel(*label)), nil
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search images by filename. Results are ranked by fuzzy match."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
	)
}

func searchHandler(repo ports.DatasetRepository) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		results, err := commands.NewSearchImagesCommand(repo, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			fmt.Fprintf(&sb, "%s  %d\n", r.Filename, r.Score)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatImage(img domain.ImageRecord) string {
	return img.Filename
}

func formatLabel(l domain.Label) string {
	return fmt.Sprintf("%s  %q", l.Record.Filename, l.Tokens)
}
