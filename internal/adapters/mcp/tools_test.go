package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"labelsplit/internal/adapters/filesystem"
	"labelsplit/internal/adapters/sqlite"
	"labelsplit/internal/config"
)

func setupRepo(t *testing.T) *filesystem.Repository {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"0001.png": "img",
		"0001.txt": "1 2 3",
		"0002.png": "img",
		"0003.png": "img",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return filesystem.NewRepository(dir)
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func TestImagesHandler(t *testing.T) {
	text, isErr := callTool(t, imagesHandler(setupRepo(t)), nil)
	assert.False(t, isErr)
	assert.Equal(t, "0001.png\n0002.png\n0003.png\n", text)
}

func TestSplitHandler(t *testing.T) {
	repo := setupRepo(t)

	text, isErr := callTool(t, splitHandler(repo, 0.8), map[string]any{"ratio": 0.34})
	assert.False(t, isErr)
	assert.Equal(t, "train (1)\n  0001.png\ntest (2)\n  0002.png\n  0003.png\n", text)

	// floor(0.8 * 3) = 2
	text, _ = callTool(t, splitHandler(repo, 0.8), nil)
	assert.Contains(t, text, "train (2)")

	_, isErr = callTool(t, splitHandler(repo, 0.8), map[string]any{"ratio": 1.5})
	assert.True(t, isErr)
}

func TestLabelHandler(t *testing.T) {
	repo := setupRepo(t)

	text, isErr := callTool(t, labelHandler(repo), map[string]any{"image": "0001.png"})
	assert.False(t, isErr)
	assert.Equal(t, `0001.txt  ["1" "2" "3"]`, text)

	text, isErr = callTool(t, labelHandler(repo), map[string]any{"image": "0002"})
	assert.True(t, isErr)
	assert.Contains(t, text, "label not found")

	_, isErr = callTool(t, labelHandler(repo), nil)
	assert.True(t, isErr)
}

func TestSearchHandler(t *testing.T) {
	text, isErr := callTool(t, searchHandler(setupRepo(t)), map[string]any{"query": "0002"})
	assert.False(t, isErr)
	assert.Contains(t, text, "0002.png")
}

func TestRunHandler(t *testing.T) {
	repo := setupRepo(t)
	cfg := config.Default()

	text, isErr := callTool(t, runHandler(repo, nil, cfg, zap.NewNop()), map[string]any{"ratio": 1.0, "max_items": 2})
	assert.False(t, isErr)
	assert.Contains(t, text, "train 3 / test 0")
	assert.Contains(t, text, `0001.png  ["1" "2" "3"]`)
	assert.Contains(t, text, "missing_label: No metadata found for image 0002.png")
	assert.NotContains(t, text, "0003.png")

	text, isErr = callTool(t, runHandler(repo, nil, cfg, zap.NewNop()), map[string]any{"record": true})
	assert.True(t, isErr)
	assert.Contains(t, text, "not available")
}

func TestRunHandler_Record(t *testing.T) {
	repo := setupRepo(t)

	idx := sqlite.NewIndex(sqlite.WithDatabasePath(filepath.Join(t.TempDir(), "manifest.db")))
	require.NoError(t, idx.Open(repo.DataPath()))
	defer idx.Close()

	text, isErr := callTool(t, runHandler(repo, idx, config.Default(), zap.NewNop()), map[string]any{"record": true})
	assert.False(t, isErr)
	assert.Contains(t, text, "recorded run")

	runs, err := idx.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].TrainCount)

	text, isErr = callTool(t, syncIndexHandler(idx), map[string]any{"full": true})
	assert.False(t, isErr)
	assert.Equal(t, "scanned 4: +4 ~0 -0", text)
}

func TestIndexedFilesHandler(t *testing.T) {
	repo := setupRepo(t)

	idx := sqlite.NewIndex(sqlite.WithDatabasePath(filepath.Join(t.TempDir(), "manifest.db")))
	require.NoError(t, idx.Open(repo.DataPath()))
	defer idx.Close()

	text, isErr := callTool(t, indexedFilesHandler(idx), nil)
	assert.False(t, isErr)
	assert.Equal(t, "No results.", text)

	_, isErr = callTool(t, syncIndexHandler(idx), nil)
	require.False(t, isErr)

	text, isErr = callTool(t, indexedFilesHandler(idx), nil)
	assert.False(t, isErr)
	assert.Equal(t, "0001.png\timage\t3\n0002.png\timage\t3\n0003.png\timage\t3\n0001.txt\tlabel\t5\n", text)

	text, isErr = callTool(t, indexedFilesHandler(idx), map[string]any{"kind": "label"})
	assert.False(t, isErr)
	assert.Equal(t, "0001.txt\tlabel\t5\n", text)

	text, isErr = callTool(t, indexedFilesHandler(idx), map[string]any{"kind": "video"})
	assert.True(t, isErr)
	assert.Contains(t, text, "kind")
}
