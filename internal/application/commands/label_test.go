package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelsplit/internal/adapters/filesystem"
	"labelsplit/internal/application"
	"labelsplit/internal/domain"
)

func TestFindLabelCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"0001.png": "img",
		"0001.txt": "10 20 30 40",
	})
	repo := filesystem.NewRepository(dir)

	record, err := NewFindLabelCommand(repo, "0001").Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0001.txt", record.Filename)

	_, err = NewFindLabelCommand(repo, "0002").Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrLabelNotFound)
}

func TestFindLabelCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		stem    string
		wantErr bool
	}{
		{"valid stem", "0001", false},
		{"empty stem", "", true},
		{"path traversal", "../etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&FindLabelCommand{Stem: tt.stem}).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, application.ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseLabelCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"0001.png": "img",
		"0001.txt": "10 20 30 40\nignored\n",
		"0002.txt": "",
	})
	repo := filesystem.NewRepository(dir)

	label, err := NewParseLabelCommand(repo, "0001").Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "20", "30", "40"}, label.Tokens)

	// image filenames are accepted as well
	label, err = NewParseLabelCommand(repo, "0001.png").Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0001.txt", label.Record.Filename)

	_, err = NewParseLabelCommand(repo, "0002").Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyLabel)
}

func TestParseLabelCommand_DottedStem(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"scan.v2.png": "img",
		"scan.v2.txt": "7 8 9",
		"scan.txt":    "WRONG",
	})
	repo := filesystem.NewRepository(dir)

	for _, input := range []string{"scan.v2", "scan.v2.png", "scan.v2.txt"} {
		t.Run(input, func(t *testing.T) {
			label, err := NewParseLabelCommand(repo, input).Execute(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "scan.v2.txt", label.Record.Filename)
			assert.Equal(t, []string{"7", "8", "9"}, label.Tokens)
		})
	}
}

func TestParseLabelCommand_CustomExtensions(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.b.jpg":  "img",
		"a.b.json": "4 5",
		"a.txt":    "WRONG",
	})
	repo := filesystem.NewRepository(dir, filesystem.WithImageExt(".jpg"), filesystem.WithLabelExt(".json"))

	label, err := NewParseLabelCommand(repo, "a.b.jpg").Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a.b.json", label.Record.Filename)
	assert.Equal(t, []string{"4", "5"}, label.Tokens)
}

func TestSplitCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"0001.png": "img",
		"0002.png": "img",
		"0003.png": "img",
		"0004.png": "img",
		"0005.png": "img",
	})

	split, err := NewSplitCommand(filesystem.NewRepository(dir), 0.8).Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, split.Train, 4)
	require.Len(t, split.Test, 1)
	assert.Equal(t, "0005.png", split.Test[0].Filename)

	_, err = NewSplitCommand(filesystem.NewRepository(dir), -1).Execute(context.Background())
	assert.ErrorIs(t, err, application.ErrInvalidArgument)
}
