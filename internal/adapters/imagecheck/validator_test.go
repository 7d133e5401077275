package imagecheck

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelsplit/internal/domain"
)

func writePNG(t *testing.T, dir, name string, w, h int) domain.ImageRecord {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)

	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))

	return domain.NewImageRecord(dir, name)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, "0001.png", 32, 16)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "0002.png"), []byte("not a png"), 0644))
	corrupt := domain.NewImageRecord(dir, "0002.png")
	missing := domain.NewImageRecord(dir, "0003.png")

	var calls []int
	reports := NewValidator().Validate([]domain.ImageRecord{good, corrupt, missing}, func(done int) {
		calls = append(calls, done)
	})

	require.Len(t, reports, 3)
	assert.Equal(t, []int{1, 2, 3}, calls)

	assert.True(t, reports[0].Valid())
	assert.Equal(t, 32, reports[0].Width)
	assert.Equal(t, 16, reports[0].Height)
	assert.Positive(t, reports[0].Size)
	assert.Equal(t, good, reports[0].Image)

	assert.False(t, reports[1].Valid())
	assert.ErrorContains(t, reports[1].Err, "failed to decode image")
	assert.Equal(t, int64(len("not a png")), reports[1].Size)

	assert.False(t, reports[2].Valid())
	assert.ErrorIs(t, reports[2].Err, os.ErrNotExist)
}

func TestValidate_NilProgress(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "a.png", 1, 1)

	reports := NewValidator().Validate([]domain.ImageRecord{img}, nil)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Valid())
}
