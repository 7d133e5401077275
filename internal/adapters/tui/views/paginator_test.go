package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginator_Navigation(t *testing.T) {
	p := NewPaginator(3)
	p.SetTotal(7)

	start, end := p.VisibleRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
	assert.Equal(t, 3, p.TotalPages())

	assert.False(t, p.CursorUp())
	for range 3 {
		assert.True(t, p.CursorDown())
	}
	assert.Equal(t, 3, p.Cursor())
	assert.Equal(t, 2, p.CurrentPage())
	assert.Equal(t, 0, p.CursorInPage())

	assert.True(t, p.NextPage())
	assert.Equal(t, 6, p.Cursor())
	start, end = p.VisibleRange()
	assert.Equal(t, 6, start)
	assert.Equal(t, 7, end)
	assert.False(t, p.NextPage())
	assert.False(t, p.CursorDown())

	assert.True(t, p.PrevPage())
	assert.Equal(t, 3, p.Cursor())

	p.Home()
	assert.Equal(t, 0, p.Cursor())
	assert.Equal(t, 1, p.CurrentPage())

	p.End()
	assert.Equal(t, 6, p.Cursor())
	assert.Equal(t, 3, p.CurrentPage())
}

func TestPaginator_ShrinkingTotalClampsCursor(t *testing.T) {
	p := NewPaginator(2)
	p.SetTotal(5)
	p.End()

	p.SetTotal(3)
	assert.Equal(t, 2, p.Cursor())
	assert.Equal(t, 2, p.CurrentPage())
}

func TestPaginator_SetPageSize(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(25)
	p.SetCursor(12)
	assert.Equal(t, 2, p.CurrentPage())

	p.SetPageSize(5)
	assert.Equal(t, 5, p.PageSize())
	assert.Equal(t, 3, p.CurrentPage())
	assert.Equal(t, 2, p.CursorInPage())

	p.SetPageSize(0)
	assert.Equal(t, 1, p.PageSize())
}

func TestPaginator_Empty(t *testing.T) {
	p := NewPaginator(0)
	p.SetTotal(0)

	assert.Equal(t, 1, p.TotalPages())
	assert.False(t, p.CursorDown())
	start, end := p.VisibleRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)

	p.End()
	assert.Equal(t, 0, p.Cursor())
}
