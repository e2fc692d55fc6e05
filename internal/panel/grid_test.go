package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridRejectsOutOfRangeDimensions(t *testing.T) {
	_, err := NewGrid(0, 4)
	assert.Error(t, err)

	_, err = NewGrid(4, MaxCols+1)
	assert.Error(t, err)
}

func TestGridUniformCellsSpanFullRange(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)

	x, y, w, h := g.cellRect(0, 0, 1, 1)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
	assert.InDelta(t, 0.5, w, 1e-6)
	assert.InDelta(t, 0.5, h, 1e-6)

	x, y, w, h = g.cellRect(0, 0, 2, 2)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
	assert.InDelta(t, 1.0, w, 1e-6)
	assert.InDelta(t, 1.0, h, 1e-6)
}

func TestGridSetSizeIsNoOpWhenUnchanged(t *testing.T) {
	g, err := NewGrid(1, 2)
	require.NoError(t, err)
	g.recompute() // clear the dirty flag NewGrid() already left clean

	err = g.SetSize(Horizontal, 0, g.widths[0])
	require.NoError(t, err)
	assert.False(t, g.dirty)
}

func TestGridSetSizeRejectsOutOfRangeIndex(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)

	assert.Error(t, g.SetSize(Horizontal, 5, 0.5))
	assert.Error(t, g.SetSize(Vertical, -1, 0.5))
}

func TestGridAtPicksLowestRowColOnTie(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)

	g.panels = []*Panel{
		{Mode: GridMode, Row: 1, Col: 1, x: 0, y: 0, w: 1, h: 1},
		{Mode: GridMode, Row: 0, Col: 0, x: 0, y: 0, w: 1, h: 1},
	}

	p := g.At(0.1, 0.1)
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Row)
	assert.Equal(t, 0, p.Col)
}

func TestGridAtPrefersFloatingPanel(t *testing.T) {
	g, err := NewGrid(1, 1)
	require.NoError(t, err)

	gridPanel := &Panel{Mode: GridMode, Row: 0, Col: 0, x: 0, y: 0, w: 1, h: 1}
	floatPanel := &Panel{Mode: FloatingMode, x: 0.2, y: 0.2, w: 0.3, h: 0.3}
	g.panels = []*Panel{gridPanel, floatPanel}

	p := g.At(0.3, 0.3)
	require.NotNil(t, p)
	assert.Same(t, floatPanel, p)
}
