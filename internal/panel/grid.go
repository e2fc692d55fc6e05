// Package panel implements the row/column grid layout, per-panel
// viewport computation, and shared MVP uniform management from spec.md
// §4.8, grounded directly on original_source's VklGrid/VklPanel
// (include/visky/panel.h) for the data model and on the teacher's
// math.go VulkanProjectionMat for the GL->Vulkan clip-space fixup,
// rebuilt with go-gl/mathgl instead of xlab/linmath.
package panel

import "fmt"

// MaxRows/MaxCols mirror original_source's VKL_GRID_MAX_ROWS/COLS; Grid
// rejects construction requests exceeding them.
const (
	MaxRows = 64
	MaxCols = 64
)

// Axis selects which grid dimension panel_size/panel_span operates on.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Grid holds normalized row/column offsets and sizes, recomputed from
// prefix sums whenever a panel's span or size changes.
type Grid struct {
	nRows, nCols int
	widths       []float64 // per-column, normalized
	heights      []float64 // per-row, normalized
	xs           []float32 // per-column prefix-sum offsets, length nCols+1
	ys           []float32 // per-row prefix-sum offsets, length nRows+1

	panels []*Panel
	dirty  bool
}

// NewGrid builds a Grid with rows/cols uniformly sized, as
// vkl_grid(canvas, rows, cols) does in original_source.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || rows > MaxRows || cols <= 0 || cols > MaxCols {
		return nil, fmt.Errorf("panel: grid dimensions out of range (rows=%d cols=%d, max %dx%d)", rows, cols, MaxRows, MaxCols)
	}
	g := &Grid{nRows: rows, nCols: cols}
	g.widths = make([]float64, cols)
	g.heights = make([]float64, rows)
	for i := range g.widths {
		g.widths[i] = 1.0 / float64(cols)
	}
	for i := range g.heights {
		g.heights[i] = 1.0 / float64(rows)
	}
	g.recompute()
	return g, nil
}

// Rows/Cols return the grid's dimensions.
func (g *Grid) Rows() int { return g.nRows }
func (g *Grid) Cols() int { return g.nCols }

// SetSize resizes row row or column col on axis to value (normalized
// fraction of the canvas), marking the grid dirty. Mirrors
// vkl_panel_size's effect on the owning grid.
func (g *Grid) SetSize(axis Axis, index int, value float64) error {
	switch axis {
	case Horizontal:
		if index < 0 || index >= g.nCols {
			return fmt.Errorf("panel: column %d out of range", index)
		}
		if g.widths[index] == value {
			return nil // panel_size is a no-op when the value does not change
		}
		g.widths[index] = value
	case Vertical:
		if index < 0 || index >= g.nRows {
			return fmt.Errorf("panel: row %d out of range", index)
		}
		if g.heights[index] == value {
			return nil
		}
		g.heights[index] = value
	}
	g.dirty = true
	g.recompute()
	return nil
}

// recompute rebuilds xs/ys from prefix sums of widths/heights, as
// VklGrid.update() does.
func (g *Grid) recompute() {
	g.xs = make([]float32, g.nCols+1)
	for i := 0; i < g.nCols; i++ {
		g.xs[i+1] = g.xs[i] + float32(g.widths[i])
	}
	g.ys = make([]float32, g.nRows+1)
	for i := 0; i < g.nRows; i++ {
		g.ys[i+1] = g.ys[i] + float32(g.heights[i])
	}
	g.dirty = false
}

// cellRect returns the normalized (x, y, w, h) for a GRID-mode panel
// spanning (row, col, hspan, vspan).
func (g *Grid) cellRect(row, col, hspan, vspan int) (x, y, w, h float32) {
	x = g.xs[col]
	y = g.ys[row]
	w = g.xs[minInt(col+hspan, g.nCols)] - x
	h = g.ys[minInt(row+vspan, g.nRows)] - y
	return
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// At returns the panel containing normalized position pos, with ties
// broken by topmost FLOATING panel first, then lowest (row, col),
// implementing vkl_panel_at.
func (g *Grid) At(x, y float32) *Panel {
	// Last-added is topmost, so scan floating panels in reverse to find the
	// most-recently-added one that contains pos.
	for i := len(g.panels) - 1; i >= 0; i-- {
		p := g.panels[i]
		if p.Mode == FloatingMode && p.contains(x, y) {
			return p
		}
	}

	var best *Panel
	for _, p := range g.panels {
		if p.Mode == FloatingMode || !p.contains(x, y) {
			continue
		}
		if best == nil || (p.Row < best.Row) || (p.Row == best.Row && p.Col < best.Col) {
			best = p
		}
	}
	return best
}
