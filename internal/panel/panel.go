package panel

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/andewx/vkl/internal/gpuctx"
	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklite"
)

// MaxVisualsPerPanel bounds the number of visuals a panel can own,
// mirroring original_source's VKL_MAX_VISUALS_PER_PANEL.
const MaxVisualsPerPanel = 64

// Mode is a panel's placement rule within its owning grid.
type Mode int

const (
	GridMode  Mode = iota // occupies (row, col, hspan, vspan) cells of the grid
	InsetMode             // placed like FloatingMode, against the whole canvas; not nested in a parent panel
	FloatingMode
)

// SizeUnit records the unit a panel's explicit width/height (used by INSET
// and FLOATING panels) is given in. The layout code does not read it:
// relative positions and sizes are always treated as Normalized.
type SizeUnit int

const (
	Normalized SizeUnit = iota // fraction of the canvas framebuffer
	Framebuffer
	Screen // physical pixels, independent of DPI scaling
)

// Margins trims a panel's computed rect before it becomes a viewport,
// matching vkl_panel_margins's four-sided signature.
type Margins struct {
	Top, Right, Bottom, Left float32
}

// Viewport is the pixel-space rect a panel's visuals render into, plus the
// scissor/clip behavior original_source's VklViewport carries alongside it.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	DPIScale      float32
	ClipInner     bool // clip drawing to the post-margin inner rect
}

// visualEntry pairs a visual handle (opaque to this package — it only
// needs to carry priority ordering) with its draw priority.
type visualEntry struct {
	handle   interface{}
	priority int
}

// Controller receives per-frame interaction events routed to a panel
// (pan/zoom/axes controllers and similar); left as a thin seam so
// internal/canvas can wire real controllers without this package knowing
// about input event types.
type Controller interface {
	Name() string
}

// Panel is one visualization cell: a placement within a Grid, an owned MVP
// uniform region, a computed Viewport, and up to MaxVisualsPerPanel visuals
// in priority order. Grounded directly on VklPanel in
// original_source/include/visky/panel.h.
type Panel struct {
	status.Object

	grid *Grid

	Mode     Mode
	SizeUnit SizeUnit
	Margins  Margins

	Row, Col, HSpan, VSpan int         // GRID mode only
	relX, relY, relW, relH float32     // INSET/FLOATING mode only, normalized to the canvas

	x, y, w, h float32 // computed normalized rect, pre-margin

	Viewport Viewport

	mvp     vklite.BufferRegion
	mvpData mvpBlock

	controller Controller

	visuals     []visualEntry
	priorityMax int
}

// mvpBlock is the std140-compatible uniform layout a panel's visuals all
// read from: model, view, proj plus a time scalar padded to 16 bytes.
type mvpBlock struct {
	Model mgl32.Mat4
	View  mgl32.Mat4
	Proj  mgl32.Mat4
	Time  float32
	_pad  [3]float32
}

func (b mvpBlock) bytes() []byte {
	out := make([]byte, 0, 4*16*3+16)
	put := func(f float32) {
		bits := math.Float32bits(f)
		out = append(out, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	for _, m := range []mgl32.Mat4{b.Model, b.View, b.Proj} {
		for _, f := range m {
			put(f)
		}
	}
	put(b.Time)
	put(0)
	put(0)
	put(0)
	return out
}

// New creates a GRID-mode panel at (row, col) spanning (hspan, vspan)
// cells, allocating its MVP uniform region from ctx.
func New(ctx *gpuctx.Context, g *Grid, row, col, hspan, vspan int) (*Panel, error) {
	if row < 0 || row >= g.nRows || col < 0 || col >= g.nCols {
		return nil, fmt.Errorf("panel: cell (%d,%d) out of range for %dx%d grid", row, col, g.nRows, g.nCols)
	}
	if hspan < 1 {
		hspan = 1
	}
	if vspan < 1 {
		vspan = 1
	}
	p := &Panel{
		Object:   status.New(status.TypeCustom, fmt.Sprintf("panel[%d,%d]", row, col)),
		grid:     g,
		Mode:     GridMode,
		SizeUnit: Normalized,
		Row:      row, Col: col, HSpan: hspan, VSpan: vspan,
	}
	regions, err := ctx.Buffers(gpuctx.KindUniform, 1, 3*16*4+16)
	if err != nil {
		return nil, fmt.Errorf("panel: allocate MVP uniform: %w", err)
	}
	p.mvp = regions[0]
	p.recompute()
	g.panels = append(g.panels, p)
	p.MarkCreated()
	return p, nil
}

// NewFloating creates a FLOATING-mode panel positioned at (relX, relY)
// with size (relW, relH), all normalized to the canvas.
func NewFloating(ctx *gpuctx.Context, g *Grid, relX, relY, relW, relH float32) (*Panel, error) {
	p := &Panel{
		Object:   status.New(status.TypeCustom, "panel[floating]"),
		grid:     g,
		Mode:     FloatingMode,
		SizeUnit: Normalized,
		relX:     relX, relY: relY, relW: relW, relH: relH,
	}
	regions, err := ctx.Buffers(gpuctx.KindUniform, 1, 3*16*4+16)
	if err != nil {
		return nil, fmt.Errorf("panel: allocate MVP uniform: %w", err)
	}
	p.mvp = regions[0]
	p.recompute()
	g.panels = append(g.panels, p)
	p.MarkCreated()
	return p, nil
}

// recompute derives the panel's normalized rect from its mode/placement.
func (p *Panel) recompute() {
	switch p.Mode {
	case GridMode:
		p.x, p.y, p.w, p.h = p.grid.cellRect(p.Row, p.Col, p.HSpan, p.VSpan)
	case FloatingMode, InsetMode:
		p.x, p.y, p.w, p.h = p.relX, p.relY, p.relW, p.relH
	}
	if p.IsCreated() {
		p.MarkNeedUpdate()
	}
}

// UpdateViewport recomputes the pixel-space Viewport from the panel's
// normalized rect, the framebuffer size, and its margins, implementing
// vkl_panel_viewport.
func (p *Panel) UpdateViewport(fbWidth, fbHeight float32, dpiScale float32) {
	px := p.x * fbWidth
	py := p.y * fbHeight
	pw := p.w * fbWidth
	ph := p.h * fbHeight

	px += p.Margins.Left
	py += p.Margins.Top
	pw -= p.Margins.Left + p.Margins.Right
	ph -= p.Margins.Top + p.Margins.Bottom
	if pw < 0 {
		pw = 0
	}
	if ph < 0 {
		ph = 0
	}

	p.Viewport = Viewport{X: px, Y: py, Width: pw, Height: ph, DPIScale: dpiScale, ClipInner: true}
}

// SetMargins sets the panel's four margins and recomputes need-update
// status, matching vkl_panel_margins.
func (p *Panel) SetMargins(m Margins) {
	p.Margins = m
	p.MarkNeedUpdate()
}

// SetMode changes a panel's placement mode, matching vkl_panel_mode; it
// only affects how recompute() interprets the panel's position fields.
func (p *Panel) SetMode(m Mode) {
	p.Mode = m
	p.recompute()
}

// SetUnit records the panel's size unit, matching vkl_panel_unit.
// SetSpan, SetPos and SetSize do not consult it.
func (p *Panel) SetUnit(u SizeUnit) { p.SizeUnit = u }

// SetSpan updates a GRID-mode panel's span and recomputes its rect,
// matching vkl_panel_span.
func (p *Panel) SetSpan(hspan, vspan int) {
	p.HSpan, p.VSpan = hspan, vspan
	p.recompute()
}

// SetPos repositions a FLOATING or INSET panel, matching vkl_panel_pos.
func (p *Panel) SetPos(x, y float32) {
	p.relX, p.relY = x, y
	p.recompute()
}

// SetSize resizes a FLOATING or INSET panel, matching vkl_panel_size; a
// call with the panel's current size is a no-op, as required by spec.md's
// stated idempotence for panel_size.
func (p *Panel) SetSize(w, h float32) {
	if p.relW == w && p.relH == h {
		return
	}
	p.relW, p.relH = w, h
	p.recompute()
}

// AttachController attaches an interaction controller to the panel.
func (p *Panel) AttachController(c Controller) { p.controller = c }

// Controller returns the panel's attached controller, or nil.
func (p *Panel) Controller() Controller { return p.controller }

// AddVisual registers a visual (opaque handle) at priority, keeping
// visuals sorted so draw order follows ascending priority, matching
// vkl_panel_visual's priority argument.
func (p *Panel) AddVisual(handle interface{}, priority int) error {
	if len(p.visuals) >= MaxVisualsPerPanel {
		return fmt.Errorf("panel: visual limit (%d) reached", MaxVisualsPerPanel)
	}
	p.visuals = append(p.visuals, visualEntry{handle: handle, priority: priority})
	if priority > p.priorityMax {
		p.priorityMax = priority
	}
	i := len(p.visuals) - 1
	for i > 0 && p.visuals[i-1].priority > p.visuals[i].priority {
		p.visuals[i-1], p.visuals[i] = p.visuals[i], p.visuals[i-1]
		i--
	}
	return nil
}

// Visuals returns the panel's visuals in ascending-priority draw order.
func (p *Panel) Visuals() []interface{} {
	out := make([]interface{}, len(p.visuals))
	for i, e := range p.visuals {
		out[i] = e.handle
	}
	return out
}

// contains reports whether normalized position (x, y) falls within the
// panel's rect, used by Grid.At for vkl_panel_at.
func (p *Panel) contains(x, y float32) bool {
	return x >= p.x && x <= p.x+p.w && y >= p.y && y <= p.y+p.h
}

// UpdateMVP writes model/view/proj/time into the panel's uniform region
// via ctx, applying the Vulkan clip-space fixup to proj first.
func (p *Panel) UpdateMVP(ctx *gpuctx.Context, model, view, proj mgl32.Mat4, t float32) error {
	p.mvpData = mvpBlock{Model: model, View: view, Proj: VulkanClipFixup(proj), Time: t}
	return ctx.UploadBuffers(p.mvp, 0, p.mvpData.bytes())
}

// MVPRegion returns the buffer region visuals bind as their SourceMVP.
func (p *Panel) MVPRegion() vklite.BufferRegion { return p.mvp }

// VulkanClipFixup converts an OpenGL-convention projection matrix (Y up,
// Z in [-1, 1]) to Vulkan's clip-space convention (Y down, Z in [0, 1]),
// generalizing the teacher's math.go VulkanProjectionMat — which operated
// on github.com/xlab/linmath's *Mat4x4 — to github.com/go-gl/mathgl's
// value-typed mgl32.Mat4.
func VulkanClipFixup(proj mgl32.Mat4) mgl32.Mat4 {
	fixup := mgl32.Scale3D(1, -1, 0.5).Mul4(mgl32.Translate3D(0, 0, 1))
	return fixup.Mul4(proj)
}

// Destroy releases the panel's MVP uniform bookkeeping. The uniform
// region itself lives in the context's shared bump buffer and is not
// individually freed, per spec.md §4.4.
func (p *Panel) Destroy() {
	if !p.CheckDestroyable() {
		return
	}
	p.MarkDestroyed()
}

