package builtin

import (
	"github.com/andewx/vkl/internal/visual"
)

// declareStandardSources wires the POS vec2 / COLOR vec4 vertex layout
// shared by every kind except TEXT/IMAGE/AXES_2D: two baked vertex
// sources plus an externally-bound MVP uniform source (the caller binds
// the owning panel's MVPRegion to this source via visual.VisualBuffer;
// Panel.AddVisual does not bind it).
// FlagIndexed additionally declares an index source the caller fills via
// VisualBuffer, distinguishing MESH (indexed) from MESH_RAW (scenario 1's
// flat triangle, drawn vertex-only).
func declareStandardSources(v *visual.Visual, kind Kind, flags Flags) {
	posIdx := v.DeclareSource(visual.Source{Kind: visual.SourceVertex, SlotIdx: 0, Location: 0})
	colorIdx := v.DeclareSource(visual.Source{Kind: visual.SourceVertex, SlotIdx: 1, Location: 1})
	v.DeclareSource(visual.Source{Kind: visual.SourceMVP, BindingIdx: 0})

	v.MapProp(visual.PropPos, 0, posIdx, 0, 8)
	v.MapProp(visual.PropColor, 0, colorIdx, 0, 16)

	if flags&FlagIndexed != 0 {
		v.DeclareSource(visual.Source{Kind: visual.SourceIndex})
	}
}

// declareTextSources wires TEXT's POS/font-atlas-image layout: baked
// glyph positions plus an externally-bound font atlas image and sampler,
// per spec.md §4.9's requirement that TEXT consume a font atlas.
func declareTextSources(v *visual.Visual) {
	posIdx := v.DeclareSource(visual.Source{Kind: visual.SourceVertex, SlotIdx: 0, Location: 0})
	v.DeclareSource(visual.Source{Kind: visual.SourceFontAtlas, BindingIdx: 1})
	v.DeclareSource(visual.Source{Kind: visual.SourceMVP, BindingIdx: 0})

	v.MapProp(visual.PropPos, 0, posIdx, 0, 8)
	// PropText's variable-length glyph runs are consumed by the caller's
	// text-layout step before visual_data ever sees them (spec.md §4.9
	// scopes glyph shaping out), so no prop->source mapping is declared
	// here, and TEXT visuals have no baker that reads PropText.
}

// declareImageSources wires IMAGE's quad-position plus externally-bound
// texture source.
func declareImageSources(v *visual.Visual) {
	posIdx := v.DeclareSource(visual.Source{Kind: visual.SourceVertex, SlotIdx: 0, Location: 0})
	v.DeclareSource(visual.Source{Kind: visual.SourceImage, BindingIdx: 1})
	v.DeclareSource(visual.Source{Kind: visual.SourceMVP, BindingIdx: 0})

	v.MapProp(visual.PropPos, 0, posIdx, 0, 8)
}

// declareAxesSources wires AXES_2D's two baked line-segment sources
// (major/minor tick positions), populated entirely by the baker rather
// than by user VisualData calls, per spec.md §4.9's delegation to an
// injected TickComputer.
func declareAxesSources(v *visual.Visual, ticks TickComputer) {
	majorIdx := v.DeclareSource(visual.Source{Kind: visual.SourceVertex, SlotIdx: 0, Location: 0}) // POS@MAJOR
	minorIdx := v.DeclareSource(visual.Source{Kind: visual.SourceVertex, SlotIdx: 1, Location: 0}) // POS@MINOR
	v.DeclareSource(visual.Source{Kind: visual.SourceMVP, BindingIdx: 0})

	// PropPos index 0 carries POS@MAJOR, index 1 carries POS@MINOR — the
	// axesBaker (bakers.go) computes both from the injected TickComputer
	// and calls VisualData for each before the generic mapping loop bakes
	// them into their sources.
	v.MapProp(visual.PropPos, 0, majorIdx, 0, 8)
	v.MapProp(visual.PropPos, 1, minorIdx, 0, 8)
}
