// Package visual implements the property→source→buffer binding and
// baking pipeline described in spec.md §4.7. Nothing in the teacher
// repo has an analog for this — vulkan-go-asche draws one hardcoded
// triangle — so the wiring pattern (buffers owned by a context,
// descriptor sets bound via Bindings) is grounded on gpuctx/vklite, and
// the data-model shape (closed source/prop kind enums, dense typed
// per-prop arrays with dirty bits) follows spec.md §4.7 and
// original_source's VklSource/VklProp directly.
package visual

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/gpuctx"
	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/transform"
	"github.com/andewx/vkl/internal/vklite"
)

// SourceKind is the closed enum of buffer/image roles a visual declares.
type SourceKind int

const (
	SourceVertex SourceKind = iota
	SourceIndex
	SourceParam // uniform
	SourceStorage
	SourceTransfer
	SourceImage
	SourceFontAtlas
	SourceViewport
	SourceMVP
)

// PropKind is the closed enum of prop roles a visual exposes to users.
type PropKind int

const (
	PropPos PropKind = iota
	PropColor
	PropText
	PropMarkerSize
	PropLineWidth
	PropCap
	PropModel
	PropView
	PropProj
	PropTime
	PropCustom
)

// ItemType names the element type backing a prop's dense array, used to
// compute byte strides when baking into a source.
type ItemType int

const (
	ItemFloat32 ItemType = iota
	ItemVec2
	ItemVec3
	ItemVec4
	ItemUint32
)

// ItemSize returns the byte size of one item of t.
func (t ItemType) ItemSize() int {
	switch t {
	case ItemFloat32, ItemUint32:
		return 4
	case ItemVec2:
		return 8
	case ItemVec3:
		return 12
	case ItemVec4:
		return 16
	default:
		return 4
	}
}

// Shape describes the per-item size and count a Source is sized for.
type Shape struct {
	ItemSize int
	Count    int
}

// Source is a declared producing point for a visual — either a
// BufferRegion the visual owns (allocated via the context) or an
// externally-provided Images+Sampler pair.
type Source struct {
	Kind       SourceKind
	SlotIdx    int
	BindingIdx uint32
	Location   uint32
	Shape      Shape

	Region  vklite.BufferRegion
	Images  *vklite.Images
	Sampler *vklite.Sampler
}

// Prop stores a user-set dense array for one (kind, index) pair, packed
// as raw bytes so the package does not need a generic type parameter per
// ItemType; field offset/stride bookkeeping lives in fieldMap below.
type Prop struct {
	Kind     PropKind
	Index    int
	ItemType ItemType
	data     []byte
	count    int
	dirty    bool
}

type propKey struct {
	kind  PropKind
	index int
}

// fieldMap records where a prop's bytes land inside a source's region.
type fieldMap struct {
	sourceIdx   int
	fieldOffset int
	fieldStride int
}

// Baker merges a visual's dirty props into its source byte buffers. This
// is the hook point internal/builtin's registry populates per
// (visual_kind, flags) — the AXES_2D baker additionally consults an
// injected tick-computation collaborator, everything else here is
// baker-agnostic.
type Baker func(v *Visual) error

// Visual owns graphics pipelines, declared sources, user-facing props,
// and the prop→source field mapping, per spec.md §3's Visual data model.
type Visual struct {
	status.Object

	ctx      *gpuctx.Context
	Graphics []*vklite.GraphicsPipeline

	sources []*Source
	props   map[propKey]*Prop
	mapping map[propKey]fieldMap
	order   []propKey // registration order, for deterministic baking

	baker Baker

	// NeedRefillPropagate is set at the end of visual_update (step 5) and
	// polled by the owning panel/canvas to decide whether a command-buffer
	// re-record is required. It is intentionally not part of status.Status:
	// visual_update does not change the object's create/destroy lifecycle,
	// only whether its draw commands are stale.
	NeedRefillPropagate bool
}

// New creates an empty visual bound to ctx for buffer allocation.
func New(ctx *gpuctx.Context, name string, baker Baker) *Visual {
	return &Visual{
		Object:  status.New(status.TypeCustom, name),
		ctx:     ctx,
		props:   make(map[propKey]*Prop),
		mapping: make(map[propKey]fieldMap),
		baker:   baker,
	}
}

// DeclareSource appends a source and returns its index.
func (v *Visual) DeclareSource(s Source) int {
	v.sources = append(v.sources, &s)
	return len(v.sources) - 1
}

// MapProp records that prop (kind, index) bakes into sourceIdx at
// fieldOffset with fieldStride between consecutive items.
func (v *Visual) MapProp(kind PropKind, index, sourceIdx, fieldOffset, fieldStride int) {
	v.mapping[propKey{kind, index}] = fieldMap{sourceIdx: sourceIdx, fieldOffset: fieldOffset, fieldStride: fieldStride}
}

// Source returns the i'th declared source.
func (v *Visual) Source(i int) *Source { return v.sources[i] }

// VisualData copies data into the prop's dense array (resizing if
// needed) and marks it dirty, implementing spec.md §4.7's
// visual_data(visual, prop_kind, index, n, ptr).
func (v *Visual) VisualData(kind PropKind, index int, itemType ItemType, data []byte) {
	key := propKey{kind, index}
	p, ok := v.props[key]
	if !ok {
		p = &Prop{Kind: kind, Index: index, ItemType: itemType}
		v.props[key] = p
		v.order = append(v.order, key)
	}
	p.data = append(p.data[:0], data...)
	p.count = len(data) / itemType.ItemSize()
	p.dirty = true
}

// VisualBuffer binds an externally-uploaded region to a source, for
// sources whose producing rule is "explicit user upload" rather than
// prop-baking (spec.md §3's Visual invariant).
func (v *Visual) VisualBuffer(sourceIdx int, region vklite.BufferRegion) {
	v.sources[sourceIdx].Region = region
}

// VisualTexture binds an externally-provided image+sampler to a source.
func (v *Visual) VisualTexture(sourceIdx int, images *vklite.Images, sampler *vklite.Sampler) {
	v.sources[sourceIdx].Images = images
	v.sources[sourceIdx].Sampler = sampler
}

// Params carries per-frame values beyond props: the panel's MVP and the
// current time, mirroring spec.md §4.7's
// visual_update(visual, viewport, coords, params) signature. Update accepts
// it but does not read it; the panel's MVP is uploaded by panel.UpdateMVP.
type Params struct {
	Model mgl32.Mat4
	View  mgl32.Mat4
	Proj  mgl32.Mat4
	Time  float32
}

// Update runs the five-step visual_update procedure from spec.md §4.7:
// bake dirty props, optionally CPU-transform POS, allocate/reuse buffer
// regions sized to the baked data, upload dirty regions, then clear dirty
// bits and mark NeedRefillPropagate.
func (v *Visual) Update(coords transform.DataCoords, epsilon float32, params Params) error {
	if v.baker != nil {
		if err := v.baker(v); err != nil {
			return fmt.Errorf("visual %q: bake: %w", v.Name, err)
		}
	}

	if posProp, ok := v.props[propKey{PropPos, 0}]; ok && posProp.dirty {
		v.transformPos(coords, epsilon, posProp)
	}

	for _, key := range v.order {
		p := v.props[key]
		if !p.dirty {
			continue
		}
		fm, ok := v.mapping[key]
		if !ok {
			continue // prop has no source mapping (e.g. consumed only by the baker)
		}
		src := v.sources[fm.sourceIdx]
		needed := vk.DeviceSize(p.count * fm.fieldStride)
		if src.Region.Buffer == nil || src.Region.Size < needed {
			kind := sourceToBufferKind(src.Kind)
			regions, err := v.ctx.Buffers(kind, 1, needed)
			if err != nil {
				return fmt.Errorf("visual %q: allocate source %d: %w", v.Name, fm.sourceIdx, err)
			}
			src.Region = regions[0]
		}
		if err := v.ctx.UploadBuffers(src.Region, vk.DeviceSize(fm.fieldOffset), p.data); err != nil {
			return fmt.Errorf("visual %q: upload source %d: %w", v.Name, fm.sourceIdx, err)
		}
		p.dirty = false
	}

	v.NeedRefillPropagate = true
	return nil
}

func (v *Visual) transformPos(coords transform.DataCoords, epsilon float32, posProp *Prop) {
	n := posProp.count
	in := make([]mgl32.Vec2, n)
	for i := 0; i < n; i++ {
		off := i * 8
		in[i] = mgl32.Vec2{
			bytesToFloat32(posProp.data[off : off+4]),
			bytesToFloat32(posProp.data[off+4 : off+8]),
		}
	}
	out := make([]mgl32.Vec2, n)
	transform.Apply(coords, in, out, epsilon, nil)
	for i, p := range out {
		off := i * 8
		float32ToBytes(p.X(), posProp.data[off:off+4])
		float32ToBytes(p.Y(), posProp.data[off+4:off+8])
	}
}

func sourceToBufferKind(k SourceKind) gpuctx.Kind {
	switch k {
	case SourceIndex:
		return gpuctx.KindIndex
	case SourceParam, SourceMVP, SourceViewport:
		return gpuctx.KindUniform
	case SourceStorage:
		return gpuctx.KindStorage
	default:
		return gpuctx.KindVertex
	}
}

func bytesToFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}

func float32ToBytes(f float32, out []byte) {
	bits := math.Float32bits(f)
	out[0] = byte(bits)
	out[1] = byte(bits >> 8)
	out[2] = byte(bits >> 16)
	out[3] = byte(bits >> 24)
}
