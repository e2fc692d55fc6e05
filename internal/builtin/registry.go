package builtin

import (
	"fmt"
	"path/filepath"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/gpuctx"
	"github.com/andewx/vkl/internal/vklite"
	"github.com/andewx/vkl/internal/visual"
)

// layout describes one kind's fixed vertex attribute set and topology.
// Every required kind other than TEXT/IMAGE/AXES_2D uses exactly this
// shape: a POS vec2 at location 0 binding 0, a COLOR vec4 at location 1
// binding 1, generalizing the teacher's single hardcoded
// pos(vec2)+color(vec3) triangle layout (instance.go's vertex input
// state) to per-kind topology/polygon-mode choices.
type layout struct {
	topology    vk.PrimitiveTopology
	polygonMode vk.PolygonMode
	depthTest   bool
	colorInput  bool // whether the pipeline declares a second COLOR vertex binding
	vertShader  string
	fragShader  string
}

// table holds one entry per required Kind, naming the SPIR-V files the
// registry loads from its shader directory — the teacher never compiles
// shaders into the binary either (core.go's shader_map reads
// "shaders/vert.spv"/"shaders/frag.spv" from disk), so builtin visuals
// follow the same convention with one vert/frag pair per kind.
var table = map[Kind]layout{
	KindPoint:     {vk.PrimitiveTopologyPointList, vk.PolygonModeFill, false, true, "point.vert.spv", "point.frag.spv"},
	KindMarker:    {vk.PrimitiveTopologyPointList, vk.PolygonModeFill, false, true, "marker.vert.spv", "marker.frag.spv"},
	KindLine:      {vk.PrimitiveTopologyLineList, vk.PolygonModeFill, false, true, "line.vert.spv", "line.frag.spv"},
	KindLineStrip: {vk.PrimitiveTopologyLineStrip, vk.PolygonModeFill, false, true, "line.vert.spv", "line.frag.spv"},
	KindSegment:   {vk.PrimitiveTopologyLineList, vk.PolygonModeFill, false, true, "line.vert.spv", "line.frag.spv"},
	KindPath:      {vk.PrimitiveTopologyLineStrip, vk.PolygonModeFill, false, true, "line.vert.spv", "line.frag.spv"},
	KindMesh:      {vk.PrimitiveTopologyTriangleList, vk.PolygonModeFill, true, true, "mesh.vert.spv", "mesh.frag.spv"},
	KindMeshRaw:   {vk.PrimitiveTopologyTriangleList, vk.PolygonModeFill, true, true, "mesh.vert.spv", "mesh.frag.spv"},
	KindPolygon:   {vk.PrimitiveTopologyTriangleFan, vk.PolygonModeFill, false, true, "mesh.vert.spv", "mesh.frag.spv"},
	KindAxes2D:    {vk.PrimitiveTopologyLineList, vk.PolygonModeFill, false, false, "line.vert.spv", "line.frag.spv"},
	KindText:      {vk.PrimitiveTopologyTriangleList, vk.PolygonModeFill, false, false, "text.vert.spv", "text.frag.spv"},
	KindImage:     {vk.PrimitiveTopologyTriangleStrip, vk.PolygonModeFill, false, false, "image.vert.spv", "image.frag.spv"},
}

// Registry builds builtin visuals against a GPU and renderpass, loading
// shader modules from shaderDir on demand and caching the built
// GraphicsPipeline per (kind, flags) so repeated Create calls for the
// same kind (e.g. many POINT visuals in one scene) share one pipeline,
// matching spec.md §4.9's "registry maps (visual_kind, flags) to
// pipelines" description.
type Registry struct {
	gpu       *vklite.GPU
	shaderDir string
	ticks     TickComputer

	pipelines map[regKey]*vklite.GraphicsPipeline
	bindings  map[regKey]*vklite.Bindings
}

type regKey struct {
	kind  Kind
	flags Flags
}

// NewRegistry creates a builtin-visual registry. ticks may be nil unless
// AXES_2D visuals will be built, in which case CreateAxes2D returns an
// error.
func NewRegistry(gpu *vklite.GPU, shaderDir string, ticks TickComputer) *Registry {
	return &Registry{
		gpu:       gpu,
		shaderDir: shaderDir,
		ticks:     ticks,
		pipelines: make(map[regKey]*vklite.GraphicsPipeline),
		bindings:  make(map[regKey]*vklite.Bindings),
	}
}

// Create builds (or reuses a cached) pipeline for (kind, flags) against
// pass/extent, then returns a new visual.Visual wired with that kind's
// sources, prop mappings, and baker, bound to ctx for buffer allocation.
func (r *Registry) Create(ctx *gpuctx.Context, kind Kind, flags Flags, pass *vklite.Renderpass, extent vk.Extent2D) (*visual.Visual, error) {
	if kind == KindAxes2D {
		return nil, fmt.Errorf("builtin: AXES_2D must be built via CreateAxes2D")
	}

	pipe, err := r.pipelineFor(kind, flags, pass, extent)
	if err != nil {
		return nil, err
	}

	v := visual.New(ctx, kind.String(), nil)
	v.Graphics = []*vklite.GraphicsPipeline{pipe}

	switch kind {
	case KindText:
		declareTextSources(v)
	case KindImage:
		declareImageSources(v)
	default:
		declareStandardSources(v, kind, flags)
	}

	v.MarkCreated()
	return v, nil
}

// CreateAxes2D builds an AXES_2D visual. Unlike Create's kinds, its
// sources are populated entirely by a baker that consults the registry's
// TickComputer rather than by user visual_data calls, so it returns an
// AxesState the caller mutates (axis range, max tick count) before each
// Visual.Update — the injected-collaborator boundary spec.md §4.9 and
// SPEC_FULL.md's GLOSSARY describe.
func (r *Registry) CreateAxes2D(ctx *gpuctx.Context, pass *vklite.Renderpass, extent vk.Extent2D) (*visual.Visual, *AxesState, error) {
	if r.ticks == nil {
		return nil, nil, fmt.Errorf("builtin: AXES_2D requires a TickComputer")
	}

	pipe, err := r.pipelineFor(KindAxes2D, FlagNone, pass, extent)
	if err != nil {
		return nil, nil, err
	}

	state := &AxesState{MaxTicks: 10}
	v := visual.New(ctx, KindAxes2D.String(), axesBaker(r.ticks, state))
	v.Graphics = []*vklite.GraphicsPipeline{pipe}
	declareAxesSources(v, r.ticks)

	v.MarkCreated()
	return v, state, nil
}

// pipelineFor returns the cached pipeline for (kind, flags), building it
// on first use.
func (r *Registry) pipelineFor(kind Kind, flags Flags, pass *vklite.Renderpass, extent vk.Extent2D) (*vklite.GraphicsPipeline, error) {
	key := regKey{kind, flags}
	if pipe, ok := r.pipelines[key]; ok {
		return pipe, nil
	}
	built, bindings, err := r.build(kind, flags, pass, extent)
	if err != nil {
		return nil, fmt.Errorf("builtin: build %s: %w", kind, err)
	}
	r.pipelines[key] = built
	r.bindings[key] = bindings
	return built, nil
}

func (r *Registry) build(kind Kind, flags Flags, pass *vklite.Renderpass, extent vk.Extent2D) (*vklite.GraphicsPipeline, *vklite.Bindings, error) {
	lay, ok := table[kind]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported kind %s", kind)
	}

	bindings := vklite.NewBindings(r.gpu, kind.String()+"-bindings", []vklite.Slot{
		{Binding: 0, Type: vk.DescriptorTypeUniformBuffer, Stages: vk.ShaderStageFlags(vk.ShaderStageVertexBit)},
	})
	if err := bindings.Create(1); err != nil {
		return nil, nil, fmt.Errorf("bindings: %w", err)
	}

	vert, err := vklite.LoadShaderModule(r.gpu, filepath.Join(r.shaderDir, lay.vertShader))
	if err != nil {
		bindings.Destroy()
		return nil, nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer vklite.DestroyShaderModule(r.gpu, vert)

	frag, err := vklite.LoadShaderModule(r.gpu, filepath.Join(r.shaderDir, lay.fragShader))
	if err != nil {
		bindings.Destroy()
		return nil, nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer vklite.DestroyShaderModule(r.gpu, frag)

	pipe := vklite.NewGraphicsPipeline(r.gpu, kind.String()+"-pipeline", bindings.Layout()).
		Shader(vk.ShaderStageVertexBit, vert).
		Shader(vk.ShaderStageFragmentBit, frag).
		Topology(lay.topology).
		PolygonMode(lay.polygonMode).
		DepthTest(lay.depthTest, lay.depthTest).
		VertexBinding(0, 8, vk.VertexInputRateVertex).
		VertexAttr(0, 0, vk.FormatR32g32Sfloat, 0)
	if lay.colorInput {
		pipe.VertexBinding(1, 16, vk.VertexInputRateVertex).
			VertexAttr(1, 1, vk.FormatR32g32b32a32Sfloat, 0)
	}

	if err := pipe.Create(pass, extent); err != nil {
		bindings.Destroy()
		return nil, nil, fmt.Errorf("pipeline: %w", err)
	}
	return pipe, bindings, nil
}

// Destroy releases every cached pipeline and its bindings.
func (r *Registry) Destroy() {
	for _, p := range r.pipelines {
		p.Destroy()
	}
	for _, b := range r.bindings {
		b.Destroy()
	}
}
