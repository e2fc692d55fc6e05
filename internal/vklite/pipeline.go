package vklite

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklerr"
)

// GraphicsPipeline builds a vk.Pipeline, generalizing the teacher's
// PipelineBuilder (pipeline.go) — which hardcoded triangle-list topology,
// no vertex input, no depth test, and a single fixed blend state for one
// scene — into a fluent builder so each builtin visual (point, line,
// mesh, text...) configures only what it needs.
type GraphicsPipeline struct {
	status.Object

	gpu    *GPU
	handle vk.Pipeline
	layout vk.PipelineLayout

	stages       []vk.PipelineShaderStageCreateInfo
	bindings     []vk.VertexInputBindingDescription
	attrs        []vk.VertexInputAttributeDescription
	topology     vk.PrimitiveTopology
	polygonMode  vk.PolygonMode
	cullMode     vk.CullModeFlags
	frontFace    vk.FrontFace
	blendEnable  bool
	depthTest    bool
	depthWrite   bool
}

// NewGraphicsPipeline starts a builder with the teacher's defaults
// (triangle list, fill, no cull, clockwise front face, no blend, no
// depth test) that callers override via the builder methods (Topology,
// PolygonMode, CullMode, ...).
func NewGraphicsPipeline(gpu *GPU, name string, layout vk.PipelineLayout) *GraphicsPipeline {
	return &GraphicsPipeline{
		Object:      status.New(status.TypeGraphics, name),
		gpu:         gpu,
		layout:      layout,
		topology:    vk.PrimitiveTopologyTriangleList,
		polygonMode: vk.PolygonModeFill,
		cullMode:    vk.CullModeFlags(vk.CullModeNone),
		frontFace:   vk.FrontFaceClockwise,
	}
}

// Shader adds a shader stage.
func (p *GraphicsPipeline) Shader(stage vk.ShaderStageFlagBits, module vk.ShaderModule) *GraphicsPipeline {
	p.stages = append(p.stages, vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: module,
		PName:  safeString("main"),
	})
	return p
}

// VertexBinding declares a vertex buffer binding.
func (p *GraphicsPipeline) VertexBinding(binding, stride uint32, rate vk.VertexInputRate) *GraphicsPipeline {
	p.bindings = append(p.bindings, vk.VertexInputBindingDescription{
		Binding:   binding,
		Stride:    stride,
		InputRate: rate,
	})
	return p
}

// VertexAttr declares one vertex attribute within a binding, argument order
// matching spec.md §4.3's vertex_attr(binding, location, ...).
func (p *GraphicsPipeline) VertexAttr(binding, location uint32, format vk.Format, offset uint32) *GraphicsPipeline {
	p.attrs = append(p.attrs, vk.VertexInputAttributeDescription{
		Location: location,
		Binding:  binding,
		Format:   format,
		Offset:   offset,
	})
	return p
}

// Topology overrides the primitive topology (point list, line strip...).
func (p *GraphicsPipeline) Topology(t vk.PrimitiveTopology) *GraphicsPipeline {
	p.topology = t
	return p
}

// PolygonMode overrides fill/line/point rasterization.
func (p *GraphicsPipeline) PolygonMode(m vk.PolygonMode) *GraphicsPipeline {
	p.polygonMode = m
	return p
}

// CullMode overrides back/front-face culling.
func (p *GraphicsPipeline) CullMode(m vk.CullModeFlagBits) *GraphicsPipeline {
	p.cullMode = vk.CullModeFlags(m)
	return p
}

// FrontFace overrides winding order.
func (p *GraphicsPipeline) FrontFace(f vk.FrontFace) *GraphicsPipeline {
	p.frontFace = f
	return p
}

// Blend enables straight alpha blending (disabled by default).
func (p *GraphicsPipeline) Blend(enable bool) *GraphicsPipeline {
	p.blendEnable = enable
	return p
}

// DepthTest enables depth testing and optionally depth writes, for mesh
// and image visuals that need it (point/line visuals typically don't).
func (p *GraphicsPipeline) DepthTest(test, write bool) *GraphicsPipeline {
	p.depthTest = test
	p.depthWrite = write
	return p
}

// Create builds the pipeline against renderpass at the given viewport
// extent.
func (p *GraphicsPipeline) Create(renderpass *Renderpass, extent vk.Extent2D) error {
	vertexInput := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(p.bindings)),
		PVertexBindingDescriptions:      p.bindings,
		VertexAttributeDescriptionCount: uint32(len(p.attrs)),
		PVertexAttributeDescriptions:    p.attrs,
	}
	assembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology: p.topology,
	}
	rasterizer := vk.PipelineRasterizationStateCreateInfo{
		SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode: p.polygonMode,
		CullMode:    p.cullMode,
		FrontFace:   p.frontFace,
		LineWidth:   1.0,
	}
	multisample := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: vk.SampleCount1Bit,
		MinSampleShading:     1.0,
	}
	colorWrite := vk.ColorComponentFlags(vk.ColorComponentRBit) | vk.ColorComponentFlags(vk.ColorComponentGBit) |
		vk.ColorComponentFlags(vk.ColorComponentBBit) | vk.ColorComponentFlags(vk.ColorComponentABit)
	blendAttachment := vk.PipelineColorBlendAttachmentState{
		ColorWriteMask: colorWrite,
		BlendEnable:    vk.Bool32(0),
	}
	if p.blendEnable {
		blendAttachment.BlendEnable = vk.True
		blendAttachment.SrcColorBlendFactor = vk.BlendFactorSrcAlpha
		blendAttachment.DstColorBlendFactor = vk.BlendFactorOneMinusSrcAlpha
		blendAttachment.ColorBlendOp = vk.BlendOpAdd
		blendAttachment.SrcAlphaBlendFactor = vk.BlendFactorOne
		blendAttachment.DstAlphaBlendFactor = vk.BlendFactorZero
		blendAttachment.AlphaBlendOp = vk.BlendOpAdd
	}
	blendState := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{blendAttachment},
	}
	depthState := vk.PipelineDepthStencilStateCreateInfo{
		SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:  boolToVk(p.depthTest),
		DepthWriteEnable: boolToVk(p.depthWrite),
		DepthCompareOp:   vk.CompareOpLess,
	}
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports: []vk.Viewport{{
			Width: float32(extent.Width), Height: float32(extent.Height), MaxDepth: 1,
		}},
		ScissorCount: 1,
		PScissors:    []vk.Rect2D{{Extent: extent}},
	}

	info := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(p.stages)),
		PStages:             p.stages,
		PVertexInputState:   &vertexInput,
		PInputAssemblyState: &assembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisample,
		PColorBlendState:    &blendState,
		PDepthStencilState:  &depthState,
		Layout:              p.layout,
		RenderPass:          renderpass.Handle(),
	}

	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret := vk.CreateGraphicsPipelines(p.gpu.Handle(), vk.NullPipelineCache, 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pipelines)
	if vklerr.IsError(ret) {
		return vklerr.NewError(ret)
	}
	p.handle = pipelines[0]
	p.MarkCreated()
	return nil
}

// Handle returns the built vk.Pipeline.
func (p *GraphicsPipeline) Handle() vk.Pipeline { return p.handle }

// Destroy releases the pipeline. Idempotent.
func (p *GraphicsPipeline) Destroy() {
	if !p.CheckDestroyable() {
		return
	}
	vk.DestroyPipeline(p.gpu.Handle(), p.handle, nil)
	p.MarkDestroyed()
}

// ComputePipeline wraps a compute vk.Pipeline. Bindings (its descriptor
// set layout) must exist before Create, unlike GraphicsPipeline which can
// be built with an empty layout for vertex-pulling visuals.
type ComputePipeline struct {
	status.Object

	gpu    *GPU
	handle vk.Pipeline
	layout vk.PipelineLayout
	shader vk.ShaderModule
}

// NewComputePipeline starts a compute pipeline bound to layout (normally
// a Bindings.Layout()) and its compute shader module.
func NewComputePipeline(gpu *GPU, name string, layout vk.PipelineLayout, shader vk.ShaderModule) *ComputePipeline {
	return &ComputePipeline{Object: status.New(status.TypeCompute, name), gpu: gpu, layout: layout, shader: shader}
}

// Create builds the vk.Pipeline.
func (c *ComputePipeline) Create() error {
	info := vk.ComputePipelineCreateInfo{
		SType: vk.StructureTypeComputePipelineCreateInfo,
		Stage: vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageComputeBit,
			Module: c.shader,
			PName:  safeString("main"),
		},
		Layout: c.layout,
	}
	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret := vk.CreateComputePipelines(c.gpu.Handle(), vk.NullPipelineCache, 1, []vk.ComputePipelineCreateInfo{info}, nil, pipelines)
	if vklerr.IsError(ret) {
		return vklerr.NewError(ret)
	}
	c.handle = pipelines[0]
	c.MarkCreated()
	return nil
}

// Handle returns the built vk.Pipeline.
func (c *ComputePipeline) Handle() vk.Pipeline { return c.handle }

// Destroy releases the pipeline. Idempotent.
func (c *ComputePipeline) Destroy() {
	if !c.CheckDestroyable() {
		return
	}
	vk.DestroyPipeline(c.gpu.Handle(), c.handle, nil)
	c.MarkDestroyed()
}

func boolToVk(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}
