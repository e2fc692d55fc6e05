package vklite

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklerr"
)

// Renderpass builds a vk.RenderPass from accumulated attachment
// descriptions, one subpass's attachment references, and subpass
// dependencies, generalizing the teacher's CreateRenderPass (renderpass.go)
// — which hardcoded exactly one color and one depth attachment — into a
// builder that can describe a color-only pass (most builtin visuals) or a
// color+depth pass (mesh/3D visuals) from the same code.
type Renderpass struct {
	status.Object

	gpu     *GPU
	handle  vk.RenderPass

	attachments  []vk.AttachmentDescription
	colorRefs    []vk.AttachmentReference
	depthRef     *vk.AttachmentReference
	dependencies []vk.SubpassDependency
}

// NewRenderpass starts an empty renderpass builder.
func NewRenderpass(gpu *GPU, name string) *Renderpass {
	return &Renderpass{Object: status.New(status.TypeRenderpass, name), gpu: gpu}
}

// Attachment appends a color or depth attachment description and returns
// its index for use with ColorAttachment/DepthAttachment.
func (r *Renderpass) Attachment(format vk.Format, loadOp vk.AttachmentLoadOp, storeOp vk.AttachmentStoreOp, initialLayout, finalLayout vk.ImageLayout) int {
	r.attachments = append(r.attachments, vk.AttachmentDescription{
		Format:         format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         loadOp,
		StoreOp:        storeOp,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  initialLayout,
		FinalLayout:    finalLayout,
	})
	return len(r.attachments) - 1
}

// ColorAttachment registers attachment index as a color attachment of the
// single subpass this builder describes.
func (r *Renderpass) ColorAttachment(index int) *Renderpass {
	r.colorRefs = append(r.colorRefs, vk.AttachmentReference{
		Attachment: uint32(index),
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	})
	return r
}

// DepthAttachment registers attachment index as the subpass's depth
// attachment.
func (r *Renderpass) DepthAttachment(index int) *Renderpass {
	r.depthRef = &vk.AttachmentReference{
		Attachment: uint32(index),
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	return r
}

// SubpassDependency appends an external<->subpass-0 dependency, as the
// teacher's two hardcoded dependency entries do generalized to arbitrary
// stage/access masks.
func (r *Renderpass) SubpassDependency(src, dst uint32, srcStage, dstStage vk.PipelineStageFlags, srcAccess, dstAccess vk.AccessFlags) *Renderpass {
	r.dependencies = append(r.dependencies, vk.SubpassDependency{
		SrcSubpass:      src,
		DstSubpass:      dst,
		SrcStageMask:    srcStage,
		DstStageMask:    dstStage,
		SrcAccessMask:   srcAccess,
		DstAccessMask:   dstAccess,
		DependencyFlags: vk.DependencyFlags(vk.DependencyByRegionBit),
	})
	return r
}

// Create builds the vk.RenderPass from everything accumulated so far.
func (r *Renderpass) Create() error {
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(r.colorRefs)),
		PColorAttachments:    r.colorRefs,
	}
	if r.depthRef != nil {
		subpass.PDepthStencilAttachment = r.depthRef
	}

	ret := vk.CreateRenderPass(r.gpu.Handle(), &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(r.attachments)),
		PAttachments:    r.attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: uint32(len(r.dependencies)),
		PDependencies:   r.dependencies,
	}, nil, &r.handle)
	if vklerr.IsError(ret) {
		return vklerr.NewError(ret)
	}
	r.MarkCreated()
	return nil
}

// Handle returns the underlying vk.RenderPass.
func (r *Renderpass) Handle() vk.RenderPass { return r.handle }

// Destroy releases the renderpass. Idempotent.
func (r *Renderpass) Destroy() {
	if !r.CheckDestroyable() {
		return
	}
	vk.DestroyRenderPass(r.gpu.Handle(), r.handle, nil)
	r.MarkDestroyed()
}
