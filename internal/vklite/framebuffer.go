package vklite

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// NewFramebuffer creates a single framebuffer attaching views (in
// attachment order) to renderpass at the given extent, generalizing the
// teacher's inline per-image loop in CreateFrameBuffer (swapchain.go).
func NewFramebuffer(gpu *GPU, renderpass vk.RenderPass, views []vk.ImageView, extent vk.Extent2D) (vk.Framebuffer, error) {
	var fb vk.Framebuffer
	ret := vk.CreateFramebuffer(gpu.Handle(), &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderpass,
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           extent.Width,
		Height:          extent.Height,
		Layers:          1,
	}, nil, &fb)
	if ret != vk.Success {
		var zero vk.Framebuffer
		return zero, fmt.Errorf("vklite: create framebuffer: %d", ret)
	}
	return fb, nil
}

// DestroyFramebuffer releases fb if non-zero.
func DestroyFramebuffer(gpu *GPU, fb vk.Framebuffer) {
	var zero vk.Framebuffer
	if fb != zero {
		vk.DestroyFramebuffer(gpu.Handle(), fb, nil)
	}
}
