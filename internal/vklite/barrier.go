package vklite

import (
	vk "github.com/vulkan-go/vulkan"
)

// Barrier accumulates buffer and image memory barrier descriptions for a
// single vkCmdPipelineBarrier call. Nothing in the teacher touches
// pipeline barriers directly — extensions.go's memory-type search is the
// closest analog for "describe a GPU resource's required state" — so this
// type is grounded on that search pattern (declare what you need, resolve
// it against what the device/queue actually has) applied to barrier
// transitions instead of memory types.
type Barrier struct {
	srcStage vk.PipelineStageFlags
	dstStage vk.PipelineStageFlags
	buffers  []vk.BufferMemoryBarrier
	images   []vk.ImageMemoryBarrier
}

// NewBarrier starts a barrier transitioning from srcStage to dstStage.
func NewBarrier(srcStage, dstStage vk.PipelineStageFlags) *Barrier {
	return &Barrier{srcStage: srcStage, dstStage: dstStage}
}

// Buffer queues a buffer memory barrier, resolving queue-family ownership
// transfer indices when srcFamily != dstFamily (gpuctx's staging-to-
// graphics-queue handoff).
func (b *Barrier) Buffer(buf *Buffer, srcAccess, dstAccess vk.AccessFlags, srcFamily, dstFamily uint32) *Barrier {
	b.buffers = append(b.buffers, vk.BufferMemoryBarrier{
		SType:               vk.StructureTypeBufferMemoryBarrier,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		SrcQueueFamilyIndex: srcFamily,
		DstQueueFamilyIndex: dstFamily,
		Buffer:              buf.Handle(),
		Offset:              0,
		Size:                vk.DeviceSize(vk.WholeSize),
	})
	return b
}

// Image queues an image memory barrier transitioning oldLayout to
// newLayout, covering one color mip/layer as spec.md's C3 Images
// component requires for the single-subresource images it manages.
func (b *Barrier) Image(img vk.Image, oldLayout, newLayout vk.ImageLayout, srcAccess, dstAccess vk.AccessFlags, aspect vk.ImageAspectFlags) *Barrier {
	b.images = append(b.images, vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspect,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	return b
}

// Cmd records the accumulated barrier into cmd.
func (b *Barrier) Cmd(cmd vk.CommandBuffer) {
	vk.CmdPipelineBarrier(cmd, b.srcStage, b.dstStage, 0,
		0, nil,
		uint32(len(b.buffers)), b.buffers,
		uint32(len(b.images)), b.images,
	)
}
