package vklite

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklerr"
)

// Commands owns a vk.CommandPool and the primary command buffers
// allocated from it, merging the teacher's CorePool (pools.go, a bare
// pool with no allocation helpers) with its CommandBufferManager
// (managers.go, allocation/recycling with no pool ownership) into the
// single pool-plus-buffers object spec.md's C3 calls for.
type Commands struct {
	status.Object

	gpu     *GPU
	pool    vk.CommandPool
	level   vk.CommandBufferLevel
	buffers []vk.CommandBuffer
}

// NewCommands creates a command pool on familyIndex with the
// reset-individual-buffers flag set (teacher's pools.go used the same
// flag value without naming the constant) and allocates count primary
// command buffers from it.
func NewCommands(gpu *GPU, name string, familyIndex uint32, count int) (*Commands, error) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(gpu.Handle(), &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: familyIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &pool)
	if vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}

	c := &Commands{
		Object: status.New(status.TypeCommands, name),
		gpu:    gpu,
		pool:   pool,
		level:  vk.CommandBufferLevelPrimary,
	}

	if count > 0 {
		buffers := make([]vk.CommandBuffer, count)
		ret = vk.AllocateCommandBuffers(gpu.Handle(), &vk.CommandBufferAllocateInfo{
			SType:              vk.StructureTypeCommandBufferAllocateInfo,
			CommandPool:        pool,
			Level:              c.level,
			CommandBufferCount: uint32(count),
		}, buffers)
		if vklerr.IsError(ret) {
			vk.DestroyCommandPool(gpu.Handle(), pool, nil)
			return nil, vklerr.NewError(ret)
		}
		c.buffers = buffers
	}

	c.MarkCreated()
	return c, nil
}

// Buffer returns the i'th allocated command buffer.
func (c *Commands) Buffer(i int) vk.CommandBuffer { return c.buffers[i] }

// Count returns the number of allocated command buffers.
func (c *Commands) Count() int { return len(c.buffers) }

// Begin resets and opens buffer i for recording.
func (c *Commands) Begin(i int, flags vk.CommandBufferUsageFlags) error {
	buf := c.buffers[i]
	if ret := vk.ResetCommandBuffer(buf, 0); vklerr.IsError(ret) {
		return vklerr.NewError(ret)
	}
	if ret := vk.BeginCommandBuffer(buf, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: flags,
	}); vklerr.IsError(ret) {
		return vklerr.NewError(ret)
	}
	return nil
}

// End closes buffer i for recording.
func (c *Commands) End(i int) error {
	if ret := vk.EndCommandBuffer(c.buffers[i]); vklerr.IsError(ret) {
		return vklerr.NewError(ret)
	}
	return nil
}

// SubmitSync submits buffer i to queue and blocks until it completes,
// for the one-off transfer commands gpuctx's upload path issues (spec.md
// C4's "upload_buffers" staging copy).
func (c *Commands) SubmitSync(queue vk.Queue, i int) error {
	buf := c.buffers[i]
	ret := vk.QueueSubmit(queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{buf},
	}}, vk.NullFence)
	if vklerr.IsError(ret) {
		return vklerr.NewError(ret)
	}
	if ret := vk.QueueWaitIdle(queue); vklerr.IsError(ret) {
		return vklerr.NewError(ret)
	}
	return nil
}

// Free releases command buffers back to the pool without destroying it.
func (c *Commands) Free() {
	if len(c.buffers) == 0 {
		return
	}
	vk.FreeCommandBuffers(c.gpu.Handle(), c.pool, uint32(len(c.buffers)), c.buffers)
	c.buffers = nil
}

// Destroy frees all command buffers and the pool. Idempotent.
func (c *Commands) Destroy() {
	if !c.CheckDestroyable() {
		return
	}
	c.Free()
	vk.DestroyCommandPool(c.gpu.Handle(), c.pool, nil)
	c.MarkDestroyed()
}
