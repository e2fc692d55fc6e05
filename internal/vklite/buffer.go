package vklite

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklerr"
)

// Buffer wraps a vk.Buffer and its bound vk.DeviceMemory, generalizing the
// teacher's CoreBuffer (buffers.go) — which hardcoded a vertex-buffer
// usage and descriptor layout into every buffer it made — into a plain
// resource the Bindings type (bindings.go) and gpuctx's shared buffers
// build on top of.
type Buffer struct {
	status.Object

	gpu      *GPU
	handle   vk.Buffer
	memory   vk.DeviceMemory
	size     vk.DeviceSize
	usage    vk.BufferUsageFlags
	hostVis  bool
}

// BufferRegion is a sub-range of a Buffer, the unit visuals upload into
// (spec.md §6.4's property-baking pipeline) and gpuctx's bump allocator
// hands out.
type BufferRegion struct {
	Buffer *Buffer
	Offset vk.DeviceSize
	Size   vk.DeviceSize
}

// NewBuffer allocates a vk.Buffer of size bytes with usage and binds host
// or device-local memory depending on hostVisible, following the
// create-then-bind-memory sequence in the teacher's
// NewCoreUniformBuffer, generalized to any usage instead of a hardcoded
// vertex-buffer bit.
func NewBuffer(gpu *GPU, name string, size vk.DeviceSize, usage vk.BufferUsageFlags, hostVisible bool) (*Buffer, error) {
	b := &Buffer{
		Object:  status.New(status.TypeBuffer, name),
		gpu:     gpu,
		size:    size,
		usage:   usage,
		hostVis: hostVisible,
	}

	ret := vk.CreateBuffer(gpu.Handle(), &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}, nil, &b.handle)
	if vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(gpu.Handle(), b.handle, &req)
	req.Deref()

	props := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	if hostVisible {
		props = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	}
	typeIndex, ok := gpu.MemoryTypeIndex(req.MemoryTypeBits, props)
	if !ok {
		vk.DestroyBuffer(gpu.Handle(), b.handle, nil)
		return nil, fmt.Errorf("vklite: no memory type for buffer %q (bits=%x props=%x)", name, req.MemoryTypeBits, props)
	}

	ret = vk.AllocateMemory(gpu.Handle(), &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: typeIndex,
	}, nil, &b.memory)
	if vklerr.IsError(ret) {
		vk.DestroyBuffer(gpu.Handle(), b.handle, nil)
		return nil, vklerr.NewError(ret)
	}

	if ret := vk.BindBufferMemory(gpu.Handle(), b.handle, b.memory, 0); vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}

	b.MarkCreated()
	return b, nil
}

// Handle returns the underlying vk.Buffer.
func (b *Buffer) Handle() vk.Buffer { return b.handle }

// Size returns the buffer's byte size.
func (b *Buffer) Size() vk.DeviceSize { return b.size }

// Whole returns a BufferRegion spanning the entire buffer.
func (b *Buffer) Whole() BufferRegion {
	return BufferRegion{Buffer: b, Offset: 0, Size: b.size}
}

// Upload copies data into a host-visible buffer at offset, mapping and
// unmapping around the copy, as the teacher's MapMemory/memcopy pattern
// does (buffers.go, util.go) but symmetrized for both directions.
func (b *Buffer) Upload(offset vk.DeviceSize, data []byte) error {
	if !b.hostVis {
		return fmt.Errorf("vklite: Upload called on non-host-visible buffer %q", b.Name)
	}
	if offset+vk.DeviceSize(len(data)) > b.size {
		return fmt.Errorf("vklite: Upload out of bounds on buffer %q (offset=%d len=%d size=%d)", b.Name, offset, len(data), b.size)
	}
	var ptr unsafe.Pointer
	ret := vk.MapMemory(b.gpu.Handle(), b.memory, offset, vk.DeviceSize(len(data)), 0, &ptr)
	if vklerr.IsError(ret) {
		return vklerr.NewError(ret)
	}
	memcopy(ptr, data)
	vk.UnmapMemory(b.gpu.Handle(), b.memory)
	return nil
}

// Download copies n bytes starting at offset out of a host-visible buffer.
func (b *Buffer) Download(offset vk.DeviceSize, n int) ([]byte, error) {
	if !b.hostVis {
		return nil, fmt.Errorf("vklite: Download called on non-host-visible buffer %q", b.Name)
	}
	if offset+vk.DeviceSize(n) > b.size {
		return nil, fmt.Errorf("vklite: Download out of bounds on buffer %q (offset=%d n=%d size=%d)", b.Name, offset, n, b.size)
	}
	var ptr unsafe.Pointer
	ret := vk.MapMemory(b.gpu.Handle(), b.memory, offset, vk.DeviceSize(n), 0, &ptr)
	if vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}
	out := make([]byte, n)
	src := (*[1 << 30]byte)(ptr)[:n:n]
	copy(out, src)
	vk.UnmapMemory(b.gpu.Handle(), b.memory)
	return out, nil
}

// Destroy frees the buffer and its memory. Idempotent.
func (b *Buffer) Destroy() {
	if !b.CheckDestroyable() {
		return
	}
	vk.DestroyBuffer(b.gpu.Handle(), b.handle, nil)
	vk.FreeMemory(b.gpu.Handle(), b.memory, nil)
	b.MarkDestroyed()
}
