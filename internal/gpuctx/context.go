// Package gpuctx implements the per-GPU Context that owns the "big"
// shared buffers (staging, vertex, index, uniform, storage) and the
// per-object texture registry, grounded on the teacher's context.go
// (descPool/cmdPool/textures/stagingTexture fields) and core.go's
// named-buffer maps (vertex_buffers/indice_buffers/uv_buffers), unified
// here into one bump-allocating owner instead of BaseCore's per-kind
// map-of-buffers.
package gpuctx

import (
	"fmt"
	"sync"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklite"
	"github.com/andewx/vkl/internal/vlog"
)

// Kind selects which shared buffer ctx_buffers suballocates from.
type Kind int

const (
	KindVertex Kind = iota
	KindIndex
	KindUniform
	KindStorage
)

func (k Kind) usage() vk.BufferUsageFlags {
	switch k {
	case KindVertex:
		return vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit | vk.BufferUsageTransferDstBit)
	case KindIndex:
		return vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit | vk.BufferUsageTransferDstBit)
	case KindUniform:
		return vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit | vk.BufferUsageTransferDstBit)
	default:
		return vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit | vk.BufferUsageTransferDstBit)
	}
}

// bumpBuffer is a shared buffer with a monotonic suballocation cursor. It
// is never compacted or freed during the context's lifetime, per spec.md
// §4.4 ("never freed during the lifetime of the context").
type bumpBuffer struct {
	buf    *vklite.Buffer
	cursor vk.DeviceSize
	gen    uint64 // debug-assertion generation counter; bumped on every alloc
}

func (b *bumpBuffer) alloc(size, align vk.DeviceSize) (vklite.BufferRegion, error) {
	offset := alignUp(b.cursor, align)
	if offset+size > b.buf.Size() {
		return vklite.BufferRegion{}, fmt.Errorf("gpuctx: shared buffer %q exhausted (need %d at %d, capacity %d)",
			b.buf.Name, size, offset, b.buf.Size())
	}
	b.cursor = offset + size
	b.gen++
	return vklite.BufferRegion{Buffer: b.buf, Offset: offset, Size: size}, nil
}

func alignUp(v, align vk.DeviceSize) vk.DeviceSize {
	if align <= 1 {
		return v
	}
	return (v + align - 1) / align * align
}

// Context owns the shared GPU-resident buffers, a staging buffer for
// uploads, a dedicated transfer Commands pool, and per-object textures.
type Context struct {
	status.Object

	gpu     *vklite.GPU
	log     vlog.Logger
	mu      sync.Mutex // guards staging buffer reuse across upload_buffers calls

	staging *vklite.Buffer
	shared  map[Kind]*bumpBuffer

	transfer *vklite.Commands

	textures map[string]*vklite.Images
}

// Config sizes each shared buffer at construction, matching the teacher's
// NewBaseCore allocation-size parameters generalized to per-kind sizes
// instead of one map_allocate_size for everything.
type Config struct {
	StagingSize vk.DeviceSize
	VertexSize  vk.DeviceSize
	IndexSize   vk.DeviceSize
	UniformSize vk.DeviceSize
	StorageSize vk.DeviceSize
}

// DefaultConfig returns reasonably sized shared buffers for a typical
// scientific-visualization scene (a handful of visuals, tens of
// thousands of vertices).
func DefaultConfig() Config {
	const mb = 1 << 20
	return Config{
		StagingSize: 16 * mb,
		VertexSize:  64 * mb,
		IndexSize:   16 * mb,
		UniformSize: 4 * mb,
		StorageSize: 16 * mb,
	}
}

// New creates the shared buffers and the transfer command pool bound to
// gpu's transfer queue family.
func New(gpu *vklite.GPU, cfg Config, log vlog.Logger) (*Context, error) {
	ctx := &Context{
		Object:   status.New(status.TypeCustom, "context"),
		gpu:      gpu,
		log:      log,
		shared:   make(map[Kind]*bumpBuffer, 4),
		textures: make(map[string]*vklite.Images, 8),
	}

	staging, err := vklite.NewBuffer(gpu, "staging", cfg.StagingSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit), true)
	if err != nil {
		return nil, err
	}
	ctx.staging = staging

	sizes := map[Kind]vk.DeviceSize{
		KindVertex:  cfg.VertexSize,
		KindIndex:   cfg.IndexSize,
		KindUniform: cfg.UniformSize,
		KindStorage: cfg.StorageSize,
	}
	names := map[Kind]string{
		KindVertex: "vertex", KindIndex: "index", KindUniform: "uniform", KindStorage: "storage",
	}
	for k, size := range sizes {
		buf, err := vklite.NewBuffer(gpu, names[k], size, k.usage(), false)
		if err != nil {
			return nil, err
		}
		ctx.shared[k] = &bumpBuffer{buf: buf}
	}

	transfer, err := vklite.NewCommands(gpu, "transfer", gpu.TransferFamily, 1)
	if err != nil {
		return nil, err
	}
	ctx.transfer = transfer

	ctx.MarkCreated()
	return ctx, nil
}

// Buffers suballocates count regions of size bytes each from the shared
// buffer of kind, bump-allocating at the kind's natural alignment
// (16 bytes, generous for vec4/mat4 uniform members).
func (c *Context) Buffers(kind Kind, count int, size vk.DeviceSize) ([]vklite.BufferRegion, error) {
	b, ok := c.shared[kind]
	if !ok {
		return nil, fmt.Errorf("gpuctx: unknown buffer kind %d", kind)
	}
	regions := make([]vklite.BufferRegion, count)
	for i := 0; i < count; i++ {
		r, err := b.alloc(size, 16)
		if err != nil {
			return nil, err
		}
		regions[i] = r
	}
	return regions, nil
}

// UploadBuffers stages data through the staging buffer and records a
// synchronous transfer-queue copy into region at the given offset,
// exactly matching spec.md §4.4's upload_buffers contract.
func (c *Context) UploadBuffers(region vklite.BufferRegion, offset vk.DeviceSize, data []byte) error {
	if offset+vk.DeviceSize(len(data)) > region.Size {
		return fmt.Errorf("gpuctx: upload out of region bounds (offset=%d len=%d region.Size=%d)", offset, len(data), region.Size)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.staging.Upload(0, data); err != nil {
		return err
	}

	if err := c.transfer.Begin(0, vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)); err != nil {
		return err
	}
	vk.CmdCopyBuffer(c.transfer.Buffer(0), c.staging.Handle(), region.Buffer.Handle(), 1, []vk.BufferCopy{{
		SrcOffset: 0,
		DstOffset: region.Offset + offset,
		Size:      vk.DeviceSize(len(data)),
	}})
	if err := c.transfer.End(0); err != nil {
		return err
	}
	return c.transfer.SubmitSync(c.gpu.TransferQueue, 0)
}

// RegisterTexture creates a per-object (non-suballocated) texture image
// array under name, per spec.md §4.4's "texture allocation is per-object,
// not sub-allocated."
func (c *Context) RegisterTexture(name string, extent vk.Extent3D, format vk.Format) (*vklite.Images, error) {
	images, err := vklite.NewImages(c.gpu, name, 1, extent, format,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit),
		vk.ImageAspectFlags(vk.ImageAspectColorBit))
	if err != nil {
		return nil, err
	}
	c.textures[name] = images
	return images, nil
}

// Texture returns a previously registered texture by name.
func (c *Context) Texture(name string) (*vklite.Images, bool) {
	im, ok := c.textures[name]
	return im, ok
}

// Destroy releases every shared buffer, the staging buffer, registered
// textures and the transfer command pool. Idempotent.
func (c *Context) Destroy() {
	if !c.CheckDestroyable() {
		return
	}
	for _, im := range c.textures {
		im.Destroy()
	}
	for _, b := range c.shared {
		b.buf.Destroy()
	}
	c.staging.Destroy()
	c.transfer.Destroy()
	c.MarkDestroyed()
}
