package vklite

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklerr"
)

// Images owns an array of N same-format vk.Image + vk.ImageView pairs
// with their backing memory, generalizing the teacher's one-off depth
// image creation in CreateFrameBuffer (swapchain.go) — which allocated
// exactly one depth image inline — into a reusable type for both depth
// buffers and the per-object textures gpuctx registers (spec.md C4).
type Images struct {
	status.Object

	gpu     *GPU
	format  vk.Format
	extent  vk.Extent3D
	usage   vk.ImageUsageFlags
	aspect  vk.ImageAspectFlags

	images  []vk.Image
	memory  []vk.DeviceMemory
	views   []vk.ImageView
}

// NewImages allocates count images of extent/format/usage and their
// memory and views. aspect selects color vs. depth view creation.
func NewImages(gpu *GPU, name string, count int, extent vk.Extent3D, format vk.Format, usage vk.ImageUsageFlags, aspect vk.ImageAspectFlags) (*Images, error) {
	if count <= 0 {
		return nil, fmt.Errorf("vklite: NewImages requires count > 0, got %d", count)
	}
	im := &Images{
		Object: status.New(status.TypeImages, name),
		gpu:    gpu,
		format: format,
		extent: extent,
		usage:  usage,
		aspect: aspect,
		images: make([]vk.Image, count),
		memory: make([]vk.DeviceMemory, count),
		views:  make([]vk.ImageView, count),
	}

	for i := 0; i < count; i++ {
		ret := vk.CreateImage(gpu.Handle(), &vk.ImageCreateInfo{
			SType:       vk.StructureTypeImageCreateInfo,
			ImageType:   vk.ImageType2d,
			Format:      format,
			Extent:      extent,
			MipLevels:   1,
			ArrayLayers: 1,
			Samples:     vk.SampleCount1Bit,
			Tiling:      vk.ImageTilingOptimal,
			Usage:       usage,
			SharingMode: vk.SharingModeExclusive,
		}, nil, &im.images[i])
		if vklerr.IsError(ret) {
			im.Destroy()
			return nil, vklerr.NewError(ret)
		}

		var req vk.MemoryRequirements
		vk.GetImageMemoryRequirements(gpu.Handle(), im.images[i], &req)
		req.Deref()
		typeIndex, ok := gpu.MemoryTypeIndex(req.MemoryTypeBits, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
		if !ok {
			im.Destroy()
			return nil, fmt.Errorf("vklite: no device-local memory type for image %q", name)
		}
		ret = vk.AllocateMemory(gpu.Handle(), &vk.MemoryAllocateInfo{
			SType:           vk.StructureTypeMemoryAllocateInfo,
			AllocationSize:  req.Size,
			MemoryTypeIndex: typeIndex,
		}, nil, &im.memory[i])
		if vklerr.IsError(ret) {
			im.Destroy()
			return nil, vklerr.NewError(ret)
		}
		if ret := vk.BindImageMemory(gpu.Handle(), im.images[i], im.memory[i], 0); vklerr.IsError(ret) {
			im.Destroy()
			return nil, vklerr.NewError(ret)
		}

		ret = vk.CreateImageView(gpu.Handle(), &vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    im.images[i],
			ViewType: vk.ImageViewType2d,
			Format:   format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: aspect,
				LevelCount: 1,
				LayerCount: 1,
			},
		}, nil, &im.views[i])
		if vklerr.IsError(ret) {
			im.Destroy()
			return nil, vklerr.NewError(ret)
		}
	}

	im.MarkCreated()
	return im, nil
}

// Image returns the i'th vk.Image.
func (im *Images) Image(i int) vk.Image { return im.images[i] }

// View returns the i'th vk.ImageView.
func (im *Images) View(i int) vk.ImageView { return im.views[i] }

// Count returns the number of images.
func (im *Images) Count() int { return len(im.images) }

// Format returns the shared image format.
func (im *Images) Format() vk.Format { return im.format }

// Sampler is a standalone vk.Sampler, since one sampler is typically
// shared across many Images/textures rather than owned by each.
type Sampler struct {
	status.Object

	gpu    *GPU
	handle vk.Sampler
}

// NewSampler creates a sampler with linear filtering and clamp-to-edge
// addressing, a reasonable default for texture visuals; callers needing
// repeat-wrap or nearest filtering build their own vk.SamplerCreateInfo
// via NewSamplerWith.
func NewSampler(gpu *GPU, name string) (*Sampler, error) {
	return NewSamplerWith(gpu, name, vk.SamplerCreateInfo{
		SType:        vk.StructureTypeSamplerCreateInfo,
		MagFilter:    vk.FilterLinear,
		MinFilter:    vk.FilterLinear,
		AddressModeU: vk.SamplerAddressModeClampToEdge,
		AddressModeV: vk.SamplerAddressModeClampToEdge,
		AddressModeW: vk.SamplerAddressModeClampToEdge,
		MaxLod:       1,
	})
}

// NewSamplerWith creates a sampler from a caller-provided create info.
func NewSamplerWith(gpu *GPU, name string, info vk.SamplerCreateInfo) (*Sampler, error) {
	s := &Sampler{Object: status.New(status.TypeSampler, name), gpu: gpu}
	ret := vk.CreateSampler(gpu.Handle(), &info, nil, &s.handle)
	if vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}
	s.MarkCreated()
	return s, nil
}

// Handle returns the underlying vk.Sampler.
func (s *Sampler) Handle() vk.Sampler { return s.handle }

// Destroy releases the sampler. Idempotent.
func (s *Sampler) Destroy() {
	if !s.CheckDestroyable() {
		return
	}
	vk.DestroySampler(s.gpu.Handle(), s.handle, nil)
	s.MarkDestroyed()
}

// Destroy releases every image, its memory and its view. Safe to call
// partway through construction (nil/zero handles are skipped).
func (im *Images) Destroy() {
	if im.Status() == status.Destroyed {
		return
	}
	var zeroView vk.ImageView
	var zeroImage vk.Image
	var zeroMem vk.DeviceMemory
	for i := range im.images {
		if i < len(im.views) && im.views[i] != zeroView {
			vk.DestroyImageView(im.gpu.Handle(), im.views[i], nil)
		}
		if im.images[i] != zeroImage {
			vk.DestroyImage(im.gpu.Handle(), im.images[i], nil)
		}
		if i < len(im.memory) && im.memory[i] != zeroMem {
			vk.FreeMemory(im.gpu.Handle(), im.memory[i], nil)
		}
	}
	im.MarkDestroyed()
}
