package vklite

import (
	"fmt"

	"github.com/andewx/vkl/internal/status"
	vk "github.com/vulkan-go/vulkan"
)

// Swapchain wraps a vk.Swapchain plus its per-image color views, generalizing
// the teacher's CoreSwapchain (which hardcoded a FIFO present mode, a
// 3-deep depth, and inline image-view creation) into a component canvas.go
// can recreate independently of framebuffers/depth images.
type Swapchain struct {
	status.Object

	gpu     *GPU
	surface vk.Surface
	handle  vk.Swapchain
	format  vk.SurfaceFormat
	extent  vk.Extent2D
	images  []vk.Image
	views   []vk.ImageView
}

// NewSwapchain creates a swapchain sized to the surface's current extent,
// requesting wantedDepth images (clamped to the surface's min/max), reusing
// old (if non-nil) as OldSwapchain to allow a live resize.
func NewSwapchain(gpu *GPU, name string, surface vk.Surface, wantedDepth int, old *Swapchain) (*Swapchain, error) {
	var caps vk.SurfaceCapabilities
	vk.GetPhysicalDeviceSurfaceCapabilities(gpu.Physical(), surface, &caps)
	caps.Deref()

	var formatCount uint32
	vk.GetPhysicalDeviceSurfaceFormats(gpu.Physical(), surface, &formatCount, nil)
	formats := make([]vk.SurfaceFormat, formatCount)
	vk.GetPhysicalDeviceSurfaceFormats(gpu.Physical(), surface, &formatCount, formats)
	if formatCount == 0 {
		return nil, fmt.Errorf("vklite: surface %q has no formats", name)
	}
	formats[0].Deref()
	format := formats[0]
	if format.Format == vk.FormatUndefined {
		format.Format = vk.FormatB8g8r8a8Srgb
	}

	caps.CurrentExtent.Deref()
	extent := caps.CurrentExtent
	if extent.Width == vk.MaxUint32 {
		return nil, fmt.Errorf("vklite: surface %q reports invalid extent", name)
	}

	depth := uint32(wantedDepth)
	if caps.MaxImageCount > 0 && depth > caps.MaxImageCount {
		depth = caps.MaxImageCount
	}
	if depth < caps.MinImageCount {
		depth = caps.MinImageCount
	}

	preTransform := caps.CurrentTransform
	if vk.SurfaceTransformFlagBits(caps.SupportedTransforms)&vk.SurfaceTransformIdentityBit != 0 {
		preTransform = vk.SurfaceTransformIdentityBit
	}

	compositeAlpha := vk.CompositeAlphaOpaqueBit
	for _, candidate := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit, vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit, vk.CompositeAlphaInheritBit,
	} {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(candidate) != 0 {
			compositeAlpha = candidate
			break
		}
	}

	var oldHandle vk.Swapchain
	if old != nil {
		oldHandle = old.handle
	}

	sc := &Swapchain{
		Object:  status.New(status.TypeSwapchain, name),
		gpu:     gpu,
		surface: surface,
		format:  format,
		extent:  extent,
	}

	var handle vk.Swapchain
	ret := vk.CreateSwapchain(gpu.Handle(), &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    depth,
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     preTransform,
		CompositeAlpha:   compositeAlpha,
		ImageSharingMode: vk.SharingModeExclusive,
		PresentMode:      vk.PresentModeFifo,
		OldSwapchain:     oldHandle,
		Clipped:          vk.True,
	}, nil, &handle)
	if ret != vk.Success {
		return nil, fmt.Errorf("vklite: create swapchain %q: %d", name, ret)
	}
	sc.handle = handle

	var count uint32
	vk.GetSwapchainImages(gpu.Handle(), handle, &count, nil)
	sc.images = make([]vk.Image, count)
	vk.GetSwapchainImages(gpu.Handle(), handle, &count, sc.images)

	sc.views = make([]vk.ImageView, count)
	for i, img := range sc.images {
		var view vk.ImageView
		ret := vk.CreateImageView(gpu.Handle(), &vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    img,
			ViewType: vk.ImageViewType2d,
			Format:   format.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity, G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity, A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}, nil, &view)
		if ret != vk.Success {
			return nil, fmt.Errorf("vklite: create swapchain image view %d: %d", i, ret)
		}
		sc.views[i] = view
	}

	sc.MarkCreated()
	return sc, nil
}

func (sc *Swapchain) Handle() vk.Swapchain   { return sc.handle }
func (sc *Swapchain) Format() vk.Format      { return sc.format.Format }
func (sc *Swapchain) Extent() vk.Extent2D    { return sc.extent }
func (sc *Swapchain) Count() int             { return len(sc.images) }
func (sc *Swapchain) View(i int) vk.ImageView { return sc.views[i] }

// AcquireNext acquires the next presentable image, signaling available on
// completion. Returns the image index and the raw vk.Result so the caller
// can distinguish Success/Suboptimal/ErrorOutOfDate per spec.md §4.5 step 2.
func (sc *Swapchain) AcquireNext(available vk.Semaphore) (uint32, vk.Result) {
	var index uint32
	res := vk.AcquireNextImage(sc.gpu.Handle(), sc.handle, vk.MaxUint64, available, vk.NullFence, &index)
	return index, res
}

// Present submits index for presentation, waiting on renderFinished.
func (sc *Swapchain) Present(queue vk.Queue, index uint32, renderFinished vk.Semaphore) vk.Result {
	info := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{sc.handle},
		PImageIndices:      []uint32{index},
	}
	return vk.QueuePresent(queue, &info)
}

// Destroy releases the image views and the swapchain handle. Idempotent.
// The surface itself outlives the swapchain and is not touched here.
func (sc *Swapchain) Destroy() {
	if !sc.CheckDestroyable() {
		return
	}
	for _, v := range sc.views {
		if v != vk.NullImageView {
			vk.DestroyImageView(sc.gpu.Handle(), v, nil)
		}
	}
	if sc.handle != vk.NullSwapchain {
		vk.DestroySwapchain(sc.gpu.Handle(), sc.handle, nil)
	}
	sc.MarkDestroyed()
}
