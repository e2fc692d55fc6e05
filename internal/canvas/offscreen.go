package canvas

import vk "github.com/vulkan-go/vulkan"

// OffscreenWindow implements Window without any native windowing library,
// per spec.md §6.3's requirement that the engine support an offscreen
// backend alongside GLFW, and per SPEC_FULL.md's note that it exists for
// headless test runs. It never produces a real vk.Surface: CreateSurface
// returns vk.NullSurface. App still builds the swapchain-backed Canvas on
// that surface; there is no render-to-image path in this package.
type OffscreenWindow struct {
	width, height int
	closed        bool
}

// NewOffscreenWindow creates a fixed-size virtual window.
func NewOffscreenWindow(width, height int) *OffscreenWindow {
	return &OffscreenWindow{width: width, height: height}
}

func (w *OffscreenWindow) CreateSurface(vk.Instance) (vk.Surface, error) {
	return vk.NullSurface, nil
}

func (w *OffscreenWindow) FramebufferSize() (int, int) { return w.width, w.height }

func (w *OffscreenWindow) RequiredInstanceExtensions() []string { return nil }

func (w *OffscreenWindow) PollEvents() {}

func (w *OffscreenWindow) ShouldClose() bool { return w.closed }

// Close marks the offscreen window as closed, letting tests exercise the
// frame loop's cancellation path without a real windowing backend.
func (w *OffscreenWindow) Close() { w.closed = true }

func (w *OffscreenWindow) Destroy() {}
