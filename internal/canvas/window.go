// Package canvas implements swapchain acquisition, the refill state
// machine, the frame loop, and the tagged-union event system described in
// spec.md §4.5, grounded on the teacher's CoreRenderInstance frame loop
// (instance.go: Update/acquire_next_image/submit_pipeline/present_image/
// resize) generalized from a single hardcoded triangle pipeline to
// arbitrary per-panel refill callbacks, plus the FIFO-driven event system
// from original_source.
package canvas

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/vklite"
)

// Window is the windowing-backend boundary named in spec.md §6.3. Both the
// GLFW backend and the headless offscreen backend implement it. Canvas uses
// it for the surface, size, polling and close state; only the input wiring
// in New refers to glfw directly.
type Window interface {
	CreateSurface(instance vk.Instance) (vk.Surface, error)
	FramebufferSize() (int, int)
	RequiredInstanceExtensions() []string
	PollEvents()
	ShouldClose() bool
	Destroy()
}

// surfaceProviderAdapter lets a Window double as a vklite.SurfaceProvider
// without vklite importing this package.
type surfaceProviderAdapter struct {
	w Window
}

func (a surfaceProviderAdapter) RequiredInstanceExtensions() []string { return a.w.RequiredInstanceExtensions() }
func (a surfaceProviderAdapter) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	return a.w.CreateSurface(instance)
}

// AsSurfaceProvider adapts w for vklite.NewInstance's InstanceConfig.Surface.
func AsSurfaceProvider(w Window) vklite.SurfaceProvider { return surfaceProviderAdapter{w} }
