package canvas

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// GLFWWindow wraps a glfw.Window, generalizing the teacher's CoreDisplay
// (display.go) — which only exposed GetVulkanSurface/GetSize — into the
// full Window interface spec.md §6.3 requires, including input callback
// wiring so mouse/key/resize GLFW events can be turned into canvas Events.
type GLFWWindow struct {
	win *glfw.Window

	mouse  func(x, y float64, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey)
	key    func(key glfw.Key, action glfw.Action, mods glfw.ModifierKey)
	resize func(w, h int)
}

// NewGLFWWindow creates a Vulkan-only (no GL
// context) window of the given size and title. glfw.Init() must already
// have been called by the caller (typically App), matching the teacher's
// pattern of leaving GLFW lifecycle to the caller of NewCoreDisplay.
func NewGLFWWindow(width, height int, title string) (*GLFWWindow, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("canvas: create glfw window: %w", err)
	}
	w := &GLFWWindow{win: win}

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if w.resize != nil {
			w.resize(width, height)
		}
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.mouse != nil {
			w.mouse(x, y, -1, glfw.Release, 0)
		}
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if w.mouse != nil {
			x, y := win.GetCursorPos()
			w.mouse(x, y, button, action, mods)
		}
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if w.key != nil {
			w.key(key, action, mods)
		}
	})

	return w, nil
}

// CreateSurface implements Window via glfw's Vulkan surface creation,
// mirroring the teacher's CoreDisplay.GetVulkanSurface.
func (w *GLFWWindow) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := w.win.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, fmt.Errorf("canvas: create window surface: %w", err)
	}
	return vk.SurfaceFromPointer(ptr), nil
}

// FramebufferSize returns the window's current framebuffer size in pixels.
func (w *GLFWWindow) FramebufferSize() (int, int) { return w.win.GetFramebufferSize() }

// RequiredInstanceExtensions returns the instance extensions glfw requires
// for presentation on the current platform.
func (w *GLFWWindow) RequiredInstanceExtensions() []string {
	return glfw.GetRequiredInstanceExtensions()
}

// PollEvents pumps the GLFW event queue, invoking any registered callbacks.
func (w *GLFWWindow) PollEvents() { glfw.PollEvents() }

// ShouldClose reports whether the user requested the window be closed.
func (w *GLFWWindow) ShouldClose() bool { return w.win.ShouldClose() }

// Destroy releases the underlying glfw window.
func (w *GLFWWindow) Destroy() { w.win.Destroy() }

// OnMouse/OnKey/OnResize register the canvas's translation callbacks; Canvas
// calls these once during New to route native GLFW input into Events.
func (w *GLFWWindow) OnMouse(fn func(x, y float64, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey)) {
	w.mouse = fn
}
func (w *GLFWWindow) OnKey(fn func(key glfw.Key, action glfw.Action, mods glfw.ModifierKey)) {
	w.key = fn
}
func (w *GLFWWindow) OnResize(fn func(width, height int)) { w.resize = fn }
