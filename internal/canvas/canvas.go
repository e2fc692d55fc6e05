package canvas

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/fifo"
	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklite"
	"github.com/andewx/vkl/internal/vlog"
)

// MaxFramesInFlight bounds the semaphore/fence sets, matching the teacher's
// per-swapchain-image PerFrame sizing generalized to a fixed pipeline depth
// independent of swapchain image count (the common Vulkan double/triple
// buffering convention spec.md leaves unspecified beyond "length
// MAX_FRAMES_IN_FLIGHT").
const MaxFramesInFlight = 2

// RefillFunc re-records the main-rendering command buffer for swapchain
// image index, replacing the teacher's single hardcoded setup_command body
// (instance.go) with the per-panel callback spec.md §4.5 calls for.
type RefillFunc func(cmd vk.CommandBuffer, imageIndex int) error

// Canvas owns the swapchain, depth images, renderpass, per-image
// framebuffers, the three command-buffer groups, sync objects, and the
// event FIFO described in spec.md §4.5.
type Canvas struct {
	status.Object

	gpu     *vklite.GPU
	log     vlog.Logger
	win     Window
	surface vk.Surface

	swapchain *vklite.Swapchain
	depth     *vklite.Images
	pass      *vklite.Renderpass
	fbs       []vk.Framebuffer

	transfers *vklite.Commands
	render    *vklite.Commands // one buffer per swapchain image
	gui       *vklite.Commands

	imageAvailable *vklite.Semaphores
	renderFinished *vklite.Semaphores
	inFlight       *vklite.Fences

	frameInFlight int
	frameIdx      uint64
	exiting       bool

	refillCallbacks []RefillFunc

	public  callbackTable
	private callbackTable
	timers  []*timer
	events  *fifo.Queue[Event]

	width, height int
}

// Config sizes a Canvas's swapchain and render pass.
type Config struct {
	SwapchainDepth int
	ColorFormat    vk.Format
	DepthFormat    vk.Format
}

// DefaultConfig mirrors the teacher's hardcoded SWAPCHAIN_COUNT = 3.
func DefaultConfig() Config {
	return Config{SwapchainDepth: 3, DepthFormat: vk.FormatD32Sfloat}
}

// New creates a Canvas presenting to win via a real Vulkan surface, building
// the swapchain, depth images, renderpass, framebuffers, command groups,
// and sync objects in one call, mirroring the teacher's
// NewCoreRenderInstance + Init sequence.
func New(gpu *vklite.GPU, win Window, surface vk.Surface, cfg Config, log vlog.Logger) (*Canvas, error) {
	c := &Canvas{
		Object:  status.New(status.TypeCanvas, "canvas"),
		gpu:     gpu,
		log:     log,
		win:     win,
		surface: surface,
		events:  fifo.New[Event](64),
	}
	c.width, c.height = win.FramebufferSize()

	if err := c.buildSwapchain(surface, cfg); err != nil {
		return nil, err
	}
	if err := c.buildRenderpass(cfg); err != nil {
		return nil, err
	}
	if err := c.buildFramebuffers(); err != nil {
		return nil, err
	}
	if err := c.buildCommands(); err != nil {
		return nil, err
	}
	if err := c.buildSync(); err != nil {
		return nil, err
	}

	if gw, ok := win.(*GLFWWindow); ok {
		gw.OnResize(func(w, h int) { c.HandleResize(w, h) })
		gw.OnMouse(func(x, y float64, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
			c.PostEvent(Event{
				Kind:        EventMouse,
				MouseX:      x,
				MouseY:      y,
				MouseButton: int(button),
				MouseAction: translateGLFWAction(action),
				MouseMods:   int(mods),
			})
		})
		gw.OnKey(func(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
			c.PostEvent(Event{
				Kind:      EventKey,
				Key:       int(key),
				KeyAction: translateGLFWAction(action),
				KeyMods:   int(mods),
			})
		})
	}

	c.MarkCreated()
	return c, nil
}

// translateGLFWAction maps glfw's action vocabulary onto this package's
// backend-agnostic Action, so Event never carries a glfw type.
func translateGLFWAction(a glfw.Action) Action {
	switch a {
	case glfw.Press:
		return ActionPress
	case glfw.Repeat:
		return ActionRepeat
	default:
		return ActionRelease
	}
}

func (c *Canvas) buildSwapchain(surface vk.Surface, cfg Config) error {
	sc, err := vklite.NewSwapchain(c.gpu, "canvas-swapchain", surface, cfg.SwapchainDepth, nil)
	if err != nil {
		return err
	}
	c.swapchain = sc

	extent := sc.Extent()
	depthFormat := cfg.DepthFormat
	if depthFormat == 0 {
		depthFormat = vk.FormatD32Sfloat
	}
	depth, err := vklite.NewImages(c.gpu, "canvas-depth", 1,
		vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1}, depthFormat,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.ImageAspectFlags(vk.ImageAspectDepthBit))
	if err != nil {
		return fmt.Errorf("canvas: depth images: %w", err)
	}
	c.depth = depth
	return nil
}

func (c *Canvas) buildRenderpass(cfg Config) error {
	pass := vklite.NewRenderpass(c.gpu, "canvas-pass")
	colorIdx := pass.Attachment(c.swapchain.Format(), vk.AttachmentLoadOpClear, vk.AttachmentStoreOpStore,
		vk.ImageLayoutUndefined, vk.ImageLayoutPresentSrc)
	depthIdx := pass.Attachment(c.depth.Format(), vk.AttachmentLoadOpClear, vk.AttachmentStoreOpDontCare,
		vk.ImageLayoutUndefined, vk.ImageLayoutDepthStencilAttachmentOptimal)
	pass.ColorAttachment(colorIdx).DepthAttachment(depthIdx)
	pass.SubpassDependency(vk.SubpassExternal, 0,
		vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		0, vk.AccessFlags(vk.AccessColorAttachmentWriteBit))
	if err := pass.Create(); err != nil {
		return fmt.Errorf("canvas: renderpass: %w", err)
	}
	c.pass = pass
	return nil
}

func (c *Canvas) buildFramebuffers() error {
	extent := c.swapchain.Extent()
	c.fbs = make([]vk.Framebuffer, c.swapchain.Count())
	for i := range c.fbs {
		views := []vk.ImageView{c.swapchain.View(i), c.depth.View(0)}
		fb, err := vklite.NewFramebuffer(c.gpu, c.pass.Handle(), views, extent)
		if err != nil {
			return fmt.Errorf("canvas: framebuffer %d: %w", i, err)
		}
		c.fbs[i] = fb
	}
	return nil
}

func (c *Canvas) buildCommands() error {
	var err error
	// Three command-buffer groups per spec.md §4.5: transfers, main
	// rendering (one buffer per swapchain image), GUI.
	if c.transfers, err = vklite.NewCommands(c.gpu, "canvas-transfers", c.gpu.TransferFamily, 1); err != nil {
		return err
	}
	if c.render, err = vklite.NewCommands(c.gpu, "canvas-render", c.gpu.GraphicsFamily, c.swapchain.Count()); err != nil {
		return err
	}
	if c.gui, err = vklite.NewCommands(c.gpu, "canvas-gui", c.gpu.GraphicsFamily, c.swapchain.Count()); err != nil {
		return err
	}
	return nil
}

func (c *Canvas) buildSync() error {
	var err error
	if c.imageAvailable, err = vklite.NewSemaphores(c.gpu, "canvas-image-available", MaxFramesInFlight); err != nil {
		return err
	}
	if c.renderFinished, err = vklite.NewSemaphores(c.gpu, "canvas-render-finished", MaxFramesInFlight); err != nil {
		return err
	}
	if c.inFlight, err = vklite.NewFences(c.gpu, "canvas-in-flight", MaxFramesInFlight); err != nil {
		return err
	}
	return nil
}

// Renderpass returns the canvas's render pass, for builtin pipeline
// construction against the canvas's attachments.
func (c *Canvas) Renderpass() *vklite.Renderpass { return c.pass }

// Extent returns the current swapchain extent, for pipeline viewport
// sizing.
func (c *Canvas) Extent() vk.Extent2D { return c.swapchain.Extent() }

// RegisterRefill adds a refill callback, invoked in registration order for
// every per-image command buffer re-record, per spec.md §4.5.
func (c *Canvas) RegisterRefill(fn RefillFunc) { c.refillCallbacks = append(c.refillCallbacks, fn) }

// MarkNeedRefill flags the canvas dirty so the next frame re-records all
// main-rendering command buffers, matching the CREATED -> NEED_REFILL and
// NEED_RECREATE -> NEED_REFILL transitions (Recreate ends by calling this,
// and status.MarkNeedUpdate already permits promoting out of NeedRecreate).
// NEED_REFILL reuses status.NeedUpdate rather than introducing a dedicated
// state, resolving spec.md §9's "NEED_FULL_UPDATE should merge with
// NEED_REFILL" open question in favor of one demoted state per object (see
// DESIGN.md).
func (c *Canvas) MarkNeedRefill() {
	if c.Status() == status.Created || c.Status() == status.NeedRecreate {
		c.MarkNeedUpdate()
	}
}

// MarkNeedRecreate flags the canvas for a full swapchain rebuild, matching
// the -> NEED_RECREATE transition (swapchain suboptimal/out-of-date or
// resize).
func (c *Canvas) MarkNeedRecreate() {
	if c.Status() != status.NeedRecreate {
		c.Object.MarkNeedRecreate()
	}
}

// On registers a public (user) callback for kind, with param carrying
// per-registration data (e.g. a timer's interval).
func (c *Canvas) On(kind Kind, param interface{}, fn Callback, userData interface{}) {
	c.public.register(kind, param, fn, userData)
}

// OnInternal registers a private (engine) callback, dispatched before
// public callbacks for the same event, mirroring spec.md §4.5's two-table
// split.
func (c *Canvas) OnInternal(kind Kind, param interface{}, fn Callback, userData interface{}) {
	c.private.register(kind, param, fn, userData)
}

// PostEvent enqueues ev for dispatch at the next drain point. Safe to call
// from within a callback — the FIFO serializes concurrent posts.
func (c *Canvas) PostEvent(ev Event) { c.events.Enqueue(ev) }

// RegisterTimer adds a TIMER registration firing every interval seconds.
func (c *Canvas) RegisterTimer(idx int, interval float64) {
	c.timers = append(c.timers, &timer{idx: idx, interval: interval})
}

// HandleResize marks the canvas for swapchain recreation and posts a
// RESIZE event, invoked by GLFWWindow's framebuffer-size callback.
func (c *Canvas) HandleResize(width, height int) {
	c.width, c.height = width, height
	c.MarkNeedRecreate()
	c.PostEvent(Event{Kind: EventResize, Width: width, Height: height})
}

// Destroy waits for the device to idle, releases every canvas-owned object,
// and idempotently marks the canvas destroyed. Release order: framebuffers,
// renderpass, depth images, swapchain, command pools, per-frame sync.
func (c *Canvas) Destroy() {
	if !c.CheckDestroyable() {
		return
	}
	vk.DeviceWaitIdle(c.gpu.Handle())

	for _, fb := range c.fbs {
		vklite.DestroyFramebuffer(c.gpu, fb)
	}
	c.pass.Destroy()
	c.depth.Destroy()
	c.swapchain.Destroy()
	c.transfers.Destroy()
	c.render.Destroy()
	c.gui.Destroy()
	c.imageAvailable.Destroy()
	c.renderFinished.Destroy()
	c.inFlight.Destroy()

	c.MarkDestroyed()
}

