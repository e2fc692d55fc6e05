package canvas

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklite"
)

// RunFrame executes the seven-step frame loop from spec.md §4.5. now is the
// caller-supplied monotonic clock in seconds — this package never reads the
// wall clock itself, so callers (tests included) control timer firing
// deterministically, the same discipline internal/transform's injected
// Logger follows for warnings.
func (c *Canvas) RunFrame(now float64, queue vk.Queue) error {
	if c.win.ShouldClose() {
		c.exiting = true
	}

	// 1. Wait fence in_flight[frame_in_flight].
	if err := c.inFlight.Wait(c.frameInFlight); err != nil {
		return fmt.Errorf("canvas: wait in-flight fence: %w", err)
	}

	if c.Status() == status.NeedRecreate {
		if err := c.Recreate(); err != nil {
			return err
		}
	}

	// 2. Acquire next swapchain image; on OUT_OF_DATE set NEED_RECREATE and
	// skip the rest of this frame.
	available := c.imageAvailable.At(c.frameInFlight)
	imageIndex, res := c.swapchain.AcquireNext(available)
	if res == vk.ErrorOutOfDate {
		c.MarkNeedRecreate()
		return nil
	}
	if res != vk.Success && res != vk.Suboptimal {
		return fmt.Errorf("canvas: acquire next image: %d", res)
	}

	// 3. If NEED_REFILL, re-record every per-image command buffer (not just
	// the one just acquired — every swapchain image has its own buffer and
	// each must carry the new draw commands before it is ever submitted);
	// clear the flag.
	if c.Status() == status.NeedUpdate {
		if err := c.refillAll(); err != nil {
			return fmt.Errorf("canvas: refill: %w", err)
		}
		c.MarkCreated()
	}

	// 4. Submit the image's command buffer, waiting on image_available,
	// signaling render_finished, fencing in_flight.
	finished := c.renderFinished.At(c.frameInFlight)
	err := vklite.NewSubmit().
		Commands(c.render.Buffer(int(imageIndex))).
		Wait(available, vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)).
		Signal(finished).
		Send(c.gpu.Handle(), queue, c.inFlight.At(c.frameInFlight))
	if err != nil {
		return fmt.Errorf("canvas: submit: %w", err)
	}

	// 5. Present, waiting on render_finished.
	res = c.swapchain.Present(queue, imageIndex, finished)
	if res == vk.ErrorOutOfDate || res == vk.Suboptimal {
		c.MarkNeedRecreate()
	} else if res != vk.Success {
		return fmt.Errorf("canvas: present: %d", res)
	}

	// 6. Dispatch pending events from the FIFO to callbacks until empty.
	c.drainEvents(now)

	// 7. Increment frame_in_flight = (f+1) mod MAX_FRAMES_IN_FLIGHT.
	c.frameInFlight = (c.frameInFlight + 1) % MaxFramesInFlight
	c.frameIdx++

	return nil
}

// refillAll re-records every swapchain image's main-rendering command
// buffer, implementing the NEED_REFILL -> re-record transition in full:
// spec.md §4.5 requires all per-image buffers to carry the new commands,
// not just the one currently acquired.
func (c *Canvas) refillAll() error {
	for i := 0; i < c.swapchain.Count(); i++ {
		if err := c.refill(i); err != nil {
			return err
		}
	}
	return nil
}

// refill re-records the main-rendering command buffer for imageIndex by
// invoking every registered RefillFunc in registration order. Grounded on
// the teacher's setup_command (instance.go), generalized from one
// hardcoded triangle draw to arbitrary per-panel callbacks.
func (c *Canvas) refill(imageIndex int) error {
	if err := c.render.Begin(imageIndex, 0); err != nil {
		return err
	}
	cmd := c.render.Buffer(imageIndex)

	clearValues := []vk.ClearValue{
		vk.NewClearValue([]float32{0.02, 0.02, 0.05, 1.0}),
		vk.NewClearDepthStencil(1.0, 0),
	}
	extent := c.swapchain.Extent()
	vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      c.pass.Handle(),
		Framebuffer:     c.fbs[imageIndex],
		RenderArea:      vk.Rect2D{Extent: extent},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}, vk.SubpassContentsInline)

	for _, fn := range c.refillCallbacks {
		if err := fn(cmd, imageIndex); err != nil {
			vk.CmdEndRenderPass(cmd)
			_ = c.render.End(imageIndex)
			return err
		}
	}

	vk.CmdEndRenderPass(cmd)
	return c.render.End(imageIndex)
}

// Recreate waits idle, destroys swapchain-dependent objects (swapchain,
// depth images, framebuffers), and rebuilds them against the window's
// current framebuffer size, implementing the NEED_RECREATE transition. The
// renderpass and command pools survive since neither depends on the old
// swapchain's image handles.
func (c *Canvas) Recreate() error {
	vk.DeviceWaitIdle(c.gpu.Handle())

	for _, fb := range c.fbs {
		vklite.DestroyFramebuffer(c.gpu, fb)
	}
	c.depth.Destroy()

	oldSwapchain := c.swapchain
	c.width, c.height = c.win.FramebufferSize()

	sc, err := vklite.NewSwapchain(c.gpu, "canvas-swapchain", c.surface, oldSwapchain.Count(), oldSwapchain)
	if err != nil {
		return fmt.Errorf("canvas: recreate swapchain: %w", err)
	}
	c.swapchain = sc
	oldSwapchain.Destroy()

	extent := sc.Extent()
	depth, err := vklite.NewImages(c.gpu, "canvas-depth", 1,
		vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1}, c.depth.Format(),
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.ImageAspectFlags(vk.ImageAspectDepthBit))
	if err != nil {
		return fmt.Errorf("canvas: recreate depth images: %w", err)
	}
	c.depth = depth

	if err := c.buildFramebuffers(); err != nil {
		return fmt.Errorf("canvas: recreate framebuffers: %w", err)
	}

	c.MarkNeedRefill()
	return nil
}

func (c *Canvas) drainEvents(now float64) {
	for _, t := range c.timers {
		if now-t.lastFire >= t.interval {
			t.lastFire = now
			ev := Event{Kind: EventTimer, TimerIdx: t.idx, TimerTime: now, TimerInterval: t.interval}
			c.private.dispatch(ev)
			c.public.dispatch(ev)
		}
	}

	frameEv := Event{Kind: EventFrame, FrameIdx: c.frameIdx}
	c.private.dispatch(frameEv)
	c.public.dispatch(frameEv)

	for {
		ev, ok := c.events.Dequeue(false)
		if !ok {
			break
		}
		c.private.dispatch(ev)
		c.public.dispatch(ev)
	}
}

// ShouldExit reports whether the window close flag is set, per spec.md
// §4.5's cancellation rule.
func (c *Canvas) ShouldExit() bool { return c.exiting }

// DrainAndExit runs the cancellation sequence from spec.md §4.5: wait all
// in-flight fences, drain the FIFO once more, and return.
func (c *Canvas) DrainAndExit(now float64) {
	for i := 0; i < MaxFramesInFlight; i++ {
		_ = c.inFlight.Wait(i)
	}
	c.drainEvents(now)
}
