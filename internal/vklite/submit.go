package vklite

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/vklerr"
)

// Submit accumulates a frame's command buffers and wait/signal semaphores
// before a single QueueSubmit, generalizing the teacher's
// submit_pipeline (instance.go) — which hardcoded one command buffer, one
// wait semaphore and one signal semaphore per call — into a builder
// Canvas's frame loop can extend with GUI or transfer command buffers.
type Submit struct {
	commands      []vk.CommandBuffer
	waits         []vk.Semaphore
	waitStages    []vk.PipelineStageFlags
	signals       []vk.Semaphore
}

// NewSubmit returns an empty submit builder.
func NewSubmit() *Submit { return &Submit{} }

// Commands appends command buffers to submit, in order.
func (s *Submit) Commands(cmds ...vk.CommandBuffer) *Submit {
	s.commands = append(s.commands, cmds...)
	return s
}

// Wait appends a semaphore the submission waits on before stage.
func (s *Submit) Wait(sem vk.Semaphore, stage vk.PipelineStageFlags) *Submit {
	s.waits = append(s.waits, sem)
	s.waitStages = append(s.waitStages, stage)
	return s
}

// Signal appends a semaphore the submission signals on completion.
func (s *Submit) Signal(sem vk.Semaphore) *Submit {
	s.signals = append(s.signals, sem)
	return s
}

// Send resets fence (if non-null) and submits to queue, signaling fence on
// completion, mirroring submit_pipeline's fence argument but making the
// reset explicit instead of relying on the caller already having reset it.
// device is the logical device fence belongs to, needed for the reset call.
func (s *Submit) Send(device vk.Device, queue vk.Queue, fence vk.Fence) error {
	if fence != vk.NullFence {
		if ret := vk.ResetFences(device, 1, []vk.Fence{fence}); vklerr.IsError(ret) {
			return vklerr.NewError(ret)
		}
	}

	info := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		CommandBufferCount:   uint32(len(s.commands)),
		PCommandBuffers:      s.commands,
		WaitSemaphoreCount:   uint32(len(s.waits)),
		PWaitSemaphores:      s.waits,
		PWaitDstStageMask:    s.waitStages,
		SignalSemaphoreCount: uint32(len(s.signals)),
		PSignalSemaphores:    s.signals,
	}
	ret := vk.QueueSubmit(queue, 1, []vk.SubmitInfo{info}, fence)
	if vklerr.IsError(ret) {
		return vklerr.NewError(ret)
	}
	return nil
}
