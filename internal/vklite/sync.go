package vklite

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklerr"
)

// Semaphores owns a fixed-size set of binary semaphores, generalizing the
// per-PerFrame single semaphore fields in the teacher's instance.go
// (image_acquired, queue_complete) into a sized pool Canvas indexes by
// frame-in-flight.
type Semaphores struct {
	status.Object

	gpu     *GPU
	handles []vk.Semaphore
}

// NewSemaphores creates n binary semaphores.
func NewSemaphores(gpu *GPU, name string, n int) (*Semaphores, error) {
	s := &Semaphores{Object: status.New(status.TypeSemaphores, name), gpu: gpu, handles: make([]vk.Semaphore, n)}
	for i := 0; i < n; i++ {
		ret := vk.CreateSemaphore(gpu.Handle(), &vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}, nil, &s.handles[i])
		if vklerr.IsError(ret) {
			s.Destroy()
			return nil, vklerr.NewError(ret)
		}
	}
	s.MarkCreated()
	return s, nil
}

// At returns the i'th semaphore handle.
func (s *Semaphores) At(i int) vk.Semaphore { return s.handles[i] }

// Destroy releases every semaphore. Idempotent.
func (s *Semaphores) Destroy() {
	if s.Status() == status.Destroyed {
		return
	}
	var zero vk.Semaphore
	for _, h := range s.handles {
		if h != zero {
			vk.DestroySemaphore(s.gpu.Handle(), h, nil)
		}
	}
	s.MarkDestroyed()
}

// Fences owns a fixed-size set of fences created in the signaled state, as
// the teacher's instance.go PerFrame fence and managers.go FenceManager
// both do, merged here into one sized pool instead of PerFrame's
// one-fence-per-struct duplication.
type Fences struct {
	status.Object

	gpu     *GPU
	handles []vk.Fence
}

// NewFences creates n fences, each signaled so the first WaitForFences
// call on it does not block.
func NewFences(gpu *GPU, name string, n int) (*Fences, error) {
	f := &Fences{Object: status.New(status.TypeFences, name), gpu: gpu, handles: make([]vk.Fence, n)}
	for i := 0; i < n; i++ {
		ret := vk.CreateFence(gpu.Handle(), &vk.FenceCreateInfo{
			SType: vk.StructureTypeFenceCreateInfo,
			Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
		}, nil, &f.handles[i])
		if vklerr.IsError(ret) {
			f.Destroy()
			return nil, vklerr.NewError(ret)
		}
	}
	f.MarkCreated()
	return f, nil
}

// At returns the i'th fence handle.
func (f *Fences) At(i int) vk.Fence { return f.handles[i] }

// Wait blocks until fence i is signaled.
func (f *Fences) Wait(i int) error {
	ret := vk.WaitForFences(f.gpu.Handle(), 1, f.handles[i:i+1], vk.True, vk.MaxUint64)
	if vklerr.IsError(ret) {
		return vklerr.NewError(ret)
	}
	return nil
}

// Reset clears fence i back to unsignaled. The canvas frame loop does not
// call it: Submit.Send resets the fence it is given before submitting.
func (f *Fences) Reset(i int) error {
	ret := vk.ResetFences(f.gpu.Handle(), 1, f.handles[i:i+1])
	if vklerr.IsError(ret) {
		return vklerr.NewError(ret)
	}
	return nil
}

// Destroy releases every fence. Idempotent.
func (f *Fences) Destroy() {
	if f.Status() == status.Destroyed {
		return
	}
	for _, h := range f.handles {
		if h != vk.NullFence {
			vk.DestroyFence(f.gpu.Handle(), h, nil)
		}
	}
	f.MarkDestroyed()
}
