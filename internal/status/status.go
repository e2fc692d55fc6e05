// Package status implements the uniform object-status state machine shared
// by every GPU resource wrapper in vkl (spec component C1).
package status

import (
	"fmt"

	"github.com/google/uuid"
)

// Status is the lifecycle tag carried by every GPU object. The numeric order
// matches original_source/include/visky/vklite2.h's VklObjectStatus: status
// >= Created means the object has been created on the GPU.
type Status int

const (
	Undefined Status = iota
	Destroyed
	Init
	Created
	NeedRecreate
	NeedUpdate
)

func (s Status) String() string {
	switch s {
	case Undefined:
		return "undefined"
	case Destroyed:
		return "destroyed"
	case Init:
		return "init"
	case Created:
		return "created"
	case NeedRecreate:
		return "need_recreate"
	case NeedUpdate:
		return "need_update"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Type is the closed enum of GPU object kinds from spec.md §3.
type Type int

const (
	TypeApp Type = iota
	TypeGPU
	TypeWindow
	TypeSwapchain
	TypeCanvas
	TypeCommands
	TypeBuffer
	TypeImages
	TypeSampler
	TypeBindings
	TypeCompute
	TypeGraphics
	TypeBarrier
	TypeSemaphores
	TypeFences
	TypeRenderpass
	TypeSubmit
	TypeCustom
)

func (t Type) String() string {
	names := [...]string{
		"app", "gpu", "window", "swapchain", "canvas", "commands", "buffer",
		"images", "sampler", "bindings", "compute", "graphics", "barrier",
		"semaphores", "fences", "renderpass", "submit", "custom",
	}
	if int(t) < 0 || int(t) >= len(names) {
		return fmt.Sprintf("type(%d)", int(t))
	}
	return names[t]
}

// ViolationError is raised when a caller asks for a status transition the
// monotonic lifecycle forbids (see Object.MarkCreated, MarkNeedUpdate and
// MarkNeedRecreate).
type ViolationError struct {
	Object Object
	From   Status
	To     Status
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("%s %q: illegal status transition %s -> %s", e.Object.Type, e.Object.Name, e.From, e.To)
}

// Object is embedded by every GPU resource wrapper. It tags the resource
// with a type, a human name (for logging), a stable id, and its current
// status. No operation other than construction should observe Undefined;
// destructors must be idempotent against Destroyed.
type Object struct {
	Type   Type
	Name   string
	ID     uuid.UUID
	status Status
}

// New initializes an Object in the Init state, as construction does for
// every concrete wrapper in original_source's obj_init().
func New(t Type, name string) Object {
	return Object{Type: t, Name: name, ID: uuid.New(), status: Init}
}

// Status returns the object's current lifecycle status.
func (o *Object) Status() Status { return o.status }

// IsCreated reports whether status >= Created, mirroring the comment in
// vklite2.h next to VklObjectStatus.
func (o *Object) IsCreated() bool { return o.status >= Created }

// MarkCreated promotes an Init or demoted object to Created. Called exactly
// once by a wrapper's create() method, or again after a NeedUpdate/
// NeedRecreate cycle completes.
func (o *Object) MarkCreated() {
	if o.status == Destroyed {
		panic(&ViolationError{Object: *o, From: o.status, To: Created})
	}
	o.status = Created
}

// MarkNeedUpdate demotes a Created object so its owner knows to reconcile
// parameters before the next submit. Only legal from Created or another
// demoted state (idempotent).
func (o *Object) MarkNeedUpdate() {
	if o.status != Created && o.status != NeedUpdate && o.status != NeedRecreate {
		panic(&ViolationError{Object: *o, From: o.status, To: NeedUpdate})
	}
	o.status = NeedUpdate
}

// MarkNeedRecreate demotes a Created object to signal the owner must
// destroy and rebuild its GPU-side resources (e.g. swapchain OUT_OF_DATE).
func (o *Object) MarkNeedRecreate() {
	if o.status != Created && o.status != NeedUpdate && o.status != NeedRecreate {
		panic(&ViolationError{Object: *o, From: o.status, To: NeedRecreate})
	}
	o.status = NeedRecreate
}

// MarkDestroyed is terminal. Calling it more than once is a no-op so
// destructors stay idempotent, per spec.md §4.1.
func (o *Object) MarkDestroyed() {
	o.status = Destroyed
}

// CheckDestroyable reports whether a destructor should proceed (status >=
// Created) and logs nothing itself — callers trace at the call site, as the
// teacher's destructors do ad hoc.
func (o *Object) CheckDestroyable() bool {
	return o.status != Destroyed && o.status >= Created
}
