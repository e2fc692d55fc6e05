// Package vklerr centralizes Vulkan result-code translation and the
// programmer-error abort path described in spec.md §7. It generalizes the
// teacher's errors.go (isError/newError/orPanic/checkErr/checkErrStack).
package vklerr

import (
	"fmt"
	"runtime"

	vk "github.com/vulkan-go/vulkan"
)

// IsError reports whether a vk.Result indicates failure.
func IsError(ret vk.Result) bool {
	return ret != vk.Success
}

// Transient reports whether a vk.Result is one of the swapchain transient
// codes spec.md §7 says must set NEED_RECREATE rather than abort.
func Transient(ret vk.Result) bool {
	return ret == vk.ErrorOutOfDate || ret == vk.Suboptimal
}

// VulkanError wraps a non-success vk.Result with the call site.
type VulkanError struct {
	Result vk.Result
	Caller string
}

func (e *VulkanError) Error() string {
	return fmt.Sprintf("vulkan error: %d at %s", e.Result, e.Caller)
}

// NewError builds a VulkanError for a failed ret, or nil on success.
func NewError(ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	caller := "unknown"
	if pc, file, line, ok := runtime.Caller(1); ok {
		fn := runtime.FuncForPC(pc)
		name := "?"
		if fn != nil {
			name = fn.Name()
		}
		caller = fmt.Sprintf("%s (%s:%d)", name, file, line)
	}
	return &VulkanError{Result: ret, Caller: caller}
}

// AbortHook is called for programmer errors and resource exhaustion, per
// spec.md §7. It defaults to a panic carrying the error so callers that
// want process-level control can recover it; the App.AbortHook field lets an
// embedder substitute a different policy (log-and-exit, telemetry, etc).
type AbortHook func(error)

// DefaultAbortHook panics with the error, matching the teacher's orPanic.
func DefaultAbortHook(err error) {
	panic(err)
}

// Must calls hook(err) if err is non-nil. Used at every "programmer error /
// resource exhaustion" call site named in spec.md §7's table.
func Must(err error, hook AbortHook) {
	if err == nil {
		return
	}
	if hook == nil {
		hook = DefaultAbortHook
	}
	hook(err)
}

// MustResult is the vk.Result-flavored equivalent of Must.
func MustResult(ret vk.Result, hook AbortHook) {
	if err := NewError(ret); err != nil {
		Must(err, hook)
	}
}

// Recover turns a panic into *err, capturing a stack trace. Mirrors the
// teacher's checkErrStack, used at package API boundaries that must return
// an error instead of propagating a panic across a goroutine boundary.
func Recover(err *error) {
	if v := recover(); v != nil {
		stack := make([]byte, 32*1024)
		n := runtime.Stack(stack, false)
		switch e := v.(type) {
		case error:
			*err = fmt.Errorf("%w\n%s", e, stack[:n])
		default:
			*err = fmt.Errorf("%v\n%s", v, stack[:n])
		}
	}
}
