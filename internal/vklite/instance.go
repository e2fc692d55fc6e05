// Package vklite is the thin Vulkan wrapper named in the object/status
// lifecycle specification: it turns the raw vulkan-go bindings into the
// handful of lifecycle-managed types (Instance, GPU, Commands, Buffer,
// Images, Bindings, Pipeline, Renderpass, Submit, Barrier) that the rest of
// vkl builds on. It generalizes the teacher's BaseCore/CoreRenderInstance
// split (core.go, instance.go) into one coherent package instead of two
// half-finished ones.
package vklite

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklerr"
	"github.com/andewx/vkl/internal/vlog"
)

// SurfaceProvider is the minimal window-system boundary Instance needs:
// the set of instance extensions the windowing backend requires, and a
// way to create a vk.Surface once the instance exists. internal/canvas's
// glfw-backed Window satisfies this.
type SurfaceProvider interface {
	RequiredInstanceExtensions() []string
	CreateSurface(instance vk.Instance) (vk.Surface, error)
}

// Instance wraps a vk.Instance with the object/status lifecycle every
// vklite type carries.
type Instance struct {
	status.Object

	handle     vk.Instance
	extensions ExtensionSet
	layers     ExtensionSet
	log        vlog.Logger
}

// InstanceConfig describes how to build an Instance.
type InstanceConfig struct {
	AppName          string
	EngineName       string
	WantedExtensions []string
	ValidationLayers []string
	EnableValidation bool
	Surface          SurfaceProvider
}

// NewInstance creates a vk.Instance, negotiating extensions the way the
// teacher's CreateGraphicsInstance does (core.go), generalized to take
// its wanted list from InstanceConfig instead of two hardcoded getters.
func NewInstance(cfg InstanceConfig, log vlog.Logger) (*Instance, error) {
	var required []string
	if cfg.Surface != nil {
		required = cfg.Surface.RequiredInstanceExtensions()
	}

	extSet, err := NewInstanceExtensionSet(cfg.WantedExtensions, required)
	if err != nil {
		return nil, err
	}
	if ok, missing := extSet.HasRequired(); !ok {
		return nil, fmt.Errorf("required instance extensions unavailable: %v", missing)
	}

	var layerNames []string
	if cfg.EnableValidation {
		layerNames = cfg.ValidationLayers
	}
	layerSet, err := NewLayerExtensionSet(layerNames)
	if err != nil {
		return nil, err
	}
	if ok, missing := layerSet.HasWanted(); !ok {
		log.Warn("requested validation layers unavailable", "missing", missing)
	}

	var flags vk.InstanceCreateFlags
	if PlatformOS == "Darwin" {
		flags = vk.InstanceCreateFlags(0x00000001) // VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT
	}

	var handle vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   safeString(cfg.AppName),
			PEngineName:        safeString(cfg.EngineName),
		},
		EnabledExtensionCount:   uint32(len(extSet.Names())),
		PpEnabledExtensionNames: extSet.Names(),
		EnabledLayerCount:       uint32(len(layerSet.Names())),
		PpEnabledLayerNames:     layerSet.Names(),
		Flags:                   flags,
	}, nil, &handle)
	if vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}

	if PlatformOS == "Darwin" {
		vk.InitInstance(handle)
	}

	inst := &Instance{
		Object:     status.New(status.TypeApp, cfg.AppName),
		handle:     handle,
		extensions: extSet,
		layers:     layerSet,
		log:        log,
	}
	inst.MarkCreated()
	return inst, nil
}

// Handle returns the underlying vk.Instance.
func (i *Instance) Handle() vk.Instance { return i.handle }

// Destroy releases the instance. Idempotent per the status lifecycle's
// destructor contract.
func (i *Instance) Destroy() {
	if !i.CheckDestroyable() {
		return
	}
	vk.DestroyInstance(i.handle, nil)
	i.MarkDestroyed()
}
