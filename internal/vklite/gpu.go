package vklite

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklerr"
	"github.com/andewx/vkl/internal/vlog"
)

// GPU wraps a physical/logical device pair and the queue families bound to
// it, generalizing the teacher's CoreDevice (device.go) + CoreQueue
// (queue.go) into one lifecycle-managed object instead of two structs
// wired together ad hoc from CoreRenderInstance.Init.
type GPU struct {
	status.Object

	physical    vk.PhysicalDevice
	properties  vk.PhysicalDeviceProperties
	memProps    vk.PhysicalDeviceMemoryProperties
	families    []vk.QueueFamilyProperties
	extensions  ExtensionSet

	handle  vk.Device
	log     vlog.Logger

	GraphicsFamily uint32
	PresentFamily  uint32
	TransferFamily uint32

	GraphicsQueue vk.Queue
	PresentQueue  vk.Queue
	TransferQueue vk.Queue
}

// GPUConfig describes device selection and creation parameters.
type GPUConfig struct {
	WantedExtensions   []string
	RequiredExtensions []string
	ValidationLayers   []string
	Surface            vk.Surface // vk.NullSurface for offscreen/compute-only use
}

// DiscoverGPUs enumerates the physical devices visible to inst, as the
// teacher's CoreRenderInstance.Init does before its device-suitability
// loop.
func DiscoverGPUs(inst *Instance) ([]vk.PhysicalDevice, error) {
	var count uint32
	if ret := vk.EnumeratePhysicalDevices(inst.Handle(), &count, nil); vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}
	if count == 0 {
		return nil, fmt.Errorf("vklite: no physical devices found")
	}
	gpus := make([]vk.PhysicalDevice, count)
	if ret := vk.EnumeratePhysicalDevices(inst.Handle(), &count, gpus); vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}
	return gpus, nil
}

// NewGPU selects queue families on physical and creates the logical
// device, generalizing core.go's is_valid_device + instance.go's Init
// device-creation block so presentation support is resolved against an
// arbitrary vk.Surface instead of being implicit in a single window.
func NewGPU(inst *Instance, physical vk.PhysicalDevice, cfg GPUConfig, log vlog.Logger) (*GPU, error) {
	var familyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(physical, &familyCount, nil)
	families := make([]vk.QueueFamilyProperties, familyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(physical, &familyCount, families)
	for i := range families {
		families[i].Deref()
	}

	graphicsFamily, ok := findQueueFamily(families, vk.QueueFlags(vk.QueueGraphicsBit))
	if !ok {
		return nil, fmt.Errorf("vklite: no graphics-capable queue family")
	}

	presentFamily := graphicsFamily
	if cfg.Surface != vk.NullSurface {
		found := false
		for i := range families {
			var supported vk.Bool32
			vk.GetPhysicalDeviceSurfaceSupport(physical, uint32(i), cfg.Surface, &supported)
			if supported.B() {
				presentFamily = uint32(i)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("vklite: no present-capable queue family for surface")
		}
	}

	transferFamily := graphicsFamily
	for i := range families {
		flags := families[i].QueueFlags
		if flags&vk.QueueFlags(vk.QueueTransferBit) != 0 && flags&vk.QueueFlags(vk.QueueGraphicsBit) == 0 {
			transferFamily = uint32(i)
			break
		}
	}

	extSet, err := NewDeviceExtensionSet(physical, cfg.WantedExtensions, cfg.RequiredExtensions)
	if err != nil {
		return nil, err
	}
	if ok, missing := extSet.HasRequired(); !ok {
		return nil, fmt.Errorf("vklite: required device extensions unavailable: %v", missing)
	}

	uniqueFamilies := uniqueUint32(graphicsFamily, presentFamily, transferFamily)
	priority := []float32{1.0}
	queueInfos := make([]vk.DeviceQueueCreateInfo, len(uniqueFamilies))
	for i, fam := range uniqueFamilies {
		queueInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: fam,
			QueueCount:       1,
			PQueuePriorities: priority,
		}
	}

	var handle vk.Device
	ret := vk.CreateDevice(physical, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extSet.Names())),
		PpEnabledExtensionNames: extSet.Names(),
		EnabledLayerCount:       uint32(len(safeStrings(cfg.ValidationLayers))),
		PpEnabledLayerNames:     safeStrings(cfg.ValidationLayers),
	}, nil, &handle)
	if vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}

	g := &GPU{
		Object:         status.New(status.TypeGPU, "gpu"),
		physical:       physical,
		families:       families,
		extensions:     extSet,
		handle:         handle,
		log:            log,
		GraphicsFamily: graphicsFamily,
		PresentFamily:  presentFamily,
		TransferFamily: transferFamily,
	}
	vk.GetPhysicalDeviceProperties(physical, &g.properties)
	g.properties.Deref()
	vk.GetPhysicalDeviceMemoryProperties(physical, &g.memProps)
	g.memProps.Deref()

	vk.GetDeviceQueue(handle, graphicsFamily, 0, &g.GraphicsQueue)
	vk.GetDeviceQueue(handle, presentFamily, 0, &g.PresentQueue)
	vk.GetDeviceQueue(handle, transferFamily, 0, &g.TransferQueue)

	g.MarkCreated()
	return g, nil
}

// Handle returns the underlying vk.Device.
func (g *GPU) Handle() vk.Device { return g.handle }

// Physical returns the underlying vk.PhysicalDevice.
func (g *GPU) Physical() vk.PhysicalDevice { return g.physical }

// Name returns the device's human-readable name from its properties.
func (g *GPU) Name() string {
	return vk.ToString(g.properties.DeviceName[:])
}

// MemoryTypeIndex finds a memory type index satisfying typeBits and the
// requested property flags, the search NewBuffer and NewImages
// in this package need (teacher's extensions.go duplicated this per
// call site; here it lives once on GPU).
func (g *GPU) MemoryTypeIndex(typeBits uint32, props vk.MemoryPropertyFlags) (uint32, bool) {
	for i := uint32(0); i < g.memProps.MemoryTypeCount; i++ {
		mt := g.memProps.MemoryTypes[i]
		mt.Deref()
		if typeBits&(1<<i) != 0 && mt.PropertyFlags&props == props {
			return i, true
		}
	}
	return 0, false
}

// Destroy releases the logical device. Idempotent.
func (g *GPU) Destroy() {
	if !g.CheckDestroyable() {
		return
	}
	vk.DeviceWaitIdle(g.handle)
	vk.DestroyDevice(g.handle, nil)
	g.MarkDestroyed()
}

func findQueueFamily(families []vk.QueueFamilyProperties, want vk.QueueFlags) (uint32, bool) {
	for i, f := range families {
		if f.QueueFlags&want == want {
			return uint32(i), true
		}
	}
	return 0, false
}

func uniqueUint32(vals ...uint32) []uint32 {
	seen := make(map[uint32]bool, len(vals))
	out := make([]uint32, 0, len(vals))
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
