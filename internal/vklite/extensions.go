package vklite

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/vklerr"
)

// InstanceExtensions lists the instance extensions available on the
// platform, as the teacher's extensions.go/util.go duplicate of this
// function does (we keep a single copy here).
func InstanceExtensions() ([]string, error) {
	var count uint32
	if ret := vk.EnumerateInstanceExtensionProperties("", &count, nil); vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}
	list := make([]vk.ExtensionProperties, count)
	if ret := vk.EnumerateInstanceExtensionProperties("", &count, list); vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}
	names := make([]string, 0, count)
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// DeviceExtensions lists the extensions available on a physical device.
func DeviceExtensions(gpu vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if ret := vk.EnumerateDeviceExtensionProperties(gpu, "", &count, nil); vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}
	list := make([]vk.ExtensionProperties, count)
	if ret := vk.EnumerateDeviceExtensionProperties(gpu, "", &count, list); vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}
	names := make([]string, 0, count)
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// ValidationLayers lists the validation layers available on the platform.
func ValidationLayers() ([]string, error) {
	var count uint32
	if ret := vk.EnumerateInstanceLayerProperties(&count, nil); vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}
	list := make([]vk.LayerProperties, count)
	if ret := vk.EnumerateInstanceLayerProperties(&count, list); vklerr.IsError(ret) {
		return nil, vklerr.NewError(ret)
	}
	names := make([]string, 0, count)
	for _, layer := range list {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

// ExtensionSet resolves a wanted/required pair against what is actually
// available, generalizing the teacher's BaseInstanceExtensions and
// BaseDeviceExtensions (extensions_2.go) — which were near-identical copies
// for instance vs. device — into one type parametrized by the "actual"
// lookup.
type ExtensionSet struct {
	wanted   []string
	required []string
	actual   []string
}

func newExtensionSet(wanted, required, actual []string) ExtensionSet {
	return ExtensionSet{wanted: wanted, required: required, actual: actual}
}

// HasRequired reports whether every required extension/layer is present,
// returning the missing subset.
func (e ExtensionSet) HasRequired() (bool, []string) {
	return e.has(e.required)
}

// HasWanted reports whether every wanted extension/layer is present.
func (e ExtensionSet) HasWanted() (bool, []string) {
	return e.has(e.wanted)
}

func (e ExtensionSet) has(want []string) (bool, []string) {
	actual := make(map[string]bool, len(e.actual))
	for _, a := range e.actual {
		actual[a] = true
	}
	var missing []string
	for _, w := range want {
		if !actual[w] {
			missing = append(missing, w)
		}
	}
	return len(missing) == 0, missing
}

// Names returns required first, then wanted-not-already-required, each
// safeString-terminated for the Vulkan Pp*Names arrays.
func (e ExtensionSet) Names() []string {
	out := make([]string, 0, len(e.required)+len(e.wanted))
	seen := make(map[string]bool, len(e.required))
	for _, r := range e.required {
		out = append(out, safeString(r))
		seen[r] = true
	}
	for _, w := range e.wanted {
		if !seen[w] {
			out = append(out, safeString(w))
		}
	}
	return out
}

// NewInstanceExtensionSet queries the platform's actual instance
// extensions and builds an ExtensionSet from wanted/required lists.
func NewInstanceExtensionSet(wanted, required []string) (ExtensionSet, error) {
	actual, err := InstanceExtensions()
	if err != nil {
		return ExtensionSet{}, err
	}
	return newExtensionSet(wanted, required, actual), nil
}

// NewDeviceExtensionSet queries gpu's actual extensions and builds an
// ExtensionSet from wanted/required lists.
func NewDeviceExtensionSet(gpu vk.PhysicalDevice, wanted, required []string) (ExtensionSet, error) {
	actual, err := DeviceExtensions(gpu)
	if err != nil {
		return ExtensionSet{}, err
	}
	return newExtensionSet(wanted, required, actual), nil
}

// NewLayerExtensionSet queries the platform's actual validation layers.
func NewLayerExtensionSet(wanted []string) (ExtensionSet, error) {
	actual, err := ValidationLayers()
	if err != nil {
		return ExtensionSet{}, err
	}
	return newExtensionSet(wanted, nil, actual), nil
}
