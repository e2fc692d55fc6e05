package vklite

import (
	"runtime"
	"unsafe"
)

// PlatformOS mirrors the teacher's core.go PlatformOS check, used to decide
// whether VK_KHR_portability_enumeration must be requested (MoltenVK on
// Darwin).
var PlatformOS = func() string {
	switch runtime.GOOS {
	case "darwin":
		return "Darwin"
	case "windows":
		return "Windows"
	default:
		return "Linux"
	}
}()

// safeString null-terminates a Go string for PpEnabledExtensionNames-style
// C-string arrays, the way the teacher's vx_stage.PName assignments do.
func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != 0 {
		return s + "\x00"
	}
	return s
}

// safeStrings applies safeString across a slice.
func safeStrings(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = safeString(s)
	}
	return out
}

// sliceUint32 reinterprets a SPIR-V byte blob as the uint32 words
// vk.ShaderModuleCreateInfo.PCode expects, as the teacher's shader.go does.
func sliceUint32(data []byte) []uint32 {
	const wordSize = 4
	n := len(data) / wordSize
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = uint32(data[i*wordSize]) |
			uint32(data[i*wordSize+1])<<8 |
			uint32(data[i*wordSize+2])<<16 |
			uint32(data[i*wordSize+3])<<24
	}
	return out
}

// checkExisting intersects wanted against actual, returning the subset that
// exists and the count missing, as platform.go's NewPlatform does for
// instance extensions and validation layers.
func checkExisting(actual, wanted []string) (found []string, missing int) {
	set := make(map[string]bool, len(actual))
	for _, a := range actual {
		set[a] = true
	}
	for _, w := range wanted {
		if set[w] {
			found = append(found, safeString(w))
		} else {
			missing++
		}
	}
	return found, missing
}

// memcopy is a small unsafe helper that copies src into mapped memory at
// dst, used by Buffer.Upload (Buffer.Download reads the mapping through its
// own slice view).
func memcopy(dst unsafe.Pointer, src []byte) int {
	out := (*[1 << 30]byte)(dst)[:len(src):len(src)]
	return copy(out, src)
}
