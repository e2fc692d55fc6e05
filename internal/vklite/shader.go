package vklite

import (
	"os"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/vklerr"
)

// LoadShaderModule reads SPIR-V bytes from path and creates a
// vk.ShaderModule, following the teacher's CoreShader.LoadShaderModule
// (shader.go) byte-to-uint32 reinterpretation but returning an error
// instead of silently returning on a read failure.
func LoadShaderModule(gpu *GPU, path string) (vk.ShaderModule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return vk.NullShaderModule, err
	}
	return LoadShaderModuleBytes(gpu, data)
}

// LoadShaderModuleBytes creates a vk.ShaderModule from SPIR-V bytes
// already in memory; LoadShaderModule calls it after reading the file.
func LoadShaderModuleBytes(gpu *GPU, data []byte) (vk.ShaderModule, error) {
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(gpu.Handle(), &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(data)),
		PCode:    sliceUint32(data),
	}, nil, &module)
	if vklerr.IsError(ret) {
		return vk.NullShaderModule, vklerr.NewError(ret)
	}
	return module, nil
}

// DestroyShaderModule releases a shader module created by either loader
// above. Shader modules carry no Object lifecycle of their own since they
// are transient inputs to pipeline creation, matching the teacher's
// treatment of them as create-use-discard values.
func DestroyShaderModule(gpu *GPU, module vk.ShaderModule) {
	vk.DestroyShaderModule(gpu.Handle(), module, nil)
}
