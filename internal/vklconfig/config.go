// Package vklconfig holds the App-wide configuration the teacher hardcoded
// as constants (core.go's SWAPCHAIN_COUNT, instance.go's MAX_UNIFORM_BUFFERS)
// and as the ad hoc Usage property bag (usage.go). vkl promotes those to a
// typed struct loadable from TOML via pelletier/go-toml/v2, matching the
// config layer spaghettifunk-anima carries alongside its own Vulkan backend.
package vklconfig

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the set of tunables an embedding program may override. App
// reads AppName, Width, Height, SwapchainImages, ValidationLayers and
// EnableValidation, and ClampLogEpsilon is passed by callers to
// Visual.Update. MaxFramesInFlight, MaxUniformBuffers, FIFOInitialDepth,
// MaxVisualsPerPanel, MaxGridRows and MaxGridCols are not read anywhere;
// the limits they name are fixed constants in their packages.
type Config struct {
	AppName            string   `toml:"app_name"`
	Width              uint32   `toml:"width"`
	Height             uint32   `toml:"height"`
	SwapchainImages    int      `toml:"swapchain_images"`
	MaxFramesInFlight  int      `toml:"max_frames_in_flight"`
	MaxUniformBuffers  int      `toml:"max_uniform_buffers"`
	ValidationLayers   []string `toml:"validation_layers"`
	EnableValidation   bool     `toml:"enable_validation"`
	ClampLogEpsilon    float32  `toml:"clamp_log_epsilon"`
	FIFOInitialDepth   int      `toml:"fifo_initial_depth"`
	MaxVisualsPerPanel int      `toml:"max_visuals_per_panel"`
	MaxGridRows        int      `toml:"max_grid_rows"`
	MaxGridCols        int      `toml:"max_grid_cols"`
}

// Default returns the teacher's hardcoded values lifted into config fields.
func Default() Config {
	return Config{
		AppName:           "vkl",
		Width:             800,
		Height:            600,
		SwapchainImages:   3, // teacher's core.go SWAPCHAIN_COUNT
		MaxFramesInFlight: 2,
		MaxUniformBuffers: 4, // teacher's instance.go MAX_UNIFORM_BUFFERS
		ValidationLayers: []string{
			"VK_LAYER_KHRONOS_synchronization2",
			"VK_LAYER_KHRONOS_validation",
		},
		EnableValidation:   false,
		ClampLogEpsilon:    1e-6,
		FIFOInitialDepth:   64,
		MaxVisualsPerPanel: 64, // original_source panel.h VKL_MAX_VISUALS_PER_PANEL
		MaxGridRows:        64, // original_source panel.h VKL_GRID_MAX_ROWS
		MaxGridCols:        64, // original_source panel.h VKL_GRID_MAX_COLS
	}
}

// Load reads a TOML file at path, starting from Default() and overriding
// any field the file sets.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
