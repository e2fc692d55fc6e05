// Package vkl is the public entry point described in spec.md §6: it wires
// internal/vklite's Instance/GPU, internal/gpuctx's shared buffers,
// internal/canvas's window/frame loop, internal/panel's grid/viewport, and
// internal/builtin's visual registry into the single App lifecycle a host
// program drives, generalizing the teacher's BaseCore+CoreRenderInstance
// construction sequence (core.go's NewBaseCore/CreateGraphicsInstance) into
// one ordered Init instead of a map-keyed "Usage" bag.
package vkl

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/builtin"
	"github.com/andewx/vkl/internal/canvas"
	"github.com/andewx/vkl/internal/gpuctx"
	"github.com/andewx/vkl/internal/panel"
	"github.com/andewx/vkl/internal/status"
	"github.com/andewx/vkl/internal/vklconfig"
	"github.com/andewx/vkl/internal/vklerr"
	"github.com/andewx/vkl/internal/vklite"
	"github.com/andewx/vkl/internal/vlog"
)

// App owns every long-lived vkl object for one windowed (or offscreen)
// session: the Vulkan instance/device, the shared-buffer context, the
// canvas/frame loop, and the panel grid. Host programs construct one App,
// build panels/visuals against it, then call Run.
type App struct {
	status.Object

	Config vklconfig.Config
	Log    vlog.Logger

	AbortHook vklerr.AbortHook

	instance *vklite.Instance
	gpu      *vklite.GPU
	ctx      *gpuctx.Context
	win      canvas.Window
	surface  vk.Surface
	canvas   *canvas.Canvas
	builtins *builtin.Registry
	grid     *panel.Grid

	usingGLFW bool
}

// Options configures App construction. A nil TickComputer disables
// AXES_2D visuals (Registry.CreateAxes2D returns an error).
type Options struct {
	Config        vklconfig.Config
	Log           vlog.Logger
	Offscreen     bool
	ShaderDir     string
	TickComputer  builtin.TickComputer
	GridRows      int
	GridCols      int
}

// New brings up GLFW (unless Offscreen), the Vulkan instance and device,
// the shared-buffer context, the canvas, the builtin-visual registry, and
// the root panel grid, mirroring the teacher's NewBaseCore +
// CreateGraphicsInstance + Init sequence but generalized across the
// offscreen/windowed split spec.md §4.5 requires.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg.AppName == "" {
		cfg = vklconfig.Default()
	}
	log := opts.Log
	if log == nil {
		log = vlog.New(nil, "info")
	}

	a := &App{
		Object:    status.New(status.TypeApp, "app"),
		Config:    cfg,
		Log:       log,
		AbortHook: vklerr.DefaultAbortHook,
	}

	var win canvas.Window
	if opts.Offscreen {
		win = canvas.NewOffscreenWindow(int(cfg.Width), int(cfg.Height))
	} else {
		if err := glfw.Init(); err != nil {
			return nil, fmt.Errorf("vkl: glfw init: %w", err)
		}
		gw, err := canvas.NewGLFWWindow(int(cfg.Width), int(cfg.Height), cfg.AppName)
		if err != nil {
			glfw.Terminate()
			return nil, err
		}
		win = gw
		a.usingGLFW = true
	}
	a.win = win

	if err := vk.Init(); err != nil {
		a.teardownWindow()
		return nil, fmt.Errorf("vkl: vulkan init: %w", err)
	}

	inst, err := vklite.NewInstance(vklite.InstanceConfig{
		AppName:          cfg.AppName,
		EngineName:       "vkl",
		ValidationLayers: cfg.ValidationLayers,
		EnableValidation: cfg.EnableValidation,
		Surface:          canvas.AsSurfaceProvider(win),
	}, log)
	if err != nil {
		a.teardownWindow()
		return nil, err
	}
	a.instance = inst

	surface, err := win.CreateSurface(inst.Handle())
	if err != nil {
		inst.Destroy()
		a.teardownWindow()
		return nil, err
	}
	a.surface = surface

	gpus, err := vklite.DiscoverGPUs(inst)
	if err != nil {
		a.cleanup()
		return nil, err
	}
	gpu, err := vklite.NewGPU(inst, gpus[0], vklite.GPUConfig{Surface: surface}, log)
	if err != nil {
		a.cleanup()
		return nil, err
	}
	a.gpu = gpu

	ctx, err := gpuctx.New(gpu, gpuctx.DefaultConfig(), log)
	if err != nil {
		a.cleanup()
		return nil, err
	}
	a.ctx = ctx

	canvasCfg := canvas.DefaultConfig()
	canvasCfg.SwapchainDepth = cfg.SwapchainImages
	cv, err := canvas.New(gpu, win, surface, canvasCfg, log)
	if err != nil {
		a.cleanup()
		return nil, err
	}
	a.canvas = cv

	shaderDir := opts.ShaderDir
	if shaderDir == "" {
		shaderDir = "shaders"
	}
	a.builtins = builtin.NewRegistry(gpu, shaderDir, opts.TickComputer)

	rows, cols := opts.GridRows, opts.GridCols
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	grid, err := panel.NewGrid(rows, cols)
	if err != nil {
		a.cleanup()
		return nil, err
	}
	a.grid = grid

	a.MarkCreated()
	return a, nil
}

// GPU, Context, Canvas, Builtins, and Grid expose the internal collaborators
// host programs need to build panels and visuals.
func (a *App) GPU() *vklite.GPU            { return a.gpu }
func (a *App) Context() *gpuctx.Context    { return a.ctx }
func (a *App) Canvas() *canvas.Canvas      { return a.canvas }
func (a *App) Builtins() *builtin.Registry { return a.builtins }
func (a *App) Grid() *panel.Grid           { return a.grid }

// Run drives the frame loop for exactly nFrames frames (or until the
// window requests close, whichever comes first), implementing spec.md
// §6.4's app_run(app, n_frames). Passing nFrames <= 0 runs until close.
func (a *App) Run(nFrames int) error {
	frame := 0
	for {
		if a.canvas.ShouldExit() {
			break
		}
		if nFrames > 0 && frame >= nFrames {
			break
		}
		a.win.PollEvents()
		if err := a.canvas.RunFrame(float64(frame)/60.0, a.gpu.GraphicsQueue); err != nil {
			return fmt.Errorf("vkl: frame %d: %w", frame, err)
		}
		frame++
	}
	a.canvas.DrainAndExit(float64(frame) / 60.0)
	return nil
}

func (a *App) teardownWindow() {
	a.win.Destroy()
	if a.usingGLFW {
		glfw.Terminate()
	}
}

// cleanup tears down whatever was constructed so far, in reverse order,
// used on every New error path.
func (a *App) cleanup() {
	if a.canvas != nil {
		a.canvas.Destroy()
	}
	if a.ctx != nil {
		a.ctx.Destroy()
	}
	if a.gpu != nil {
		a.gpu.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
	}
	a.teardownWindow()
}

// Destroy releases every owned object in dependency order: builtins,
// canvas, context, device, instance, window.
func (a *App) Destroy() {
	if !a.CheckDestroyable() {
		return
	}
	if a.builtins != nil {
		a.builtins.Destroy()
	}
	a.canvas.Destroy()
	a.ctx.Destroy()
	a.gpu.Destroy()
	a.instance.Destroy()
	a.teardownWindow()
	a.MarkDestroyed()
}
