// Command vkldemo runs spec.md §8 scenario 1 end to end against a real
// window: a single flat-color triangle drawn with a MESH_RAW visual in a
// one-panel grid, exercising App/Canvas/Panel/Visual/Builtin together the
// way the teacher's test/render_test.go exercised CoreRenderInstance.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkl/internal/builtin"
	"github.com/andewx/vkl/internal/panel"
	"github.com/andewx/vkl/internal/transform"
	"github.com/andewx/vkl/internal/vklconfig"
	"github.com/andewx/vkl/internal/visual"

	vkl "github.com/andewx/vkl"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "vkldemo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := vklconfig.Default()
	cfg.Width, cfg.Height = 640, 480

	app, err := vkl.New(vkl.Options{
		Config:    cfg,
		ShaderDir: "cmd/vkldemo/shaders",
		GridRows:  1,
		GridCols:  1,
	})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	defer app.Destroy()

	p, err := panel.New(app.Context(), app.Grid(), 0, 0, 1, 1)
	if err != nil {
		return fmt.Errorf("create panel: %w", err)
	}

	tri, err := app.Builtins().Create(app.Context(), builtin.KindMeshRaw, builtin.FlagNone,
		app.Canvas().Renderpass(), app.Canvas().Extent())
	if err != nil {
		return fmt.Errorf("create triangle visual: %w", err)
	}

	tri.VisualData(visual.PropPos, 0, visual.ItemVec2, f32Bytes(
		0.0, -0.5,
		0.5, 0.5,
		-0.5, 0.5,
	))
	tri.VisualData(visual.PropColor, 0, visual.ItemVec4, f32Bytes(
		1, 0, 0, 1,
		0, 1, 0, 1,
		0, 0, 1, 1,
	))

	coords := transform.DataCoords{
		Transform: transform.Cartesian,
		Box:       transform.Box{Min: mgl32.Vec2{-1, -1}, Max: mgl32.Vec2{1, 1}},
	}
	if err := tri.Update(coords, cfg.ClampLogEpsilon, visual.Params{
		Model: mgl32.Ident4(), View: mgl32.Ident4(), Proj: mgl32.Ident4(),
	}); err != nil {
		return fmt.Errorf("bake triangle: %w", err)
	}

	if err := p.AddVisual(tri, 0); err != nil {
		return fmt.Errorf("attach visual to panel: %w", err)
	}

	app.Canvas().RegisterRefill(func(cmd vk.CommandBuffer, imageIndex int) error {
		return drawTriangle(cmd, tri)
	})
	app.Canvas().MarkNeedRefill()

	return app.Run(600)
}

// drawTriangle binds the visual's baked POS/COLOR vertex sources and
// issues one vertex-only draw call (no index buffer — MESH_RAW), matching
// the teacher's setup_command single hardcoded triangle draw generalized
// to a visual-supplied pipeline and sources.
func drawTriangle(cmd vk.CommandBuffer, v *visual.Visual) error {
	pos := v.Source(0).Region
	color := v.Source(1).Region
	if pos.Buffer == nil || color.Buffer == nil {
		return fmt.Errorf("vkldemo: triangle sources not baked yet")
	}
	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, v.Graphics[0].Handle())
	buffers := []vk.Buffer{pos.Buffer.Handle(), color.Buffer.Handle()}
	offsets := []vk.DeviceSize{pos.Offset, color.Offset}
	vk.CmdBindVertexBuffers(cmd, 0, 2, buffers, offsets)
	vk.CmdDraw(cmd, 3, 1, 0, 0)
	return nil
}

// f32Bytes packs float32 values little-endian, matching internal/visual's
// own VisualData byte-packing convention.
func f32Bytes(values ...float32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, f := range values {
		bits := math.Float32bits(f)
		out = append(out, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	return out
}
