package builtin

import (
	"math"

	"github.com/andewx/vkl/internal/panel"
	"github.com/andewx/vkl/internal/visual"
)

// TickComputer computes tick positions and labels for one axis over
// [min, max], bounded to at most maxTicks major ticks. Implementations
// own the actual tick-placement algorithm (spec.md §1 scopes it out of
// this engine); AXES_2D only calls the interface.
type TickComputer interface {
	Ticks(axis panel.Axis, min, max float32, maxTicks int) (major, minor []float32)
}

// AxesState is the mutable range an AXES_2D visual bakes ticks from.
// Callers mutate it directly (e.g. in response to a pan/zoom) and then
// call Visual.Update to re-bake.
type AxesState struct {
	Axis     panel.Axis
	Min, Max float32
	MaxTicks int
}

// axesBaker closes over a TickComputer and the visual's AxesState,
// computing POS@MAJOR/POS@MINOR as tick segments along Axis, each spanning
// -1..1 on the other axis (the panel's MVP places them in the viewport), and feeding them
// through visual_data so the generic mapping loop in visual.Update bakes
// them into their sources exactly like user-supplied props.
func axesBaker(ticks TickComputer, state *AxesState) visual.Baker {
	return func(v *visual.Visual) error {
		major, minor := ticks.Ticks(state.Axis, state.Min, state.Max, state.MaxTicks)

		v.VisualData(visual.PropPos, 0, visual.ItemVec2, tickPositions(state.Axis, major))
		v.VisualData(visual.PropPos, 1, visual.ItemVec2, tickPositions(state.Axis, minor))
		return nil
	}
}

// tickPositions lays out 1-D tick values as vec2 line-segment endpoints
// along axis, running from -1 to 1 on the other axis — the caller's panel MVP handles
// placement and scale.
func tickPositions(axis panel.Axis, values []float32) []byte {
	out := make([]byte, 0, len(values)*2*8)
	for _, val := range values {
		var x0, y0, x1, y1 float32
		if axis == panel.Horizontal {
			x0, y0, x1, y1 = val, -1, val, 1
		} else {
			x0, y0, x1, y1 = -1, val, 1, val
		}
		out = append(out, float32ToBytes(x0)...)
		out = append(out, float32ToBytes(y0)...)
		out = append(out, float32ToBytes(x1)...)
		out = append(out, float32ToBytes(y1)...)
	}
	return out
}

func float32ToBytes(f float32) []byte {
	b := make([]byte, 4)
	bits := math.Float32bits(f)
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
	return b
}
