package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/andewx/vkl/internal/vlog"
)

func TestCartesianBoundaryMapsToNDCCorners(t *testing.T) {
	box := Box{Min: mgl32.Vec2{0, 0}, Max: mgl32.Vec2{10, 10}}
	coords := DataCoords{Transform: Cartesian, Box: box}

	in := []mgl32.Vec2{{0, 0}, {10, 10}, {5, 5}}
	out := make([]mgl32.Vec2, len(in))
	Apply(coords, in, out, 1e-6, vlog.Discard())

	assert.InDelta(t, -1, out[0].X(), 1e-6)
	assert.InDelta(t, -1, out[0].Y(), 1e-6)
	assert.InDelta(t, 1, out[1].X(), 1e-6)
	assert.InDelta(t, 1, out[1].Y(), 1e-6)
	assert.InDelta(t, 0, out[2].X(), 1e-6)
	assert.InDelta(t, 0, out[2].Y(), 1e-6)
}

func TestLogXClampsNonPositiveToEpsilon(t *testing.T) {
	box := Box{Min: mgl32.Vec2{1, 0}, Max: mgl32.Vec2{100, 10}}
	coords := DataCoords{Transform: LogX, Box: box}

	in := []mgl32.Vec2{{-5, 1}, {100, 1}}
	out := make([]mgl32.Vec2, len(in))
	Apply(coords, in, out, 1e-6, vlog.Discard())

	assert.InDelta(t, -7, out[0].X(), 1e-3)
	assert.InDelta(t, 1, out[1].X(), 1e-6)
}
