package builtin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andewx/vkl/internal/panel"
)

func TestKindStringCoversAllRequiredKinds(t *testing.T) {
	want := map[Kind]string{
		KindPoint: "point", KindMarker: "marker", KindLine: "line",
		KindLineStrip: "line_strip", KindSegment: "segment", KindPath: "path",
		KindText: "text", KindImage: "image", KindMesh: "mesh",
		KindMeshRaw: "mesh_raw", KindPolygon: "polygon", KindAxes2D: "axes_2d",
	}
	for k, s := range want {
		assert.Equal(t, s, k.String())
	}
}

func TestTablePipelineEntryForEveryRequiredKind(t *testing.T) {
	for k := range map[Kind]string{
		KindPoint: "", KindMarker: "", KindLine: "", KindLineStrip: "",
		KindSegment: "", KindPath: "", KindText: "", KindImage: "",
		KindMesh: "", KindMeshRaw: "", KindPolygon: "", KindAxes2D: "",
	} {
		_, ok := table[k]
		assert.Truef(t, ok, "missing pipeline table entry for %s", k)
	}
}

func TestTickPositionsHorizontalLaysOutVerticalSegments(t *testing.T) {
	out := tickPositions(panel.Horizontal, []float32{0.5})
	require := func(off int, want float32) {
		bits := uint32(out[off]) | uint32(out[off+1])<<8 | uint32(out[off+2])<<16 | uint32(out[off+3])<<24
		assert.Equal(t, want, math.Float32frombits(bits))
	}
	require(0, 0.5)  // x0
	require(4, -1)   // y0
	require(8, 0.5)  // x1
	require(12, 1)   // y1
}

func TestTickPositionsEmptyProducesNoBytes(t *testing.T) {
	out := tickPositions(panel.Vertical, nil)
	assert.Empty(t, out)
}
