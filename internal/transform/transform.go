// Package transform implements the CPU-side data-to-NDC coordinate
// normalization named in spec.md §4.6. original_source's vkl_transform
// (src/transform.c) only implements the CARTESIAN branch and leaves the
// log/semilog branches as TODOs; this package fills those in using the
// same per-axis dispatch shape, built on go-gl/mathgl the way the
// Gekko3D-gekko example engine uses mgl32 for its CPU-side math instead
// of hand-rolled vector types.
package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/andewx/vkl/internal/vlog"
)

// Kind is the closed set of supported coordinate transforms.
type Kind int

const (
	Cartesian Kind = iota
	LogX
	LogY
	LogLog
)

// Box is an axis-aligned bounding region in data space.
type Box struct {
	Min mgl32.Vec2
	Max mgl32.Vec2
}

// DataCoords pairs a transform kind with the data-space box it normalizes
// against.
type DataCoords struct {
	Transform Kind
	Box       Box
}

// Apply writes into out the NDC-normalized [-1, +1] positions for in,
// dispatching on coords.Transform. Non-positive values on a log axis are
// clamped to epsilon rather than failing the whole call, resolving
// spec.md §9's open question in favor of the least-surprising behavior;
// log carries a warning once per call when a clamp occurred.
func Apply(coords DataCoords, in []mgl32.Vec2, out []mgl32.Vec2, epsilon float32, log vlog.Logger) {
	if len(out) < len(in) {
		panic("transform: out must be at least as long as in")
	}
	switch coords.Transform {
	case Cartesian:
		normalize(coords.Box, in, out)
	case LogX:
		applyLog(coords, in, out, epsilon, log, true, false)
	case LogY:
		applyLog(coords, in, out, epsilon, log, false, true)
	case LogLog:
		applyLog(coords, in, out, epsilon, log, true, true)
	default:
		normalize(coords.Box, in, out)
	}
}

// normalize implements pos_out = 2*(pos_in - box.min)/(box.max - box.min) - 1
// componentwise, exactly as _normalize_pos does in original_source.
func normalize(box Box, in []mgl32.Vec2, out []mgl32.Vec2) {
	spanX := box.Max.X() - box.Min.X()
	spanY := box.Max.Y() - box.Min.Y()
	for i, p := range in {
		x := float32(0)
		y := float32(0)
		if spanX != 0 {
			x = 2*(p.X()-box.Min.X())/spanX - 1
		}
		if spanY != 0 {
			y = 2*(p.Y()-box.Min.Y())/spanY - 1
		}
		out[i] = mgl32.Vec2{x, y}
	}
}

func applyLog(coords DataCoords, in []mgl32.Vec2, out []mgl32.Vec2, epsilon float32, log vlog.Logger, logX, logY bool) {
	clamped := 0
	box := coords.Box
	logged := make([]mgl32.Vec2, len(in))
	logMin := box.Min
	logMax := box.Max

	clampLog := func(v float32) float32 {
		if v <= 0 {
			clamped++
			v = epsilon
		}
		return float32(math.Log10(float64(v)))
	}

	for i, p := range in {
		x, y := p.X(), p.Y()
		if logX {
			x = clampLog(x)
		}
		if logY {
			y = clampLog(y)
		}
		logged[i] = mgl32.Vec2{x, y}
	}
	if logX {
		logMin = mgl32.Vec2{clampLog(box.Min.X()), logMin.Y()}
		logMax = mgl32.Vec2{clampLog(box.Max.X()), logMax.Y()}
	}
	if logY {
		logMin = mgl32.Vec2{logMin.X(), clampLog(box.Min.Y())}
		logMax = mgl32.Vec2{logMax.X(), clampLog(box.Max.Y())}
	}

	normalize(Box{Min: logMin, Max: logMax}, logged, out)

	if clamped > 0 && log != nil {
		log.Warn("clamped non-positive values on log axis", "count", clamped, "epsilon", epsilon)
	}
}
