// Package builtin implements the registry of required visual kinds from
// spec.md §4.9 (component C9): for each (Kind, Flags) pair it builds the
// graphics pipeline(s), declares the visual's sources, and wires a Baker
// that maps props onto them, reusing internal/visual's binding/baking
// pipeline rather than inventing a parallel one. Grounded on the
// teacher's single hardcoded triangle setup (vulkan-go-asche's core.go
// shader_map + instance.go's pipeline creation), generalized from one
// fixed vertex layout to one table entry per required kind.
package builtin

// Kind is the closed enum of required builtin visual kinds from spec.md
// §4.9.
type Kind int

const (
	KindPoint Kind = iota
	KindMarker
	KindLine
	KindLineStrip
	KindSegment
	KindPath
	KindText
	KindImage
	KindMesh
	KindMeshRaw
	KindPolygon
	KindAxes2D
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindMarker:
		return "marker"
	case KindLine:
		return "line"
	case KindLineStrip:
		return "line_strip"
	case KindSegment:
		return "segment"
	case KindPath:
		return "path"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindMesh:
		return "mesh"
	case KindMeshRaw:
		return "mesh_raw"
	case KindPolygon:
		return "polygon"
	case KindAxes2D:
		return "axes_2d"
	default:
		return "unknown"
	}
}

// Flags modifies a kind's construction (e.g. whether MESH indexes its
// vertices). Bits are independent and may be combined.
type Flags uint32

const (
	FlagNone Flags = 0
	// FlagIndexed requests an index buffer source, used to distinguish
	// MESH (indexed) from MESH_RAW (non-indexed, spec.md §8 scenario 1's
	// flat-color triangle).
	FlagIndexed Flags = 1 << 0
)
