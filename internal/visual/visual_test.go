package visual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualDataMarksPropDirtyAndSetsCount(t *testing.T) {
	v := New(nil, "test", nil)
	v.VisualData(PropPos, 0, ItemVec2, make([]byte, 8*3))

	p, ok := v.props[propKey{PropPos, 0}]
	require.True(t, ok)
	assert.True(t, p.dirty)
	assert.Equal(t, 3, p.count)
}

func TestVisualDataOverwritesPreviousValueInPlace(t *testing.T) {
	v := New(nil, "test", nil)
	v.VisualData(PropColor, 0, ItemVec4, make([]byte, 16*2))
	v.VisualData(PropColor, 0, ItemVec4, make([]byte, 16*5))

	p := v.props[propKey{PropColor, 0}]
	assert.Equal(t, 5, p.count)
	assert.Len(t, v.order, 1, "re-declaring the same (kind, index) must not duplicate the bake order")
}

func TestDeclareSourceReturnsSequentialIndices(t *testing.T) {
	v := New(nil, "test", nil)
	i0 := v.DeclareSource(Source{Kind: SourceVertex})
	i1 := v.DeclareSource(Source{Kind: SourceParam})
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, SourceVertex, v.Source(i0).Kind)
	assert.Equal(t, SourceParam, v.Source(i1).Kind)
}

func TestMapPropRecordsFieldMap(t *testing.T) {
	v := New(nil, "test", nil)
	v.MapProp(PropPos, 0, 2, 4, 24)
	fm, ok := v.mapping[propKey{PropPos, 0}]
	require.True(t, ok)
	assert.Equal(t, 2, fm.sourceIdx)
	assert.Equal(t, 4, fm.fieldOffset)
	assert.Equal(t, 24, fm.fieldStride)
}

func TestFloat32ByteRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	float32ToBytes(3.14159, buf)
	assert.InDelta(t, float32(3.14159), bytesToFloat32(buf), 1e-6)
}

func TestItemTypeSizes(t *testing.T) {
	assert.Equal(t, 4, ItemFloat32.ItemSize())
	assert.Equal(t, 8, ItemVec2.ItemSize())
	assert.Equal(t, 12, ItemVec3.ItemSize())
	assert.Equal(t, 16, ItemVec4.ItemSize())
	assert.Equal(t, 4, ItemUint32.ItemSize())
}

func TestSourceToBufferKind(t *testing.T) {
	assert.Equal(t, 0, int(sourceToBufferKind(SourceVertex)))
	assert.NotEqual(t, sourceToBufferKind(SourceIndex), sourceToBufferKind(SourceVertex))
	assert.NotEqual(t, sourceToBufferKind(SourceStorage), sourceToBufferKind(SourceVertex))
}
