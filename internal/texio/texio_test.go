package texio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePNGProducesTightlyPackedRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 3))
	src.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	src.Set(1, 2, color.RGBA{R: 40, G: 50, B: 60, A: 128})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	pixels, w, h, format, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, w)
	assert.Equal(t, 3, h)
	assert.Equal(t, vk.FormatR8g8b8a8Unorm, format)
	require.Len(t, pixels, w*h*4)
	assert.Equal(t, []byte{10, 20, 30, 255}, pixels[0:4])
}

func TestDecodeInvalidDataReturnsError(t *testing.T) {
	_, _, _, _, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
