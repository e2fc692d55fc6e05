package canvas

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/stretchr/testify/assert"
)

func TestOffscreenWindowClose(t *testing.T) {
	w := NewOffscreenWindow(320, 240)
	assert.False(t, w.ShouldClose())

	width, height := w.FramebufferSize()
	assert.Equal(t, 320, width)
	assert.Equal(t, 240, height)

	w.Close()
	assert.True(t, w.ShouldClose())
}

func TestOffscreenWindowCreateSurfaceReturnsNullSurface(t *testing.T) {
	w := NewOffscreenWindow(1, 1)
	surface, err := w.CreateSurface(vk.Instance(vk.NullHandle))
	assert.NoError(t, err)
	assert.Equal(t, vk.NullSurface, surface)
}
