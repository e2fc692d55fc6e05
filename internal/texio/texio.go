// Package texio decodes image files into the tightly packed RGBA8 pixel
// buffers internal/vklite.Images expects, per spec.md §6.2's rule that
// file decoding is a collaborator outside the GPU core. Grounded on
// cogentcore-core's base/iox/imagex package (Formats enum,
// image.Decode + registered golang.org/x/image/bmp and tiff decoders);
// this package narrows that to the single Decode entry point A6 names,
// since vkl has no save/write path.
package texio

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	vk "github.com/vulkan-go/vulkan"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Decode reads an image in any registered format (PNG/JPEG/GIF/BMP/TIFF)
// from r and returns tightly packed, top-left-origin RGBA8 pixels plus
// its dimensions and the matching vk.Format, ready for
// vklite.NewImages + a staging upload.
func Decode(r io.Reader) (pixels []byte, width, height int, format vk.Format, err error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("texio: decode: %w", err)
	}

	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != width*4 {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
		rgba = dst
	}

	return rgba.Pix, width, height, vk.FormatR8g8b8a8Unorm, nil
}
