package texture_cache

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/coverflow/common"
	"github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxTextureSize is the longest edge, in pixels, a cover is kept at after decoding.
const DefaultMaxTextureSize = 1024

// ImageLoader decodes the image at path, downscaled so neither edge exceeds maxSize.
type ImageLoader func(path string, maxSize int) (*image.RGBA, Geometry, error)

// LoadImage decodes a cover image from disk. The format is sniffed from the file contents;
// TGA, which has no magic number, is chosen by extension.
//
// Parameters:
//   - path: the image file
//   - maxSize: the longest allowed edge in pixels, 0 for no limit
//
// Returns:
//   - *image.RGBA: the decoded pixels
//   - Geometry: the aspect of the source image and the size of the returned pixels
//   - error: an error if the file cannot be read or decoded
func LoadImage(path string, maxSize int) (*image.RGBA, Geometry, error) {
	if path == "" {
		return nil, Geometry{}, ErrNoImagePath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, Geometry{}, fmt.Errorf("open cover: %w", err)
	}
	defer f.Close()

	var src image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		src, err = tga.Decode(bufio.NewReader(f))
	} else {
		src, _, err = image.Decode(bufio.NewReader(f))
	}
	if err != nil {
		return nil, Geometry{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	b := src.Bounds()
	if b.Empty() {
		return nil, Geometry{}, fmt.Errorf("decode %s: empty image", filepath.Base(path))
	}
	aspect := float32(b.Dx()) / float32(b.Dy())

	rgba := Downscale(src, maxSize)
	rb := rgba.Bounds()
	return rgba, Geometry{Aspect: aspect, Width: rb.Dx(), Height: rb.Dy()}, nil
}

// Downscale returns src as RGBA with its longest edge at most maxSize, keeping the aspect ratio.
// Images already within the limit are only converted.
//
// Parameters:
//   - src: the source image
//   - maxSize: the longest allowed edge, 0 for no limit
//
// Returns:
//   - *image.RGBA: the result anchored at the origin
func Downscale(src image.Image, maxSize int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return common.ToRGBA(src)
	}
	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
