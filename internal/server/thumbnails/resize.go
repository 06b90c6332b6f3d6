package thumbnails

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrNotAnImage = errors.New("content is not a supported image")
	ErrTooLarge   = errors.New("image exceeds pixel limit")
)

// Image is a decoded original that can be scaled to several widths.
type Image struct {
	src       image.Image
	jpeg      bool
	maxPixels int64
}

// Decode decodes data after checking its header. Images whose width*height
// exceeds maxPixels are rejected before any pixel data is allocated; a
// maxPixels of zero or less disables the check.
func Decode(data []byte, maxPixels int64) (*Image, error) {
	mt := mimetype.Detect(data)
	if !isImage(mt) {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrNotAnImage)
	}
	if exceeds(cfg.Width, cfg.Height, maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &Image{src: src, jpeg: mt.Is("image/jpeg"), maxPixels: maxPixels}, nil
}

// Resize scales the image to width pixels wide, keeping the aspect ratio.
// Narrower originals are enlarged. JPEG input is re-encoded as JPEG,
// anything else as PNG.
func (img *Image) Resize(width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid width %d", width)
	}

	b := img.src.Bounds()
	h := int(max(1, int64(b.Dy())*int64(width)/int64(b.Dx())))
	if exceeds(width, h, img.maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d variant", ErrTooLarge, width, h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img.src, b, draw.Over, nil)

	var (
		buf bytes.Buffer
		err error
	)
	if img.jpeg {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
	} else {
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Resize decodes data and scales it to width.
func Resize(data []byte, width int, maxPixels int64) ([]byte, error) {
	img, err := Decode(data, maxPixels)
	if err != nil {
		return nil, err
	}
	return img.Resize(width)
}

func exceeds(w, h int, maxPixels int64) bool {
	return maxPixels > 0 && int64(w)*int64(h) > maxPixels
}

func isImage(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		switch m.String() {
		case "image/jpeg", "image/png", "image/gif", "image/bmp", "image/webp":
			return true
		}
	}
	return false
}
