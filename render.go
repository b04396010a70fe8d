package bmpkit

import (
	"fmt"
	"image"
	"image/color"
)

// FitSize scales w×h to fit inside maxW×maxH while keeping its aspect ratio.
// The result is truncated and may be zero for extreme ratios.
func FitSize(w, h, maxW, maxH int) (int, int, error) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0, fmt.Errorf("%w: fit %dx%d into %dx%d", ErrInvalidParameter, w, h, maxW, maxH)
	}
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return int(float64(w) * scale), int(float64(h) * scale), nil
}

// RenderScaled samples b into a targetW×targetH RGBA image with nearest
// neighbour lookup. Output row 0 is the top of the image, so rows are read
// from the end of the bottom-up buffer.
func RenderScaled(b *PixelBuffer, targetW, targetH int) (*image.RGBA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", ErrInvalidParameter, targetW, targetH)
	}
	img := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	for y := range targetH {
		srcY := (targetH - 1 - y) * b.Height / targetH
		for x := range targetW {
			srcX := x * b.Width / targetW
			off := b.PixOffset(srcX, srcY)
			img.SetRGBA(x, y, color.RGBA{R: b.Pix[off+2], G: b.Pix[off+1], B: b.Pix[off], A: 255})
		}
	}
	return img, nil
}

// RenderFit is RenderScaled with the target size chosen by FitSize.
func RenderFit(b *PixelBuffer, maxW, maxH int) (*image.RGBA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	w, h, err := FitSize(b.Width, b.Height, maxW, maxH)
	if err != nil {
		return nil, err
	}
	return RenderScaled(b, w, h)
}
