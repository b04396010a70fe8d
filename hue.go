package bmpkit

import (
	"github.com/lucasb-eyer/go-colorful"
)

// hueBand maps a half-open hue range in degrees to a saturated output hue.
type hueBand struct {
	lo, hi float64
	hue    float64
}

var hueBands = []hueBand{
	{0, 30, 0},      // red
	{30, 90, 60},    // yellow
	{90, 150, 120},  // green
	{150, 210, 210}, // blue
	{210, 270, 270}, // purple
}

// HueSegment replaces every pixel in place with the fully saturated, full
// value color of its hue band. Hues from 270 up turn black. Gray pixels have
// hue 0 and land in the red band.
func HueSegment(b *PixelBuffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	for y := range b.Height {
		for x := range b.Width {
			off := b.PixOffset(x, y)
			c := colorful.Color{
				R: float64(b.Pix[off+2]) / 255.0,
				G: float64(b.Pix[off+1]) / 255.0,
				B: float64(b.Pix[off]) / 255.0,
			}
			h, _, _ := c.Hsv()
			out := colorful.Color{}
			for _, band := range hueBands {
				if h >= band.lo && h < band.hi {
					out = colorful.Hsv(band.hue, 1, 1)
					break
				}
			}
			r, g, bl := out.RGB255()
			b.Pix[off] = bl
			b.Pix[off+1] = g
			b.Pix[off+2] = r
		}
	}
	return nil
}

// Gray returns the truncated luma 0.299R + 0.587G + 0.114B.
func Gray(r, g, b uint8) uint8 {
	return uint8(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
}

// Grayscale converts b to gray in place.
func Grayscale(b *PixelBuffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	for y := range b.Height {
		for x := range b.Width {
			off := b.PixOffset(x, y)
			v := Gray(b.Pix[off+2], b.Pix[off+1], b.Pix[off])
			b.Pix[off] = v
			b.Pix[off+1] = v
			b.Pix[off+2] = v
		}
	}
	return nil
}
