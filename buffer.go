package bmpkit

import (
	"fmt"
	"image"
	"image/color"
)

const bytesPerPixel = 3

// PixelBuffer is a row-padded 24-bit pixel store in BMP memory order.
//
// Pix holds Height rows of Stride bytes. Row 0 is the bottom scanline of the
// visual image and every pixel is stored as Blue, Green, Red. Bytes past
// Width*3 in a row are padding.
type PixelBuffer struct {
	Width  int
	Height int
	Stride int
	Pix    []byte // len = Stride * Height
}

// RowStride returns the 4-byte aligned row length for a 24-bit image.
func RowStride(width int) int {
	return (width*bytesPerPixel + 3) &^ 3
}

// NewPixelBuffer allocates a zeroed buffer of the given size.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidParameter, width, height)
	}
	stride := RowStride(width)
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]byte, stride*height),
	}, nil
}

// Clone returns a deep copy. The copy shares no memory with b.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{
		Width:  b.Width,
		Height: b.Height,
		Stride: b.Stride,
		Pix:    pix,
	}
}

// Validate checks the layout invariants every transform relies on.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidParameter)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidParameter, b.Width, b.Height)
	}
	if b.Stride != RowStride(b.Width) {
		return fmt.Errorf("%w: stride %d does not match width %d", ErrInvalidParameter, b.Stride, b.Width)
	}
	if len(b.Pix) != b.Stride*b.Height {
		return fmt.Errorf("%w: %d pixel bytes, want %d", ErrInvalidParameter, len(b.Pix), b.Stride*b.Height)
	}
	return nil
}

// PixOffset returns the index of the blue byte of pixel (x, y), where y counts
// stored rows from the bottom of the image.
func (b *PixelBuffer) PixOffset(x, y int) int {
	return y*b.Stride + x*bytesPerPixel
}

func (b *PixelBuffer) inBounds(x, y int) error {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return fmt.Errorf("%w: pixel (%d,%d) outside %dx%d", ErrInvalidParameter, x, y, b.Width, b.Height)
	}
	return nil
}

// BGRAt reads pixel (x, y) in stored channel order.
func (b *PixelBuffer) BGRAt(x, y int) (blue, green, red uint8, err error) {
	if err = b.inBounds(x, y); err != nil {
		return 0, 0, 0, err
	}
	off := b.PixOffset(x, y)
	return b.Pix[off], b.Pix[off+1], b.Pix[off+2], nil
}

// SetBGR writes pixel (x, y) in stored channel order.
func (b *PixelBuffer) SetBGR(x, y int, blue, green, red uint8) error {
	if err := b.inBounds(x, y); err != nil {
		return err
	}
	off := b.PixOffset(x, y)
	b.Pix[off] = blue
	b.Pix[off+1] = green
	b.Pix[off+2] = red
	return nil
}

// RGBAt is BGRAt with the channels returned as red, green, blue.
func (b *PixelBuffer) RGBAt(x, y int) (red, green, blue uint8, err error) {
	blue, green, red, err = b.BGRAt(x, y)
	return red, green, blue, err
}

// SetRGB is SetBGR with the channels given as red, green, blue.
func (b *PixelBuffer) SetRGB(x, y int, red, green, blue uint8) error {
	return b.SetBGR(x, y, blue, green, red)
}

// Fill sets every pixel to one color. Padding bytes are left alone.
func (b *PixelBuffer) Fill(red, green, blue uint8) {
	for y := range b.Height {
		for x := range b.Width {
			off := b.PixOffset(x, y)
			b.Pix[off] = blue
			b.Pix[off+1] = green
			b.Pix[off+2] = red
		}
	}
}

// Equal reports whether both buffers have the same size and pixel values.
// Padding bytes are ignored.
func (b *PixelBuffer) Equal(o *PixelBuffer) bool {
	if b.Width != o.Width || b.Height != o.Height {
		return false
	}
	n := b.Width * bytesPerPixel
	for y := range b.Height {
		ra := b.Pix[y*b.Stride : y*b.Stride+n]
		rb := o.Pix[y*o.Stride : y*o.Stride+n]
		if string(ra) != string(rb) {
			return false
		}
	}
	return true
}

// Image returns a top-down NRGBA copy of the buffer, suitable for the
// image/... packages and anything else that expects visual row order.
func (b *PixelBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := range b.Height {
		src := b.Height - 1 - y
		for x := range b.Width {
			off := b.PixOffset(x, src)
			img.SetNRGBA(x, y, color.NRGBA{R: b.Pix[off+2], G: b.Pix[off+1], B: b.Pix[off], A: 255})
		}
	}
	return img
}

// FromImage converts any image into a PixelBuffer, flipping it into bottom-up
// order. Alpha is dropped.
func FromImage(img image.Image) (*PixelBuffer, error) {
	bounds := img.Bounds()
	buf, err := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	for y := range buf.Height {
		dst := buf.Height - 1 - y
		for x := range buf.Width {
			r, g, bl, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := buf.PixOffset(x, dst)
			buf.Pix[off] = uint8(bl >> 8)
			buf.Pix[off+1] = uint8(g >> 8)
			buf.Pix[off+2] = uint8(r >> 8)
		}
	}
	return buf, nil
}
