package bmpkit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SharpenKernel is the 4-neighbour Laplacian sharpening kernel.
var SharpenKernel = mat.NewDense(3, 3, []float64{
	0, -1, 0,
	-1, 5, -1,
	0, -1, 0,
})

// StrongSharpenKernel also subtracts the diagonal neighbours.
var StrongSharpenKernel = mat.NewDense(3, 3, []float64{
	-1, -1, -1,
	-1, 9, -1,
	-1, -1, -1,
})

// Sharpen convolves b with SharpenKernel and returns a new buffer. b is not
// modified.
func Sharpen(b *PixelBuffer) (*PixelBuffer, error) {
	return Convolve(b, SharpenKernel)
}

// Convolve applies a 3×3 kernel to every channel of b independently and
// returns the result as a new buffer.
//
// Only interior pixels are convolved. Pixels on the outer ring (and
// images narrower or shorter than 3) are copied from b unchanged. Results
// are rounded and saturated to [0, 255].
func Convolve(b *PixelBuffer, kernel mat.Matrix) (*PixelBuffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if kernel == nil {
		return nil, fmt.Errorf("%w: nil kernel", ErrInvalidParameter)
	}
	if r, c := kernel.Dims(); r != 3 || c != 3 {
		return nil, fmt.Errorf("%w: kernel is %dx%d, want 3x3", ErrInvalidParameter, r, c)
	}
	var k [3][3]float64
	for ky := range 3 {
		for kx := range 3 {
			k[ky][kx] = kernel.At(ky, kx)
		}
	}

	out := b.Clone()
	for y := 1; y < b.Height-1; y++ {
		for x := 1; x < b.Width-1; x++ {
			var sumB, sumG, sumR float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					w := k[ky+1][kx+1]
					if w == 0 {
						continue
					}
					off := b.PixOffset(x+kx, y+ky)
					sumB += w * float64(b.Pix[off])
					sumG += w * float64(b.Pix[off+1])
					sumR += w * float64(b.Pix[off+2])
				}
			}
			off := out.PixOffset(x, y)
			out.Pix[off] = clampChannel(sumB)
			out.Pix[off+1] = clampChannel(sumG)
			out.Pix[off+2] = clampChannel(sumR)
		}
	}
	return out, nil
}

func clampChannel(v float64) uint8 {
	return uint8(max(0, min(255, math.Round(v))))
}
