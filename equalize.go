package bmpkit

// lut maps an input channel value to an output value.
type lut [256]uint8

// equalizationLUT builds the remapping for one channel from the plain
// normalized cumulative histogram: v -> trunc(cdf[v]/n * 255).
//
// Arithmetic stays in float32 with truncating conversion. The minimum CDF
// value is not subtracted.
func equalizationLUT(h Histogram, n int) lut {
	var cdf [256]float32
	cdf[0] = float32(h[0])
	for i := 1; i < len(cdf); i++ {
		cdf[i] = cdf[i-1] + float32(h[i])
	}
	total := float32(n)
	var m lut
	for i := range cdf {
		norm := float32(cdf[i] / total)
		m[i] = uint8(float32(norm * 255))
	}
	return m
}

// Equalize applies per-channel histogram equalization to b in place.
// Channels are remapped independently.
func Equalize(b *PixelBuffer) error {
	hist, err := Histograms(b)
	if err != nil {
		return err
	}
	n := b.Width * b.Height
	lutR := equalizationLUT(hist.R, n)
	lutG := equalizationLUT(hist.G, n)
	lutB := equalizationLUT(hist.B, n)

	for y := range b.Height {
		for x := range b.Width {
			off := b.PixOffset(x, y)
			b.Pix[off] = lutB[b.Pix[off]]
			b.Pix[off+1] = lutG[b.Pix[off+1]]
			b.Pix[off+2] = lutR[b.Pix[off+2]]
		}
	}
	return nil
}
