package bmpkit

import "testing"

// patternBuffer returns a w×h buffer with distinct, reproducible channel
// values and non-zero padding bytes.
func patternBuffer(t *testing.T, w, h int) *PixelBuffer {
	t.Helper()
	b, err := NewPixelBuffer(w, h)
	if err != nil {
		t.Fatalf("NewPixelBuffer(%d, %d): %v", w, h, err)
	}
	for i := range b.Pix {
		b.Pix[i] = 0xAA
	}
	for y := range h {
		for x := range w {
			off := b.PixOffset(x, y)
			b.Pix[off] = uint8(x*37 + y*11)
			b.Pix[off+1] = uint8(x*13 + y*53 + 71)
			b.Pix[off+2] = uint8(x*7 + y*29 + 142)
		}
	}
	return b
}

func solidBuffer(t *testing.T, w, h int, r, g, b uint8) *PixelBuffer {
	t.Helper()
	buf, err := NewPixelBuffer(w, h)
	if err != nil {
		t.Fatalf("NewPixelBuffer(%d, %d): %v", w, h, err)
	}
	buf.Fill(r, g, b)
	return buf
}
