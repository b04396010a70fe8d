package bmpkit

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"
)

// Histogram counts channel values 0..255.
type Histogram [256]int

// ChannelHistograms holds one histogram per color channel.
type ChannelHistograms struct {
	R Histogram
	G Histogram
	B Histogram
}

// Cumulative returns the running sum of h.
func (h Histogram) Cumulative() Histogram {
	var c Histogram
	c[0] = h[0]
	for i := 1; i < len(h); i++ {
		c[i] = c[i-1] + h[i]
	}
	return c
}

// Histograms counts every pixel of b per channel. Padding is not counted.
func Histograms(b *PixelBuffer) (ChannelHistograms, error) {
	var hist ChannelHistograms
	if err := b.Validate(); err != nil {
		return hist, err
	}
	for y := range b.Height {
		for x := range b.Width {
			off := b.PixOffset(x, y)
			hist.B[b.Pix[off]]++
			hist.G[b.Pix[off+1]]++
			hist.R[b.Pix[off+2]]++
		}
	}
	return hist, nil
}

// ChannelStats summarizes the value distribution of each channel.
type ChannelStats struct {
	Mean   [3]float64 // R, G, B
	StdDev [3]float64 // R, G, B
	Pixels int
}

var channelValues = func() []float64 {
	v := make([]float64, 256)
	for i := range v {
		v[i] = float64(i)
	}
	return v
}()

// Stats computes per-channel mean and standard deviation.
func Stats(b *PixelBuffer) (ChannelStats, error) {
	hist, err := Histograms(b)
	if err != nil {
		return ChannelStats{}, err
	}
	s := ChannelStats{Pixels: b.Width * b.Height}
	weights := make([]float64, 256)
	for ch, h := range []Histogram{hist.R, hist.G, hist.B} {
		for i, n := range h {
			weights[i] = float64(n)
		}
		mean, std := stat.MeanStdDev(channelValues, weights)
		if s.Pixels == 1 {
			std = 0
		}
		s.Mean[ch] = mean
		s.StdDev[ch] = std
	}
	return s, nil
}

// Dump writes every pixel as "(r, g, b)", one stored row per line.
func Dump(w io.Writer, b *PixelBuffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	for y := range b.Height {
		for x := range b.Width {
			off := b.PixOffset(x, y)
			if x > 0 {
				if _, err := io.WriteString(w, " "); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "(%d, %d, %d)", b.Pix[off+2], b.Pix[off+1], b.Pix[off]); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
