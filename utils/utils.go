package utils

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"log"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/setanarut/bmpkit"
	_ "golang.org/x/image/bmp"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
	PaletteMethodSegment
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	case PaletteMethodSegment:
		return "segment"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod accepts the names returned by PaletteMethod.String.
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch strings.ToLower(s) {
	case "dominantcolor", "dominant":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	case "segment":
		return PaletteMethodSegment, nil
	}
	return 0, fmt.Errorf("%w: unknown palette method %q", bmpkit.ErrInvalidParameter, s)
}

// SortPaletteByBrightness orders colors from darkest to brightest by
// relative luminance.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ri, gi, bi := a.LinearRgb()
		rj, gj, bj := b.LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

// CentersPalette converts segmentation centers to colorful colors, in
// cluster order.
func CentersPalette(centers []bmpkit.ClusterCenter) []colorful.Color {
	out := make([]colorful.Color, 0, len(centers))
	for _, c := range centers {
		out = append(out, colorful.Color{
			R: float64(c.R) / 255.0,
			G: float64(c.G) / 255.0,
			B: float64(c.B) / 255.0,
		})
	}
	return out
}

func ExtractDominantPalette(buf *bmpkit.PixelBuffer, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	candidates := dominantcolor.FindWeight(buf.Image(), k)
	out := make([]colorful.Color, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		out = append(out, col.Clamped())
	}
	return out
}

// ExtractKMeansPalette clusters a subsample of buf with muesli/kmeans and
// returns the k centers ordered by population, largest first.
func ExtractKMeansPalette(buf *bmpkit.PixelBuffer, k int) []colorful.Color {
	if k <= 0 || buf.Width == 0 || buf.Height == 0 {
		return nil
	}

	// Subsample to keep kmeans tractable on large images.
	maxSamples := 12000
	step := 1
	if buf.Width*buf.Height > maxSamples {
		step = int(math.Sqrt(float64(buf.Width*buf.Height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(buf.Width*buf.Height, maxSamples))
	for y := 0; y < buf.Height; y += step {
		for x := 0; x < buf.Width; x += step {
			off := buf.PixOffset(x, y)
			dataset = append(dataset, clusters.Coordinates{
				float64(buf.Pix[off+2]) / 255.0,
				float64(buf.Pix[off+1]) / 255.0,
				float64(buf.Pix[off]) / 255.0,
			})
		}
	}
	k = min(k, len(dataset))
	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil || len(cc) == 0 {
		return nil
	}

	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	out := make([]colorful.Color, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		out = append(out, colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped())
	}
	return out
}

// ExtractSegmentPalette runs the core segmenter on a copy of buf and returns
// its centers.
func ExtractSegmentPalette(buf *bmpkit.PixelBuffer, k int, seed uint64) []colorful.Color {
	seg, err := bmpkit.Segment(buf.Clone(), k, seed)
	if err != nil {
		return nil
	}
	return CentersPalette(seg.Centers)
}

func ExtractPalette(buf *bmpkit.PixelBuffer, k int, method PaletteMethod) []colorful.Color {
	switch method {
	case PaletteMethodKMeans:
		p := ExtractKMeansPalette(buf, k)
		if len(p) != 0 {
			return p
		}
		log.Println("palette warning: kmeans returned empty palette, falling back to dominantcolor")
		return ExtractDominantPalette(buf, k)
	case PaletteMethodSegment:
		return ExtractSegmentPalette(buf, k, 1)
	default:
		return ExtractDominantPalette(buf, k)
	}
}

// ReadImage decodes any registered format (BMP, PNG, JPEG).
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bmpkit.ErrIO, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", bmpkit.ErrFormat, path, err)
	}
	return img, nil
}

// ImportImage reads any supported image file into a PixelBuffer.
func ImportImage(path string) (*bmpkit.PixelBuffer, error) {
	img, err := ReadImage(path)
	if err != nil {
		return nil, err
	}
	return bmpkit.FromImage(img)
}

// SaveImage writes img as PNG. A file that fails to encode or close is
// removed.
func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: %w", bmpkit.ErrIO, err)
	}
	err = png.Encode(f, img)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filename)
		return fmt.Errorf("%w: writing %s: %w", bmpkit.ErrIO, filename, err)
	}
	return nil
}

// SavePalette writes the palette as a strip of square swatches.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	w := tileSize * len(palette)
	h := tileSize
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for i, c := range palette {
		r, g, b := c.Clamped().RGB255()
		x0 := i * tileSize
		x1 := x0 + tileSize
		for y := range h {
			for x := x0; x < x1; x++ {
				img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
			}
		}
	}

	return SaveImage(img, filename)
}
