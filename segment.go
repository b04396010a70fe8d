package bmpkit

import (
	"fmt"
	"log"
	"math/rand/v2"
)

// ClusterCenter is a k-means centroid in RGB space.
type ClusterCenter struct {
	R, G, B uint8
}

// SegmentOptions configures Segment.
type SegmentOptions struct {
	// Number of clusters. Must be at least 1. Values above the pixel count
	// leave some clusters empty.
	K int
	// Hard cap on ASSIGN/UPDATE rounds.
	MaxIterations int
	// Seed for picking the initial centers. Ignored when Rand is set.
	Seed uint64
	// Optional generator, for callers that share one source across runs.
	Rand *rand.Rand
	// Optional progress output. Nil keeps the run silent.
	Logger *log.Logger
}

// DefaultSegmentOptions returns a single-cluster run capped at 100 rounds with seed 1.
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{
		K:             1,
		MaxIterations: 100,
		Seed:          1,
	}
}

// Segmentation describes a finished k-means run.
type Segmentation struct {
	Centers    []ClusterCenter
	Labels     []int // cluster index per pixel, stored row order
	Iterations int
	Converged  bool
}

// Segment runs k-means color clustering on b with default options and the
// given cluster count and seed, then recolors b in place.
func Segment(b *PixelBuffer, k int, seed uint64) (*Segmentation, error) {
	opt := DefaultSegmentOptions()
	opt.K = k
	opt.Seed = seed
	return SegmentWithOptions(b, opt)
}

// SegmentWithOptions clusters the pixels of b by color and overwrites every
// pixel with the center of its cluster.
//
// Initial centers are k pixel colors drawn uniformly with replacement. A run
// converges when an ASSIGN pass moves no pixel and no center moves by more
// than 1 in any channel during the following UPDATE. Otherwise it stops after
// MaxIterations rounds and recolors with the current assignment.
func SegmentWithOptions(b *PixelBuffer, opt SegmentOptions) (*Segmentation, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if opt.K < 1 {
		return nil, fmt.Errorf("%w: k = %d, need at least 1", ErrInvalidParameter, opt.K)
	}
	if opt.MaxIterations < 1 {
		return nil, fmt.Errorf("%w: max iterations = %d", ErrInvalidParameter, opt.MaxIterations)
	}
	rng := opt.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(opt.Seed, opt.Seed^0x9e3779b97f4a7c15))
	}

	km := newKMeans(b, opt.K)
	km.seed(rng)

	seg := &Segmentation{}
	seg.Iterations, seg.Converged = km.run(opt.MaxIterations, opt.Logger)
	km.recolor()
	seg.Labels = km.labels
	seg.Centers = make([]ClusterCenter, opt.K)
	for i, c := range km.centers {
		seg.Centers[i] = ClusterCenter{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2])}
	}
	return seg, nil
}

// rgb is an integer color triple, R first.
type rgb [3]int

type kmeansState struct {
	buf     *PixelBuffer
	k       int
	centers []rgb
	labels  []int
}

func newKMeans(b *PixelBuffer, k int) *kmeansState {
	labels := make([]int, b.Width*b.Height)
	for i := range labels {
		labels[i] = -1
	}
	return &kmeansState{
		buf:     b,
		k:       k,
		centers: make([]rgb, k),
		labels:  labels,
	}
}

func (s *kmeansState) pixel(i int) rgb {
	off := s.buf.PixOffset(i%s.buf.Width, i/s.buf.Width)
	p := s.buf.Pix
	return rgb{int(p[off+2]), int(p[off+1]), int(p[off])}
}

func (s *kmeansState) seed(rng *rand.Rand) {
	n := len(s.labels)
	for i := range s.centers {
		s.centers[i] = s.pixel(rng.IntN(n))
	}
}

// assign moves every pixel to its nearest center. Ties go to the lowest
// index. Reports whether any label changed.
func (s *kmeansState) assign() bool {
	changed := false
	for i := range s.labels {
		p := s.pixel(i)
		best := 0
		bestD := -1
		for j, c := range s.centers {
			dr := p[0] - c[0]
			dg := p[1] - c[1]
			db := p[2] - c[2]
			d := dr*dr + dg*dg + db*db
			if bestD < 0 || d < bestD {
				bestD = d
				best = j
			}
		}
		if s.labels[i] != best {
			s.labels[i] = best
			changed = true
		}
	}
	return changed
}

// update recomputes each center as the floored mean of its members. Empty
// clusters keep their center. Reports whether any center moved by more
// than 1 in some channel.
func (s *kmeansState) update() bool {
	sums := make([]rgb, s.k)
	counts := make([]int, s.k)
	for i, l := range s.labels {
		p := s.pixel(i)
		sums[l][0] += p[0]
		sums[l][1] += p[1]
		sums[l][2] += p[2]
		counts[l]++
	}
	moved := false
	for j := range s.centers {
		if counts[j] == 0 {
			continue
		}
		next := rgb{sums[j][0] / counts[j], sums[j][1] / counts[j], sums[j][2] / counts[j]}
		for ch := range next {
			if abs(next[ch]-s.centers[j][ch]) > 1 {
				moved = true
			}
		}
		s.centers[j] = next
	}
	return moved
}

// run alternates assign and update until a round changes no label and moves
// no center, or maxIter rounds have passed.
func (s *kmeansState) run(maxIter int, logger *log.Logger) (iterations int, converged bool) {
	for !converged && iterations < maxIter {
		changed := s.assign()
		moved := s.update()
		iterations++
		converged = !changed && !moved
		if logger != nil && (iterations == 1 || converged || iterations%10 == 0) {
			logger.Printf("segment iter %d/%d changed=%t moved=%t", iterations, maxIter, changed, moved)
		}
	}
	if logger != nil && !converged {
		logger.Printf("segment stopped after %d iterations without converging", iterations)
	}
	return iterations, converged
}

func (s *kmeansState) recolor() {
	for i, l := range s.labels {
		c := s.centers[l]
		off := s.buf.PixOffset(i%s.buf.Width, i/s.buf.Width)
		s.buf.Pix[off] = uint8(c[2])
		s.buf.Pix[off+1] = uint8(c[1])
		s.buf.Pix[off+2] = uint8(c[0])
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
