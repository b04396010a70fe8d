package bmpkit

import (
	"bytes"
	"errors"
	"log"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSegmentSingleClusterIsMean(t *testing.T) {
	b := patternBuffer(t, 7, 5)
	var sum [3]int
	for y := range b.Height {
		for x := range b.Width {
			r, g, bl, _ := b.RGBAt(x, y)
			sum[0] += int(r)
			sum[1] += int(g)
			sum[2] += int(bl)
		}
	}
	n := b.Width * b.Height
	want := ClusterCenter{R: uint8(sum[0] / n), G: uint8(sum[1] / n), B: uint8(sum[2] / n)}

	seg, err := Segment(b, 1, 42)
	if err != nil {
		t.Fatal(err)
	}
	if !seg.Converged || seg.Iterations > 2 {
		t.Errorf("converged=%t after %d iterations, want convergence within 2", seg.Converged, seg.Iterations)
	}
	if seg.Centers[0] != want {
		t.Errorf("center = %+v, want %+v", seg.Centers[0], want)
	}
	for y := range b.Height {
		for x := range b.Width {
			r, g, bl, _ := b.RGBAt(x, y)
			if (ClusterCenter{r, g, bl}) != want {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want mean", x, y, r, g, bl)
			}
		}
	}
}

func TestSegmentDeterministic(t *testing.T) {
	a := patternBuffer(t, 12, 9)
	b := a.Clone()
	segA, err := Segment(a, 4, 7)
	if err != nil {
		t.Fatal(err)
	}
	segB, err := Segment(b, 4, 7)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(segA, segB); diff != "" {
		t.Errorf("runs differ (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(a.Pix, b.Pix); diff != "" {
		t.Errorf("recolored pixels differ (-a +b):\n%s", diff)
	}
}

func TestSegmentTwoColors(t *testing.T) {
	// Whatever the seeds, two well separated colors end up in their own
	// clusters and recoloring reproduces the image.
	for seed := range uint64(8) {
		b := solidBuffer(t, 4, 4, 0, 0, 0)
		for y := range 2 {
			for x := range 4 {
				b.SetRGB(x, y, 250, 250, 250)
			}
		}
		orig := b.Clone()
		seg, err := Segment(b, 2, seed)
		if err != nil {
			t.Fatal(err)
		}
		if !seg.Converged {
			t.Errorf("seed %d: not converged after %d iterations", seed, seg.Iterations)
		}
		if !b.Equal(orig) {
			t.Errorf("seed %d: recolored image differs from the two-color source", seed)
		}
	}
}

func TestSegmentRecolorsWithCenters(t *testing.T) {
	b := patternBuffer(t, 10, 6)
	seg, err := Segment(b, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(seg.Labels) != 60 || len(seg.Centers) != 3 {
		t.Fatalf("labels %d centers %d", len(seg.Labels), len(seg.Centers))
	}
	for i, l := range seg.Labels {
		r, g, bl, _ := b.RGBAt(i%b.Width, i/b.Width)
		if c := seg.Centers[l]; c != (ClusterCenter{r, g, bl}) {
			t.Fatalf("pixel %d = (%d,%d,%d), center %d = %+v", i, r, g, bl, l, c)
		}
	}
}

func TestSegmentIterationCap(t *testing.T) {
	b := patternBuffer(t, 8, 8)
	opt := DefaultSegmentOptions()
	opt.K = 5
	opt.MaxIterations = 1
	seg, err := SegmentWithOptions(b, opt)
	if err != nil {
		t.Fatal(err)
	}
	if seg.Iterations != 1 || seg.Converged {
		t.Errorf("iterations=%d converged=%t; want 1, false", seg.Iterations, seg.Converged)
	}
}

func TestSegmentMoreClustersThanPixels(t *testing.T) {
	b := solidBuffer(t, 2, 1, 0, 0, 0)
	b.SetRGB(1, 0, 9, 9, 9)
	seg, err := Segment(b, 5, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(seg.Centers) != 5 {
		t.Errorf("%d centers, want 5", len(seg.Centers))
	}
}

func TestSegmentInjectedRand(t *testing.T) {
	run := func() *Segmentation {
		b := patternBuffer(t, 9, 9)
		opt := DefaultSegmentOptions()
		opt.K = 3
		opt.Rand = rand.New(rand.NewPCG(5, 6))
		seg, err := SegmentWithOptions(b, opt)
		if err != nil {
			t.Fatal(err)
		}
		return seg
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("injected generator not reproducible:\n%s", diff)
	}
}

func TestSegmentLogsProgress(t *testing.T) {
	var out bytes.Buffer
	opt := DefaultSegmentOptions()
	opt.K = 2
	opt.Logger = log.New(&out, "", 0)
	if _, err := SegmentWithOptions(patternBuffer(t, 5, 5), opt); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "segment iter 1/100") {
		t.Errorf("log output = %q", out.String())
	}
}

func TestSegmentRejectsInvalid(t *testing.T) {
	b := patternBuffer(t, 3, 3)
	for _, k := range []int{0, -2} {
		if _, err := Segment(b, k, 1); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("k=%d: %v", k, err)
		}
	}
	if _, err := Segment(nil, 2, 1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("nil buffer: %v", err)
	}
	opt := DefaultSegmentOptions()
	opt.MaxIterations = 0
	if _, err := SegmentWithOptions(b, opt); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero iterations: %v", err)
	}
}

// newGrayKMeans builds a state over a row of gray pixels with the given
// centers and current labels.
func newGrayKMeans(t *testing.T, pixels []uint8, centers []int, labels []int) *kmeansState {
	t.Helper()
	km := newKMeans(grayRow(t, pixels...), len(centers))
	for i, c := range centers {
		km.centers[i] = rgb{c, c, c}
	}
	copy(km.labels, labels)
	return km
}

func TestKMeansLabelChangeBlocksConvergence(t *testing.T) {
	pixels := []uint8{10, 11, 200}
	centers := []int{10, 200}
	stale := []int{0, 1, 1} // 11 starts in the wrong cluster

	km := newGrayKMeans(t, pixels, centers, stale)
	changed := km.assign()
	moved := km.update()
	if !changed || moved {
		t.Fatalf("changed=%t moved=%t, want true, false", changed, moved)
	}
	if diff := cmp.Diff([]int{0, 0, 1}, km.labels); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}

	iters, converged := newGrayKMeans(t, pixels, centers, stale).run(1, nil)
	if iters != 1 || converged {
		t.Errorf("capped run: iterations=%d converged=%t, want 1, false", iters, converged)
	}
	iters, converged = newGrayKMeans(t, pixels, centers, stale).run(100, nil)
	if iters != 2 || !converged {
		t.Errorf("iterations=%d converged=%t, want 2, true", iters, converged)
	}
}

func TestKMeansCenterMoveBlocksConvergence(t *testing.T) {
	pixels := []uint8{10, 11, 200}
	centers := []int{10, 150}
	settled := []int{0, 0, 1}

	km := newGrayKMeans(t, pixels, centers, settled)
	changed := km.assign()
	moved := km.update()
	if changed || !moved {
		t.Fatalf("changed=%t moved=%t, want false, true", changed, moved)
	}
	if km.centers[1] != (rgb{200, 200, 200}) {
		t.Errorf("center 1 = %v, want 200", km.centers[1])
	}

	iters, converged := newGrayKMeans(t, pixels, centers, settled).run(1, nil)
	if iters != 1 || converged {
		t.Errorf("capped run: iterations=%d converged=%t, want 1, false", iters, converged)
	}
	iters, converged = newGrayKMeans(t, pixels, centers, settled).run(100, nil)
	if iters != 2 || !converged {
		t.Errorf("iterations=%d converged=%t, want 2, true", iters, converged)
	}
}

func TestKMeansMoveOfOneConverges(t *testing.T) {
	// Mean of 10 and 12 is 11: a one-step move with stable labels.
	iters, converged := newGrayKMeans(t, []uint8{10, 12}, []int{10}, []int{0, 0}).run(100, nil)
	if iters != 1 || !converged {
		t.Errorf("iterations=%d converged=%t, want 1, true", iters, converged)
	}
}
