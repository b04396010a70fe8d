package bmpkit

import (
	"bytes"
	"math"
	"testing"
)

func TestHistograms(t *testing.T) {
	b := solidBuffer(t, 3, 2, 10, 20, 30)
	b.SetRGB(0, 0, 11, 20, 30)
	hist, err := Histograms(b)
	if err != nil {
		t.Fatal(err)
	}
	if hist.R[10] != 5 || hist.R[11] != 1 || hist.G[20] != 6 || hist.B[30] != 6 {
		t.Errorf("unexpected counts R10=%d R11=%d G20=%d B30=%d", hist.R[10], hist.R[11], hist.G[20], hist.B[30])
	}
	cum := hist.R.Cumulative()
	if cum[9] != 0 || cum[10] != 5 || cum[11] != 6 || cum[255] != 6 {
		t.Errorf("cumulative = %d %d %d %d", cum[9], cum[10], cum[11], cum[255])
	}
}

func TestStats(t *testing.T) {
	st, err := Stats(solidBuffer(t, 4, 4, 200, 100, 0))
	if err != nil {
		t.Fatal(err)
	}
	if st.Pixels != 16 {
		t.Errorf("pixels = %d", st.Pixels)
	}
	for i, want := range []float64{200, 100, 0} {
		if math.Abs(st.Mean[i]-want) > 1e-9 || st.StdDev[i] != 0 {
			t.Errorf("channel %d: mean %v std %v", i, st.Mean[i], st.StdDev[i])
		}
	}

	b := solidBuffer(t, 2, 1, 0, 0, 0)
	b.SetRGB(1, 0, 10, 0, 0)
	st, err = Stats(b)
	if err != nil {
		t.Fatal(err)
	}
	// Sample standard deviation of {0, 10}.
	if math.Abs(st.Mean[0]-5) > 1e-9 || math.Abs(st.StdDev[0]-math.Sqrt(50)) > 1e-9 {
		t.Errorf("red mean %v std %v", st.Mean[0], st.StdDev[0])
	}

	st, err = Stats(solidBuffer(t, 1, 1, 1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	if st.StdDev != [3]float64{} {
		t.Errorf("single pixel std = %v", st.StdDev)
	}
}

func TestDump(t *testing.T) {
	b := solidBuffer(t, 2, 2, 0, 0, 0)
	b.SetRGB(0, 0, 1, 2, 3)
	b.SetRGB(1, 1, 255, 128, 0)
	var out bytes.Buffer
	if err := Dump(&out, b); err != nil {
		t.Fatal(err)
	}
	want := "(1, 2, 3) (0, 0, 0)\n(0, 0, 0) (255, 128, 0)\n"
	if out.String() != want {
		t.Errorf("Dump =\n%q\nwant\n%q", out.String(), want)
	}
}
