package stat

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestMeanStdDev(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
		wantSD   float64
	}{
		{name: "empty", values: nil, wantMean: 0, wantSD: 0},
		{name: "single value has zero spread", values: []float64{42}, wantMean: 42, wantSD: 0},
		{name: "constant values have zero spread", values: []float64{5, 5, 5, 5}, wantMean: 5, wantSD: 0},
		{
			name:     "known population",
			values:   []float64{2, 4, 4, 4, 5, 5, 7, 9},
			wantMean: 5,
			wantSD:   2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, sd := MeanStdDev(tt.values)
			if math.Abs(mean-tt.wantMean) > eps {
				t.Errorf("mean = %v, want %v", mean, tt.wantMean)
			}
			if math.Abs(sd-tt.wantSD) > eps {
				t.Errorf("sd = %v, want %v", sd, tt.wantSD)
			}
		})
	}
}

func TestComb(t *testing.T) {
	tests := []struct {
		n, r int
		want float64
	}{
		{0, 0, 1},
		{5, 0, 1},
		{5, 5, 1},
		{5, 2, 10},
		{10, 3, 120},
		{10, 7, 120}, // symmetric with (10, 3)
		{30, 2, 435},
		{3, 5, 0},  // r > n
		{-1, 0, 0}, // negative n
		{5, -1, 0}, // negative r
	}
	for _, tt := range tests {
		if got := Comb(tt.n, tt.r); math.Abs(got-tt.want) > eps {
			t.Errorf("Comb(%d, %d) = %v, want %v", tt.n, tt.r, got, tt.want)
		}
	}
}

func TestBinomialPoint(t *testing.T) {
	// B(4, 0.5): P(X == 2) = 6 / 16
	if got := BinomialPoint(2, 4, 0.5); math.Abs(got-0.375) > eps {
		t.Errorf("BinomialPoint(2, 4, 0.5) = %v, want 0.375", got)
	}
	if got := BinomialPoint(-1, 4, 0.5); got != 0 {
		t.Errorf("BinomialPoint(-1, ...) = %v, want 0", got)
	}
	if got := BinomialPoint(5, 4, 0.5); got != 0 {
		t.Errorf("BinomialPoint(k > trials) = %v, want 0", got)
	}
}

func TestBinomialRange(t *testing.T) {
	if got := BinomialRange(3, 2, 10, 0.5); got != 0 {
		t.Errorf("lower > upper should be 0, got %v", got)
	}

	// lower == upper degenerates to the point mass
	if got, want := BinomialRange(2, 2, 4, 0.5), BinomialPoint(2, 4, 0.5); math.Abs(got-want) > eps {
		t.Errorf("degenerate range = %v, want %v", got, want)
	}

	// the full support sums to 1
	if got := BinomialRange(0, 20, 20, 0.3); math.Abs(got-1) > eps {
		t.Errorf("full range = %v, want 1", got)
	}

	// upper tail complements the CDF
	upper := BinomialRange(3, 10, 10, 0.07)
	if got := 1 - BinomialCDF(2, 10, 0.07); math.Abs(upper-got) > eps {
		t.Errorf("upper tail %v does not complement CDF %v", upper, got)
	}
	// 3 monochrome films out of 10 against a 7% base rate is a rare event
	if upper > 0.03 || upper < 0.028 {
		t.Errorf("P(X >= 3 | n=10, p=0.07) = %v, want ~0.0283", upper)
	}
}

func TestBinomialCDFMonotone(t *testing.T) {
	prev := 0.0
	for k := 0; k <= 10; k++ {
		cur := BinomialCDF(k, 10, 0.4)
		if cur < prev-eps {
			t.Fatalf("CDF decreased at k=%d: %v < %v", k, cur, prev)
		}
		prev = cur
	}
	if math.Abs(prev-1) > eps {
		t.Errorf("CDF(trials) = %v, want 1", prev)
	}
}
