package stats

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		p    int
		want float64
	}{
		{0, 1},
		{50, 6},
		{90, 10},
		{100, 10},
	}
	for _, tt := range tests {
		if got := Percentile(sorted, tt.p); got != tt.want {
			t.Errorf("Percentile(%d) = %v, want %v", tt.p, got, tt.want)
		}
	}

	if got := Percentile(nil, 50); got != 0 {
		t.Errorf("Percentile(empty) = %v, want 0", got)
	}
}

func TestDescribe(t *testing.T) {
	d := Describe([]float64{1, 2, 3, 4, 5})
	if d.Mean != 3 {
		t.Errorf("Mean = %v, want 3", d.Mean)
	}
	if d.Max != 5 {
		t.Errorf("Max = %v, want 5", d.Max)
	}
	if d.P50 != 3 {
		t.Errorf("P50 = %v, want 3", d.P50)
	}
	if math.Abs(d.StdDev-math.Sqrt(2.5)) > 1e-9 {
		t.Errorf("StdDev = %v", d.StdDev)
	}
}

func TestDescribeEdgeCases(t *testing.T) {
	if d := Describe(nil); d != (Distribution{}) {
		t.Errorf("Describe(empty) = %+v", d)
	}
	d := Describe([]float64{4})
	if d.Mean != 4 || d.StdDev != 0 || d.Max != 4 {
		t.Errorf("single element: %+v", d)
	}
}

func TestDensityCorrelation(t *testing.T) {
	lines := []float64{10, 20, 30, 40}
	defects := []float64{1, 2, 3, 4}
	if got := DensityCorrelation(lines, defects); math.Abs(got-1) > 1e-9 {
		t.Errorf("perfect correlation = %v, want 1", got)
	}

	inverted := []float64{4, 3, 2, 1}
	if got := DensityCorrelation(lines, inverted); math.Abs(got+1) > 1e-9 {
		t.Errorf("inverse correlation = %v, want -1", got)
	}

	if got := DensityCorrelation([]float64{1}, []float64{1}); got != 0 {
		t.Errorf("single sample = %v, want 0", got)
	}
	if got := DensityCorrelation(lines, []float64{1, 2}); got != 0 {
		t.Errorf("mismatched lengths = %v, want 0", got)
	}
}

func TestDefectTrend(t *testing.T) {
	tr := DefectTrend([]float64{2, 4, 6, 8})
	if math.Abs(tr.Slope-2) > 1e-9 {
		t.Errorf("Slope = %v, want 2", tr.Slope)
	}
	if math.Abs(tr.Intercept-2) > 1e-9 {
		t.Errorf("Intercept = %v, want 2", tr.Intercept)
	}

	flat := DefectTrend([]float64{3, 3, 3})
	if math.Abs(flat.Slope) > 1e-9 {
		t.Errorf("flat slope = %v, want 0", flat.Slope)
	}

	if tr := DefectTrend([]float64{5}); tr != (Trend{}) {
		t.Errorf("single sample trend = %+v, want zero", tr)
	}
}
