// Package stats provides statistical utility functions for project reports.
package stats

import "gonum.org/v1/gonum/stat"

// Percentile calculates the p-th percentile of a sorted slice.
// The slice must already be sorted in ascending order.
// Returns 0 if the slice is empty.
func Percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Distribution summarizes per-file defect counts across a project run.
type Distribution struct {
	Mean   float64
	StdDev float64
	P50    float64
	P90    float64
	Max    float64
}

// Describe computes summary statistics over a sorted slice of per-file
// defect counts. Returns zero values for an empty slice.
func Describe(sorted []float64) Distribution {
	if len(sorted) == 0 {
		return Distribution{}
	}
	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}
	return Distribution{
		Mean:   mean,
		StdDev: std,
		P50:    Percentile(sorted, 50),
		P90:    Percentile(sorted, 90),
		Max:    sorted[len(sorted)-1],
	}
}

// DensityCorrelation reports the Pearson correlation between file sizes in
// lines and defect counts. Returns 0 when fewer than two files ran.
func DensityCorrelation(lines, defects []float64) float64 {
	if len(lines) < 2 || len(lines) != len(defects) {
		return 0
	}
	return stat.Correlation(lines, defects, nil)
}

// Trend holds the least-squares fit of defect counts against file order.
type Trend struct {
	Slope     float64
	Intercept float64
}

// DefectTrend fits a line through per-file defect counts taken in file
// order. A positive slope means later files carry more defects. Returns
// zero values when fewer than two files ran.
func DefectTrend(counts []float64) Trend {
	if len(counts) < 2 {
		return Trend{}
	}
	xs := make([]float64, len(counts))
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(xs, counts, nil, false)
	return Trend{Slope: slope, Intercept: intercept}
}
