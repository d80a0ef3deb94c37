package generator

import (
	"math"

	"taskset-gen/internal/config"
	"taskset-gen/internal/randstream"
)

// Multiples of 10, 25, 30 and 75 by powers of two.
var harmonicBasePeriods = []float64{
	25, 50, 100, 200, 400, 800,
	30, 60, 120, 240, 480, 960,
	75, 150, 300, 600,
	10, 20, 40, 80, 160, 320,
}

// harmonicCandidates returns the base periods inside r. When none fit it
// falls back to r.Min doubled up to nine times.
func harmonicCandidates(r config.Range) []float64 {
	var out []float64
	for _, p := range harmonicBasePeriods {
		if p >= r.Min && p <= r.Max {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		return out
	}
	for i := 0; i < 10; i++ {
		p := r.Min * math.Pow(2, float64(i))
		if p > r.Max {
			break
		}
		out = append(out, p)
	}
	return out
}

// samplePeriods draws n periods from r. floor(n*harmonicRatio) of them come
// from the harmonic candidates, the rest are uniform and granule rounded.
// The result is shuffled so harmonic periods are not grouped.
func samplePeriods(s *randstream.Stream, n int, r config.Range, harmonicRatio, g float64) []float64 {
	if n <= 0 {
		return nil
	}
	candidates := harmonicCandidates(r)
	nHarmonic := int(float64(n) * harmonicRatio)

	periods := make([]float64, 0, n)
	for i := 0; i < nHarmonic; i++ {
		periods = append(periods, randstream.Choice(s, candidates))
	}
	for i := nHarmonic; i < n; i++ {
		periods = append(periods, quantize(s.Uniform(r.Min, r.Max), g, r.Max))
	}
	s.Shuffle(len(periods), func(i, j int) { periods[i], periods[j] = periods[j], periods[i] })
	return periods
}
