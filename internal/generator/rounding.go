package generator

import "math"

// snap converts a count of granules back to time. Dividing by the integer
// reciprocal keeps decimal granularities exact, so 3 granules of 0.01 is 0.03.
func snap(units, g float64) float64 {
	inv := 1 / g
	if r := math.Round(inv); r >= 1 && math.Abs(inv-r) < 1e-9 {
		return units / r
	}
	return units * g
}

// roundHalfUp rounds v to the nearest multiple of g, halves going up.
func roundHalfUp(v, g float64) float64 {
	return snap(math.Floor(v/g+0.5), g)
}

// quantize rounds v half-up to g, then keeps it within [g, upper].
// upper wins when it is below one granule.
func quantize(v, g, upper float64) float64 {
	r := roundHalfUp(v, g)
	if r < g {
		r = g
	}
	if r > upper {
		r = upper
	}
	return r
}

// floorTo rounds v down to a multiple of g without exceeding v.
// Values below one granule are returned unchanged so they stay positive.
func floorTo(v, g float64) float64 {
	if v < g {
		return v
	}
	units := math.Floor(v / g)
	r := snap(units, g)
	if r > v {
		r = snap(units-1, g)
	}
	if r <= 0 {
		return v
	}
	return r
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
