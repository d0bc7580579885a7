package simulation

import "math"

// Range is a (min, mode, max) triple for a triangular distribution.
type Range struct {
	Min  float64 `json:"min"`
	Mode float64 `json:"mode"`
	Max  float64 `json:"max"`
}

// Valid reports whether the triple can be sampled: min < max and mode within bounds.
func (r Range) Valid() bool {
	return r.Min < r.Max && r.Min <= r.Mode && r.Mode <= r.Max
}

// IsZero reports whether all three bounds are zero.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Mode == 0 && r.Max == 0
}

// Constant returns the fixed value of a nonzero min = mode = max triple.
func (r Range) Constant() (float64, bool) {
	if r.Min == r.Mode && r.Mode == r.Max && r.Min != 0 {
		return r.Min, true
	}
	return 0, false
}

// SampleTriangular maps a uniform draw u in [0,1) onto triangular(min, mode, max)
// using the inverse CDF. Ranges that fail Valid yield 0, meaning no contribution.
func SampleTriangular(u float64, r Range) float64 {
	if !r.Valid() {
		return 0
	}
	a, m, b := r.Min, r.Mode, r.Max
	k := (m - a) / (b - a)
	if u <= k {
		return a + math.Sqrt(u*(b-a)*(m-a))
	}
	return b - math.Sqrt((1-u)*(b-a)*(b-m))
}
