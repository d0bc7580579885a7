package stats

import "math"

// DefaultBuckets is the bucket count used for result histograms.
const DefaultBuckets = 20

// Histogram is a fixed-width bucketing of non-negative values from zero to Max.
type Histogram struct {
	Buckets []int   `json:"buckets"`
	Max     float64 `json:"max"`
	Width   float64 `json:"width"`
}

// NewHistogram buckets values into n equal-width buckets spanning [0, max(values)].
// The top value lands in the last bucket. An empty input yields nil.
func NewHistogram(values []float64, n int) *Histogram {
	if len(values) == 0 || n <= 0 {
		return nil
	}

	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	width := 1.0
	if maxVal > 0 {
		width = maxVal / float64(n)
	}

	buckets := make([]int, n)
	for _, v := range values {
		idx := int(math.Floor(v / width))
		if idx > n-1 {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		buckets[idx]++
	}

	return &Histogram{
		Buckets: buckets,
		Max:     maxVal,
		Width:   width,
	}
}

// Total returns the number of values counted.
func (h *Histogram) Total() int {
	if h == nil {
		return 0
	}
	total := 0
	for _, c := range h.Buckets {
		total += c
	}
	return total
}

// Lower returns the lower bound of bucket i.
func (h *Histogram) Lower(i int) float64 {
	return float64(i) * h.Width
}
