package stats

import "math"

// Bin is one histogram bucket covering [Lower, Upper)
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram counts values in equal-width bins over [min, max]. Values outside
// the range are clamped into the first or last bin; max itself falls in the last bin.
func Histogram(values []float64, min, max float64, bins int) []Bin {
	if bins < 1 || !(max > min) {
		return nil
	}

	width := (max - min) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = min + float64(i)*width
		out[i].Upper = min + float64(i+1)*width
	}

	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		idx := int(math.Floor((v - min) / width))
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

// NormalizedEntropy returns the Shannon entropy of the bin counts scaled to [0, 1].
// 0 means every value is in one bin, 1 means the values are spread evenly.
func NormalizedEntropy(hist []Bin) float64 {
	if len(hist) < 2 {
		return 0
	}

	total := 0
	for _, b := range hist {
		total += b.Count
	}
	if total == 0 {
		return 0
	}

	var entropy float64
	for _, b := range hist {
		if b.Count > 0 {
			p := float64(b.Count) / float64(total)
			entropy -= p * math.Log2(p)
		}
	}
	return entropy / math.Log2(float64(len(hist)))
}
