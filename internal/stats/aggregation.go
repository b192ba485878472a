package stats

import (
	"math"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return Sum(values) / float64(len(values))
}

// Sum returns the sum of all values
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

// RoundedMean returns the mean rounded to the nearest integer, halves away from zero
func RoundedMean(values []float64) int64 {
	return int64(math.Round(Mean(values)))
}

// RelativeDeviation returns |a-b| / mean(a, b).
// ok is false when the mean is not positive, in which case the deviation is meaningless.
func RelativeDeviation(a, b float64) (deviation float64, ok bool) {
	mean := (a + b) / 2
	if mean <= 0 {
		return 0, false
	}
	return math.Abs(a-b) / mean, true
}

// MostFrequent returns the most frequent value and its index of first occurrence.
// Ties go to the value seen first, so the result only depends on input order.
// Returns -1 for an empty slice.
func MostFrequent[T comparable](values []T) (T, int) {
	var zero T
	if len(values) == 0 {
		return zero, -1
	}

	freq := make(map[T]int, len(values))
	first := make(map[T]int, len(values))
	for i, v := range values {
		if _, seen := first[v]; !seen {
			first[v] = i
		}
		freq[v]++
	}

	best, bestIdx, bestFreq := zero, -1, 0
	for i, v := range values {
		if first[v] != i {
			continue
		}
		if freq[v] > bestFreq {
			best, bestIdx, bestFreq = v, i, freq[v]
		}
	}
	return best, bestIdx
}
