// Package stats keeps running statistics for simulation batches.
package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean/variance accumulator (Welford's algorithm)
// that also tracks the extremes. The zero value is ready to use.
type Statistic struct {
	n    int
	mean float64
	m2   float64
	min  float64
	max  float64
	sum  float64
}

func (s *Statistic) Push(val float64) {
	s.n++
	s.sum += val
	if s.n == 1 {
		s.mean = val
		s.m2 = 0
		s.min, s.max = val, val
		return
	}
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
}

// Merge folds other into s, as if every value pushed to other had been
// pushed to s.
func (s *Statistic) Merge(other *Statistic) {
	if other.n == 0 {
		return
	}
	if s.n == 0 {
		*s = *other
		return
	}
	n := s.n + other.n
	delta := other.mean - s.mean
	s.mean += delta * float64(other.n) / float64(n)
	s.m2 += other.m2 + delta*delta*float64(s.n)*float64(other.n)/float64(n)
	s.min = math.Min(s.min, other.min)
	s.max = math.Max(s.max, other.max)
	s.sum += other.sum
	s.n = n
}

func (s *Statistic) Count() int {
	return s.n
}

func (s *Statistic) Sum() float64 {
	return s.sum
}

func (s *Statistic) Mean() float64 {
	if s.n > 0 {
		return s.mean
	}
	return 0.0
}

func (s *Statistic) Min() float64 {
	return s.min
}

func (s *Statistic) Max() float64 {
	return s.max
}

// Variance is the sample variance.
func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

// ConfidenceInterval returns the two-sided interval around the mean for the
// given confidence, in percent (e.g. 95).
func (s *Statistic) ConfidenceInterval(confidence float64) (float64, float64) {
	half := ZVal(confidence) * s.StandardError()
	return s.Mean() - half, s.Mean() + half
}
