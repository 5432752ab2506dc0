package almanac

// MovingAverage is a (mean, count) accumulator. A nil *MovingAverage stands
// for an average over zero samples.
type MovingAverage struct {
	Average float64 `json:"average"`
	N       int     `json:"n"`
}

// Combine merges two accumulators with a weighted mean. Nil (or zero-count)
// inputs are identities. The result never aliases either input.
func Combine(a, b *MovingAverage) *MovingAverage {
	if a == nil || a.N <= 0 {
		return clone(b)
	}
	if b == nil || b.N <= 0 {
		return clone(a)
	}

	n := a.N + b.N
	total := a.Average*float64(a.N) + b.Average*float64(b.N)
	return &MovingAverage{Average: total / float64(n), N: n}
}

func clone(m *MovingAverage) *MovingAverage {
	if m == nil || m.N <= 0 {
		return nil
	}
	c := *m
	return &c
}
