package almanac

import (
	"fmt"
	"slices"
)

// SequenceKind selects the eviction rule of a hi/low sequence.
type SequenceKind int

const (
	// High keeps the largest values, evicting the current minimum.
	High SequenceKind = iota + 1
	// Low keeps the smallest values, evicting the current maximum.
	Low
)

func (k SequenceKind) String() string {
	switch k {
	case High:
		return "high"
	case Low:
		return "low"
	default:
		return fmt.Sprintf("SequenceKind(%d)", int(k))
	}
}

// UpdateHiLowSequence merges candidate into seq, which is kept ascending by
// (value, date) and never grows past size. The input slice is not modified.
// An unknown kind is a programming error and panics.
func UpdateHiLowSequence(candidate Reading, seq Sequence, kind SequenceKind, size int) Sequence {
	if kind != High && kind != Low {
		panic(fmt.Sprintf("almanac: unknown sequence kind %v", kind))
	}

	if size <= 0 || seq.Contains(candidate) {
		return seq
	}

	if len(seq) < size {
		out := append(slices.Clone(seq), candidate)
		slices.SortStableFunc(out, compareByValue)
		return out
	}

	var replace int
	switch kind {
	case High:
		if candidate.Value <= seq[0].Value {
			return seq
		}
		replace = 0
	case Low:
		if candidate.Value >= seq[len(seq)-1].Value {
			return seq
		}
		replace = len(seq) - 1
	}

	out := slices.Clone(seq)
	out[replace] = candidate
	slices.SortStableFunc(out, compareByValue)
	return out
}

// UpdateFirstFreezeSequence keeps the size earliest freezing readings,
// ascending by date. A nil candidate leaves the sequence unchanged.
func UpdateFirstFreezeSequence(candidate *Reading, seq Sequence, size int) Sequence {
	if candidate == nil || size <= 0 || seq.Contains(*candidate) {
		return seq
	}

	if len(seq) < size {
		out := append(slices.Clone(seq), *candidate)
		slices.SortStableFunc(out, compareByDate)
		return out
	}

	if !candidate.Date.Before(seq[len(seq)-1].Date) {
		return seq
	}

	out := slices.Clone(seq)
	out[len(out)-1] = *candidate
	slices.SortStableFunc(out, compareByDate)
	return out
}

// UpdateLastFreezeSequence keeps the size latest freezing readings,
// ascending by date. A nil candidate leaves the sequence unchanged.
func UpdateLastFreezeSequence(candidate *Reading, seq Sequence, size int) Sequence {
	if candidate == nil || size <= 0 || seq.Contains(*candidate) {
		return seq
	}

	if len(seq) < size {
		out := append(slices.Clone(seq), *candidate)
		slices.SortStableFunc(out, compareByDate)
		return out
	}

	if !candidate.Date.After(seq[0].Date) {
		return seq
	}

	out := slices.Clone(seq)
	out[0] = *candidate
	slices.SortStableFunc(out, compareByDate)
	return out
}
