package almanac

import (
	"testing"
	"time"
)

func reading(minute int, value float64) Reading {
	return Reading{Date: time.Date(2021, 1, 2, 0, minute, 0, 0, time.UTC), Value: value}
}

func values(seq Sequence) []float64 {
	out := make([]float64, len(seq))
	for i, r := range seq {
		out[i] = r.Value
	}
	return out
}

func equalValues(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestUpdateHiLowSequence(t *testing.T) {
	inputs := []Reading{reading(1, 3), reading(2, 1), reading(3, 4), reading(4, 1.5), reading(5, 5), reading(6, 9)}

	tests := []struct {
		name     string
		kind     SequenceKind
		expected []float64
	}{
		{"high keeps the five largest", High, []float64{1.5, 3, 4, 5, 9}},
		{"low keeps the five smallest", Low, []float64{1, 1.5, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seq Sequence
			for _, r := range inputs {
				seq = UpdateHiLowSequence(r, seq, tt.kind, 5)
			}
			if got := values(seq); !equalValues(got, tt.expected) {
				t.Errorf("sequence = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestUpdateHiLowSequenceDedup(t *testing.T) {
	r := reading(10, 2.5)
	seq := UpdateHiLowSequence(r, nil, High, 5)
	seq = UpdateHiLowSequence(r, seq, High, 5)
	if len(seq) != 1 {
		t.Fatalf("len = %d, expected 1 after inserting the same reading twice", len(seq))
	}

	// Same value at another instant is a distinct reading.
	seq = UpdateHiLowSequence(reading(11, 2.5), seq, High, 5)
	if len(seq) != 2 {
		t.Errorf("len = %d, expected 2", len(seq))
	}
	if !seq[0].Date.Before(seq[1].Date) {
		t.Errorf("ties on value should be ordered by date: %v", seq)
	}
}

func TestUpdateHiLowSequenceRejectsWeakCandidate(t *testing.T) {
	var high, low Sequence
	for i, v := range []float64{5, 6, 7, 8, 9} {
		high = UpdateHiLowSequence(reading(i, v), high, High, 5)
		low = UpdateHiLowSequence(reading(i, v), low, Low, 5)
	}

	if got := UpdateHiLowSequence(reading(20, 5), high, High, 5); !equalValues(values(got), []float64{5, 6, 7, 8, 9}) {
		t.Errorf("high sequence changed by a candidate equal to its minimum: %v", values(got))
	}
	if got := UpdateHiLowSequence(reading(20, 9), low, Low, 5); !equalValues(values(got), []float64{5, 6, 7, 8, 9}) {
		t.Errorf("low sequence changed by a candidate equal to its maximum: %v", values(got))
	}
}

func TestUpdateHiLowSequenceDoesNotModifyInput(t *testing.T) {
	seq := Sequence{reading(1, 1), reading(2, 2), reading(3, 3)}
	_ = UpdateHiLowSequence(reading(4, 10), seq, High, 3)
	if !equalValues(values(seq), []float64{1, 2, 3}) {
		t.Errorf("input sequence was modified: %v", values(seq))
	}
}

func TestUpdateHiLowSequenceUnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown sequence kind")
		}
	}()
	UpdateHiLowSequence(reading(1, 1), nil, SequenceKind(42), 5)
}

func TestUpdateFirstFreezeSequence(t *testing.T) {
	day := func(d int) *Reading {
		return &Reading{Date: time.Date(2021, 11, d, 6, 0, 0, 0, time.UTC), Value: -1}
	}

	var seq Sequence
	for _, d := range []int{20, 5, 18, 9, 30, 2} {
		seq = UpdateFirstFreezeSequence(day(d), seq, 5)
	}

	expected := []int{2, 5, 9, 18, 20}
	if len(seq) != len(expected) {
		t.Fatalf("len = %d, expected %d", len(seq), len(expected))
	}
	for i, d := range expected {
		if seq[i].Date.Day() != d {
			t.Errorf("seq[%d] day = %d, expected %d", i, seq[i].Date.Day(), d)
		}
	}

	if got := UpdateFirstFreezeSequence(day(25), seq, 5); len(got) != 5 || got[4].Date.Day() != 20 {
		t.Errorf("a later freeze should not evict an earlier one: %v", got)
	}
	if got := UpdateFirstFreezeSequence(nil, seq, 5); len(got) != 5 {
		t.Errorf("nil candidate changed the sequence: %v", got)
	}
	if got := UpdateFirstFreezeSequence(day(5), seq, 5); len(got) != 5 || got[1].Date.Day() != 5 {
		t.Errorf("duplicate candidate changed the sequence: %v", got)
	}
}

func TestUpdateLastFreezeSequence(t *testing.T) {
	day := func(d int) *Reading {
		return &Reading{Date: time.Date(2021, 3, d, 6, 0, 0, 0, time.UTC), Value: -1}
	}

	var seq Sequence
	for _, d := range []int{20, 5, 18, 9, 30, 2} {
		seq = UpdateLastFreezeSequence(day(d), seq, 5)
	}

	expected := []int{5, 9, 18, 20, 30}
	if len(seq) != len(expected) {
		t.Fatalf("len = %d, expected %d", len(seq), len(expected))
	}
	for i, d := range expected {
		if seq[i].Date.Day() != d {
			t.Errorf("seq[%d] day = %d, expected %d", i, seq[i].Date.Day(), d)
		}
	}

	if got := UpdateLastFreezeSequence(day(1), seq, 5); len(got) != 5 || got[0].Date.Day() != 5 {
		t.Errorf("an earlier freeze should not evict a later one: %v", got)
	}
	if got := UpdateLastFreezeSequence(day(25), seq, 5); len(got) != 5 || got[0].Date.Day() != 9 || got[3].Date.Day() != 25 {
		t.Errorf("a later freeze should evict the earliest: %v", got)
	}
	if got := UpdateLastFreezeSequence(nil, seq, 5); len(got) != 5 {
		t.Errorf("nil candidate changed the sequence: %v", got)
	}
	if got := UpdateLastFreezeSequence(day(18), seq, 5); len(got) != 5 || got[2].Date.Day() != 18 {
		t.Errorf("duplicate candidate changed the sequence: %v", got)
	}
}
