package engine

import (
	"reflect"
	"testing"
)

func TestSplitIndexes(t *testing.T) {
	got := splitIndexes(10, 4)
	want := []indexRange{
		{From: 0, To: 3},
		{From: 3, To: 6},
		{From: 6, To: 8},
		{From: 8, To: 10},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: %+v != %+v", got, want)
	}
}

func TestSplitIndexesFewerItemsThanWorkers(t *testing.T) {
	got := splitIndexes(2, 8)
	want := []indexRange{
		{From: 0, To: 1},
		{From: 1, To: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: %+v != %+v", got, want)
	}
}

func TestSplitIndexesEmpty(t *testing.T) {
	if got := splitIndexes(0, 4); got != nil {
		t.Fatalf("expected nil for empty input, got %+v", got)
	}
}

func TestMapRangesCoversAllIndexes(t *testing.T) {
	ranges := splitIndexes(100, 7)
	got := mapRanges(ranges, func(r indexRange) []int {
		var out []int
		for i := r.From; i < r.To; i++ {
			out = append(out, i)
		}
		return out
	})

	if len(got) != 100 {
		t.Fatalf("expected 100 results, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("index %d mapped out of order: %d", i, v)
		}
	}
}
