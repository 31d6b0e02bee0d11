package engine

import (
	"math"
	"testing"
)

func TestComputeOutputZeroInput(t *testing.T) {
	out := ComputeOutput(0, 1_000_000, 1_000_000, 0.003)
	if out != 0 {
		t.Fatalf("expected zero output for zero input, got %v", out)
	}
}

func TestComputeOutputIncreasingInInput(t *testing.T) {
	prev := 0.0
	for _, input := range []float64{1, 10, 100, 1000, 10000, 100000} {
		out := ComputeOutput(input, 1_000_000, 500_000, 0.003)
		if out <= prev {
			t.Fatalf("output not increasing: input %v gave %v, previous %v", input, out, prev)
		}
		prev = out
	}
}

func TestComputeOutputBelowReserveOut(t *testing.T) {
	reserveOut := 500_000.0
	for _, input := range []float64{1, 1000, 1e6, 1e9, 1e15} {
		out := ComputeOutput(input, 1_000_000, reserveOut, 0.003)
		if out >= reserveOut {
			t.Fatalf("output %v not below reserveOut %v for input %v", out, reserveOut, input)
		}
	}
}

func TestComputeOutputDegenerateReserves(t *testing.T) {
	out := ComputeOutput(0, 0, 1_000_000, 0.003)
	if !math.IsNaN(out) {
		t.Fatalf("expected NaN for zero input against zero reserveIn, got %v", out)
	}

	out = ComputeOutput(1000, -1000, 1_000_000, 0)
	if !math.IsInf(out, 0) {
		t.Fatalf("expected infinite output for zero denominator, got %v", out)
	}
}
