package engine

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"arbScope/internal/model"
)

func newTestScanner(pools ...model.PoolState) *Scanner {
	reg := NewRegistry()
	for _, pool := range pools {
		reg.Upsert(pool)
	}
	return NewScanner(reg, nil)
}

func TestScanEmptyRegistry(t *testing.T) {
	scanner := newTestScanner()

	opps := scanner.Scan([]float64{100, 1000, 10000})
	if len(opps) != 0 {
		t.Fatalf("expected no opportunities from empty registry, got %d", len(opps))
	}
}

func TestTwoHopScenario(t *testing.T) {
	poolA := model.PoolState{Dex: "X", TokenA: "USDC", TokenB: "USDT", ReserveA: 1_000_000, ReserveB: 1_000_000, Fee: 0.003}
	poolB := model.PoolState{Dex: "Y", TokenA: "USDT", TokenB: "USDC", ReserveA: 1_000_000, ReserveB: 1_050_000, Fee: 0.003}
	scanner := newTestScanner(poolA, poolB)

	opps := scanner.Scan([]float64{1000})

	wantTokens := []string{"USDC", "USDT", "USDC"}
	var matches []model.ArbitrageOpportunity
	for _, opp := range opps {
		if reflect.DeepEqual(opp.Tokens, wantTokens) {
			matches = append(matches, opp)
		}
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one USDC cycle, got %d (all: %d)", len(matches), len(opps))
	}

	opp := matches[0]
	if !reflect.DeepEqual(opp.Dexes, []string{"X", "Y"}) {
		t.Fatalf("unexpected dex sequence: %v", opp.Dexes)
	}
	if opp.GasEstimate != 350000 {
		t.Fatalf("expected gas estimate 350000, got %d", opp.GasEstimate)
	}
	if opp.ConfidenceScore != 0.85 {
		t.Fatalf("expected confidence 0.85, got %v", opp.ConfidenceScore)
	}
	if opp.RouteID != "X_2hop" {
		t.Fatalf("unexpected route id %q", opp.RouteID)
	}
	if opp.InputAmount != 1000 {
		t.Fatalf("unexpected input amount %v", opp.InputAmount)
	}

	mid := ComputeOutput(1000, poolA.ReserveA, poolA.ReserveB, poolA.Fee)
	final := ComputeOutput(mid, poolB.ReserveA, poolB.ReserveB, poolB.Fee)
	if opp.ExpectedOutput != final {
		t.Fatalf("expected output %v, got %v", final, opp.ExpectedOutput)
	}
	if opp.ProfitUSD != final-1000 {
		t.Fatalf("profit should be output minus input: %v vs %v", opp.ProfitUSD, final-1000)
	}
	if (opp.ProfitUSD/1000)*100 <= twoHopMinProfitPercent {
		t.Fatalf("reported opportunity below threshold: %+v", opp)
	}
	if opp.Timestamp == 0 {
		t.Fatalf("timestamp not set")
	}
}

func TestTwoHopMissingReversePool(t *testing.T) {
	scanner := newTestScanner(model.PoolState{
		Dex: "X", TokenA: "USDC", TokenB: "USDT", ReserveA: 1_000_000, ReserveB: 1_000_000, Fee: 0.003,
	})

	opps := scanner.Scan([]float64{1000})
	if len(opps) != 0 {
		t.Fatalf("expected no opportunities without a reverse pool, got %d", len(opps))
	}
}

func TestTwoHopBelowThreshold(t *testing.T) {
	// Symmetric reserves: the fee makes every cycle a small loss.
	scanner := newTestScanner(
		model.PoolState{Dex: "X", TokenA: "USDC", TokenB: "USDT", ReserveA: 1_000_000, ReserveB: 1_000_000, Fee: 0.003},
		model.PoolState{Dex: "Y", TokenA: "USDT", TokenB: "USDC", ReserveA: 1_000_000, ReserveB: 1_000_000, Fee: 0.003},
	)

	opps := scanner.Scan([]float64{1000})
	if len(opps) != 0 {
		t.Fatalf("expected losing cycles to be filtered, got %d", len(opps))
	}
}

func TestThreeHopTriangle(t *testing.T) {
	first := model.PoolState{Dex: "d1", TokenA: "AAA", TokenB: "BBB", ReserveA: 1_000_000, ReserveB: 2_000_000, Fee: 0}
	second := model.PoolState{Dex: "d2", TokenA: "BBB", TokenB: "CCC", ReserveA: 2_000_000, ReserveB: 1_000_000, Fee: 0}
	closing := model.PoolState{Dex: "d3", TokenA: "CCC", TokenB: "AAA", ReserveA: 1_000_000, ReserveB: 1_200_000, Fee: 0}
	scanner := newTestScanner(first, second, closing)

	opps := scanner.Scan([]float64{1000})

	wantTokens := []string{"AAA", "BBB", "CCC", "AAA"}
	var match *model.ArbitrageOpportunity
	for i := range opps {
		if reflect.DeepEqual(opps[i].Tokens, wantTokens) {
			if match != nil {
				t.Fatalf("duplicate triangle for token cycle %v", wantTokens)
			}
			match = &opps[i]
		}
	}
	if match == nil {
		t.Fatalf("triangle starting at AAA not found among %d results", len(opps))
	}

	if !reflect.DeepEqual(match.Dexes, []string{"d1", "d2", "d3"}) {
		t.Fatalf("unexpected dex sequence: %v", match.Dexes)
	}
	if match.GasEstimate != 450000 {
		t.Fatalf("expected gas estimate 450000, got %d", match.GasEstimate)
	}
	if match.ConfidenceScore != 0.75 {
		t.Fatalf("expected confidence 0.75, got %v", match.ConfidenceScore)
	}
	if match.RouteID != "d1_d2_3hop" {
		t.Fatalf("unexpected route id %q", match.RouteID)
	}

	mid := ComputeOutput(1000, first.ReserveA, first.ReserveB, first.Fee)
	out := ComputeOutput(mid, second.ReserveA, second.ReserveB, second.Fee)
	final := ComputeOutput(out, closing.ReserveA, closing.ReserveB, closing.Fee)
	if match.ExpectedOutput != final {
		t.Fatalf("expected output %v, got %v", final, match.ExpectedOutput)
	}
	if pct := (match.ProfitUSD / 1000) * 100; pct <= threeHopMinProfitPercent {
		t.Fatalf("reported triangle below threshold: %v%%", pct)
	}
}

func TestThreeHopRequiresClosingPool(t *testing.T) {
	scanner := newTestScanner(
		model.PoolState{Dex: "d1", TokenA: "AAA", TokenB: "BBB", ReserveA: 1_000_000, ReserveB: 2_000_000, Fee: 0},
		model.PoolState{Dex: "d2", TokenA: "BBB", TokenB: "CCC", ReserveA: 2_000_000, ReserveB: 1_000_000, Fee: 0},
	)

	opps := scanner.Scan([]float64{1000})
	if len(opps) != 0 {
		t.Fatalf("expected no opportunities without a closing pool, got %d", len(opps))
	}
}

func TestScanSortedByProfitDescending(t *testing.T) {
	// Several independent 2-hop cycles with different imbalances.
	pools := []model.PoolState{
		{Dex: "a1", TokenA: "T1", TokenB: "T2", ReserveA: 1_000_000, ReserveB: 1_000_000, Fee: 0},
		{Dex: "a2", TokenA: "T2", TokenB: "T1", ReserveA: 1_000_000, ReserveB: 1_100_000, Fee: 0},
		{Dex: "b1", TokenA: "T3", TokenB: "T4", ReserveA: 1_000_000, ReserveB: 1_000_000, Fee: 0},
		{Dex: "b2", TokenA: "T4", TokenB: "T3", ReserveA: 1_000_000, ReserveB: 1_500_000, Fee: 0},
	}
	scanner := newTestScanner(pools...)

	opps := scanner.Scan([]float64{100, 1000, 10000})
	if len(opps) == 0 {
		t.Fatalf("expected some opportunities")
	}
	for i := 1; i < len(opps); i++ {
		if opps[i].ProfitUSD > opps[i-1].ProfitUSD {
			t.Fatalf("results not sorted by profit at %d: %v after %v", i, opps[i].ProfitUSD, opps[i-1].ProfitUSD)
		}
	}
}

func TestSortByProfitNonFinite(t *testing.T) {
	opps := []model.ArbitrageOpportunity{
		{RouteID: "a", ProfitUSD: 5},
		{RouteID: "b", ProfitUSD: math.NaN()},
		{RouteID: "c", ProfitUSD: math.Inf(1)},
		{RouteID: "d", ProfitUSD: -3},
		{RouteID: "e", ProfitUSD: math.NaN()},
		{RouteID: "f", ProfitUSD: 12},
	}

	// Must not panic; non-finite values compare equal to everything.
	sortByProfit(opps)

	prev := math.Inf(1)
	for _, opp := range opps {
		if math.IsNaN(opp.ProfitUSD) {
			continue
		}
		if opp.ProfitUSD > prev {
			t.Fatalf("finite profits out of order: %v after %v", opp.ProfitUSD, prev)
		}
		prev = opp.ProfitUSD
	}
}

func TestScanDegenerateReservesNoPanic(t *testing.T) {
	// Fully drained pools push NaN through the swap chain. The NaN profit
	// fails the threshold comparison and is dropped; nothing may panic.
	scanner := newTestScanner(
		model.PoolState{Dex: "X", TokenA: "USDC", TokenB: "USDT", ReserveA: 0, ReserveB: 0, Fee: 0},
		model.PoolState{Dex: "Y", TokenA: "USDT", TokenB: "USDC", ReserveA: 0, ReserveB: 0, Fee: 0},
	)

	opps := scanner.Scan([]float64{0, 1000})
	for _, opp := range opps {
		if math.IsNaN(opp.ProfitUSD) {
			t.Fatalf("NaN profit should never qualify: %+v", opp)
		}
	}
}

func TestStats(t *testing.T) {
	scanner := newTestScanner(
		model.PoolState{Dex: "X", TokenA: "USDC", TokenB: "USDT", ReserveA: 1, ReserveB: 1, Fee: 0},
	)

	got := scanner.Stats()
	if !strings.HasPrefix(got, "Pools: 1, CPU Cores: ") {
		t.Fatalf("unexpected stats string %q", got)
	}
}
