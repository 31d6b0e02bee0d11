package engine

import (
	"fmt"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"arbScope/internal/model"
)

// Route qualification thresholds and the fixed per-route-length metadata
// attached to qualifying opportunities. Kept as named constants so they can
// be tuned without touching the enumeration structure.
const (
	twoHopMinProfitPercent   = 0.10
	threeHopMinProfitPercent = 0.15

	twoHopGasEstimate   uint64 = 350000
	threeHopGasEstimate uint64 = 450000

	twoHopConfidence   = 0.85
	threeHopConfidence = 0.75
)

// Scanner searches registry snapshots for profitable 2-hop and 3-hop cyclic
// routes. It owns no pool state; every scan works off a fresh snapshot and
// returns a transient, ranked result slice.
type Scanner struct {
	registry *Registry
	workers  int
	logger   *zap.Logger
}

// NewScanner builds a scanner over the given registry. Enumeration work is
// partitioned across one worker per available CPU.
func NewScanner(registry *Registry, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		registry: registry,
		workers:  runtime.GOMAXPROCS(0),
		logger:   logger,
	}
}

// Scan evaluates every candidate route for every test amount against one
// snapshot and returns the qualifying opportunities sorted by profit,
// highest first. The 2-hop and 3-hop enumerations run concurrently over the
// same snapshot. A scan always runs to completion; there is no cancellation.
func (s *Scanner) Scan(testAmounts []float64) []model.ArbitrageOpportunity {
	snap := s.registry.Snapshot()
	start := time.Now()

	var twoHop, threeHop []model.ArbitrageOpportunity
	var g errgroup.Group
	g.Go(func() error {
		twoHop = s.scanTwoHop(snap, testAmounts)
		return nil
	})
	g.Go(func() error {
		threeHop = s.scanThreeHop(snap, testAmounts)
		return nil
	})
	_ = g.Wait()

	all := make([]model.ArbitrageOpportunity, 0, len(twoHop)+len(threeHop))
	all = append(all, twoHop...)
	all = append(all, threeHop...)
	sortByProfit(all)

	s.logger.Debug("scan complete",
		zap.Int("pools", snap.Len()),
		zap.Int("amounts", len(testAmounts)),
		zap.Int("two_hop", len(twoHop)),
		zap.Int("three_hop", len(threeHop)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return all
}

// sortByProfit orders opportunities by profit in non-increasing order. The
// comparator returns false whenever NaN is involved, so non-finite profits
// compare equal to everything rather than breaking the sort.
func sortByProfit(opps []model.ArbitrageOpportunity) {
	sort.Slice(opps, func(i, j int) bool {
		return opps[i].ProfitUSD > opps[j].ProfitUSD
	})
}

// MultihopSlippage walks consecutive token pairs of a route against the live
// registry and sums per-hop slippage percentages. The sum is additive across
// hops, not compounded. A hop with no pool for its pair contributes zero and
// leaves the running amount unchanged.
//
// Lookups use the 2-part token-pair key, not the canonical registry key, so
// the first pool upserted for a pair on any dex answers here.
func (s *Scanner) MultihopSlippage(route []string, startAmount float64) float64 {
	current := startAmount
	total := 0.0
	for i := 0; i+1 < len(route); i++ {
		pool, ok := s.registry.GetPair(route[i], route[i+1])
		if !ok {
			continue
		}
		expected := current
		actual := ComputeOutput(current, pool.ReserveA, pool.ReserveB, pool.Fee)
		current = actual
		total += ((expected - actual) / expected) * 100
	}
	return total
}

// Stats returns a one-line summary of registry size and parallelism degree.
func (s *Scanner) Stats() string {
	return fmt.Sprintf("Pools: %d, CPU Cores: %d", s.registry.Len(), s.workers)
}
