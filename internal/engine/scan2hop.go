package engine

import (
	"time"

	"arbScope/internal/model"
)

// scanTwoHop evaluates every (pool, amount) combination in the snapshot for
// a profitable there-and-back cycle. The pool index space is partitioned
// across the scanner's workers; the snapshot is immutable for the duration.
func (s *Scanner) scanTwoHop(snap *Snapshot, testAmounts []float64) []model.ArbitrageOpportunity {
	pools := snap.Pools()
	ranges := splitIndexes(len(pools), s.workers)
	return mapRanges(ranges, func(r indexRange) []model.ArbitrageOpportunity {
		var local []model.ArbitrageOpportunity
		for i := r.From; i < r.To; i++ {
			for _, amount := range testAmounts {
				if opp, ok := findTwoHop(snap, pools[i], amount); ok {
					local = append(local, opp)
				}
			}
		}
		return local
	})
}

// findTwoHop swaps amount through first (tokenA -> tokenB), then back to
// tokenA through whatever pool the snapshot holds for the reverse pair. The
// route qualifies only when profit exceeds the 2-hop threshold; a missing
// reverse pool means no opportunity, never an error. NaN profit percentages
// fail the threshold comparison and are dropped the same way.
func findTwoHop(snap *Snapshot, first model.PoolState, amount float64) (model.ArbitrageOpportunity, bool) {
	mid := ComputeOutput(amount, first.ReserveA, first.ReserveB, first.Fee)

	second, ok := snap.Pair(first.TokenB, first.TokenA)
	if !ok {
		return model.ArbitrageOpportunity{}, false
	}

	final := ComputeOutput(mid, second.ReserveA, second.ReserveB, second.Fee)
	profit := final - amount
	profitPercent := (profit / amount) * 100
	if !(profitPercent > twoHopMinProfitPercent) {
		return model.ArbitrageOpportunity{}, false
	}

	return model.ArbitrageOpportunity{
		RouteID:         first.Dex + "_2hop",
		Tokens:          []string{first.TokenA, first.TokenB, first.TokenA},
		Dexes:           []string{first.Dex, second.Dex},
		InputAmount:     amount,
		ExpectedOutput:  final,
		GasEstimate:     twoHopGasEstimate,
		ProfitUSD:       profit,
		ConfidenceScore: twoHopConfidence,
		Timestamp:       uint64(time.Now().Unix()),
	}, true
}
