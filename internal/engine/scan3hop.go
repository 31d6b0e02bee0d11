package engine

import (
	"time"

	"arbScope/internal/model"
)

// scanThreeHop evaluates every ordered pool pair and amount for a triangular
// cycle. The outer pool index is partitioned across workers; the inner loop
// walks the full snapshot, so the work is quadratic in pool count before the
// token-compatibility check prunes incompatible pairs. That cross product is
// inherent to triangular search and kept as-is.
func (s *Scanner) scanThreeHop(snap *Snapshot, testAmounts []float64) []model.ArbitrageOpportunity {
	pools := snap.Pools()
	ranges := splitIndexes(len(pools), s.workers)
	return mapRanges(ranges, func(r indexRange) []model.ArbitrageOpportunity {
		var local []model.ArbitrageOpportunity
		for i := r.From; i < r.To; i++ {
			for j := range pools {
				for _, amount := range testAmounts {
					if opp, ok := findThreeHop(snap, pools[i], pools[j], amount); ok {
						local = append(local, opp)
					}
				}
			}
		}
		return local
	})
}

// findThreeHop chains first (A -> B) into second (B -> C), then closes the
// triangle back to A through whatever pool the snapshot holds for (C, A).
// Pairs that do not chain are skipped before any math runs.
func findThreeHop(snap *Snapshot, first, second model.PoolState, amount float64) (model.ArbitrageOpportunity, bool) {
	if first.TokenB != second.TokenA {
		return model.ArbitrageOpportunity{}, false
	}

	amountMid := ComputeOutput(amount, first.ReserveA, first.ReserveB, first.Fee)
	amountOut := ComputeOutput(amountMid, second.ReserveA, second.ReserveB, second.Fee)

	closing, ok := snap.Pair(second.TokenB, first.TokenA)
	if !ok {
		return model.ArbitrageOpportunity{}, false
	}

	final := ComputeOutput(amountOut, closing.ReserveA, closing.ReserveB, closing.Fee)
	profit := final - amount
	profitPercent := (profit / amount) * 100
	if !(profitPercent > threeHopMinProfitPercent) {
		return model.ArbitrageOpportunity{}, false
	}

	return model.ArbitrageOpportunity{
		RouteID:         first.Dex + "_" + second.Dex + "_3hop",
		Tokens:          []string{first.TokenA, first.TokenB, second.TokenB, first.TokenA},
		Dexes:           []string{first.Dex, second.Dex, closing.Dex},
		InputAmount:     amount,
		ExpectedOutput:  final,
		GasEstimate:     threeHopGasEstimate,
		ProfitUSD:       profit,
		ConfidenceScore: threeHopConfidence,
		Timestamp:       uint64(time.Now().Unix()),
	}, true
}
