package model

// PoolState is a directional snapshot of one AMM pool on one exchange.
// ReserveA is the reserve of the input-side token; the reverse direction of
// the same on-chain pair is a distinct PoolState with the tokens swapped.
type PoolState struct {
	Dex      string  `json:"dex"`
	TokenA   string  `json:"token_a"`
	TokenB   string  `json:"token_b"`
	ReserveA float64 `json:"reserve_a"`
	ReserveB float64 `json:"reserve_b"`
	Fee      float64 `json:"fee"`
}

// Key returns the canonical registry key: dex plus both tokens, directional.
func (p PoolState) Key() string {
	return PoolKey(p.Dex, p.TokenA, p.TokenB)
}

// PoolKey builds the canonical 3-part registry key.
func PoolKey(dex, tokenA, tokenB string) string {
	return dex + "_" + tokenA + "_" + tokenB
}

// PairKey builds the 2-part directional token-pair key used by the pair
// index and the multihop slippage helper. It deliberately omits the dex:
// the two key schemes coexist and must not be unified (see DESIGN.md).
func PairKey(tokenIn, tokenOut string) string {
	return tokenIn + "_" + tokenOut
}
