package feed

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"

	"arbScope/internal/model"
)

// decodeSyncLog extracts the raw reserves from a V2 Sync event payload.
func decodeSyncLog(pairABI abi.ABI, log types.Log) (*big.Int, *big.Int, error) {
	values, err := pairABI.Unpack("Sync", log.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("unpack sync: %w", err)
	}
	if len(values) < 2 {
		return nil, nil, fmt.Errorf("sync event carries %d values", len(values))
	}

	reserve0, ok := values[0].(*big.Int)
	if !ok {
		return nil, nil, fmt.Errorf("reserve0 has unexpected type %T", values[0])
	}
	reserve1, ok := values[1].(*big.Int)
	if !ok {
		return nil, nil, fmt.Errorf("reserve1 has unexpected type %T", values[1])
	}
	return reserve0, reserve1, nil
}

// normalizeReserve scales a raw integer reserve down by the token's decimals.
func normalizeReserve(value *big.Int, decimals uint8) float64 {
	if value == nil {
		return 0
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	out, _ := new(big.Float).Quo(new(big.Float).SetInt(value), new(big.Float).SetInt(scale)).Float64()
	return out
}

// poolStates builds the two directional registry entries for a pair from its
// raw reserves. The registry stores each direction separately; both are
// refreshed from the same observation so they stay internally consistent.
func poolStates(desc PairDescriptor, reserve0, reserve1 *big.Int) [2]model.PoolState {
	norm0 := normalizeReserve(reserve0, desc.Decimals0)
	norm1 := normalizeReserve(reserve1, desc.Decimals1)

	return [2]model.PoolState{
		{
			Dex:      desc.Dex,
			TokenA:   desc.Token0,
			TokenB:   desc.Token1,
			ReserveA: norm0,
			ReserveB: norm1,
			Fee:      desc.Fee,
		},
		{
			Dex:      desc.Dex,
			TokenA:   desc.Token1,
			TokenB:   desc.Token0,
			ReserveA: norm1,
			ReserveB: norm0,
			Fee:      desc.Fee,
		},
	}
}
