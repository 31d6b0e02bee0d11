package feed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
)

// PairDescriptor describes one V2-style pair contract tracked by the feed:
// where it lives, what the registry should call its dex and tokens, and how
// to normalize its raw reserves.
type PairDescriptor struct {
	Address   string  `json:"address"`
	Dex       string  `json:"dex"`
	Token0    string  `json:"token0"`
	Token1    string  `json:"token1"`
	Decimals0 uint8   `json:"decimals0"`
	Decimals1 uint8   `json:"decimals1"`
	Fee       float64 `json:"fee"`
}

// Validate checks the descriptor fields.
func (d PairDescriptor) Validate() error {
	if !common.IsHexAddress(d.Address) {
		return fmt.Errorf("invalid pair address: %s", d.Address)
	}
	if d.Dex == "" {
		return fmt.Errorf("dex is required for pair %s", d.Address)
	}
	if d.Token0 == "" || d.Token1 == "" {
		return fmt.Errorf("both token symbols are required for pair %s", d.Address)
	}
	if d.Token0 == d.Token1 {
		return fmt.Errorf("pair %s has identical tokens %q", d.Address, d.Token0)
	}
	if d.Fee < 0 || d.Fee >= 1 {
		return fmt.Errorf("pair %s fee must be in [0,1): %v", d.Address, d.Fee)
	}
	return nil
}

// LoadPairs reads a JSON array of pair descriptors from disk and validates
// each entry.
func LoadPairs(path string) ([]PairDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pairs file: %w", err)
	}

	var pairs []PairDescriptor
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("parse pairs file: %w", err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("pairs file %s is empty", path)
	}

	seen := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		if err := pair.Validate(); err != nil {
			return nil, err
		}
		addr := common.HexToAddress(pair.Address).Hex()
		if _, ok := seen[addr]; ok {
			return nil, fmt.Errorf("duplicate pair address %s", addr)
		}
		seen[addr] = struct{}{}
	}

	return pairs, nil
}
