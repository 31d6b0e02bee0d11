package model

// ArbitrageOpportunity is a fully denormalized scan result. It copies token
// and dex identifiers from the pools it was built from and holds no reference
// back into the registry.
//
// ProfitUSD is expected output minus input in input-token units. The field
// name is inherited from the upstream wire format; it is not a currency
// conversion.
type ArbitrageOpportunity struct {
	RouteID         string   `json:"route_id"`
	Tokens          []string `json:"tokens"`
	Dexes           []string `json:"dexes"`
	InputAmount     float64  `json:"input_amount"`
	ExpectedOutput  float64  `json:"expected_output"`
	GasEstimate     uint64   `json:"gas_estimate"`
	ProfitUSD       float64  `json:"profit_usd"`
	ConfidenceScore float64  `json:"confidence_score"`
	Timestamp       uint64   `json:"timestamp"`
}

// Hops returns the number of swaps in the route.
func (o ArbitrageOpportunity) Hops() int {
	return len(o.Dexes)
}
