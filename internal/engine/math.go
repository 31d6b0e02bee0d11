package engine

// ComputeOutput applies the constant-product formula with the fee taken from
// the input side: effIn = input * (1 - fee), out = effIn * reserveOut /
// (reserveIn + effIn). For finite positive input and positive reserves the
// output is strictly below reserveOut; zero input yields zero output.
//
// Degenerate inputs (zero denominator) produce NaN or Inf. That is the
// formula's answer for "no usable price": callers let the non-finite value
// flow into profit filtering instead of rejecting it upfront.
func ComputeOutput(input, reserveIn, reserveOut, fee float64) float64 {
	effIn := input * (1 - fee)
	return effIn * reserveOut / (reserveIn + effIn)
}
