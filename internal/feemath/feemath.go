// Package feemath centralizes the feerate/weight arithmetic shared by the
// coin selector and the CPFP helper, so both round fees the same way.
package feemath

// FeeRate is a feerate expressed in satoshis per 1000 weight units
// (sat/kWU), the precise internal unit spec.md mandates (4 WU = 1 vbyte).
type FeeRate int64

// FromSatPerVB converts a sat/vB feerate (the common API-boundary unit)
// into the internal sat/kWU representation.
func FromSatPerVB(satPerVB float64) FeeRate {
	return FeeRate(satPerVB * 250)
}

// SatPerVB converts back to sat/vB for display/comparison at API
// boundaries.
func (f FeeRate) SatPerVB() float64 {
	return float64(f) / 250
}

// FeeForWeight returns the fee, in satoshis, to cover weightWU witness
// units at this feerate, rounded up.
func (f FeeRate) FeeForWeight(weightWU int64) int64 {
	return CeilDiv(int64(f)*weightWU, 1000)
}

// CeilDiv computes ceil(num/den) for non-negative den.
func CeilDiv(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	if num%den == 0 {
		return num / den
	}
	if (num < 0) != (den < 0) {
		return num / den
	}
	return num/den + 1
}

// BaseTxWeight is the weight, in witness units, of the fields common to
// every transaction regardless of its inputs/outputs: version (4 bytes) +
// locktime (4 bytes) + input/output count varints (2 bytes), scaled by the
// non-witness weight factor of 4.
const BaseTxWeight = (4 + 4 + 2) * 4
