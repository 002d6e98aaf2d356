// Package dustrule computes the minimum non-dust value for an output,
// shared by the coin selector's change-policy and the CPFP helper so both
// agree on what counts as an uneconomical output.
package dustrule

// DefaultFeerate is Bitcoin Core's default -dustrelayfee, in sat/kvB.
const DefaultFeerate = 3000

// spendInputOverheadVB is the estimated size, in vbytes, of spending this
// output in a future transaction: outpoint (36) + sequence (4) + a
// generous P2WPKH-equivalent witness/scriptSig allowance (67, the figure
// Bitcoin Core's GetDustThreshold uses for a witness spend) plus the
// 4-byte witness stack-count/empty-scriptSig overhead.
const spendInputOverheadVB = 36 + 4 + 67 + 4

// MinimalNonDust returns the minimum value, in satoshis, an output with the
// given script and serialized size (script length prefix + script +
// 8-byte value field) must carry to not be considered dust at feerateSatPerKVB.
//
// Mirrors Bitcoin Core's GetDustThreshold: an output is dust if the cost of
// spending it (at the dust-relay feerate) would consume a disproportionate
// fraction of its own value; the 3x multiplier matches core's
// `3 * GetFee(nSize)` rule of thumb.
func MinimalNonDust(scriptLen int, feerateSatPerKVB int64) int64 {
	if feerateSatPerKVB <= 0 {
		feerateSatPerKVB = DefaultFeerate
	}
	outputSize := int64(8 + varIntSize(scriptLen) + scriptLen + spendInputOverheadVB)
	return 3 * feerateSatPerKVB * outputSize / 1000
}

func varIntSize(n int) int {
	switch {
	case n < 0xfd:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}
