package psbtassembler

import "github.com/satoshikit/txcore/coininput"

// accumulateMaxLocktime folds a sequence of absolute locktimes into the
// single largest one, the way multiple inputs' individually-required
// locktimes are reconciled into one transaction-wide nLockTime. Returns
// ok=false if any two locktimes disagree on unit (height vs time).
func accumulateMaxLocktime(locktimes []coininput.LockTime) (coininput.LockTime, bool) {
	if len(locktimes) == 0 {
		return coininput.LockTime{}, false
	}
	acc := locktimes[0]
	for _, lt := range locktimes[1:] {
		if lt.Unit() != acc.Unit() {
			return coininput.LockTime{}, false
		}
		if lt.Value() > acc.Value() {
			acc = lt
		}
	}
	return acc, true
}
