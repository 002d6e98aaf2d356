package psbtassembler

import (
	"testing"

	"github.com/satoshikit/txcore/coininput"
)

func TestAccumulateMaxLocktimeEmpty(t *testing.T) {
	_, ok := accumulateMaxLocktime(nil)
	if ok {
		t.Fatalf("accumulateMaxLocktime(nil) should report ok=false")
	}
}

func TestAccumulateMaxLocktimeTakesMax(t *testing.T) {
	locktimes := []coininput.LockTime{
		coininput.NewHeightLockTime(100),
		coininput.NewHeightLockTime(500),
		coininput.NewHeightLockTime(200),
	}
	got, ok := accumulateMaxLocktime(locktimes)
	if !ok {
		t.Fatalf("accumulateMaxLocktime should succeed when every entry shares a unit")
	}
	if got.Value() != 500 {
		t.Fatalf("accumulateMaxLocktime = %d, want 500", got.Value())
	}
}

func TestAccumulateMaxLocktimeRejectsMixedUnits(t *testing.T) {
	locktimes := []coininput.LockTime{
		coininput.NewHeightLockTime(100),
		coininput.NewTimeLockTime(600_000_000),
	}
	_, ok := accumulateMaxLocktime(locktimes)
	if ok {
		t.Fatalf("accumulateMaxLocktime must reject a mix of height- and time-based locktimes")
	}
}
