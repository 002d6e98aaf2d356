package coininput

// LockTimeUnit distinguishes the two units an absolute or relative locktime
// may be expressed in.
type LockTimeUnit int

const (
	// Height counts blocks.
	Height LockTimeUnit = iota
	// Time counts consensus time (seconds, for absolute locktimes;
	// 512-second granularity for relative locktimes, per BIP68).
	Time
)

func (u LockTimeUnit) String() string {
	if u == Time {
		return "time"
	}
	return "height"
}

// consensus limits, per Bitcoin Core.
const (
	locktimeThreshold = 500000000 // below this an absolute locktime is a height
	maxLockTimeHeight = locktimeThreshold - 1
)

// LockTime is an absolute (nLockTime-style) timelock, tagged with its unit
// so mixed-unit comparisons can be rejected rather than silently
// misinterpreted.
type LockTime struct {
	unit  LockTimeUnit
	value uint32
}

// NewHeightLockTime builds an absolute height-based locktime.
func NewHeightLockTime(height uint32) LockTime {
	return LockTime{unit: Height, value: height}
}

// NewTimeLockTime builds an absolute time-based locktime (consensus time,
// i.e. seconds since epoch as interpreted by nLockTime >= 500,000,000).
func NewTimeLockTime(t uint32) LockTime {
	return LockTime{unit: Time, value: t}
}

// Unit reports whether this locktime is height- or time-based.
func (l LockTime) Unit() LockTimeUnit { return l.unit }

// Value returns the raw height or time value.
func (l LockTime) Value() uint32 { return l.value }

// IsSatisfiedBy reports whether this locktime is satisfied given the
// spending height (tip_height + 1, per BIP113/consensus) and the chain's
// current median-time-past.
func (l LockTime) IsSatisfiedBy(spendingHeight uint32, tipMTP uint32) bool {
	if l.unit == Height {
		return spendingHeight >= l.value
	}
	return tipMTP >= l.value
}

// RelativeLockTime is a BIP68 sequence-encoded relative timelock.
type RelativeLockTime struct {
	unit  LockTimeUnit
	value uint32 // blocks, or 512-second units when unit == Time
}

const (
	sequenceLockTimeDisableFlag = 1 << 31
	sequenceLockTimeTypeFlag    = 1 << 22
	sequenceLockTimeMask        = 0x0000ffff
	sequenceLockTimeGranularity = 512 // seconds per unit, for time-based relative locks
)

// NewRelativeHeightLockTime builds a relative locktime of the given number
// of blocks.
func NewRelativeHeightLockTime(blocks uint16) RelativeLockTime {
	return RelativeLockTime{unit: Height, value: uint32(blocks)}
}

// NewRelativeTimeLockTime builds a relative locktime from a duration in
// seconds, floored to the nearest 512-second granularity BIP68 allows.
func NewRelativeTimeLockTime(seconds uint32) RelativeLockTime {
	return RelativeLockTime{unit: Time, value: seconds / sequenceLockTimeGranularity}
}

// ToSequence encodes this relative locktime into a wire.MsgTx sequence
// value with the locktime-enabled bit pattern (bit 31 clear).
func (r RelativeLockTime) ToSequence() uint32 {
	seq := r.value & sequenceLockTimeMask
	if r.unit == Time {
		seq |= sequenceLockTimeTypeFlag
	}
	return seq
}

// SequenceToRelativeLockTime decodes a sequence value into a relative
// locktime. The second return value is false if the sequence has the
// locktime-disable bit set (bit 31) and thus encodes no relative locktime.
func SequenceToRelativeLockTime(seq uint32) (RelativeLockTime, bool) {
	if seq&sequenceLockTimeDisableFlag != 0 {
		return RelativeLockTime{}, false
	}
	unit := Height
	if seq&sequenceLockTimeTypeFlag != 0 {
		unit = Time
	}
	return RelativeLockTime{unit: unit, value: seq & sequenceLockTimeMask}, true
}

// Unit reports whether this relative locktime counts blocks or 512-second
// units.
func (r RelativeLockTime) Unit() LockTimeUnit { return r.unit }

// Value returns the raw block count or 512-second unit count.
func (r RelativeLockTime) Value() uint32 { return r.value }

// IsSatisfiedBy reports whether this relative locktime is satisfied given
// the elapsed relative height and relative time (in 512-second units) since
// confirmation of the prevout.
func (r RelativeLockTime) IsSatisfiedBy(relativeHeight uint32, relativeTimeUnits uint32) bool {
	if r.unit == Height {
		return relativeHeight >= r.value
	}
	return relativeTimeUnits >= r.value
}
