package dustrule

import "testing"

func TestMinimalNonDustDefaultsFeerate(t *testing.T) {
	withDefault := MinimalNonDust(22, 0)
	explicit := MinimalNonDust(22, DefaultFeerate)
	if withDefault != explicit {
		t.Fatalf("MinimalNonDust(22, 0) = %d, want %d (default feerate applied)", withDefault, explicit)
	}
}

func TestMinimalNonDustScalesWithFeerate(t *testing.T) {
	low := MinimalNonDust(22, 1000)
	high := MinimalNonDust(22, 2000)
	if high <= low {
		t.Fatalf("MinimalNonDust should grow with feerate: low=%d high=%d", low, high)
	}
	if high != 2*low {
		t.Fatalf("doubling feerate should double the floor: low=%d high=%d", low, high)
	}
}

func TestVarIntSizeBoundaries(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 1},
		{0xfc, 1},
		{0xfd, 3},
		{0xffff, 3},
		{0x10000, 5},
	}
	for _, test := range tests {
		if got := varIntSize(test.n); got != test.want {
			t.Fatalf("varIntSize(%d) = %d, want %d", test.n, got, test.want)
		}
	}
}
