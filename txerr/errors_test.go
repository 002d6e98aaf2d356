package txerr

import (
	"errors"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(TxNotCanonical, "txid not in canonical set")
	want := "TxNotCanonical: txid not in canonical set"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	bare := &Error{Kind: ReplaceCoinbase}
	if got := bare.Error(); got != "ReplaceCoinbase" {
		t.Fatalf("Error() with no Msg = %q, want %q", got, "ReplaceCoinbase")
	}
}

func TestInsufficient(t *testing.T) {
	err := Insufficient(5000, 3000)
	if err.Kind != InsufficientFunds {
		t.Fatalf("Insufficient() Kind = %v, want InsufficientFunds", err.Kind)
	}
	if err.Needed != 5000 || err.Available != 3000 {
		t.Fatalf("Insufficient() context = needed %d available %d, want 5000/3000", err.Needed, err.Available)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("underlying satisfy failure")
	wrapped := Wrap(FinalizeInput, cause)
	if !errors.Is(wrapped, cause) {
		t.Fatalf("errors.Is(wrapped, cause) = false, want true")
	}
	if wrapped.Unwrap() != cause {
		t.Fatalf("Unwrap() did not return the original cause")
	}
}

func TestKindStringUnknown(t *testing.T) {
	var k Kind = 9999
	if got := k.String(); got != "Unknown" {
		t.Fatalf("String() for out-of-range Kind = %q, want %q", got, "Unknown")
	}
}
