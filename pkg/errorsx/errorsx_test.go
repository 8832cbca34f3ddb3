package errorsx

import "testing"

func TestWrapAndReason(t *testing.T) {
	err := Wrap(assertErr{}, ReasonScoringUnavailable)
	if Reason(err) != ReasonScoringUnavailable {
		t.Fatalf("expected reason %s, got %s", ReasonScoringUnavailable, Reason(err))
	}
	if !HasReason(err, ReasonScoringUnavailable) {
		t.Fatalf("expected HasReason true")
	}
}

func TestWrapPreservesExistingReason(t *testing.T) {
	first := Wrap(assertErr{}, ReasonSTTTranscribe)
	second := Wrap(first, ReasonScoringUnavailable)
	if Reason(second) != ReasonSTTTranscribe {
		t.Fatalf("expected reason preserved, got %s", Reason(second))
	}
}

func TestNewCarriesReasonAndMessage(t *testing.T) {
	err := New(ReasonInputInvalid, "expectedText %s", "is empty")
	if Reason(err) != ReasonInputInvalid {
		t.Fatalf("expected reason %s, got %s", ReasonInputInvalid, Reason(err))
	}
	if err.Error() != "expectedText is empty" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
