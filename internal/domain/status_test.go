package domain

import "testing"

func TestTransactionStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to TransactionStatus
		want     bool
	}{
		{StatusCart, StatusPending, true},
		{StatusCart, StatusPaid, true},
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusChallenge, true},
		{StatusChallenge, StatusPaid, true},
		{StatusChallenge, StatusFraud, true},
		{StatusPending, StatusPending, false},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusChallenge, false},
		{StatusPaid, StatusFailed, false},
		{StatusPaid, StatusRefunded, true},
		{StatusFailed, StatusPaid, false},
		{StatusExpired, StatusPaid, false},
		{StatusChallenge, StatusPending, false},
	}
	for _, tc := range tests {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s = %v; want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTransactionStatus_Terminal(t *testing.T) {
	for _, s := range []TransactionStatus{StatusPaid, StatusFailed, StatusCanceled, StatusExpired, StatusFraud, StatusRefunded} {
		if !s.IsTerminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	for _, s := range []TransactionStatus{StatusCart, StatusPending, StatusChallenge} {
		if s.IsTerminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
	if TransactionStatus("bogus").IsValid() {
		t.Fatalf("unknown status reported valid")
	}
}

func TestSourcesFor(t *testing.T) {
	got := SourcesFor(StatusPaid)
	want := map[TransactionStatus]bool{StatusCart: true, StatusPending: true, StatusChallenge: true}
	if len(got) != len(want) {
		t.Fatalf("SourcesFor(paid) = %v", got)
	}
	for _, s := range got {
		if !want[s] {
			t.Fatalf("unexpected source %s for paid", s)
		}
	}

	// pending is only reachable from cart; a paid order can never be a source.
	for _, s := range SourcesFor(StatusPending) {
		if s == StatusPaid {
			t.Fatalf("paid must not be a source for pending")
		}
	}
}
