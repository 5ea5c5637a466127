package drill

import (
	"testing"
)

func TestNewMatchSessionEmpty(t *testing.T) {
	_, err := NewMatchSession(nil, false)
	if err != ErrNoItems {
		t.Errorf("NewMatchSession(nil) error = %v, want ErrNoItems", err)
	}
}

func TestMatchFirstTryClassification(t *testing.T) {
	m, err := NewMatchSession(testItems(3), false)
	if err != nil {
		t.Fatalf("NewMatchSession() error = %v", err)
	}

	if got := m.RecordMatch(1); got != MatchFirstTry {
		t.Errorf("RecordMatch(1) = %s, want first_try", got)
	}
	prog := m.Progress(1)
	if !prog.CorrectOnFirstTry || prog.NeedsRetry {
		t.Errorf("pair 1 progress = %+v, want clean first-try", *prog)
	}
}

func TestMatchRetryClassification(t *testing.T) {
	m, err := NewMatchSession(testItems(3), false)
	if err != nil {
		t.Fatalf("NewMatchSession() error = %v", err)
	}

	// Mispair 1 with 2, then match 1 correctly: retry, not first-try.
	m.RecordMismatch(1, 2)
	if got := m.RecordMatch(1); got != MatchRetry {
		t.Errorf("RecordMatch(1) after mismatch = %s, want retry", got)
	}

	prog := m.Progress(1)
	if prog.CorrectOnFirstTry {
		t.Error("pair 1 marked first-try despite earlier mismatch")
	}
	if !prog.NeedsRetry {
		t.Error("pair 1 NeedsRetry = false after retry match")
	}

	// Pair 2 was only a bystander of the mismatch but is tainted too.
	if !m.Progress(2).WrongThisRound {
		t.Error("pair 2 WrongThisRound = false after being mispaired")
	}
}

func TestMatchRoundRecycling(t *testing.T) {
	m, err := NewMatchSession(testItems(3), false)
	if err != nil {
		t.Fatalf("NewMatchSession() error = %v", err)
	}

	// Round 0: pair 1 clean, pairs 2 and 3 mismatched then retried.
	m.RecordMatch(1)
	m.RecordMismatch(2, 3)
	m.RecordMatch(2)
	m.RecordMatch(3)

	if m.IsComplete() {
		t.Fatal("session complete with pairs still lacking first-try matches")
	}
	if !m.AdvanceRound() {
		t.Fatal("AdvanceRound() = false with unresolved pairs")
	}

	// New round: wrong flags reset, retry history preserved.
	for _, id := range []int64{2, 3} {
		prog := m.Progress(id)
		if prog.WrongThisRound {
			t.Errorf("pair %d WrongThisRound not reset for new round", id)
		}
		if !prog.NeedsRetry {
			t.Errorf("pair %d retry history lost across rounds", id)
		}
	}

	// Only unresolved pairs come back.
	pairs := m.RoundPairs()
	if len(pairs) != 2 {
		t.Fatalf("RoundPairs() = %d pairs in round 1, want 2", len(pairs))
	}
	for _, p := range pairs {
		if p.ID == 1 {
			t.Error("first-try pair recycled into new round")
		}
	}

	// Clean matches this round finish the session.
	m.RecordMatch(2)
	m.RecordMatch(3)
	if !m.IsComplete() {
		t.Error("session not complete after every pair matched first-try")
	}
}

func TestMatchRoundSizeCap(t *testing.T) {
	m, err := NewMatchSession(testItems(8), false)
	if err != nil {
		t.Fatalf("NewMatchSession() error = %v", err)
	}
	if got := len(m.RoundPairs()); got != 5 {
		t.Errorf("RoundPairs() = %d pairs, want cap of 5", got)
	}
}

func TestMatchTestModeSingleRound(t *testing.T) {
	m, err := NewMatchSession(testItems(3), true)
	if err != nil {
		t.Fatalf("NewMatchSession() error = %v", err)
	}

	m.RecordMatch(1)
	m.RecordMismatch(2, 3)
	m.RecordMatch(2)
	m.RecordMatch(3)

	if m.AdvanceRound() {
		t.Error("AdvanceRound() = true in test mode, want single round")
	}
	if !m.IsComplete() {
		t.Error("test-mode session not complete after its round")
	}

	results := m.Results()
	byID := make(map[int64]bool, len(results))
	for _, r := range results {
		byID[r.ItemID] = r.Correct
	}
	if !byID[1] {
		t.Error("pair 1 result = wrong, want correct (clean first-try)")
	}
	if byID[2] {
		t.Error("pair 2 result = correct despite a mismatch")
	}
}
