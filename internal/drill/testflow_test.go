package drill

import (
	"errors"
	"testing"
)

func TestPartitionPoolDisjoint(t *testing.T) {
	pool := testItems(15)
	quotas := []PhaseQuota{
		{Phase: "multiple_choice", Count: 4},
		{Phase: "matching", Count: 5},
		{Phase: "writing", Count: 3},
		{Phase: "fill_gaps", Count: 3},
	}

	phases, err := PartitionPool(pool, quotas)
	if err != nil {
		t.Fatalf("PartitionPool() error = %v", err)
	}

	seen := make(map[int64]string)
	total := 0
	for phase, items := range phases {
		for _, item := range items {
			if prev, dup := seen[item.ID]; dup {
				t.Errorf("id %d assigned to both %s and %s", item.ID, prev, phase)
			}
			seen[item.ID] = phase
			total++
		}
	}
	if total != 15 || len(seen) != 15 {
		t.Errorf("partition covers %d items (%d unique), want 15", total, len(seen))
	}
	for _, q := range quotas {
		if got := len(phases[q.Phase]); got != q.Count {
			t.Errorf("phase %s has %d items, want %d", q.Phase, got, q.Count)
		}
	}
}

func TestPartitionPoolInsufficient(t *testing.T) {
	pool := testItems(10)
	quotas := []PhaseQuota{
		{Phase: "multiple_choice", Count: 6},
		{Phase: "writing", Count: 7},
	}

	_, err := PartitionPool(pool, quotas)
	var poolErr *InsufficientPoolError
	if !errors.As(err, &poolErr) {
		t.Fatalf("PartitionPool() error = %v, want InsufficientPoolError", err)
	}
	if poolErr.Shortfall() != 3 {
		t.Errorf("Shortfall() = %d, want 3", poolErr.Shortfall())
	}
}

func TestLetterGradeBoundaries(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{score: 100, expected: "A"},
		{score: 90.0, expected: "A"},
		{score: 89.999, expected: "B"},
		{score: 80.0, expected: "B"},
		{score: 79.999, expected: "C"},
		{score: 70.0, expected: "C"},
		{score: 69.999, expected: "D"},
		{score: 60.0, expected: "D"},
		{score: 59.999, expected: "F"},
		{score: 0, expected: "F"},
	}

	for _, tt := range tests {
		if got := LetterGrade(tt.score); got != tt.expected {
			t.Errorf("LetterGrade(%v) = %s, want %s", tt.score, got, tt.expected)
		}
	}
}

func TestTestFlowPhaseSequencing(t *testing.T) {
	pool := testItems(6)
	quotas := []PhaseQuota{
		{Phase: "multiple_choice", Count: 3},
		{Phase: "writing", Count: 3},
	}

	var notified []string
	flow, err := NewTestFlow(pool, quotas, func(phase string, results []PhaseItemResult) {
		notified = append(notified, phase)
	})
	if err != nil {
		t.Fatalf("NewTestFlow() error = %v", err)
	}

	phase, items, ok := flow.CurrentPhase()
	if !ok || phase != "multiple_choice" || len(items) != 3 {
		t.Fatalf("CurrentPhase() = %s/%d items/%v, want multiple_choice/3/true", phase, len(items), ok)
	}

	results := []PhaseItemResult{
		{ItemID: items[0].ID, Correct: true},
		{ItemID: items[1].ID, Correct: true},
		{ItemID: items[2].ID, Correct: false},
	}
	if err := flow.CompletePhase(results); err != nil {
		t.Fatalf("CompletePhase() error = %v", err)
	}

	phase, items, ok = flow.CurrentPhase()
	if !ok || phase != "writing" {
		t.Fatalf("CurrentPhase() after first phase = %s/%v, want writing/true", phase, ok)
	}
	results = []PhaseItemResult{
		{ItemID: items[0].ID, Correct: true},
		{ItemID: items[1].ID, Correct: false},
		{ItemID: items[2].ID, Correct: false},
	}
	if err := flow.CompletePhase(results); err != nil {
		t.Fatalf("CompletePhase() error = %v", err)
	}

	if !flow.IsComplete() {
		t.Error("IsComplete() = false after all phases")
	}
	if err := flow.CompletePhase(nil); err == nil {
		t.Error("CompletePhase() on finished flow returned nil error")
	}
	if len(notified) != 2 || notified[0] != "multiple_choice" || notified[1] != "writing" {
		t.Errorf("completion notifications = %v, want [multiple_choice writing]", notified)
	}

	summary := flow.Summary()
	if summary.TotalCorrect != 3 || summary.TotalItems != 6 {
		t.Errorf("summary totals = %d/%d, want 3/6", summary.TotalCorrect, summary.TotalItems)
	}
	if summary.OverallScore != 50 {
		t.Errorf("OverallScore = %v, want 50", summary.OverallScore)
	}
	if summary.Grade != "F" {
		t.Errorf("Grade = %s, want F", summary.Grade)
	}
	if summary.Strongest != "multiple_choice" || summary.Weakest != "writing" {
		t.Errorf("strongest/weakest = %s/%s, want multiple_choice/writing",
			summary.Strongest, summary.Weakest)
	}
}

func TestTestFlowEmptyPhasePercentage(t *testing.T) {
	flow, err := NewTestFlow(testItems(2), []PhaseQuota{
		{Phase: "multiple_choice", Count: 2},
		{Phase: "fill_gaps", Count: 0},
	}, nil)
	if err != nil {
		t.Fatalf("NewTestFlow() error = %v", err)
	}

	_, items, _ := flow.CurrentPhase()
	flow.CompletePhase([]PhaseItemResult{
		{ItemID: items[0].ID, Correct: true},
		{ItemID: items[1].ID, Correct: true},
	})
	flow.CompletePhase(nil)

	summary := flow.Summary()
	for _, score := range summary.Phases {
		if score.Phase == "fill_gaps" && score.Percentage != 0 {
			t.Errorf("empty phase percentage = %v, want 0", score.Percentage)
		}
	}
	if summary.OverallScore != 100 || summary.Grade != "A" {
		t.Errorf("summary = %v%%/%s, want 100/A", summary.OverallScore, summary.Grade)
	}
}
