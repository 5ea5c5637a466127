package drill

import (
	"fmt"
)

// PhaseItemResult is one item's outcome within a test phase.
type PhaseItemResult struct {
	ItemID  int64 `json:"item_id"`
	Correct bool  `json:"correct"`
}

// PhaseQuota names a phase and how many items it draws from the pool.
type PhaseQuota struct {
	Phase string
	Count int
}

// InsufficientPoolError reports that the combined phase quotas exceed
// the available item pool. Detected before any phase starts.
type InsufficientPoolError struct {
	Required  int
	Available int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("drill: test needs %d items but only %d available (short %d)",
		e.Required, e.Available, e.Required-e.Available)
}

// Shortfall returns how many items are missing.
func (e *InsufficientPoolError) Shortfall() int {
	return e.Required - e.Available
}

// PartitionPool assigns items from an already-shuffled pool to phases
// with no duplicates, consuming the pool greedily in quota order.
func PartitionPool(pool []Item, quotas []PhaseQuota) (map[string][]Item, error) {
	required := 0
	for _, q := range quotas {
		required += q.Count
	}
	if required > len(pool) {
		return nil, &InsufficientPoolError{Required: required, Available: len(pool)}
	}

	phases := make(map[string][]Item, len(quotas))
	used := 0
	for _, q := range quotas {
		phases[q.Phase] = pool[used : used+q.Count]
		used += q.Count
	}
	return phases, nil
}

// PhaseScore aggregates one phase's results.
type PhaseScore struct {
	Phase      string  `json:"phase"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// TestSummary is the overall report across all phases.
type TestSummary struct {
	Phases       []PhaseScore `json:"phases"`
	TotalCorrect int          `json:"total_correct"`
	TotalItems   int          `json:"total_items"`
	OverallScore float64      `json:"overall_score"`
	Grade        string       `json:"grade"`
	Strongest    string       `json:"strongest"`
	Weakest      string       `json:"weakest"`
}

// PhaseCompleteFunc is invoked by a TestFlow as each phase reports its
// results. Injected per flow so phases never need to know who is
// orchestrating them.
type PhaseCompleteFunc func(phase string, results []PhaseItemResult)

// TestFlow sequences drill phases over disjoint item subsets and
// combines their outcomes into one report.
type TestFlow struct {
	order      []string
	phaseItems map[string][]Item
	results    map[string][]PhaseItemResult
	current    int
	onComplete PhaseCompleteFunc
}

// NewTestFlow partitions the shuffled pool across the quotas and
// prepares the phase sequence. Returns *InsufficientPoolError when the
// pool cannot fill the quotas.
func NewTestFlow(pool []Item, quotas []PhaseQuota, onComplete PhaseCompleteFunc) (*TestFlow, error) {
	phases, err := PartitionPool(pool, quotas)
	if err != nil {
		return nil, err
	}

	order := make([]string, len(quotas))
	for i, q := range quotas {
		order[i] = q.Phase
	}

	return &TestFlow{
		order:      order,
		phaseItems: phases,
		results:    make(map[string][]PhaseItemResult, len(quotas)),
		onComplete: onComplete,
	}, nil
}

// CurrentPhase returns the active phase name and its items, or ok=false
// when all phases are done.
func (f *TestFlow) CurrentPhase() (phase string, items []Item, ok bool) {
	if f.current >= len(f.order) {
		return "", nil, false
	}
	phase = f.order[f.current]
	return phase, f.phaseItems[phase], true
}

// CompletePhase records the active phase's results and advances.
func (f *TestFlow) CompletePhase(results []PhaseItemResult) error {
	phase, _, ok := f.CurrentPhase()
	if !ok {
		return fmt.Errorf("drill: all test phases already complete")
	}
	f.results[phase] = results
	f.current++
	if f.onComplete != nil {
		f.onComplete(phase, results)
	}
	return nil
}

// IsComplete reports whether every phase has reported.
func (f *TestFlow) IsComplete() bool {
	return f.current >= len(f.order)
}

// Summary computes the final report. Valid once IsComplete is true, but
// safe to call at any point for a partial view.
func (f *TestFlow) Summary() TestSummary {
	summary := TestSummary{
		Phases: make([]PhaseScore, 0, len(f.order)),
	}

	for _, phase := range f.order {
		results := f.results[phase]
		correct := 0
		for _, r := range results {
			if r.Correct {
				correct++
			}
		}
		score := PhaseScore{
			Phase:   phase,
			Correct: correct,
			Total:   len(results),
		}
		if score.Total > 0 {
			score.Percentage = float64(score.Correct) / float64(score.Total) * 100
		}
		summary.Phases = append(summary.Phases, score)
		summary.TotalCorrect += score.Correct
		summary.TotalItems += score.Total
	}

	if summary.TotalItems > 0 {
		summary.OverallScore = float64(summary.TotalCorrect) / float64(summary.TotalItems) * 100
	}
	summary.Grade = LetterGrade(summary.OverallScore)

	var best, worst float64
	for i, score := range summary.Phases {
		if i == 0 || score.Percentage > best {
			best = score.Percentage
			summary.Strongest = score.Phase
		}
		if i == 0 || score.Percentage < worst {
			worst = score.Percentage
			summary.Weakest = score.Phase
		}
	}

	return summary
}

// LetterGrade maps an overall 0-100 score to a letter grade.
func LetterGrade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
