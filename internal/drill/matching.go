package drill

// PairProgress tracks one prompt/answer pair across matching rounds.
type PairProgress struct {
	CorrectOnFirstTry bool // matched without any wrong attempt in its round
	WrongThisRound    bool // mismatched at least once in the current round
	NeedsRetry        bool // historical flag, preserved across rounds for stats
}

// MatchSession drives the matching game: pairs are played in rounds of
// up to RoundSize; pairs not matched first-try are recycled into the
// next round until every pair has a clean first-try match. In test mode
// the game is a single round.
type MatchSession struct {
	pairs     []Item
	progress  map[int64]*PairProgress
	round     int
	testMode  bool
	completed bool

	// RoundSize caps how many pairs appear per round.
	RoundSize int
}

// NewMatchSession creates a matching session over the given pairs.
// Returns ErrNoItems when pairs is empty.
func NewMatchSession(pairs []Item, testMode bool) (*MatchSession, error) {
	if len(pairs) == 0 {
		return nil, ErrNoItems
	}
	m := &MatchSession{
		pairs:     pairs,
		progress:  make(map[int64]*PairProgress, len(pairs)),
		testMode:  testMode,
		RoundSize: 5,
	}
	for _, p := range pairs {
		m.progress[p.ID] = &PairProgress{}
	}
	return m, nil
}

// Round returns the zero-based round counter.
func (m *MatchSession) Round() int {
	return m.round
}

// RoundPairs selects the pairs for the current round: every pair on the
// first round (and in test mode), otherwise only pairs still lacking a
// first-try match.
func (m *MatchSession) RoundPairs() []Item {
	available := m.pairs
	if !m.testMode && m.round > 0 {
		available = make([]Item, 0, len(m.pairs))
		for _, p := range m.pairs {
			prog := m.progress[p.ID]
			if prog.NeedsRetry || !prog.CorrectOnFirstTry {
				available = append(available, p)
			}
		}
	}
	if len(available) > m.RoundSize {
		available = available[:m.RoundSize]
	}
	return available
}

// MatchResult classifies a resolved pairing for score coloring.
type MatchResult string

const (
	MatchFirstTry MatchResult = "first_try"
	MatchRetry    MatchResult = "retry"
	MatchWrong    MatchResult = "wrong"
)

// RecordMatch applies a correct pairing for pairID and classifies it.
func (m *MatchSession) RecordMatch(pairID int64) MatchResult {
	prog, ok := m.progress[pairID]
	if !ok {
		return MatchWrong
	}
	if prog.WrongThisRound {
		prog.NeedsRetry = true
		return MatchRetry
	}
	prog.CorrectOnFirstTry = true
	prog.NeedsRetry = false
	return MatchFirstTry
}

// RecordMismatch applies an incorrect pairing between two pairs. Both
// involved pairs are flagged wrong for the current round.
func (m *MatchSession) RecordMismatch(leftPairID, rightPairID int64) {
	for _, id := range []int64{leftPairID, rightPairID} {
		if prog, ok := m.progress[id]; ok {
			prog.WrongThisRound = true
			prog.NeedsRetry = true
		}
	}
}

// AdvanceRound transitions to the next round after all visible pairs
// resolved. Pairs without a first-try match get a clean shot: their
// wrong-this-round flag resets while the historical retry flag stays.
// Returns false when the session is complete instead of advancing:
// every pair matched first-try, or the single test-mode round is done.
func (m *MatchSession) AdvanceRound() bool {
	if m.testMode || m.allFirstTry() {
		m.completed = true
		return false
	}
	for _, prog := range m.progress {
		if !prog.CorrectOnFirstTry {
			prog.WrongThisRound = false
		}
	}
	m.round++
	return true
}

// IsComplete reports whether the session has finished.
func (m *MatchSession) IsComplete() bool {
	return m.completed || m.allFirstTry()
}

func (m *MatchSession) allFirstTry() bool {
	for _, prog := range m.progress {
		if !prog.CorrectOnFirstTry {
			return false
		}
	}
	return true
}

// Progress returns the progress record for a pair id, or nil.
func (m *MatchSession) Progress(pairID int64) *PairProgress {
	return m.progress[pairID]
}

// Results converts the session into per-item outcomes: a pair counts as
// correct when it never needed a retry.
func (m *MatchSession) Results() []PhaseItemResult {
	results := make([]PhaseItemResult, 0, len(m.pairs))
	for _, p := range m.pairs {
		prog := m.progress[p.ID]
		results = append(results, PhaseItemResult{
			ItemID:  p.ID,
			Correct: prog.CorrectOnFirstTry && !prog.NeedsRetry,
		})
	}
	return results
}
