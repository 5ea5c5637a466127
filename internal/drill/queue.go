package drill

import (
	"errors"
	"math/rand"
	"time"
)

// ErrNoItems is returned when a queue is created with no items.
// Callers should treat this as a "no content" condition, not a failure.
var ErrNoItems = errors.New("drill: no items to study")

// Mode determines how items retire from the queue.
type Mode string

const (
	// ModePractice keeps an item in rotation until it is answered correctly.
	ModePractice Mode = "practice"
	// ModeTest presents every item exactly once, correct or not.
	ModeTest Mode = "test"
)

// Item is a single unit of study content. The queue treats ID as an
// opaque stable key and never inspects the texts.
type Item struct {
	ID        int64
	FrontText string
	BackText  string
}

// ItemStatus tracks per-item progress within a single session.
type ItemStatus struct {
	Known    bool // answered correctly at least once this session
	Attempts int  // number of incorrect answers this session
}

// KnownOnFirstTry reports whether the item was retired without any
// wrong answers.
func (s ItemStatus) KnownOnFirstTry() bool {
	return s.Known && s.Attempts == 0
}

// Queue is the adaptive session engine shared by all study modes.
// It serves one item at a time; wrong answers are re-queued a few
// positions ahead so they come back soon but not immediately.
//
// Queue is not safe for concurrent use. Each session owns its own
// instance.
type Queue struct {
	mode      Mode
	original  []Item
	remaining []Item
	status    map[int64]*ItemStatus
	index     int
	rng       *rand.Rand
	minAhead  int
	maxAhead  int
}

// Option configures a Queue.
type Option func(*Queue)

// WithRand injects a deterministic random source. Used by tests; the
// default source is seeded from the clock.
func WithRand(rng *rand.Rand) Option {
	return func(q *Queue) {
		q.rng = rng
	}
}

// WithReinsertBand overrides how far ahead (in positions) a wrongly
// answered item is re-queued. The default band is 3 to 5.
func WithReinsertBand(min, max int) Option {
	return func(q *Queue) {
		if min < 1 {
			min = 1
		}
		if max < min {
			max = min
		}
		q.minAhead = min
		q.maxAhead = max
	}
}

// NewQueue creates a session queue over a shuffled copy of items.
// Returns ErrNoItems when items is empty.
func NewQueue(items []Item, mode Mode, opts ...Option) (*Queue, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	q := &Queue{
		mode:     mode,
		original: make([]Item, len(items)),
		status:   make(map[int64]*ItemStatus, len(items)),
		minAhead: 3,
		maxAhead: 5,
	}
	copy(q.original, items)

	for _, opt := range opts {
		opt(q)
	}
	if q.rng == nil {
		q.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	q.reset()
	return q, nil
}

// reset reshuffles the original items and clears all session state.
func (q *Queue) reset() {
	q.remaining = make([]Item, len(q.original))
	copy(q.remaining, q.original)
	q.rng.Shuffle(len(q.remaining), func(i, j int) {
		q.remaining[i], q.remaining[j] = q.remaining[j], q.remaining[i]
	})

	for _, item := range q.original {
		q.status[item.ID] = &ItemStatus{}
	}
	q.index = 0
}

// Restart reshuffles all original items and resets every status.
func (q *Queue) Restart() {
	q.reset()
}

// Current returns the item to present next, or nil when the session
// is complete.
func (q *Queue) Current() *Item {
	if len(q.remaining) == 0 {
		return nil
	}
	item := q.remaining[q.index]
	return &item
}

// IsComplete reports whether every item has retired.
func (q *Queue) IsComplete() bool {
	return len(q.remaining) == 0
}

// Remaining returns the number of items still in rotation.
func (q *Queue) Remaining() int {
	return len(q.remaining)
}

// Status returns the session status for an item id, or nil if the id
// was never part of this session.
func (q *Queue) Status(itemID int64) *ItemStatus {
	return q.status[itemID]
}

// Statuses returns the full status map. The map is live session state;
// callers read it for end-of-session statistics.
func (q *Queue) Statuses() map[int64]*ItemStatus {
	return q.status
}

// Submit applies an answer result for the given item and advances the
// queue. Submitting an id that is not the current item (or not in the
// session at all) is ignored; the queue state is never corrupted by a
// stray submission.
func (q *Queue) Submit(itemID int64, correct bool) {
	if len(q.remaining) == 0 {
		return
	}
	current := q.remaining[q.index]
	if current.ID != itemID {
		return
	}
	status, ok := q.status[itemID]
	if !ok {
		return
	}

	if correct {
		status.Known = true
		q.retireCurrent()
		return
	}

	status.Attempts++
	if q.mode == ModeTest {
		// Assessment is a single pass: one presentation per item.
		q.retireCurrent()
		return
	}
	q.reinsertCurrent()
}

// retireCurrent removes the item at the current index permanently. The
// index then points at the next item, wrapping to the front when the
// tail retires.
func (q *Queue) retireCurrent() {
	q.remaining = append(q.remaining[:q.index], q.remaining[q.index+1:]...)
	if q.index >= len(q.remaining) {
		q.index = 0
	}
}

// reinsertCurrent moves the current item 3-5 positions ahead, clamped
// to the end of the sequence. Removing the current item slides the
// following item into the current index, so the index is left alone
// unless the clamped insertion put the failed item straight back there
// (it was at the tail); then the index advances, wrapping to 0. With a
// single remaining item the wrap re-presents it immediately.
func (q *Queue) reinsertCurrent() {
	item := q.remaining[q.index]
	rest := append(q.remaining[:q.index], q.remaining[q.index+1:]...)

	ahead := q.minAhead + q.rng.Intn(q.maxAhead-q.minAhead+1)
	pos := q.index + ahead
	if pos > len(rest) {
		pos = len(rest)
	}

	q.remaining = append(rest[:pos:pos], append([]Item{item}, rest[pos:]...)...)

	if pos == q.index {
		if q.index < len(q.remaining)-1 {
			q.index++
		} else {
			q.index = 0
		}
	}
}

// KnownCount returns how many items have been answered correctly so far.
func (q *Queue) KnownCount() int {
	count := 0
	for _, s := range q.status {
		if s.Known {
			count++
		}
	}
	return count
}

// AttemptTotal returns the total number of wrong answers this session.
func (q *Queue) AttemptTotal() int {
	total := 0
	for _, s := range q.status {
		total += s.Attempts
	}
	return total
}
