package drill

import (
	"math/rand"
	"testing"
)

func testItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{ID: int64(i + 1), FrontText: "front", BackText: "back"}
	}
	return items
}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestNewQueueEmptyInput(t *testing.T) {
	_, err := NewQueue(nil, ModePractice)
	if err != ErrNoItems {
		t.Errorf("NewQueue(nil) error = %v, want ErrNoItems", err)
	}
}

func TestNewQueueShuffleIsPermutation(t *testing.T) {
	for _, n := range []int{1, 2, 5, 20} {
		q, err := NewQueue(testItems(n), ModePractice, WithRand(testRand()))
		if err != nil {
			t.Fatalf("NewQueue(%d items) error = %v", n, err)
		}

		seen := make(map[int64]int)
		for _, item := range q.remaining {
			seen[item.ID]++
		}
		if len(seen) != n {
			t.Errorf("n=%d: queue holds %d unique ids, want %d", n, len(seen), n)
		}
		for id, count := range seen {
			if count != 1 {
				t.Errorf("n=%d: id %d appears %d times", n, id, count)
			}
		}
	}
}

func TestQueueAllCorrectShrinksToEmpty(t *testing.T) {
	const n = 7
	q, err := NewQueue(testItems(n), ModePractice, WithRand(testRand()))
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	for i := 0; i < n; i++ {
		if q.IsComplete() {
			t.Fatalf("IsComplete() = true after %d of %d submissions", i, n)
		}
		if got := q.Remaining(); got != n-i {
			t.Fatalf("Remaining() = %d before submission %d, want %d", got, i+1, n-i)
		}
		current := q.Current()
		if current == nil {
			t.Fatalf("Current() = nil with %d items left", q.Remaining())
		}
		q.Submit(current.ID, true)
	}

	if !q.IsComplete() {
		t.Error("IsComplete() = false after all items answered correctly")
	}
	if q.Current() != nil {
		t.Error("Current() != nil on complete queue")
	}
	if got := q.KnownCount(); got != n {
		t.Errorf("KnownCount() = %d, want %d", got, n)
	}
}

func TestQueueWrongAnswerReinsertsWithinBand(t *testing.T) {
	const n = 10
	q, err := NewQueue(testItems(n), ModePractice, WithRand(testRand()))
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	current := q.Current()
	q.Submit(current.ID, false)

	if got := q.Remaining(); got != n {
		t.Fatalf("Remaining() = %d after wrong answer, want %d (no item lost)", got, n)
	}

	// The wrong item must sit 3-5 positions after its old slot.
	pos := -1
	for i, item := range q.remaining {
		if item.ID == current.ID {
			pos = i
			break
		}
	}
	if pos < 3 || pos > 5 {
		t.Errorf("reinserted item at position %d, want within [3,5]", pos)
	}

	if next := q.Current(); next.ID == current.ID {
		t.Error("Current() re-presented the item just answered wrong")
	}
	if got := q.Status(current.ID).Attempts; got != 1 {
		t.Errorf("Attempts = %d after one wrong answer, want 1", got)
	}
}

func TestQueueReinsertBandOverride(t *testing.T) {
	q, err := NewQueue(testItems(10), ModePractice, WithRand(testRand()), WithReinsertBand(2, 2))
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	current := q.Current()
	q.Submit(current.ID, false)

	pos := -1
	for i, item := range q.remaining {
		if item.ID == current.ID {
			pos = i
			break
		}
	}
	if pos != 2 {
		t.Errorf("reinserted item at position %d, want 2", pos)
	}
}

func TestQueueSingleItemWrongAnswer(t *testing.T) {
	q, err := NewQueue(testItems(1), ModePractice, WithRand(testRand()))
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	item := q.Current()
	q.Submit(item.ID, false)

	if q.IsComplete() {
		t.Fatal("single item retired on wrong answer in practice mode")
	}
	next := q.Current()
	if next == nil || next.ID != item.ID {
		t.Error("single wrong item not re-presented immediately")
	}

	q.Submit(item.ID, true)
	if !q.IsComplete() {
		t.Error("IsComplete() = false after the only item answered correctly")
	}
	status := q.Status(item.ID)
	if status.KnownOnFirstTry() {
		t.Error("KnownOnFirstTry() = true for an item answered wrong first")
	}
}

func TestQueueWrongAnswerTwoItemsPresentsOther(t *testing.T) {
	q, err := NewQueue(testItems(2), ModePractice, WithRand(testRand()))
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	// With two items a wrong answer must never re-present the same
	// item on the very next draw; the pair alternates.
	for round := 0; round < 4; round++ {
		current := q.Current()
		q.Submit(current.ID, false)
		next := q.Current()
		if next.ID == current.ID {
			t.Fatalf("round %d: id %d re-presented immediately after wrong answer", round, current.ID)
		}
	}
}

func TestQueueWrongAnswerDoesNotSkipFollowingItem(t *testing.T) {
	q, err := NewQueue(testItems(5), ModePractice, WithRand(testRand()))
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	current := q.Current()
	follower := q.remaining[1]
	q.Submit(current.ID, false)

	// The item queued right behind the failed one is up next.
	if next := q.Current(); next.ID != follower.ID {
		t.Errorf("Current() = id %d after wrong answer, want id %d (the following item)", next.ID, follower.ID)
	}
}

func TestQueueWrongAnswerAtTailWrapsToFront(t *testing.T) {
	const n = 4
	q, err := NewQueue(testItems(n), ModePractice, WithRand(testRand()))
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	// Retire all but one item, then fail it: the clamped reinsertion
	// can only land it back at the current slot, and the draw wraps
	// around to it.
	for i := 0; i < n-1; i++ {
		q.Submit(q.Current().ID, true)
	}
	last := q.Current()
	q.Submit(last.ID, false)

	if got := q.Remaining(); got != 1 {
		t.Fatalf("Remaining() = %d, want 1", got)
	}
	if next := q.Current(); next == nil || next.ID != last.ID {
		t.Error("sole remaining item not drawn again after wrap")
	}
}

func TestQueuePreservesMultisetUnderMixedAnswers(t *testing.T) {
	const n = 6
	rng := testRand()
	q, err := NewQueue(testItems(n), ModePractice, WithRand(rng))
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	// Random correct/wrong answers; verify no id duplicated or lost.
	for step := 0; step < 200 && !q.IsComplete(); step++ {
		current := q.Current()
		q.Submit(current.ID, rng.Intn(3) == 0)

		seen := make(map[int64]bool)
		for _, item := range q.remaining {
			if seen[item.ID] {
				t.Fatalf("step %d: id %d duplicated in queue", step, item.ID)
			}
			seen[item.ID] = true
		}
		retired := 0
		for id, status := range q.status {
			if status.Known && seen[id] {
				t.Fatalf("step %d: id %d both retired and queued", step, id)
			}
			if status.Known {
				retired++
			}
		}
		if len(seen)+retired != n {
			t.Fatalf("step %d: %d queued + %d retired != %d items", step, len(seen), retired, n)
		}
	}
	if !q.IsComplete() {
		t.Fatal("queue did not complete within the step limit")
	}
}

func TestQueueTestModeSinglePass(t *testing.T) {
	const n = 5
	q, err := NewQueue(testItems(n), ModeTest, WithRand(testRand()))
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	// Alternate wrong/correct: every item retires after one showing.
	for i := 0; i < n; i++ {
		current := q.Current()
		q.Submit(current.ID, i%2 == 0)
		if got := q.Remaining(); got != n-i-1 {
			t.Fatalf("Remaining() = %d after presentation %d, want %d", got, i+1, n-i-1)
		}
	}

	if !q.IsComplete() {
		t.Error("test-mode queue not complete after one pass")
	}
	if got := q.AttemptTotal(); got != 2 {
		t.Errorf("AttemptTotal() = %d, want 2", got)
	}
}

func TestQueueSubmitUnknownIDIsNoop(t *testing.T) {
	q, err := NewQueue(testItems(3), ModePractice, WithRand(testRand()))
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	before := q.Current().ID
	q.Submit(999, true)

	if got := q.Remaining(); got != 3 {
		t.Errorf("Remaining() = %d after unknown-id submit, want 3", got)
	}
	if q.Current().ID != before {
		t.Error("unknown-id submit changed the current item")
	}
}

func TestQueueRestart(t *testing.T) {
	const n = 4
	q, err := NewQueue(testItems(n), ModePractice, WithRand(testRand()))
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	q.Submit(q.Current().ID, false)
	q.Submit(q.Current().ID, true)
	q.Restart()

	if got := q.Remaining(); got != n {
		t.Errorf("Remaining() = %d after restart, want %d", got, n)
	}
	for id, status := range q.Statuses() {
		if status.Known || status.Attempts != 0 {
			t.Errorf("id %d status = %+v after restart, want zeroed", id, *status)
		}
	}
}

func TestQueueEndToEndAttemptAccounting(t *testing.T) {
	const n = 5
	q, err := NewQueue(testItems(n), ModePractice, WithRand(testRand()))
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	// First submission wrong, then answer everything correctly.
	wrongSubmissions := 1
	q.Submit(q.Current().ID, false)
	for !q.IsComplete() {
		q.Submit(q.Current().ID, true)
	}

	if got := q.AttemptTotal(); got != wrongSubmissions {
		t.Errorf("AttemptTotal() = %d, want %d", got, wrongSubmissions)
	}
	firstTry := 0
	for _, status := range q.Statuses() {
		if status.KnownOnFirstTry() {
			firstTry++
		}
	}
	if firstTry != n-1 {
		t.Errorf("KnownOnFirstTry count = %d, want %d", firstTry, n-1)
	}
}
