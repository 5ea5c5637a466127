package service

import "testing"

func TestDefaultQuotasEvenSplit(t *testing.T) {
	quotas := DefaultQuotas(20)
	if len(quotas) != 4 {
		t.Fatalf("Expected 4 phases, got %d", len(quotas))
	}
	for _, q := range quotas {
		if q.Count != 5 {
			t.Errorf("Phase %s: expected count 5, got %d", q.Phase, q.Count)
		}
	}
}

func TestDefaultQuotasRemainderToEarlyPhases(t *testing.T) {
	quotas := DefaultQuotas(10)

	total := 0
	for _, q := range quotas {
		total += q.Count
	}
	if total != 10 {
		t.Errorf("Expected quotas to cover the full pool, got %d", total)
	}

	// 10 over 4 phases: 3, 3, 2, 2
	expected := []int{3, 3, 2, 2}
	for i, q := range quotas {
		if q.Count != expected[i] {
			t.Errorf("Phase %d (%s): expected count %d, got %d", i, q.Phase, expected[i], q.Count)
		}
	}
}

func TestDefaultQuotasTinyPool(t *testing.T) {
	quotas := DefaultQuotas(2)

	total := 0
	for _, q := range quotas {
		total += q.Count
	}
	if total != 2 {
		t.Errorf("Expected quotas to cover the full pool, got %d", total)
	}
	if quotas[0].Count != 1 || quotas[1].Count != 1 {
		t.Errorf("Expected first two phases to take one item each, got %+v", quotas)
	}
	if quotas[2].Count != 0 || quotas[3].Count != 0 {
		t.Errorf("Expected later phases to be empty, got %+v", quotas)
	}
}
