package worker

import (
	"testing"
	"time"
)

func TestDailyQuotaLazyInit(t *testing.T) {
	q := NewDailyQuota()
	if got := q.Count(42); got != 0 {
		t.Errorf("fresh sender should count 0, got %d", got)
	}

	q.Increment(42)
	q.Increment(42)
	if got := q.Count(42); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := q.Count(7); got != 0 {
		t.Errorf("counters must be per sender, got %d", got)
	}
}

func TestDailyQuotaResetsOnNewDay(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 50, 0, 0, time.UTC)
	q := NewDailyQuota()
	q.now = func() time.Time { return now }

	q.Increment(1)
	q.Increment(1)
	if got := q.Count(1); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}

	// Cross UTC midnight.
	now = now.Add(time.Hour)
	if got := q.Count(1); got != 0 {
		t.Errorf("count must reset on a new day, got %d", got)
	}

	q.Increment(1)
	if got := q.Count(1); got != 1 {
		t.Errorf("expected 1 after reset plus increment, got %d", got)
	}
}

func TestDailyQuotaIncrementAfterRollover(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	q := NewDailyQuota()
	q.now = func() time.Time { return now }

	q.Increment(1)
	now = now.Add(24 * time.Hour)

	// Increment on a stale entry starts a fresh day at 1.
	q.Increment(1)
	if got := q.Count(1); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}
