package worker

import (
	"sync"
	"time"
)

// QuotaTracker is the per-sender daily send ledger the dispatcher consults
// before every send. Implementations count sends per user per calendar day.
type QuotaTracker interface {
	Count(userID uint) int
	Increment(userID uint)
}

type quotaEntry struct {
	count int
	day   string
}

// DailyQuota is the in-process QuotaTracker. Entries are created lazily and
// reset the first time they are touched on a new day. Days roll over at UTC
// midnight. Counts are not persisted: a restart starts every sender from
// zero, which under-counts but never over-blocks.
type DailyQuota struct {
	mu      sync.Mutex
	entries map[uint]*quotaEntry

	// now is replaceable in tests.
	now func() time.Time
}

func NewDailyQuota() *DailyQuota {
	return &DailyQuota{
		entries: make(map[uint]*quotaEntry),
		now:     time.Now,
	}
}

func (q *DailyQuota) today() string {
	return q.now().UTC().Format("2006-01-02")
}

// Count returns the sends recorded for the user today.
func (q *DailyQuota) Count(userID uint) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	today := q.today()
	entry, ok := q.entries[userID]
	if !ok || entry.day != today {
		q.entries[userID] = &quotaEntry{day: today}
		return 0
	}
	return entry.count
}

// Increment records one send for the user today.
func (q *DailyQuota) Increment(userID uint) {
	q.mu.Lock()
	defer q.mu.Unlock()

	today := q.today()
	entry, ok := q.entries[userID]
	if !ok || entry.day != today {
		q.entries[userID] = &quotaEntry{count: 1, day: today}
		return
	}
	entry.count++
}
