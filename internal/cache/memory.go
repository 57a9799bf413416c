package cache

import (
	"context"
	"sync"
	"time"

	"github.com/adriaway/booking/internal/domain"
)

type entry struct {
	slots     []domain.TimeSlot
	timestamp time.Time
}

// Memory is a process-local SlotCache. A mutex keeps it safe when several
// widget sessions request the same date/route/type concurrently. Expired
// entries are evicted lazily on the next read of that key.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory builds a cache with the given TTL. A nil now falls back to
// time.Now; tests inject a fixed clock.
func NewMemory(ttl time.Duration, now func() time.Time) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

func (m *Memory) Get(_ context.Context, date time.Time, routeID string, tourType domain.TourType) ([]domain.TimeSlot, bool) {
	key := Key(date, routeID, tourType)

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}

	if m.now().Sub(e.timestamp) >= m.ttl {
		delete(m.entries, key)
		return nil, false
	}

	return e.slots, true
}

func (m *Memory) Set(_ context.Context, date time.Time, routeID string, tourType domain.TourType, slots []domain.TimeSlot) {
	key := Key(date, routeID, tourType)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{
		slots:     slots,
		timestamp: m.now(),
	}
}

func (m *Memory) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]entry)
}
