package cache

import (
	"context"
	"testing"
	"time"

	"github.com/adriaway/booking/internal/domain"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestKey_Format(t *testing.T) {
	date := time.Date(2026, time.July, 10, 14, 30, 0, 0, time.UTC)
	got := Key(date, "blue-lagoon-trogir", domain.TourPrivate)
	want := "2026-07-10-blue-lagoon-trogir-private"
	if got != want {
		t.Fatalf("Key = %q, want %q", got, want)
	}
}

func TestMemory_HitWithinTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, time.July, 10, 12, 0, 0, 0, time.UTC)}
	c := NewMemory(5*time.Minute, clock.now)
	ctx := context.Background()
	date := time.Date(2026, time.July, 11, 0, 0, 0, 0, time.UTC)

	slots := []domain.TimeSlot{{ID: "s1"}, {ID: "s2"}}
	c.Set(ctx, date, "blue-cave-vis", domain.TourGroup, slots)

	clock.advance(4 * time.Minute)

	got, ok := c.Get(ctx, date, "blue-cave-vis", domain.TourGroup)
	if !ok {
		t.Fatal("expected cache hit within TTL")
	}
	if len(got) != 2 || got[0].ID != "s1" {
		t.Fatalf("got %v", got)
	}
}

func TestMemory_ExpiresAtTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, time.July, 10, 12, 0, 0, 0, time.UTC)}
	c := NewMemory(5*time.Minute, clock.now)
	ctx := context.Background()
	date := time.Date(2026, time.July, 11, 0, 0, 0, 0, time.UTC)

	c.Set(ctx, date, "blue-cave-vis", domain.TourGroup, []domain.TimeSlot{{ID: "s1"}})

	// Exactly at the TTL the entry is already stale.
	clock.advance(5 * time.Minute)

	if _, ok := c.Get(ctx, date, "blue-cave-vis", domain.TourGroup); ok {
		t.Fatal("expected cache miss at TTL boundary")
	}
}

func TestMemory_MissOnDifferentKey(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, time.July, 10, 12, 0, 0, 0, time.UTC)}
	c := NewMemory(5*time.Minute, clock.now)
	ctx := context.Background()
	date := time.Date(2026, time.July, 11, 0, 0, 0, 0, time.UTC)

	c.Set(ctx, date, "blue-cave-vis", domain.TourGroup, []domain.TimeSlot{{ID: "s1"}})

	if _, ok := c.Get(ctx, date, "blue-cave-vis", domain.TourPrivate); ok {
		t.Error("different tour type should miss")
	}
	if _, ok := c.Get(ctx, date.AddDate(0, 0, 1), "blue-cave-vis", domain.TourGroup); ok {
		t.Error("different date should miss")
	}
}

func TestMemory_EmptySliceIsCached(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, time.July, 10, 12, 0, 0, 0, time.UTC)}
	c := NewMemory(5*time.Minute, clock.now)
	ctx := context.Background()
	date := time.Date(2026, time.July, 11, 0, 0, 0, 0, time.UTC)

	// A fully booked day caches as an empty result, not a miss.
	c.Set(ctx, date, "blue-cave-vis", domain.TourGroup, []domain.TimeSlot{})

	got, ok := c.Get(ctx, date, "blue-cave-vis", domain.TourGroup)
	if !ok {
		t.Fatal("expected hit for cached empty result")
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestMemory_Clear(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, time.July, 10, 12, 0, 0, 0, time.UTC)}
	c := NewMemory(5*time.Minute, clock.now)
	ctx := context.Background()
	date := time.Date(2026, time.July, 11, 0, 0, 0, 0, time.UTC)

	c.Set(ctx, date, "blue-cave-vis", domain.TourGroup, []domain.TimeSlot{{ID: "s1"}})
	c.Clear(ctx)

	if _, ok := c.Get(ctx, date, "blue-cave-vis", domain.TourGroup); ok {
		t.Fatal("expected miss after Clear")
	}
}
