package metrics

import (
	"testing"
	"time"
)

func TestWindowExpiresOnlyAfterMaxAge(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	current := base
	var expired []map[string]ToggleCounts

	w := NewWindow(WindowConfig{
		MaxAge:   time.Minute,
		OnExpire: func(p map[string]ToggleCounts) { expired = append(expired, p) },
		now:      func() time.Time { return current },
	})
	defer w.Destroy()

	w.Add(map[string]ToggleCounts{"toggleX": {Yes: 1}}, time.Time{})

	current = base.Add(59 * time.Second)
	w.sweep()
	if len(expired) != 0 {
		t.Fatalf("entry expired after %v, want none before max age", 59*time.Second)
	}

	current = base.Add(time.Minute)
	w.sweep()
	if len(expired) != 1 {
		t.Fatalf("expired %d entries at max age, want 1", len(expired))
	}

	// Exactly once per entry.
	w.sweep()
	if len(expired) != 1 {
		t.Fatalf("entry expired again on later sweep, got %d callbacks", len(expired))
	}
}

func TestWindowExpiresInInsertionOrder(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	current := base
	var order []string

	w := NewWindow(WindowConfig{
		MaxAge: time.Minute,
		OnExpire: func(p map[string]ToggleCounts) {
			for k := range p {
				order = append(order, k)
			}
		},
		now: func() time.Time { return current },
	})
	defer w.Destroy()

	w.Add(map[string]ToggleCounts{"first": {}}, base)
	w.Add(map[string]ToggleCounts{"second": {}}, base.Add(time.Second))

	current = base.Add(2 * time.Minute)
	w.sweep()

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expiry order = %v, want [first second]", order)
	}
}

func TestWindowHonorsExplicitTimestamps(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	current := base
	expires := 0

	w := NewWindow(WindowConfig{
		MaxAge:   time.Hour,
		OnExpire: func(map[string]ToggleCounts) { expires++ },
		now:      func() time.Time { return current },
	})
	defer w.Destroy()

	// An old bucket and a future-stamped one, added in that order.
	w.Add(map[string]ToggleCounts{"old": {}}, base.Add(-59*time.Minute))
	w.Add(map[string]ToggleCounts{"future": {}}, base.Add(time.Hour))

	current = base.Add(2 * time.Minute)
	w.sweep()
	if expires != 1 {
		t.Fatalf("expired %d entries, want only the old one", expires)
	}

	current = base.Add(2*time.Hour + time.Minute)
	w.sweep()
	if expires != 2 {
		t.Fatalf("expired %d entries, want both", expires)
	}
}

func TestWindowDestroyStopsSweeps(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	current := base
	expires := 0

	w := NewWindow(WindowConfig{
		MaxAge:   time.Minute,
		OnExpire: func(map[string]ToggleCounts) { expires++ },
		now:      func() time.Time { return current },
	})

	w.Add(map[string]ToggleCounts{"toggleX": {}}, time.Time{})
	w.Destroy()
	w.Destroy() // idempotent

	current = base.Add(time.Hour)
	w.sweep()
	if expires != 0 {
		t.Fatalf("sweep after destroy fired %d callbacks, want 0", expires)
	}
}
