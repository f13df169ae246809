package metrics

import (
	"sync"
	"time"
)

const defaultSweepInterval = 10 * time.Second

// Window holds time-stamped toggle maps and fires the expire callback for
// each entry exactly once after the entry's age passes maxAge. Within a
// sweep, expired entries fire in insertion order.
type Window struct {
	mu        sync.Mutex
	entries   []windowEntry
	maxAge    time.Duration
	interval  time.Duration
	onExpire  func(payload map[string]ToggleCounts)
	now       func() time.Time
	done      chan struct{}
	destroyed bool
}

type windowEntry struct {
	payload    map[string]ToggleCounts
	insertedAt time.Time
}

type WindowConfig struct {
	// MaxAge is how long an entry lives before it expires.
	MaxAge time.Duration
	// Interval is the sweep period. Zero means the 10s default.
	Interval time.Duration
	// OnExpire receives each expired payload, oldest first.
	OnExpire func(payload map[string]ToggleCounts)

	// now overrides the clock in tests.
	now func() time.Time
}

func NewWindow(cfg WindowConfig) *Window {
	w := &Window{
		maxAge:   cfg.MaxAge,
		interval: cfg.Interval,
		onExpire: cfg.OnExpire,
		now:      cfg.now,
		done:     make(chan struct{}),
	}
	if w.interval <= 0 {
		w.interval = defaultSweepInterval
	}
	if w.now == nil {
		w.now = time.Now
	}
	go w.run()
	return w
}

// Add appends an entry. A zero timestamp means "now". Safe to call while
// a sweep is in progress.
func (w *Window) Add(payload map[string]ToggleCounts, ts time.Time) {
	if ts.IsZero() {
		ts = w.now()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	w.entries = append(w.entries, windowEntry{payload: payload, insertedAt: ts})
}

func (w *Window) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.done:
			return
		}
	}
}

// sweep drains every entry whose age has reached maxAge and fires the
// callbacks outside the lock, oldest entry first.
func (w *Window) sweep() {
	cutoff := w.now().Add(-w.maxAge)

	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	// Timestamps are caller-supplied (bucket stop times), so entries are
	// not guaranteed to be sorted. Scan the whole list; insertion order
	// is preserved among the expired, so older adds still fire first.
	var expired, kept []windowEntry
	for _, e := range w.entries {
		if e.insertedAt.After(cutoff) {
			kept = append(kept, e)
		} else {
			expired = append(expired, e)
		}
	}
	w.entries = kept
	w.mu.Unlock()

	if w.onExpire == nil {
		return
	}
	for _, e := range expired {
		w.onExpire(e.payload)
	}
}

// Destroy stops the sweep goroutine. Sweeps scheduled after Destroy are
// no-ops. Callers own the window's lifecycle and must call this on
// shutdown.
func (w *Window) Destroy() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	w.mu.Unlock()
	close(w.done)
}
