package metrics

import "sync"

// Projection maintains additive yes/no counters per toggle name. Window
// expiry subtracts exactly what a bucket previously added, so a key that
// round-trips through add and subtract returns to its prior value.
type Projection struct {
	mu    sync.RWMutex
	store map[string]Count
}

func NewProjection() *Projection {
	return &Projection{store: make(map[string]Count)}
}

func (p *Projection) Add(key string, c Count) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur := p.store[key]
	cur.Yes += c.Yes
	cur.No += c.No
	p.store[key] = cur
}

func (p *Projection) Subtract(key string, c Count) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur := p.store[key]
	cur.Yes -= c.Yes
	cur.No -= c.No
	p.store[key] = cur
}

// Snapshot returns a copy of all current counters.
func (p *Projection) Snapshot() map[string]Count {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]Count, len(p.store))
	for k, v := range p.store {
		out[k] = v
	}
	return out
}
