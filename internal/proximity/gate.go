package proximity

import "sync"

// DistancesChanged reports whether next's distance sequence differs from
// prev's at any position. A length mismatch counts as changed. Callers use
// it to skip pushing a view that would render identically to the last one.
func DistancesChanged(prev, next []Entity) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range next {
		if prev[i].DistanceMiles != next[i].DistanceMiles {
			return true
		}
	}
	return false
}

// Publisher holds the latest ranked view under last-writer-wins rules.
//
// Every ranking pass starts with Begin, which hands out a monotonically
// increasing token. Publish installs a result only while its token belongs
// to the newest pass; a pass that was overtaken still runs to completion,
// but its output is dropped at this boundary. Nothing in flight is ever
// cancelled.
type Publisher struct {
	mu      sync.Mutex
	seq     uint64
	current []Entity
}

// Begin registers a new ranking pass and returns its token.
func (p *Publisher) Begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	return p.seq
}

// Publish installs ranked as the current view. It reports false, leaving the
// view as it was, when the token is stale or when the distances match the
// current view position for position.
func (p *Publisher) Publish(token uint64, ranked []Entity) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token < p.seq {
		return false
	}
	if !DistancesChanged(p.current, ranked) {
		return false
	}
	p.current = ranked
	return true
}

// Current returns the most recently published view. The slice is shared;
// callers must treat it as read-only.
func (p *Publisher) Current() []Entity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}
