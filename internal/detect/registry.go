package detect

import "github.com/awmpietro/golang-vcd-transaction-case/internal/vcd"

type watchKey struct {
	scope string
	clock string
	reset string
}

// registry hands out one Watcher per (scope, clock, reset). With sharing
// disabled every interface gets a Watcher of its own.
type registry struct {
	share    bool
	observer GateObserver
	byKey    map[watchKey]*Watcher
	order    []*Watcher
}

func newRegistry(share bool, observer GateObserver) *registry {
	return &registry{share: share, observer: observer, byKey: make(map[watchKey]*Watcher)}
}

func (r *registry) watcher(key watchKey, clock, reset vcd.ID) *Watcher {
	if r.share {
		if w, ok := r.byKey[key]; ok {
			return w
		}
	}
	w := newWatcher(key.scope, key.clock, key.reset, clock, reset, r.observer)
	if r.share {
		r.byKey[key] = w
	}
	r.order = append(r.order, w)
	return w
}

func (r *registry) watchers() []*Watcher { return r.order }
