package detect

import (
	"github.com/awmpietro/golang-vcd-transaction-case/internal/signal"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/vcd"
)

type GateState uint8

const (
	InReset GateState = iota
	Active
)

func (s GateState) String() string {
	if s == Active {
		return "active"
	}
	return "in_reset"
}

// Watcher follows one clock/reset pair and decides which batches are
// sampling edges for the trackers attached to it. Trackers read their
// signals through Lookup.
type Watcher struct {
	scope     string
	clockName string
	resetName string
	clock     vcd.ID
	reset     vcd.ID

	state    GateState
	edge     bool
	names    map[string]vcd.ID
	observer GateObserver
}

func newWatcher(scope, clockName, resetName string, clock, reset vcd.ID, observer GateObserver) *Watcher {
	w := &Watcher{
		scope:     scope,
		clockName: clockName,
		resetName: resetName,
		clock:     clock,
		reset:     reset,
		names:     make(map[string]vcd.ID),
		observer:  observer,
	}
	w.watch(clockName, clock)
	w.watch(resetName, reset)
	return w
}

func (w *Watcher) watch(name string, id vcd.ID) { w.names[name] = id }

func (w *Watcher) attach(t *Tracker) {
	for i, n := range t.controlNames {
		w.watch(n, t.control[i])
	}
	for i, n := range t.payloadNames {
		w.watch(n, t.payload[i])
	}
	t.watcher = w
}

// Lookup returns the current value of a watched signal by its fully
// qualified name.
func (w *Watcher) Lookup(b *vcd.Batch, name string) (signal.Value, error) {
	return w.lookup(b, name, b.Value)
}

// LookupPrior is Lookup for the value the signal held before b was applied.
func (w *Watcher) LookupPrior(b *vcd.Batch, name string) (signal.Value, error) {
	return w.lookup(b, name, b.Prior)
}

func (w *Watcher) lookup(b *vcd.Batch, name string, read func(vcd.ID) (signal.Value, bool)) (signal.Value, error) {
	id, ok := w.names[name]
	if !ok {
		return signal.Value{}, &UnresolvedSignalError{Scope: w.scope, Role: "watched", Name: name}
	}
	v, ok := read(id)
	if !ok {
		return signal.Value{}, &signal.DecodeError{Err: signal.ErrUnset}
	}
	return v, nil
}

// Gate advances the reset state machine for batch b and reports whether b is
// a sampling edge. The batch that deasserts reset is never a sampling edge,
// and a reset value that cannot be decoded leaves the state unchanged.
func (w *Watcher) Gate(b *vcd.Batch) bool {
	if !b.Changed(w.clock) && !b.Changed(w.reset) {
		return false
	}

	if b.Changed(w.reset) {
		v, _ := b.Value(w.reset)
		deasserted, err := signal.DecodeBool(v)
		if err != nil {
			w.observe(b.Time, w.state, err)
			return false
		}
		switch {
		case !deasserted && w.state != InReset:
			w.transition(b.Time, InReset)
			return false
		case deasserted && w.state == InReset:
			w.transition(b.Time, Active)
			return false
		}
	}

	if w.state != Active || !b.Changed(w.clock) {
		return false
	}
	v, _ := b.Value(w.clock)
	high, err := signal.DecodeBool(v)
	return err == nil && high
}

// Advance gates b once and remembers the verdict until the next batch, so
// trackers sharing this watcher see the same edge.
func (w *Watcher) Advance(b *vcd.Batch) bool {
	w.edge = w.Gate(b)
	return w.edge
}

// Sampling reports whether the batch last passed to Advance was a sampling
// edge.
func (w *Watcher) Sampling() bool { return w.edge }

func (w *Watcher) transition(at uint64, to GateState) {
	w.state = to
	w.observe(at, to, nil)
}

func (w *Watcher) observe(at uint64, state GateState, err error) {
	if w.observer == nil {
		return
	}
	w.observer.ObserveGate(GateEvent{Time: at, Scope: w.scope, State: state, Err: err})
}
