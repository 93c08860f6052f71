package detect

import (
	"github.com/awmpietro/golang-vcd-transaction-case/internal/detect/filter"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/signal"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/vcd"
)

type Verdict uint8

const (
	Fired Verdict = iota
	Deasserted
	Indeterminate
	PayloadFailed
	Filtered
)

func (v Verdict) String() string {
	switch v {
	case Fired:
		return "fired"
	case Deasserted:
		return "deasserted"
	case Indeterminate:
		return "indeterminate"
	case PayloadFailed:
		return "payload_failed"
	case Filtered:
		return "filtered"
	}
	return "unknown"
}

// Outcome is what a tracker concluded for one sampling edge. Record is only
// meaningful when Verdict is Fired.
type Outcome struct {
	Verdict Verdict
	Record  Record
	Err     error
}

// Tracker detects transactions of one interface: on every sampling edge the
// AND of its control signals is evaluated and, when true, the payload is
// captured into a Record.
type Tracker struct {
	index int
	name  string

	control      []vcd.ID
	controlNames []string
	payload      []vcd.ID
	payloadNames []string
	payloadShort []string

	prior   bool
	filter  *filter.Filter
	watcher *Watcher
}

func (t *Tracker) Name() string { return t.name }

// sample reads a watched signal through the owning watcher.
func (t *Tracker) sample(b *vcd.Batch, name string) (signal.Value, error) {
	if t.prior {
		return t.watcher.LookupPrior(b, name)
	}
	return t.watcher.Lookup(b, name)
}

func (t *Tracker) Notify(b *vcd.Batch) Outcome {
	for _, name := range t.controlNames {
		v, err := t.sample(b, name)
		if err != nil {
			return Outcome{Verdict: Indeterminate, Err: t.wrap(b, "control", name, err)}
		}
		asserted, err := signal.DecodeBool(v)
		if err != nil {
			return Outcome{Verdict: Indeterminate, Err: t.wrap(b, "control", name, err)}
		}
		if !asserted {
			return Outcome{Verdict: Deasserted}
		}
	}

	rec := Record{Time: b.Time, Interface: t.name, Payload: make([]Field, 0, len(t.payloadNames))}
	for i, name := range t.payloadNames {
		v, err := t.sample(b, name)
		if err != nil {
			return Outcome{Verdict: PayloadFailed, Err: t.wrap(b, "payload", name, err)}
		}
		n, err := signal.DecodeUnsigned(v)
		if err != nil {
			return Outcome{Verdict: PayloadFailed, Err: t.wrap(b, "payload", name, err)}
		}
		rec.Payload = append(rec.Payload, Field{Name: t.payloadShort[i], Value: n})
	}

	if t.filter != nil {
		keep, err := t.filter.Match(rec.values())
		if err != nil {
			return Outcome{Verdict: PayloadFailed, Err: t.wrap(b, "filter", t.filter.String(), err)}
		}
		if !keep {
			return Outcome{Verdict: Filtered, Record: rec}
		}
	}
	return Outcome{Verdict: Fired, Record: rec}
}

func (t *Tracker) wrap(b *vcd.Batch, role, name string, err error) error {
	return &SignalError{Time: b.Time, Interface: t.name, Role: role, Signal: name, Err: err}
}
