// Package detect turns a stream of value change batches into transaction
// records for a set of configured interfaces.
package detect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/detect/filter"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/vcd"
)

// Resolver maps fully qualified signal names to trace identifiers.
type Resolver interface {
	Resolve(name string) (vcd.ID, bool)
}

// Source yields batches in increasing time order and io.EOF at the end.
type Source interface {
	Next() (*vcd.Batch, error)
}

type declarations interface {
	Var(id vcd.ID) (vcd.Var, bool)
}

// Interface is a configured interface after its signals were resolved.
type Interface struct {
	Spec    InterfaceSpec
	Control []string
	Payload []string

	watcher *Watcher
	tracker *Tracker
}

type Engine struct {
	interfaces []*Interface
	watchers   []*Watcher
	skipped    []error

	observer       GateObserver
	logger         *log.Logger
	until          uint64
	hasUntil       bool
	skipUnresolved bool
	share          bool
	debug          bool
}

type EngineOption func(*Engine)

func WithGateObserver(observer GateObserver) EngineOption {
	return func(e *Engine) {
		e.observer = observer
	}
}

// WithLogger receives construction warnings and per-edge decode diagnostics.
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithUntil stops Run after the last batch at or before t.
func WithUntil(t uint64) EngineOption {
	return func(e *Engine) {
		e.until = t
		e.hasUntil = true
	}
}

// WithSkipUnresolved drops interfaces whose signals are missing from the
// trace instead of failing construction.
func WithSkipUnresolved() EngineOption {
	return func(e *Engine) {
		e.skipUnresolved = true
	}
}

func WithoutWatcherSharing() EngineOption {
	return func(e *Engine) {
		e.share = false
	}
}

// WithDebug also logs edges whose control signals could not be decoded.
func WithDebug() EngineOption {
	return func(e *Engine) {
		e.debug = true
	}
}

func NewEngine(specs []InterfaceSpec, res Resolver, opts ...EngineOption) (*Engine, error) {
	if res == nil {
		return nil, fmt.Errorf("resolver is nil")
	}

	e := &Engine{
		logger: log.New(io.Discard, "", 0),
		share:  true,
	}
	for _, opt := range opts {
		opt(e)
	}

	reg := newRegistry(e.share, e.observer)
	for i, raw := range specs {
		spec := raw.withDefaults()
		if strings.TrimSpace(spec.Name) == "" {
			return nil, fmt.Errorf("interface #%d has no name", i)
		}
		if len(spec.Control) == 0 {
			return nil, fmt.Errorf("interface %q has no control signals", spec.Name)
		}

		iface, err := e.bind(reg, spec, res)
		if err != nil {
			var unresolved *UnresolvedSignalError
			if e.skipUnresolved && errors.As(err, &unresolved) {
				e.logger.Printf("detect_skip interface=%s reason=%q", spec.Name, err.Error())
				e.skipped = append(e.skipped, err)
				continue
			}
			return nil, err
		}
		e.interfaces = append(e.interfaces, iface)
	}
	e.watchers = reg.watchers()
	return e, nil
}

func (e *Engine) bind(reg *registry, spec InterfaceSpec, res Resolver) (*Interface, error) {
	resolve := func(role, name string) (vcd.ID, error) {
		id, ok := res.Resolve(name)
		if !ok {
			return "", &UnresolvedSignalError{Interface: spec.Name, Role: role, Name: name}
		}
		return id, nil
	}

	clockName, resetName := spec.Qualify(spec.Clock), spec.Qualify(spec.Reset)
	clock, err := resolve("clock", clockName)
	if err != nil {
		return nil, err
	}
	reset, err := resolve("reset", resetName)
	if err != nil {
		return nil, err
	}

	t := &Tracker{
		index:        len(e.interfaces),
		name:         spec.Name,
		controlNames: spec.qualifyAll(spec.Control),
		payloadNames: spec.qualifyAll(spec.Payload),
		payloadShort: append([]string(nil), spec.Payload...),
		prior:        spec.Sample == SamplePrior,
	}
	for _, n := range t.controlNames {
		id, err := resolve("control", n)
		if err != nil {
			return nil, err
		}
		t.control = append(t.control, id)
	}
	for _, n := range t.payloadNames {
		id, err := resolve("payload", n)
		if err != nil {
			return nil, err
		}
		t.payload = append(t.payload, id)
	}

	t.filter, err = filter.Compile(spec.Filter, spec.Payload)
	if err != nil {
		return nil, fmt.Errorf("interface %q: %w", spec.Name, err)
	}

	e.warnWidths(res, spec.Name, []string{clockName, resetName}, []vcd.ID{clock, reset})
	e.warnWidths(res, spec.Name, t.controlNames, t.control)

	w := reg.watcher(watchKey{scope: spec.Hier, clock: clockName, reset: resetName}, clock, reset)
	w.attach(t)

	return &Interface{
		Spec:    spec,
		Control: t.controlNames,
		Payload: t.payloadNames,
		watcher: w,
		tracker: t,
	}, nil
}

func (e *Engine) warnWidths(res Resolver, iface string, names []string, ids []vcd.ID) {
	decl, ok := res.(declarations)
	if !ok {
		return
	}
	for i, id := range ids {
		if v, ok := decl.Var(id); ok && v.Width != 1 {
			e.logger.Printf("detect_warn interface=%s signal=%s width=%d msg=%q", iface, names[i], v.Width, "single-bit signal expected")
		}
	}
}

func (e *Engine) Interfaces() []*Interface { return e.interfaces }

// Skipped lists the interfaces dropped by WithSkipUnresolved.
func (e *Engine) Skipped() []error { return e.skipped }

// Run pulls batches from src until it is exhausted and emits every detected
// record to sink. The returned Summary is valid even when err is not nil.
func (e *Engine) Run(ctx context.Context, src Source, sink Sink) (*Summary, error) {
	if src == nil {
		return nil, fmt.Errorf("source is nil")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink is nil")
	}

	sum := &Summary{Interfaces: make([]InterfaceStats, len(e.interfaces))}
	for i, iface := range e.interfaces {
		sum.Interfaces[i].Name = iface.Spec.Name
	}
	for _, err := range e.skipped {
		sum.Skipped = append(sum.Skipped, err.Error())
	}

	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		b, err := src.Next()
		if err == io.EOF {
			return sum, nil
		}
		if err != nil {
			return sum, fmt.Errorf("read trace after time %d: %w", sum.LastTime, err)
		}
		if e.hasUntil && b.Time > e.until {
			sum.Truncated = true
			return sum, nil
		}
		sum.Batches++
		sum.LastTime = b.Time

		for _, w := range e.watchers {
			w.Advance(b)
		}
		// Trackers are notified in configuration order whatever watcher
		// they share.
		for _, iface := range e.interfaces {
			if !iface.watcher.Sampling() {
				continue
			}
			o := iface.tracker.Notify(b)
			sum.observe(iface.tracker, o)
			switch o.Verdict {
			case Fired:
				if err := sink.Emit(o.Record); err != nil {
					return sum, fmt.Errorf("emit record at time %d: %w", b.Time, err)
				}
			case PayloadFailed:
				e.logger.Printf("detect_payload_error %v", o.Err)
			case Indeterminate:
				if e.debug {
					e.logger.Printf("detect_control_unknown %v", o.Err)
				}
			}
		}
	}
}

const separator = "--------------------------------------------------------------------------------"

// Banner prints the configured interfaces in configuration order.
func (e *Engine) Banner(w io.Writer) error {
	for _, iface := range e.interfaces {
		if _, err := fmt.Fprintf(w, "%s\n%s\n    Control signals:  %v\n    Payload signals:  %v\n",
			separator, iface.Spec.Name, iface.Control, iface.Payload); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, separator)
	return err
}
