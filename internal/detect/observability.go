package detect

import (
	"log"
	"sync"
	"sync/atomic"
)

// GateEvent describes a reset gate transition, or a reset value that could not
// be decoded (Err set, State unchanged).
type GateEvent struct {
	Time  uint64
	Scope string
	State GateState
	Err   error
}

type GateObserver interface {
	ObserveGate(ev GateEvent)
}

type GateLogger struct {
	logger *log.Logger
}

func NewGateLogger(logger *log.Logger) *GateLogger {
	return &GateLogger{logger: logger}
}

func (l *GateLogger) ObserveGate(ev GateEvent) {
	if l == nil || l.logger == nil {
		return
	}
	switch {
	case ev.Err != nil:
		l.logger.Printf("@%d %s reset undecodable: %v", ev.Time, ev.Scope, ev.Err)
	case ev.State == InReset:
		l.logger.Printf("@%d %s in RESET", ev.Time, ev.Scope)
	default:
		l.logger.Printf("@%d %s out of RESET", ev.Time, ev.Scope)
	}
}

// AsyncGateObserver forwards events to next from a single goroutine. Events
// arriving while the buffer is full are counted and dropped.
type AsyncGateObserver struct {
	next    GateObserver
	events  chan GateEvent
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

func NewAsyncGateObserver(next GateObserver, buffer int) *AsyncGateObserver {
	if buffer <= 0 {
		buffer = 1
	}

	o := &AsyncGateObserver{
		next:   next,
		events: make(chan GateEvent, buffer),
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for ev := range o.events {
			if o.next != nil {
				o.next.ObserveGate(ev)
			}
		}
	}()

	return o
}

func (o *AsyncGateObserver) ObserveGate(ev GateEvent) {
	if o == nil {
		return
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		o.dropped.Add(1)
		return
	}
	select {
	case o.events <- ev:
	default:
		o.dropped.Add(1)
	}
}

func (o *AsyncGateObserver) Dropped() uint64 {
	if o == nil {
		return 0
	}
	return o.dropped.Load()
}

// Close drains pending events and stops the worker. It is safe to call more
// than once.
func (o *AsyncGateObserver) Close() {
	if o == nil {
		return
	}
	o.once.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.events)
		o.mu.Unlock()
		o.wg.Wait()
	})
}
