package vcd

import "github.com/awmpietro/golang-vcd-transaction-case/internal/signal"

// ID is the identifier code a dump assigns to a variable.
type ID string

// Batch groups every value change recorded at one simulation time.
//
// The snapshot behind Value is owned by the Reader and is only valid until the
// next call to Reader.Next. Callers must not retain a Batch across pulls.
type Batch struct {
	Time uint64

	changed []ID
	prior   map[ID]signal.Value
	values  map[ID]signal.Value
}

// Changed reports whether id had a value change recorded in this batch.
func (b *Batch) Changed(id ID) bool {
	_, ok := b.prior[id]
	return ok
}

// ChangedIDs returns the changed identifiers in dump order.
func (b *Batch) ChangedIDs() []ID { return b.changed }

// Value returns the value of id as of this batch. ok is false for a signal
// that has not been dumped yet.
func (b *Batch) Value(id ID) (signal.Value, bool) {
	v, ok := b.values[id]
	return v, ok
}

// Prior returns the value id held before this batch was applied.
func (b *Batch) Prior(id ID) (signal.Value, bool) {
	if v, ok := b.prior[id]; ok {
		return v, !v.IsZero()
	}
	return b.Value(id)
}

func (b *Batch) empty() bool { return len(b.changed) == 0 }
