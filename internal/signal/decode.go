package signal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIndeterminate is returned when a value holds an x or z symbol.
	ErrIndeterminate = errors.New("indeterminate value")
	// ErrOverflow is returned when a vector does not fit in 64 bits.
	ErrOverflow = errors.New("value overflows uint64")
	// ErrNotScalar is returned when a boolean is asked of a multi-bit vector.
	ErrNotScalar = errors.New("value is not a scalar")
	// ErrNotLogic is returned for real values.
	ErrNotLogic = errors.New("value is not a logic value")
	// ErrUnset is returned for a signal with no value dumped yet.
	ErrUnset = errors.New("value not set")
)

type DecodeError struct {
	Value Value
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Value.IsZero() {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Value)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Indeterminate reports whether err means the simulated state is unknown
// rather than unrepresentable.
func Indeterminate(err error) bool {
	return errors.Is(err, ErrIndeterminate) || errors.Is(err, ErrUnset)
}

// DecodeBool succeeds only for a scalar (or a one bit vector) holding 0 or 1.
func DecodeBool(v Value) (bool, error) {
	switch {
	case v.IsZero():
		return false, &DecodeError{Err: ErrUnset}
	case v.kind == Real:
		return false, &DecodeError{Value: v, Err: ErrNotLogic}
	case len(v.bits) != 1:
		return false, &DecodeError{Value: v, Err: ErrNotScalar}
	}

	switch Symbol(v.bits[0]) {
	case Hi:
		return true, nil
	case Lo:
		return false, nil
	}
	return false, &DecodeError{Value: v, Err: ErrIndeterminate}
}

// DecodeUnsigned reads the value as big-endian unsigned binary. Leading zeros
// past 64 bits are accepted; a set bit past bit 63 is an ErrOverflow.
func DecodeUnsigned(v Value) (uint64, error) {
	switch {
	case v.IsZero():
		return 0, &DecodeError{Err: ErrUnset}
	case v.kind == Real:
		return 0, &DecodeError{Value: v, Err: ErrNotLogic}
	case !v.Known():
		return 0, &DecodeError{Value: v, Err: ErrIndeterminate}
	}

	bits := v.bits
	if len(bits) > 64 {
		head := bits[:len(bits)-64]
		if strings.IndexByte(head, '1') >= 0 {
			return 0, &DecodeError{Value: v, Err: ErrOverflow}
		}
		bits = bits[len(bits)-64:]
	}

	var n uint64
	for i := 0; i < len(bits); i++ {
		n <<= 1
		if bits[i] == '1' {
			n |= 1
		}
	}
	return n, nil
}

// Encode renders n as a vector of the given width, most significant bit
// first. Bits of n above width are dropped.
func Encode(n uint64, width int) Value {
	if width <= 0 {
		width = 1
	}
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		if n&1 == 1 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
		n >>= 1
	}
	return Value{kind: Vector, bits: string(buf)}
}
