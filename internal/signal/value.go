// Package signal decodes multi-valued logic values as they appear in a
// value change dump.
//
// A Value is either a scalar symbol (0, 1, x, z), a bit vector of those
// symbols stored most significant bit first, or a real number carried as text.
// Decoding never coerces an unknown symbol: DecodeBool and DecodeUnsigned
// report a *DecodeError instead.
package signal

import (
	"fmt"
	"strings"
)

type Symbol byte

const (
	Lo Symbol = '0'
	Hi Symbol = '1'
	X  Symbol = 'x'
	Z  Symbol = 'z'
)

func (s Symbol) Known() bool { return s == Lo || s == Hi }

type Kind uint8

const (
	Scalar Kind = iota
	Vector
	Real
)

// Value is immutable once parsed.
type Value struct {
	kind Kind
	bits string // normalized symbols, MSB first; the raw text for Real
}

// Parse reads a raw change token without its identifier code:
// "1", "x", "b0101", "B1z", "r3.5".
func Parse(raw string) (Value, error) {
	if raw == "" {
		return Value{}, fmt.Errorf("empty value")
	}

	switch raw[0] {
	case 'b', 'B':
		bits, err := normalize(raw[1:])
		if err != nil {
			return Value{}, fmt.Errorf("invalid vector %q: %w", raw, err)
		}
		return Value{kind: Vector, bits: bits}, nil
	case 'r', 'R':
		if len(raw) == 1 {
			return Value{}, fmt.Errorf("invalid real %q: no digits", raw)
		}
		return Value{kind: Real, bits: raw[1:]}, nil
	}

	if len(raw) != 1 {
		return Value{}, fmt.Errorf("invalid scalar %q", raw)
	}
	bits, err := normalize(raw)
	if err != nil {
		return Value{}, fmt.Errorf("invalid scalar %q: %w", raw, err)
	}
	return Value{kind: Scalar, bits: bits}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(raw string) Value {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func normalize(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("no bits")
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '0', '1', 'x', 'z':
			b.WriteByte(c)
		case 'X':
			b.WriteByte('x')
		case 'Z':
			b.WriteByte('z')
		default:
			return "", fmt.Errorf("symbol %q at %d is not one of 0,1,x,z", c, i)
		}
	}
	return b.String(), nil
}

func (v Value) Kind() Kind { return v.kind }

// Width is the number of symbols in the value. Reals report 0.
func (v Value) Width() int {
	if v.kind == Real {
		return 0
	}
	return len(v.bits)
}

// Bit returns the symbol at position i counted from the most significant end.
func (v Value) Bit(i int) Symbol {
	return Symbol(v.bits[i])
}

// Known reports whether every symbol is 0 or 1.
func (v Value) Known() bool {
	if v.kind == Real || v.bits == "" {
		return false
	}
	return strings.IndexAny(v.bits, "xz") < 0
}

func (v Value) IsZero() bool { return v.bits == "" }

// String renders the value the way it appears in a dump.
func (v Value) String() string {
	switch v.kind {
	case Vector:
		return "b" + v.bits
	case Real:
		return "r" + v.bits
	}
	return v.bits
}
