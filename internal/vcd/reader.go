// Package vcd reads IEEE 1364 value change dumps.
//
// NewReader consumes the declaration section eagerly so that hierarchical
// names can be resolved before any value change is read. Value changes are
// then pulled lazily, one Batch per simulation time, with Next.
package vcd

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/signal"
)

// Var is one $var declaration.
type Var struct {
	ID    ID
	Type  string
	Width int
	Name  string // fully qualified, scopes joined with "."
}

type Reader struct {
	sc *scanner

	Date      string
	Version   string
	timescale string

	vars   map[ID]*Var
	names  map[string]ID
	values map[ID]signal.Value

	now  uint64
	done bool
}

func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{
		sc:     newScanner(r),
		vars:   make(map[ID]*Var),
		names:  make(map[string]ID),
		values: make(map[ID]signal.Value),
	}
	if err := rd.readHeader(); err != nil {
		return nil, err
	}
	return rd, nil
}

func (r *Reader) readHeader() error {
	var scope []string
	for {
		kw, ok, err := r.sc.next()
		if err != nil {
			return err
		}
		if !ok {
			return &FormatError{Line: r.sc.line, Err: errEndOfHeader}
		}

		switch kw.text {
		case "$date", "$version", "$timescale", "$comment":
			words, err := r.sc.untilEnd(kw)
			if err != nil {
				return err
			}
			text := strings.Join(words, " ")
			switch kw.text {
			case "$date":
				r.Date = text
			case "$version":
				r.Version = text
			case "$timescale":
				r.timescale = text
			}
		case "$scope":
			words, err := r.sc.untilEnd(kw)
			if err != nil {
				return err
			}
			if len(words) == 0 {
				return formatError(kw, "scope without a name")
			}
			scope = append(scope, words[len(words)-1])
		case "$upscope":
			if _, err := r.sc.untilEnd(kw); err != nil {
				return err
			}
			if len(scope) == 0 {
				return formatError(kw, "$upscope outside of any scope")
			}
			scope = scope[:len(scope)-1]
		case "$var":
			words, err := r.sc.untilEnd(kw)
			if err != nil {
				return err
			}
			if err := r.declare(kw, scope, words); err != nil {
				return err
			}
		case "$enddefinitions":
			if _, err := r.sc.untilEnd(kw); err != nil {
				return err
			}
			if len(scope) != 0 {
				return formatError(kw, "%d scope(s) left open: %s", len(scope), strings.Join(scope, "."))
			}
			return nil
		default:
			return formatError(kw, "unknown declaration keyword")
		}
	}
}

func (r *Reader) declare(kw token, scope, words []string) error {
	if len(words) < 4 {
		return formatError(kw, "expected type, size, identifier and reference, got %q", strings.Join(words, " "))
	}
	width, err := strconv.Atoi(words[1])
	if err != nil || width < 1 {
		return formatError(kw, "invalid size %q", words[1])
	}

	ref := words[3]
	if i := strings.IndexByte(ref, '['); i > 0 {
		ref = ref[:i]
	}
	name := strings.Join(append(append([]string(nil), scope...), ref), ".")

	id := ID(words[2])
	if _, ok := r.vars[id]; !ok {
		r.vars[id] = &Var{ID: id, Type: words[0], Width: width, Name: name}
	}
	if _, ok := r.names[name]; !ok {
		r.names[name] = id
	}
	return nil
}

// Resolve maps a fully qualified signal name to its identifier code.
func (r *Reader) Resolve(name string) (ID, bool) {
	id, ok := r.names[name]
	return id, ok
}

// Var returns the first declaration of id.
func (r *Reader) Var(id ID) (Var, bool) {
	v, ok := r.vars[id]
	if !ok {
		return Var{}, false
	}
	return *v, true
}

// Width is the declared bit width of id, or 0 when id is unknown.
func (r *Reader) Width(id ID) int {
	if v, ok := r.vars[id]; ok {
		return v.Width
	}
	return 0
}

// Names lists every declared hierarchical name, sorted.
func (r *Reader) Names() []string {
	out := make([]string, 0, len(r.names))
	for n := range r.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (r *Reader) Timescale() string { return r.timescale }

// Now is the simulation time of the last timestamp read.
func (r *Reader) Now() uint64 { return r.now }

// Next returns the changes of the next simulation time that has any. It
// returns io.EOF once the dump is exhausted.
func (r *Reader) Next() (*Batch, error) {
	if r.done {
		return nil, io.EOF
	}

	b := r.newBatch()
	for {
		t, ok, err := r.sc.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			r.done = true
			if b.empty() {
				return nil, io.EOF
			}
			return b, nil
		}

		switch c := t.text[0]; c {
		case '#':
			at, err := strconv.ParseUint(t.text[1:], 10, 64)
			if err != nil {
				return nil, formatError(t, "invalid timestamp")
			}
			if at < r.now {
				return nil, formatError(t, "time went backwards from %d", r.now)
			}
			if at == r.now {
				continue
			}
			r.now = at
			if !b.empty() {
				return b, nil
			}
			b.Time = at
		case '$':
			if err := r.simulationKeyword(t); err != nil {
				return nil, err
			}
		case '0', '1', 'x', 'X', 'z', 'Z':
			if len(t.text) < 2 {
				return nil, formatError(t, "scalar change without identifier")
			}
			if err := r.apply(b, t, t.text[:1], ID(t.text[1:])); err != nil {
				return nil, err
			}
		case 'b', 'B', 'r', 'R':
			idt, ok, err := r.sc.next()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, formatError(t, "vector change without identifier")
			}
			if err := r.apply(b, idt, t.text, ID(idt.text)); err != nil {
				return nil, err
			}
		default:
			return nil, formatError(t, "unexpected token in value changes")
		}
	}
}

func (r *Reader) newBatch() *Batch {
	return &Batch{
		Time:   r.now,
		prior:  make(map[ID]signal.Value),
		values: r.values,
	}
}

func (r *Reader) simulationKeyword(t token) error {
	switch t.text {
	case "$dumpvars", "$dumpall", "$dumpon", "$dumpoff", "$end":
		return nil
	case "$comment":
		_, err := r.sc.untilEnd(t)
		return err
	}
	return formatError(t, "unexpected keyword in value changes")
}

func (r *Reader) apply(b *Batch, t token, raw string, id ID) error {
	decl, ok := r.vars[id]
	if !ok {
		return formatError(t, "value change for undeclared identifier %q", string(id))
	}
	v, err := signal.Parse(raw)
	if err != nil {
		return wrapFormatError(t, err, "bad value")
	}
	if v.Kind() == signal.Vector && v.Width() > decl.Width {
		return formatError(t, "%d-bit value for %d-bit variable %q", v.Width(), decl.Width, string(id))
	}
	if _, seen := b.prior[id]; !seen {
		b.prior[id] = r.values[id]
		b.changed = append(b.changed, id)
	}
	r.values[id] = v
	return nil
}
