package detect

import (
	"strconv"
	"strings"
)

const (
	DefaultClock = "i_clk"
	DefaultReset = "i_reset_n"
)

type SampleMode string

const (
	// SampleCurrent reads control and payload values as they stand after the
	// clock edge batch was applied.
	SampleCurrent SampleMode = "current"
	// SamplePrior reads them as they stood just before the edge.
	SamplePrior SampleMode = "prior"
)

// InterfaceSpec declares one logical interface to track. Signal names are
// short names relative to Hier.
type InterfaceSpec struct {
	Name    string
	Hier    string
	Clock   string
	Reset   string
	Control []string
	Payload []string
	Sample  SampleMode
	// Filter only hides output lines. Detection stays the AND of Control;
	// a hidden transaction is counted in InterfaceStats.Filtered.
	Filter string
}

func (s InterfaceSpec) withDefaults() InterfaceSpec {
	if s.Clock == "" {
		s.Clock = DefaultClock
	}
	if s.Reset == "" {
		s.Reset = DefaultReset
	}
	if s.Sample == "" {
		s.Sample = SampleCurrent
	}
	return s
}

// Qualify turns a short signal name into the fully qualified name used to
// look it up in the trace.
func (s InterfaceSpec) Qualify(short string) string {
	if s.Hier == "" {
		return short
	}
	return s.Hier + "." + short
}

func (s InterfaceSpec) qualifyAll(shorts []string) []string {
	out := make([]string, len(shorts))
	for i, n := range shorts {
		out[i] = s.Qualify(n)
	}
	return out
}

type Field struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

// Record is one detected transaction.
type Record struct {
	Time      uint64  `json:"time"`
	Interface string  `json:"interface"`
	Payload   []Field `json:"payload"`
}

// String renders the record as an output line without the trailing newline:
//
//	@15 rd_req: addr=0x40 data=0x5
//
// Every name=value pair is followed by a single space.
func (r Record) String() string {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteString(strconv.FormatUint(r.Time, 10))
	b.WriteByte(' ')
	b.WriteString(r.Interface)
	b.WriteString(": ")
	for _, f := range r.Payload {
		b.WriteString(f.Name)
		b.WriteString("=0x")
		b.WriteString(strconv.FormatUint(f.Value, 16))
		b.WriteByte(' ')
	}
	return b.String()
}

func (r Record) values() map[string]any {
	m := make(map[string]any, len(r.Payload))
	for _, f := range r.Payload {
		m[f.Name] = f.Value
	}
	return m
}
