package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/detect"
)

// ConfigError reports a malformed interface record. Index is the position of
// the record in the file, or -1 when the document itself is unreadable.
type ConfigError struct {
	Index int
	Name  string
	Field string
	Msg   string
	Err   error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("config")
	if e.Index >= 0 {
		fmt.Fprintf(&b, ": interface #%d", e.Index)
		if e.Name != "" {
			fmt.Fprintf(&b, " (%s)", e.Name)
		}
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

type interfaceRecord struct {
	Name     *string   `yaml:"name"`
	Hier     *string   `yaml:"hier"`
	Clock    string    `yaml:"clock"`
	Reset    string    `yaml:"reset"`
	Protocol []string  `yaml:"protocol"`
	Payload  *[]string `yaml:"payload"`
	Sample   string    `yaml:"sample"`
	Filter   string    `yaml:"filter"`
}

// ParseInterfaces decodes a YAML sequence of interface records. Unknown keys
// are rejected.
func ParseInterfaces(r io.Reader) ([]detect.InterfaceSpec, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var records []interfaceRecord
	if err := dec.Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ConfigError{Index: -1, Msg: "no interfaces configured"}
		}
		return nil, &ConfigError{Index: -1, Msg: "invalid YAML", Err: err}
	}
	if len(records) == 0 {
		return nil, &ConfigError{Index: -1, Msg: "no interfaces configured"}
	}

	seen := make(map[string]int, len(records))
	specs := make([]detect.InterfaceSpec, 0, len(records))
	for i, rec := range records {
		spec, err := rec.spec(i)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[spec.Name]; dup {
			return nil, &ConfigError{Index: i, Name: spec.Name, Field: "name", Msg: fmt.Sprintf("duplicates interface #%d", prev)}
		}
		seen[spec.Name] = i
		specs = append(specs, spec)
	}
	return specs, nil
}

// ParseInterfacesBytes is ParseInterfaces over an in-memory document.
func ParseInterfacesBytes(doc []byte) ([]detect.InterfaceSpec, error) {
	return ParseInterfaces(bytes.NewReader(doc))
}

func (rec interfaceRecord) spec(i int) (detect.InterfaceSpec, error) {
	fail := func(name, field, msg string) error {
		return &ConfigError{Index: i, Name: name, Field: field, Msg: msg}
	}

	if rec.Name == nil || strings.TrimSpace(*rec.Name) == "" {
		return detect.InterfaceSpec{}, fail("", "name", "is required")
	}
	name := strings.TrimSpace(*rec.Name)
	if rec.Hier == nil {
		return detect.InterfaceSpec{}, fail(name, "hier", "is required")
	}
	if len(rec.Protocol) == 0 {
		return detect.InterfaceSpec{}, fail(name, "protocol", "must list at least one control signal")
	}
	if rec.Payload == nil {
		return detect.InterfaceSpec{}, fail(name, "payload", "is required")
	}
	for _, s := range rec.Protocol {
		if strings.TrimSpace(s) == "" {
			return detect.InterfaceSpec{}, fail(name, "protocol", "contains an empty signal name")
		}
	}
	for _, s := range *rec.Payload {
		if strings.TrimSpace(s) == "" {
			return detect.InterfaceSpec{}, fail(name, "payload", "contains an empty signal name")
		}
	}

	sample := detect.SampleMode(strings.ToLower(strings.TrimSpace(rec.Sample)))
	switch sample {
	case "", detect.SampleCurrent, detect.SamplePrior:
	default:
		return detect.InterfaceSpec{}, fail(name, "sample", fmt.Sprintf("must be %q or %q", detect.SampleCurrent, detect.SamplePrior))
	}

	clock := strings.TrimSpace(rec.Clock)
	if clock == "" {
		clock = detect.DefaultClock
	}
	reset := strings.TrimSpace(rec.Reset)
	if reset == "" {
		reset = detect.DefaultReset
	}

	return detect.InterfaceSpec{
		Name:    name,
		Hier:    strings.TrimSpace(*rec.Hier),
		Clock:   clock,
		Reset:   reset,
		Control: trimAll(rec.Protocol),
		Payload: trimAll(*rec.Payload),
		Sample:  sample,
		Filter:  strings.TrimSpace(rec.Filter),
	}, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
