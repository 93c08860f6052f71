package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/detect"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("VCD_CACHE_MAX_ITEMS", "")
	t.Setenv("VCD_OBS_BUFFER", "")
	t.Setenv("VCD_MAX_TRACE_BYTES", "")

	rt := Load()
	if rt.HTTPAddr != ":8080" || rt.CacheMaxItems != 1024 || rt.ObsBuffer != 4096 || rt.MaxTraceBytes != 32<<20 {
		t.Fatalf("unexpected defaults: %+v", rt)
	}
}

func TestLoad_FromEnvWithFallbacks(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("VCD_CACHE_MAX_ITEMS", "16")
	t.Setenv("VCD_OBS_BUFFER", "0")
	t.Setenv("VCD_MAX_TRACE_BYTES", "oops")

	rt := Load()
	if rt.HTTPAddr != ":9090" || rt.CacheMaxItems != 16 {
		t.Fatalf("env not applied: %+v", rt)
	}
	if rt.ObsBuffer != 4096 || rt.MaxTraceBytes != 32<<20 {
		t.Fatalf("invalid values must fall back: %+v", rt)
	}
}

const twoInterfaces = `
- name: rd
  hier: tb.dut
  protocol: [valid, ready]
  payload: [addr, data]
- name: irq
  hier: tb.intc
  clock: clk
  reset: rst_n
  protocol: [irq]
  payload: []
  sample: prior
  filter: "true"
`

func TestParseInterfaces_Defaults(t *testing.T) {
	specs, err := ParseInterfaces(strings.NewReader(twoInterfaces))
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 interfaces, got %d", len(specs))
	}

	rd := specs[0]
	if rd.Clock != detect.DefaultClock || rd.Reset != detect.DefaultReset {
		t.Fatalf("expected default clock/reset, got %q/%q", rd.Clock, rd.Reset)
	}
	if strings.Join(rd.Control, ",") != "valid,ready" || strings.Join(rd.Payload, ",") != "addr,data" {
		t.Fatalf("order not preserved: %+v", rd)
	}

	irq := specs[1]
	if irq.Clock != "clk" || irq.Reset != "rst_n" || irq.Sample != detect.SamplePrior || irq.Filter != "true" {
		t.Fatalf("unexpected irq spec: %+v", irq)
	}
	if irq.Payload == nil || len(irq.Payload) != 0 {
		t.Fatalf("expected empty payload list, got %#v", irq.Payload)
	}
}

func TestParseInterfaces_Errors(t *testing.T) {
	cases := map[string]struct {
		doc   string
		field string
	}{
		"missing name":     {"- hier: a\n  protocol: [v]\n  payload: []\n", "name"},
		"missing hier":     {"- name: a\n  protocol: [v]\n  payload: []\n", "hier"},
		"missing protocol": {"- name: a\n  hier: t\n  payload: []\n", "protocol"},
		"empty protocol":   {"- name: a\n  hier: t\n  protocol: []\n  payload: []\n", "protocol"},
		"missing payload":  {"- name: a\n  hier: t\n  protocol: [v]\n", "payload"},
		"blank signal":     {"- name: a\n  hier: t\n  protocol: [' ']\n  payload: []\n", "protocol"},
		"bad sample":       {"- name: a\n  hier: t\n  protocol: [v]\n  payload: []\n  sample: later\n", "sample"},
		"duplicate name":   {"- {name: a, hier: t, protocol: [v], payload: []}\n- {name: a, hier: u, protocol: [v], payload: []}\n", "name"},
		"unknown key":      {"- name: a\n  hier: t\n  protocol: [v]\n  payload: []\n  colour: red\n", ""},
		"not a list":       {"name: a\n", ""},
		"empty document":   {"", ""},
		"empty list":       {"[]\n", ""},
	}

	for name, tc := range cases {
		_, err := ParseInterfaces(strings.NewReader(tc.doc))
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("%s: expected ConfigError, got %v", name, err)
		}
		if ce.Field != tc.field {
			t.Fatalf("%s: expected field %q, got %q (%v)", name, tc.field, ce.Field, err)
		}
	}
}

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Index: 2, Name: "rd", Field: "protocol", Msg: "must list at least one control signal"}
	want := `config: interface #2 (rd): field "protocol": must list at least one control signal`
	if err.Error() != want {
		t.Fatalf("got %q want %q", err.Error(), want)
	}
}

func TestParseCLI_Defaults(t *testing.T) {
	c, err := ParseCLI(nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if c.Trace != DefaultTrace || c.ConfigPath != "" || c.Debug || c.HasUntil {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestParseCLI_FlagsAroundPositional(t *testing.T) {
	c, err := ParseCLI([]string{"--debug", "dump.vcd", "--config", "ifaces.yaml", "--until", "0", "--no-share"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if c.Trace != "dump.vcd" || c.ConfigPath != "ifaces.yaml" || !c.Debug || !c.NoShare {
		t.Fatalf("unexpected cli: %+v", c)
	}
	if !c.HasUntil || c.Until != 0 {
		t.Fatalf("explicit --until 0 must be honored: %+v", c)
	}
}

func TestParseCLI_Rejects(t *testing.T) {
	for _, args := range [][]string{
		{"a.vcd", "b.vcd"},
		{"--profile", "heap"},
		{"--until", "-3"},
		{"--bogus"},
	} {
		if _, err := ParseCLI(args, io.Discard); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestParseCLI_Help(t *testing.T) {
	var out bytes.Buffer
	_, err := ParseCLI([]string{"-h"}, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(out.String(), "usage: vcdparse") {
		t.Fatalf("usage not printed: %q", out.String())
	}
}
