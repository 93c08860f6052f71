package config

import (
	"flag"
	"fmt"
	"io"
)

const DefaultTrace = "0-0-waveform.vcd"

// CLI is the parsed command line of vcdparse. It is built once and passed by
// value.
type CLI struct {
	Trace          string
	ConfigPath     string // empty selects the bundled configuration
	Debug          bool
	Until          uint64
	HasUntil       bool
	SkipUnresolved bool
	NoShare        bool
	ListSignals    bool
	TopologyPath   string
	Profile        string
}

// ParseCLI parses args (without the program name). Flags may appear before or
// after the trace path. Usage and errors are written to output.
func ParseCLI(args []string, output io.Writer) (CLI, error) {
	var c CLI
	fs := flag.NewFlagSet("vcdparse", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "usage: vcdparse [flags] [trace.vcd]\n\ntrace defaults to %s\n\n", DefaultTrace)
		fs.PrintDefaults()
	}

	fs.StringVar(&c.ConfigPath, "config", "", "interface configuration YAML (default: bundled config)")
	fs.BoolVar(&c.Debug, "debug", false, "also write diagnostics to vcd_parse.log")
	fs.Uint64Var(&c.Until, "until", 0, "stop after this simulation time")
	fs.BoolVar(&c.SkipUnresolved, "skip-unresolved", false, "skip interfaces whose signals are missing instead of failing")
	fs.BoolVar(&c.NoShare, "no-share", false, "give every interface its own clock/reset watcher")
	fs.BoolVar(&c.ListSignals, "list-signals", false, "print every signal declared in the trace and exit")
	fs.StringVar(&c.TopologyPath, "topology", "", "write the watcher/interface graph as DOT to this file")
	fs.StringVar(&c.Profile, "profile", "", "write a cpu or mem profile to the working directory")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return CLI{}, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}

	switch len(positional) {
	case 0:
		c.Trace = DefaultTrace
	case 1:
		c.Trace = positional[0]
	default:
		fs.Usage()
		return CLI{}, fmt.Errorf("expected at most one trace file, got %d", len(positional))
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "until" {
			c.HasUntil = true
		}
	})

	switch c.Profile {
	case "", "cpu", "mem":
	default:
		return CLI{}, fmt.Errorf("-profile must be cpu or mem, got %q", c.Profile)
	}
	return c, nil
}
