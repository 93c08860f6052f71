package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/detect"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/vcd"
)

// ConfigParser turns an interface configuration document into specs.
type ConfigParser func(doc []byte) ([]detect.InterfaceSpec, error)

type Cache interface {
	GetOrCompute(doc string, fn func() ([]detect.InterfaceSpec, error)) ([]detect.InterfaceSpec, error)
}

type Service struct {
	parse      ConfigParser
	cache      Cache
	engineOpts []detect.EngineOption
}

type ServiceOption func(*Service)

// WithEngineOptions applies opts to every engine the service builds, before
// any per-call options.
func WithEngineOptions(opts ...detect.EngineOption) ServiceOption {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

func NewService(parse ConfigParser, cache Cache, opts ...ServiceOption) *Service {
	s := &Service{parse: parse, cache: cache}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOptions are the per-invocation knobs of Run.
type RunOptions struct {
	Until          uint64
	HasUntil       bool
	SkipUnresolved bool
	NoShare        bool
	Debug          bool
	Logger         *log.Logger
	GateObserver   detect.GateObserver
	// Topology, when set, receives the DOT graph of the engine before the
	// trace is processed.
	Topology io.Writer
}

func (o RunOptions) engineOptions() []detect.EngineOption {
	var opts []detect.EngineOption
	if o.Logger != nil {
		opts = append(opts, detect.WithLogger(o.Logger))
	}
	if o.GateObserver != nil {
		opts = append(opts, detect.WithGateObserver(o.GateObserver))
	}
	if o.HasUntil {
		opts = append(opts, detect.WithUntil(o.Until))
	}
	if o.SkipUnresolved {
		opts = append(opts, detect.WithSkipUnresolved())
	}
	if o.NoShare {
		opts = append(opts, detect.WithoutWatcherSharing())
	}
	if o.Debug {
		opts = append(opts, detect.WithDebug())
	}
	return opts
}

// Specs parses (cached by content) an interface configuration.
func (s *Service) Specs(configYAML []byte) ([]detect.InterfaceSpec, error) {
	if len(bytes.TrimSpace(configYAML)) == 0 {
		return nil, fmt.Errorf("interface configuration is empty")
	}
	doc := string(configYAML)
	return s.cache.GetOrCompute(doc, func() ([]detect.InterfaceSpec, error) {
		return s.parse(configYAML)
	})
}

func (s *Service) prepare(configYAML []byte, trace io.Reader, opts RunOptions) (*detect.Engine, *vcd.Reader, error) {
	specs, err := s.Specs(configYAML)
	if err != nil {
		return nil, nil, err
	}
	r, err := vcd.NewReader(trace)
	if err != nil {
		return nil, nil, fmt.Errorf("read trace header: %w", err)
	}
	engineOpts := append(append([]detect.EngineOption(nil), s.engineOpts...), opts.engineOptions()...)
	e, err := detect.NewEngine(specs, r, engineOpts...)
	if err != nil {
		return nil, nil, err
	}
	return e, r, nil
}

// Run prints the banner and then one line per detected transaction to out.
func (s *Service) Run(ctx context.Context, configYAML []byte, trace io.Reader, out io.Writer, opts RunOptions) (*detect.Summary, error) {
	e, r, err := s.prepare(configYAML, trace, opts)
	if err != nil {
		return nil, err
	}

	if opts.Topology != nil {
		dot, err := e.Topology()
		if err != nil {
			return nil, fmt.Errorf("build topology: %w", err)
		}
		if _, err := io.WriteString(opts.Topology, dot); err != nil {
			return nil, fmt.Errorf("write topology: %w", err)
		}
	}

	if err := e.Banner(out); err != nil {
		return nil, err
	}

	sink := detect.NewLineSink(out)
	sum, runErr := e.Run(ctx, r, sink)
	if err := sink.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	return sum, runErr
}

// ListSignals prints every signal declared by the trace header with its
// width, one per line.
func (s *Service) ListSignals(trace io.Reader, out io.Writer) error {
	r, err := vcd.NewReader(trace)
	if err != nil {
		return fmt.Errorf("read trace header: %w", err)
	}
	for _, name := range r.Names() {
		id, _ := r.Resolve(name)
		if _, err := fmt.Fprintf(out, "%s [%d]\n", name, r.Width(id)); err != nil {
			return err
		}
	}
	return nil
}

type ExtractRequest struct {
	ConfigYAML string
	Trace      string
	Until      *uint64
	Debug      bool
}

type InterfaceInfo struct {
	Name    string   `json:"name"`
	Control []string `json:"control"`
	Payload []string `json:"payload"`
}

type ExtractResult struct {
	Interfaces  []InterfaceInfo `json:"interfaces"`
	Records     []string        `json:"records"`
	Summary     *detect.Summary `json:"summary"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

// Extract runs a whole trace held in memory and collects the records.
func (s *Service) Extract(ctx context.Context, req ExtractRequest) (*ExtractResult, error) {
	if strings.TrimSpace(req.Trace) == "" {
		return nil, fmt.Errorf("trace is required")
	}

	var diag bytes.Buffer
	opts := RunOptions{}
	if req.Until != nil {
		opts.Until, opts.HasUntil = *req.Until, true
	}
	if req.Debug {
		logger := log.New(&diag, "", 0)
		opts.Debug = true
		opts.Logger = logger
		opts.GateObserver = detect.NewGateLogger(logger)
	}

	e, r, err := s.prepare([]byte(req.ConfigYAML), strings.NewReader(req.Trace), opts)
	if err != nil {
		return nil, err
	}

	res := &ExtractResult{Records: []string{}}
	for _, iface := range e.Interfaces() {
		res.Interfaces = append(res.Interfaces, InterfaceInfo{Name: iface.Spec.Name, Control: iface.Control, Payload: iface.Payload})
	}

	sum, err := e.Run(ctx, r, detect.SinkFunc(func(rec detect.Record) error {
		res.Records = append(res.Records, rec.String())
		return nil
	}))
	res.Summary = sum
	if req.Debug {
		res.Diagnostics = splitLines(diag.String())
	}
	if err != nil {
		return res, err
	}
	return res, nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
