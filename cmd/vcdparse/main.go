package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/profile"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/app"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/config"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/config/cache"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/detect"
)

const debugLogFile = "vcd_parse.log"

//go:embed yaml/config.yaml
var bundledConfig []byte

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cli, err := config.ParseCLI(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger := log.New(stderr, "", log.LstdFlags)
	if cli.Debug {
		f, err := os.Create(debugLogFile)
		if err != nil {
			fmt.Fprintf(stderr, "open debug log: %v\n", err)
			return 1
		}
		defer f.Close()
		logger.SetOutput(io.MultiWriter(stderr, f))
	}

	switch cli.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	trace, err := os.Open(cli.Trace)
	if err != nil {
		logger.Printf("vcd_error msg=%q", err.Error())
		return 1
	}
	defer trace.Close()

	svc := app.NewService(config.ParseInterfacesBytes, cache.NewInMemory(1))

	if cli.ListSignals {
		if err := svc.ListSignals(trace, stdout); err != nil {
			logger.Printf("vcd_error msg=%q", err.Error())
			return 1
		}
		return 0
	}

	doc := bundledConfig
	if cli.ConfigPath != "" {
		doc, err = os.ReadFile(cli.ConfigPath)
		if err != nil {
			logger.Printf("vcd_error msg=%q", err.Error())
			return 1
		}
	}

	// Gate lines go through the same logger synchronously so the debug log
	// keeps them in trace order with the detect_* lines.
	gate := detect.NewGateLogger(logger)

	opts := app.RunOptions{
		Until:          cli.Until,
		HasUntil:       cli.HasUntil,
		SkipUnresolved: cli.SkipUnresolved,
		NoShare:        cli.NoShare,
		Debug:          cli.Debug,
		Logger:         logger,
		GateObserver:   gate,
	}
	if cli.TopologyPath != "" {
		f, err := os.Create(cli.TopologyPath)
		if err != nil {
			logger.Printf("vcd_error msg=%q", err.Error())
			return 1
		}
		defer f.Close()
		opts.Topology = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, err := svc.Run(ctx, doc, trace, stdout, opts)
	if sum != nil {
		logger.Printf("vcd_done batches=%d last_time=%d records=%d truncated=%t", sum.Batches, sum.LastTime, sum.Records(), sum.Truncated)
		if cli.Debug {
			for _, st := range sum.Interfaces {
				logger.Printf("vcd_interface name=%s edges=%d records=%d deasserted=%d indeterminate=%d payload_errors=%d filtered=%d",
					st.Name, st.Edges, st.Records, st.Deasserted, st.Indeterminate, st.PayloadErrors, st.Filtered)
			}
		}
	}
	if err != nil {
		logger.Printf("vcd_error msg=%q", err.Error())
		return 1
	}
	return 0
}
