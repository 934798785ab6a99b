// Package main provides the entry point for coherencesim, a trace-driven
// snoop-based cache-coherence simulator.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rishabh-c-s/fesi-coherence-sim/internal/coherence"
	"github.com/rishabh-c-s/fesi-coherence-sim/internal/report"
	"github.com/rishabh-c-s/fesi-coherence-sim/internal/trace"
)

var (
	tracePath  = flag.String("trace", "", "Path to trace file (default: stdin)")
	cores      = flag.Int("cores", 16, "Number of cores (caches)")
	numSets    = flag.Int("sets", 4, "Sets per cache")
	numWays    = flag.Int("ways", 4, "Associativity (ways per set)")
	offsetBits = flag.Int("offset-bits", 6, "Block offset bits")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	in, err := openTrace(*tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening trace: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = in.Close() }()

	os.Exit(run(in, os.Stdout))
}

func openTrace(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	return f, nil
}

// run drives one simulation to completion and returns the process exit
// code. It mirrors the reference driver's early-exit behavior: an unknown
// protocol header or an out-of-range core number both end the run
// immediately, without printing a final report.
func run(in io.Reader, out io.Writer) int {
	reader := trace.NewReader(in)

	protocolName, err := reader.ReadProtocol()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trace: %v\n", err)
		return 1
	}

	protocol, ok := coherence.ParseProtocol(protocolName)
	if !ok {
		return 0
	}

	cfg := coherence.Config{
		Protocol:   protocol,
		NumCores:   *cores,
		NumSets:    *numSets,
		NumWays:    *numWays,
		OffsetBits: *offsetBits,
	}
	engine := coherence.NewEngine(cfg)

	if *verbose {
		fmt.Fprintf(out, "Loaded trace with protocol %s, %d cores\n", protocolName, cfg.NumCores)
	}

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading trace: %v\n", err)
			return 1
		}

		if stepErr := engine.Step(rec.Core, rec.Op, rec.Address); stepErr != nil {
			fmt.Fprintln(out, stepErr.Error())
			return 0
		}
	}

	report.Write(out, protocolName, engine)
	return 0
}
