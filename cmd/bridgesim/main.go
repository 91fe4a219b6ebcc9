// bridgesim replays a generated frame sequence through the self-learning
// bridge core, answering destination probes against a ground-truth
// address/segment assignment and exporting activity, latency, and
// congestion scatter data once every frame has reached a terminal state.
// Grounded on net_exp_bridge::simulate's three-task wiring (orchestrator,
// bridge, facility) and on the teacher's cmd/xbslink-ng/main.go for flag
// parsing, config persistence, event-emitter selection, and signal-driven
// shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/aurantiaco/bridgesim/internal/bridge"
	"github.com/aurantiaco/bridgesim/internal/config"
	"github.com/aurantiaco/bridgesim/internal/events"
	"github.com/aurantiaco/bridgesim/internal/facility"
	"github.com/aurantiaco/bridgesim/internal/logging"
	"github.com/aurantiaco/bridgesim/internal/model"
	"github.com/aurantiaco/bridgesim/internal/orchestrator"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const (
	defaultElapseSec     = 10
	defaultStatsInterval = 50 * time.Millisecond
	defaultLogLevel      = "info"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			fmt.Printf("bridgesim %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	fs := flag.NewFlagSet("bridgesim", flag.ExitOnError)
	frameFile := fs.String("frame-file", "frame.rmp", "path to the generated frame sequence")
	addrSegFile := fs.String("addr-seg-file", "addr_seg.rmp", "path to the ground-truth address/segment assignment")
	elapseSec := fs.Int("elapse-sec", defaultElapseSec, "replay duration in seconds")
	outDir := fs.String("out", ".", "directory to write scatter exports to")
	logLevel := fs.String("log", defaultLogLevel, "log level: error|warn|info|debug|trace")
	statsInterval := fs.Duration("stats-interval", defaultStatsInterval, "interval between bridge counter logs")
	eventsOutput := fs.String("events-output", "", "write JSON Line events to: stdout, stderr, or a file path")
	fs.Parse(os.Args[1:])

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(level)

	emitter, err := createEmitter(*eventsOutput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating event emitter: %v\n", err)
		os.Exit(1)
	}
	defer emitter.Close()

	logger.Info("bridgesim %s starting", Version)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config: %v", err)
		cfg = &config.Config{}
	}

	frames, err := loadFrames(*frameFile)
	if err != nil {
		logger.Error("failed to load frame sequence: %v", err)
		os.Exit(1)
	}
	logger.Info("loaded %d frames from %s", len(frames), *frameFile)

	mapping, err := loadMapping(*addrSegFile)
	if err != nil {
		logger.Error("failed to load address/segment assignment: %v", err)
		os.Exit(1)
	}
	logger.Info("loaded %d addresses from %s", len(mapping), *addrSegFile)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("interrupted, shutting down early")
		cancel()
	}()
	defer signal.Stop(sigCh)

	toBridge := make(chan bridge.Event, 1024)
	toFacility := make(chan bridge.Command, 1024)

	br := bridge.New(bridge.Config{
		Logger:        logger.WithComponent("bridge"),
		OutputDir:     *outDir,
		StatsInterval: *statsInterval,
		Emitter:       emitter,
	})

	var wg sync.WaitGroup
	errs := make([]error, 3)

	wg.Add(3)
	go func() {
		defer wg.Done()
		errs[0] = br.Run(ctx, toBridge, toFacility)
	}()
	go func() {
		defer wg.Done()
		errs[1] = orchestrator.Run(ctx, frames, toBridge, orchestrator.Config{
			Logger:    logger.WithComponent("orchestrator"),
			ElapseSec: *elapseSec,
			Emitter:   emitter,
		})
	}()
	go func() {
		defer wg.Done()
		errs[2] = facility.Run(ctx, toFacility, toBridge, facility.Config{
			Logger:        logger.WithComponent("facility"),
			Mapping:       mapping,
			ExpectedCount: len(frames),
			Emitter:       emitter,
		})
	}()

	begin := time.Now()
	wg.Wait()

	for _, err := range errs {
		if err != nil && err != context.Canceled {
			logger.Error("run failed: %v", err)
			emitter.Emit(events.EventError, events.ErrorData{Message: err.Error()})
			os.Exit(1)
		}
	}

	duration := time.Since(begin)
	logger.Info("run complete in %s", duration)
	emitter.Emit(events.EventRunComplete, events.RunCompleteData{DurationMs: duration.Milliseconds()})

	cfg.RememberRun(*frameFile, *addrSegFile, *outDir, float64(*elapseSec))
	if err := cfg.Save(); err != nil {
		logger.Warn("failed to save config: %v", err)
	}
}

func loadFrames(path string) ([]model.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return model.ReadFrames(f)
}

func loadMapping(path string) (map[model.Address]model.Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pairs, err := model.ReadAddrSegs(f)
	if err != nil {
		return nil, err
	}
	mapping := make(map[model.Address]model.Segment, len(pairs))
	for _, p := range pairs {
		mapping[p.Addr] = p.Seg
	}
	return mapping, nil
}

// createEmitter creates an Emitter based on the --events-output flag value.
// Returns a NopEmitter if the value is empty.
func createEmitter(output string) (events.Emitter, error) {
	switch output {
	case "":
		return events.NopEmitter{}, nil
	case "stdout":
		return events.NewJSONLineWriter(os.Stdout), nil
	case "stderr":
		return events.NewJSONLineWriter(os.Stderr), nil
	default:
		flags := os.O_WRONLY | os.O_APPEND
		if _, err := os.Stat(output); os.IsNotExist(err) {
			flags |= os.O_CREATE
		}
		f, err := os.OpenFile(output, flags, 0644)
		if err != nil {
			return nil, fmt.Errorf("open events output %q: %w", output, err)
		}
		return events.NewJSONLineWriter(f), nil
	}
}

func printUsage() {
	fmt.Print(`bridgesim - self-learning bridge traffic simulator

Usage:
  bridgesim [flags]

Flags:
  --frame-file      Path to the generated frame sequence (default: frame.rmp)
  --addr-seg-file   Path to the ground-truth address/segment assignment (default: addr_seg.rmp)
  --elapse-sec      Replay duration in seconds (default: 10)
  --out             Directory to write scatter exports to (default: .)
  --log             Log level: error|warn|info|debug|trace (default: info)
  --stats-interval  Interval between bridge counter logs (default: 50ms)
  --events-output   Write JSON Line events to: stdout, stderr, or a file path

Examples:
  # Generate inputs first
  bridgegen --out ./run1

  # Replay them over 30 seconds
  bridgesim --frame-file ./run1/frame.rmp --addr-seg-file ./run1/addr_seg.rmp --elapse-sec 30 --out ./run1
`)
}
