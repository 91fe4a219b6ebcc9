package facility

import (
	"context"
	"testing"
	"time"

	"github.com/aurantiaco/bridgesim/internal/bridge"
	"github.com/aurantiaco/bridgesim/internal/logging"
	"github.com/aurantiaco/bridgesim/internal/model"
)

func addr(b byte) model.Address { return model.Address{0, 0, 0, b} }
func seg(b byte) model.Segment  { return model.Segment{0, b} }

func TestRun_ResolvesKnownAddress(t *testing.T) {
	commands := make(chan bridge.Command, 10)
	events := make(chan bridge.Event, 10)
	logger := logging.NewLogger(logging.LevelError)

	known := addr(1)
	knownSeg := seg(9)
	mapping := map[model.Address]model.Segment{known: knownSeg}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- Run(ctx, commands, events, Config{Logger: logger, Mapping: mapping, ExpectedCount: 1}) }()

	commands <- bridge.BroadcastCommand(known)
	select {
	case ev := <-events:
		if ev.Kind != bridge.EventSuccess || ev.SuccessAddr != known || ev.SuccessSeg != knownSeg {
			t.Fatalf("expected Success(%v, %v), got %+v", known, knownSeg, ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Success event")
	}

	commands <- bridge.DispatchCommand(model.Frame{Dst: known}, knownSeg)
	select {
	case ev := <-events:
		if ev.Kind != bridge.EventShutdown {
			t.Fatalf("expected Shutdown after reaching expected count, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Shutdown event")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestRun_UnknownAddressFails(t *testing.T) {
	commands := make(chan bridge.Command, 10)
	events := make(chan bridge.Event, 10)
	logger := logging.NewLogger(logging.LevelError)

	unknown := addr(0xAA)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go Run(ctx, commands, events, Config{Logger: logger, Mapping: nil, ExpectedCount: 1})

	commands <- bridge.BroadcastCommand(unknown)
	select {
	case ev := <-events:
		if ev.Kind != bridge.EventFailure || ev.FailureAddr != unknown {
			t.Fatalf("expected Failure(%v), got %+v", unknown, ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Failure event")
	}
}

func TestRun_TerminalCountTriggersShutdownOnlyAtExpectedCount(t *testing.T) {
	commands := make(chan bridge.Command, 10)
	events := make(chan bridge.Event, 10)
	logger := logging.NewLogger(logging.LevelError)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- Run(ctx, commands, events, Config{Logger: logger, ExpectedCount: 2}) }()

	commands <- bridge.DiscardCommand(model.Frame{})
	select {
	case ev := <-events:
		t.Fatalf("unexpected event before expected count reached: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	commands <- bridge.DiscardCommand(model.Frame{})
	select {
	case ev := <-events:
		if ev.Kind != bridge.EventShutdown {
			t.Fatalf("expected Shutdown, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Shutdown event")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
