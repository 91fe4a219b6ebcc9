// Package bridge implements the self-learning bridge core: a single-writer
// event-driven state machine that maintains a forwarding table, holds
// frames awaiting destination resolution, and releases or discards them
// once the facility answers. This is the heart of the simulation, grounded
// on the reference's `bridge()` function in net_exp_bridge::simulate, with
// the actor shape (single loop goroutine over an inbox channel, periodic
// rolling-counter logging) carried over from the teacher's
// internal/bridge.Bridge.Run / statsLoop idiom.
package bridge

import (
	"context"
	"time"

	"github.com/aurantiaco/bridgesim/internal/events"
	"github.com/aurantiaco/bridgesim/internal/holder"
	"github.com/aurantiaco/bridgesim/internal/logging"
	"github.com/aurantiaco/bridgesim/internal/model"
)

// Config configures a Bridge.
type Config struct {
	// Logger receives per-event and periodic counter logs. Required.
	Logger *logging.Logger
	// OutputDir is where the five statistics files are written on
	// Shutdown. Required.
	OutputDir string
	// StatsInterval is how often rolling counters are logged. Defaults to
	// 50ms, matching the reference's last_t check.
	StatsInterval time.Duration
	// Emitter receives a bridge_counters event alongside every periodic
	// counter log. Defaults to events.NopEmitter{}.
	Emitter events.Emitter
}

// Bridge is the learning-table-and-Holder state machine described in
// spec §4.1. It owns mapping and pending exclusively; nothing outside Run
// ever touches them.
type Bridge struct {
	logger        *logging.Logger
	outputDir     string
	statsInterval time.Duration
	emitter       events.Emitter

	mapping map[model.Address]model.Segment
	pending *holder.Holder

	stat        *BridgeStat
	pendingStat *BridgePendingStat

	// Rolling counters reset on every periodic log. Touched only by the
	// Run goroutine, so no synchronization is needed.
	reqDelta, broadcastDelta, dispatchDelta, discardDelta uint64
}

// New creates a Bridge from cfg.
func New(cfg Config) *Bridge {
	interval := cfg.StatsInterval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	emitter := cfg.Emitter
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	stat := NewBridgeStat()
	return &Bridge{
		logger:        cfg.Logger,
		outputDir:     cfg.OutputDir,
		statsInterval: interval,
		emitter:       emitter,
		mapping:       make(map[model.Address]model.Segment),
		pending:       holder.New(),
		stat:          stat,
		pendingStat:   NewBridgePendingStat(stat.Init()),
	}
}

// Run consumes inbox until it observes a Shutdown event, emitting Commands
// to outbox as it resolves each Request. It returns after exporting the
// three statistics streams. A canceled ctx ends the run early without
// exporting and returns ctx.Err(). An inbox close without a prior Shutdown
// event also ends the run without exporting; it logs a warning and returns
// nil, so the return value alone does not tell it apart from a normal
// shutdown.
func (b *Bridge) Run(ctx context.Context, inbox <-chan Event, outbox chan<- Command) error {
	lastLog := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-inbox:
			if !ok {
				b.logger.Warn("inbox closed before Shutdown observed")
				return nil
			}

			var err error
			switch ev.Kind {
			case EventRequest:
				err = b.handleRequest(ctx, outbox, ev.Request)
			case EventSuccess:
				err = b.handleSuccess(ctx, outbox, ev.SuccessAddr, ev.SuccessSeg)
			case EventFailure:
				err = b.handleFailure(ctx, outbox, ev.FailureAddr)
			case EventShutdown:
				return b.shutdown()
			}
			if err != nil {
				return err
			}
		}

		if time.Since(lastLog) >= b.statsInterval {
			b.logCounters()
			lastLog = time.Now()
		}
	}
}

// handleRequest implements spec §4.1's "On Request(frame)".
func (b *Bridge) handleRequest(ctx context.Context, outbox chan<- Command, frame model.Frame) error {
	b.reqDelta++

	// Source learning: first-wins, never overwritten.
	if _, known := b.mapping[frame.Src]; !known {
		b.mapping[frame.Src] = frame.SrcSeg
	}

	// Destination resolution.
	if seg, known := b.mapping[frame.Dst]; known {
		b.stat.Dispatch(frame)
		b.dispatchDelta++
		return b.send(ctx, outbox, DispatchCommand(frame, seg))
	}

	if !b.pending.Has(frame.Dst) {
		b.stat.Broadcast(frame)
		b.broadcastDelta++
		if err := b.send(ctx, outbox, BroadcastCommand(frame.Dst)); err != nil {
			return err
		}
		b.pendingStat.Sample(b.pending.KeyCount())
		b.pending.Push(frame)
		return nil
	}

	// A probe is already in flight for this destination: queue behind it,
	// recording the frame as broadcast without emitting a second probe.
	b.stat.Broadcast(frame)
	b.broadcastDelta++
	b.pendingStat.Sample(b.pending.KeyCount())
	b.pending.Push(frame)
	return nil
}

// handleSuccess implements spec §4.1's "On Success(addr, seg)".
func (b *Bridge) handleSuccess(ctx context.Context, outbox chan<- Command, addr model.Address, seg model.Segment) error {
	b.mapping[addr] = seg // resolution learning overwrites

	frames := b.pending.Drain(addr)
	for _, frame := range frames {
		b.stat.Dispatch(frame)
		b.dispatchDelta++
		if err := b.send(ctx, outbox, DispatchCommand(frame, seg)); err != nil {
			return err
		}
	}
	b.pendingStat.Sample(b.pending.KeyCount())
	return nil
}

// handleFailure implements spec §4.1's "On Failure(addr)".
func (b *Bridge) handleFailure(ctx context.Context, outbox chan<- Command, addr model.Address) error {
	frames := b.pending.Drain(addr)
	for _, frame := range frames {
		b.stat.Discard(frame)
		b.discardDelta++
		if err := b.send(ctx, outbox, DiscardCommand(frame)); err != nil {
			return err
		}
	}
	b.pendingStat.Sample(b.pending.KeyCount())
	return nil
}

// shutdown exports the statistics streams and returns. Outbox sends are
// never issued past this point.
func (b *Bridge) shutdown() error {
	b.logCounters()
	b.logger.Info("shutdown: exporting statistics to %s", b.outputDir)
	return ExportStatistics(b.outputDir, b.stat, b.pendingStat)
}

// send delivers cmd to outbox, treating a context cancellation mid-send as
// fatal — outbox sends must never be silently dropped.
func (b *Bridge) send(ctx context.Context, outbox chan<- Command, cmd Command) error {
	select {
	case outbox <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// logCounters logs the rolling request/broadcast/dispatch/discard deltas,
// emits the same counters as a bridge_counters event, and resets them,
// matching the reference's last_t-gated counter log.
func (b *Bridge) logCounters() {
	pending := b.pending.KeyCount()
	b.logger.Stats("req=%d broadcast=%d dispatch=%d discard=%d pending=%d",
		b.reqDelta, b.broadcastDelta, b.dispatchDelta, b.discardDelta, pending)
	b.emitter.Emit(events.EventBridgeCounters, events.BridgeCountersData{
		Requests:  b.reqDelta,
		Broadcast: b.broadcastDelta,
		Dispatch:  b.dispatchDelta,
		Discard:   b.discardDelta,
		Pending:   pending,
	})
	b.reqDelta, b.broadcastDelta, b.dispatchDelta, b.discardDelta = 0, 0, 0, 0
}
