// Package facility plays the role of the surrounding network: it answers
// the bridge's destination probes against a ground-truth address→segment
// mapping and counts terminal frames to decide when the run is complete.
// Grounded on the reference's facility/FacilityMeter functions in
// net_exp_bridge::simulate, with the teacher's recvLoop
// dispatch-by-message-type idiom (internal/bridge/bridge.go's recvLoop
// switches on msg.Type) carried over as a switch on Command.Kind.
package facility

import (
	"context"
	"time"

	"github.com/aurantiaco/bridgesim/internal/bridge"
	"github.com/aurantiaco/bridgesim/internal/events"
	"github.com/aurantiaco/bridgesim/internal/logging"
	"github.com/aurantiaco/bridgesim/internal/model"
)

// meter tracks the rolling success/failure/dispatch/discard counts logged
// every 250ms, grounded on the reference's FacilityMeter.
type meter struct {
	success, failure, dispatch, discard int
}

func (m *meter) report(logger *logging.Logger) {
	logger.Info("handled %d successes, %d failures, %d dispatches and %d discards",
		m.success, m.failure, m.dispatch, m.discard)
	*m = meter{}
}

// Config configures a facility Run.
type Config struct {
	Logger *logging.Logger
	// Mapping is the ground-truth address->segment assignment probes are
	// resolved against.
	Mapping map[model.Address]model.Segment
	// ExpectedCount is the number of terminal commands (Dispatch+Discard)
	// the facility waits for before emitting Shutdown.
	ExpectedCount int
	// Emitter receives a facility_progress event alongside every periodic
	// counter log. Defaults to events.NopEmitter{}.
	Emitter events.Emitter
}

// Run consumes commands from the bridge until ExpectedCount terminal
// commands have been observed, then sends Shutdown into out and returns.
func Run(ctx context.Context, commands <-chan bridge.Command, out chan<- bridge.Event, cfg Config) error {
	logger := cfg.Logger
	logger.Info("facility started")

	emitter := cfg.Emitter
	if emitter == nil {
		emitter = events.NopEmitter{}
	}

	var m meter
	lastLog := time.Now()
	terminal := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-commands:
			if !ok {
				logger.Warn("command stream closed before expected count reached")
				return nil
			}

			switch cmd.Kind {
			case bridge.CommandBroadcast:
				if seg, known := cfg.Mapping[cmd.BroadcastAddr]; known {
					m.success++
					if err := sendEvent(ctx, out, bridge.SuccessEvent(cmd.BroadcastAddr, seg)); err != nil {
						return err
					}
				} else {
					m.failure++
					if err := sendEvent(ctx, out, bridge.FailureEvent(cmd.BroadcastAddr)); err != nil {
						return err
					}
				}
			case bridge.CommandDispatch:
				m.dispatch++
				terminal++
			case bridge.CommandDiscard:
				m.discard++
				terminal++
			}

			if time.Since(lastLog) > 250*time.Millisecond {
				m.report(logger)
				emitter.Emit(events.EventFacilityProgress, events.FacilityProgressData{Delivered: uint64(terminal)})
				lastLog = time.Now()
			}

			if terminal == cfg.ExpectedCount {
				logger.Info("facility exiting")
				return sendEvent(ctx, out, bridge.ShutdownEvent())
			}
		}
	}
}

func sendEvent(ctx context.Context, out chan<- bridge.Event, ev bridge.Event) error {
	select {
	case out <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
