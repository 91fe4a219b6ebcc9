package bridge

import (
	"os"
	"path/filepath"
	"time"

	"github.com/aurantiaco/bridgesim/internal/model"
	"github.com/aurantiaco/bridgesim/internal/pickle"
)

// recordKind distinguishes the three BridgeStat record variants.
type recordKind int

const (
	recordBroadcast recordKind = iota
	recordDispatch
	recordDiscard
)

// BridgeStat collects the bridge's activity records (broadcast, dispatch,
// discard) in emission order, each timestamped relative to the run's start,
// grounded on the reference's BridgeStat (records + times + init).
type BridgeStat struct {
	init   time.Time
	kinds  []recordKind
	frames []model.Frame
	times  []time.Duration
}

// NewBridgeStat creates a BridgeStat whose timestamps are measured from now.
func NewBridgeStat() *BridgeStat {
	return &BridgeStat{init: time.Now()}
}

// Init returns the run-start instant statistics are timestamped against.
func (s *BridgeStat) Init() time.Time { return s.init }

// Broadcast records that frame was broadcast for resolution.
func (s *BridgeStat) Broadcast(frame model.Frame) { s.record(recordBroadcast, frame) }

// Dispatch records that frame was dispatched to a resolved segment.
func (s *BridgeStat) Dispatch(frame model.Frame) { s.record(recordDispatch, frame) }

// Discard records that frame was discarded after a failed resolution.
func (s *BridgeStat) Discard(frame model.Frame) { s.record(recordDiscard, frame) }

func (s *BridgeStat) record(kind recordKind, frame model.Frame) {
	s.kinds = append(s.kinds, kind)
	s.frames = append(s.frames, frame)
	s.times = append(s.times, time.Since(s.init))
}

// Counts returns the number of broadcast, dispatch, and discard records
// seen so far, in that order. The bridge's rolling counters are kept
// separately and do not use it.
func (s *BridgeStat) Counts() (broadcast, dispatch, discard int) {
	for _, k := range s.kinds {
		switch k {
		case recordBroadcast:
			broadcast++
		case recordDispatch:
			dispatch++
		case recordDiscard:
			discard++
		}
	}
	return
}

// activityMicros returns the elapsed microseconds of every record of kind,
// in record order.
func (s *BridgeStat) activityMicros(kind recordKind) []int64 {
	var out []int64
	for i, k := range s.kinds {
		if k == kind {
			out = append(out, s.times[i].Microseconds())
		}
	}
	return out
}

// latencyPairs walks records in order, remembering each frame's broadcast
// time in a map keyed by frame value, and on a matching Dispatch/Discard
// emits [broadcast_us, latency_us]. A frame with no recorded broadcast (a
// direct dispatch) contributes nothing. Re-broadcasting the same frame
// value overwrites its stored broadcast time, matching the reference's
// documented collision behavior (spec Open Question, intentionally kept).
func (s *BridgeStat) latencyPairs() [][2]int64 {
	broadcastAt := make(map[model.Frame]time.Duration)
	var pairs [][2]int64
	for i, k := range s.kinds {
		frame := s.frames[i]
		switch k {
		case recordBroadcast:
			broadcastAt[frame] = s.times[i]
		case recordDispatch, recordDiscard:
			if t0, ok := broadcastAt[frame]; ok {
				delete(broadcastAt, frame)
				pairs = append(pairs, [2]int64{t0.Microseconds(), (s.times[i] - t0).Microseconds()})
			}
		}
	}
	return pairs
}

// BridgePendingStat collects Holder key-count samples: on a held Request
// the sample is taken just before the frame is pushed, and on
// Success/Failure just after the destination's frames are released.
// Grounded on the reference's BridgePendingStat (rec + times).
type BridgePendingStat struct {
	init   time.Time
	times  []time.Duration
	counts []int
}

// NewBridgePendingStat creates a BridgePendingStat sharing init as its
// run-start instant, so its timestamps are comparable to a BridgeStat's.
func NewBridgePendingStat(init time.Time) *BridgePendingStat {
	return &BridgePendingStat{init: init}
}

// Sample records the current Holder key count.
func (p *BridgePendingStat) Sample(count int) {
	p.times = append(p.times, time.Since(p.init))
	p.counts = append(p.counts, count)
}

func (p *BridgePendingStat) congestionPairs() [][2]int64 {
	pairs := make([][2]int64, len(p.counts))
	for i, c := range p.counts {
		pairs[i] = [2]int64{p.times[i].Microseconds(), int64(c)}
	}
	return pairs
}

// ExportStatistics writes the five scatter files (§6) into dir, creating it
// if necessary.
func ExportStatistics(dir string, stat *BridgeStat, pending *BridgePendingStat) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	exports := []struct {
		name string
		data func() error
	}{
		{"sc_broadcast_activity.pkl", func() error { return writePickleInts(dir, "sc_broadcast_activity.pkl", stat.activityMicros(recordBroadcast)) }},
		{"sc_dispatch_activity.pkl", func() error { return writePickleInts(dir, "sc_dispatch_activity.pkl", stat.activityMicros(recordDispatch)) }},
		{"sc_discard_activity.pkl", func() error { return writePickleInts(dir, "sc_discard_activity.pkl", stat.activityMicros(recordDiscard)) }},
		{"sc_latency.pkl", func() error { return writePicklePairs(dir, "sc_latency.pkl", stat.latencyPairs()) }},
		{"sc_congestion.pkl", func() error { return writePicklePairs(dir, "sc_congestion.pkl", pending.congestionPairs()) }},
	}

	for _, e := range exports {
		if err := e.data(); err != nil {
			return err
		}
	}
	return nil
}

func writePickleInts(dir, name string, xs []int64) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	return pickle.WriteInts(f, xs)
}

func writePicklePairs(dir, name string, pairs [][2]int64) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	return pickle.WritePairs(f, pairs)
}
