// Package orchestrator replays a pre-built frame sequence into the bridge
// in wall-clock time, shaping the send rate with a half-sine CDF so traffic
// ramps up, peaks mid-run, and tapers off. Grounded on the reference's
// distribute/orchestrator functions in net_exp_bridge::simulate, with the
// "wake up periodically, do work, check context" shape carried over from
// the teacher's ticker-driven pingLoop/statsLoop idiom.
package orchestrator

import (
	"context"
	"math"
	"time"

	"github.com/aurantiaco/bridgesim/internal/bridge"
	"github.com/aurantiaco/bridgesim/internal/events"
	"github.com/aurantiaco/bridgesim/internal/logging"
	"github.com/aurantiaco/bridgesim/internal/model"
)

// HalfSineCDF is the default replay-shaping CDF: cdf(0)=0, cdf(0.5)=0.5,
// cdf(1)=1, monotonically increasing, slope 0 at both ends and steepest at
// the midpoint.
func HalfSineCDF(x float64) float64 {
	return (math.Sin(x*math.Pi-math.Pi/2) + 1) / 2
}

// Bucketize splits frames into elapseSec*1000 one-millisecond buckets sized
// by cdf, preserving frame order within and across buckets. Any rounding
// slack is appended to the final bucket.
func Bucketize(frames []model.Frame, elapseSec int, cdf func(float64) float64) [][]model.Frame {
	duration := elapseSec * 1000
	buckets := make([][]model.Frame, duration)
	n := len(frames)
	lastCut := 0
	for i := 0; i < duration; i++ {
		cut := int(cdf(float64(i)/float64(duration)) * float64(n))
		if cut > n {
			cut = n
		}
		if cut < lastCut {
			cut = lastCut
		}
		buckets[i] = frames[lastCut:cut]
		lastCut = cut
	}
	if lastCut < n {
		buckets[duration-1] = append(buckets[duration-1], frames[lastCut:]...)
	}
	return buckets
}

// Config configures a replay Run.
type Config struct {
	Logger    *logging.Logger
	ElapseSec int
	CDF       func(float64) float64 // defaults to HalfSineCDF
	// Emitter receives an orchestrator_progress event alongside every
	// periodic progress log. Defaults to events.NopEmitter{}.
	Emitter events.Emitter
}

// Run bucketizes frames per cfg and streams them into out as Request
// events, sleeping 1ms between ticks and advancing through buckets by
// elapsed wall-clock time. It returns once every frame has been sent, or
// early if ctx is canceled.
func Run(ctx context.Context, frames []model.Frame, out chan<- bridge.Event, cfg Config) error {
	cdf := cfg.CDF
	if cdf == nil {
		cdf = HalfSineCDF
	}
	elapseSec := cfg.ElapseSec
	if elapseSec <= 0 {
		elapseSec = 10
	}
	logger := cfg.Logger
	emitter := cfg.Emitter
	if emitter == nil {
		emitter = events.NopEmitter{}
	}

	logger.Info("orchestrator started")
	buckets := Bucketize(frames, elapseSec, cdf)
	duration := len(buckets)
	total := uint64(len(frames))

	begin := time.Now()
	last := 0
	lastLog := time.Now()
	sent := 0

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	sendBucket := func(bucket []model.Frame) error {
		for _, f := range bucket {
			select {
			case out <- bridge.RequestEvent(f):
				sent++
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	for {
		cur := int(time.Since(begin).Milliseconds())
		if cur >= duration {
			for _, bucket := range buckets[last:] {
				if err := sendBucket(bucket); err != nil {
					return err
				}
			}
			break
		}
		if cur > last {
			for _, bucket := range buckets[last:cur] {
				if err := sendBucket(bucket); err != nil {
					return err
				}
			}
			last = cur
		}
		if time.Since(lastLog) > 250*time.Millisecond {
			logger.Info("sent %d frames", sent)
			emitter.Emit(events.EventOrchestratorProgress, events.OrchestratorProgressData{
				Sent:  uint64(sent),
				Total: total,
			})
			sent = 0
			lastLog = time.Now()
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	logger.Info("orchestrator exiting")
	return nil
}
