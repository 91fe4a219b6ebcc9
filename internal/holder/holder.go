// Package holder implements the bridge's pending-frame queue: a
// destination-keyed FIFO of frames waiting for an in-flight resolution
// probe. A destination's presence as a key doubles as the probe-dedup
// token — see Holder's doc comment.
package holder

import (
	"sort"

	"github.com/aurantiaco/bridgesim/internal/model"
)

// Holder is a keyed queue of frames waiting on an unresolved destination.
//
// A key is present iff at least one frame is waiting for that destination,
// and its presence also means a probe is already in flight for it — the
// bridge must not broadcast a second time while the key remains. Splitting
// "pending frames" from "probe in flight" into two data structures would
// reintroduce the race this fusion avoids.
type Holder struct {
	frames map[model.Address][]model.Frame
}

// New creates an empty Holder.
func New() *Holder {
	return &Holder{frames: make(map[model.Address][]model.Frame)}
}

// Has reports whether a probe is already in flight for addr.
func (h *Holder) Has(addr model.Address) bool {
	_, ok := h.frames[addr]
	return ok
}

// Push enqueues frame under its destination address, preserving insertion
// order for later release.
func (h *Holder) Push(frame model.Frame) {
	h.frames[frame.Dst] = append(h.frames[frame.Dst], frame)
}

// Drain removes and returns all frames queued under addr, in original
// insertion order. Returns nil if addr has no pending frames.
func (h *Holder) Drain(addr model.Address) []model.Frame {
	frames := h.frames[addr]
	delete(h.frames, addr)
	return frames
}

// KeyCount returns the number of distinct destinations currently held.
func (h *Holder) KeyCount() int {
	return len(h.frames)
}

// Keys returns the held destination addresses in sorted order. Iteration
// order over the underlying map is never observed by the bridge; this is
// exposed only for deterministic tests and diagnostics.
func (h *Holder) Keys() []model.Address {
	keys := make([]model.Address, 0, len(h.frames))
	for k := range h.frames {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return lessAddress(keys[i], keys[j])
	})
	return keys
}

func lessAddress(a, b model.Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
