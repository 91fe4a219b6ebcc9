// Package model defines the value types routed by the bridge: physical
// addresses, network segments, and the frames that carry data between them.
package model

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address is a 4-byte physical endpoint identifier.
type Address [4]byte

// String renders the address as "xx:xx:xx:xx" lowercase hex.
func (a Address) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3])
}

// ParseAddress parses the "xx:xx:xx:xx" textual form.
func ParseAddress(s string) (Address, error) {
	var a Address
	if len(s) != 11 {
		return a, fmt.Errorf("address %q: want 11 characters, got %d", s, len(s))
	}
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return a, fmt.Errorf("address %q: malformed separators", s)
	}
	for i, p := range parts {
		b, err := hex.DecodeString(p)
		if err != nil || len(b) != 1 {
			return a, fmt.Errorf("address %q: invalid byte %q", s, p)
		}
		a[i] = b[0]
	}
	return a, nil
}

// Segment is a 2-byte identifier of a bridge port / network segment.
type Segment [2]byte

// String renders the segment as "xx:xx" lowercase hex.
func (s Segment) String() string {
	return fmt.Sprintf("%02x:%02x", s[0], s[1])
}

// ParseSegment parses the "xx:xx" textual form.
func ParseSegment(s string) (Segment, error) {
	var seg Segment
	if len(s) != 5 {
		return seg, fmt.Errorf("segment %q: want 5 characters, got %d", s, len(s))
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return seg, fmt.Errorf("segment %q: malformed separators", s)
	}
	for i, p := range parts {
		b, err := hex.DecodeString(p)
		if err != nil || len(b) != 1 {
			return seg, fmt.Errorf("segment %q: invalid byte %q", s, p)
		}
		seg[i] = b[0]
	}
	return seg, nil
}

// FrameData is the 4-byte opaque payload carried by a Frame.
//
// The original reference implementation's textual parser reads 16 payload
// bytes while its binary form is 4 bytes; the binary form is authoritative
// here since it's what the simulator actually consumes (spec Open Question
// (a)), so both the binary and textual forms below agree on 4 bytes.
type FrameData [4]byte

// Frame is one routed message: source, the segment it entered on, its
// destination, and its payload. Frame is comparable and usable directly as
// a map key (the latency scatter exporter keys on Frame value).
type Frame struct {
	Src    Address
	SrcSeg Segment
	Dst    Address
	Data   FrameData
}

// String renders the frame as "<src> <src_seg> <dst> <hex-payload>".
func (f Frame) String() string {
	return fmt.Sprintf("%s %s %s %s", f.Src, f.SrcSeg, f.Dst, hex.EncodeToString(f.Data[:]))
}

// ParseFrame parses the "<src> <src_seg> <dst> <hex-payload>" textual form.
func ParseFrame(s string) (Frame, error) {
	var f Frame
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return f, fmt.Errorf("frame %q: want 4 space-separated fields, got %d", s, len(fields))
	}
	src, err := ParseAddress(fields[0])
	if err != nil {
		return f, err
	}
	srcSeg, err := ParseSegment(fields[1])
	if err != nil {
		return f, err
	}
	dst, err := ParseAddress(fields[2])
	if err != nil {
		return f, err
	}
	data, err := hex.DecodeString(fields[3])
	if err != nil || len(data) != len(f.Data) {
		return f, fmt.Errorf("frame %q: payload must be %d hex bytes", s, len(f.Data))
	}
	f.Src, f.SrcSeg, f.Dst = src, srcSeg, dst
	copy(f.Data[:], data)
	return f, nil
}

// AddrSeg is a single (Address, Segment) ground-truth assignment, the unit
// record of addr_seg.rmp.
type AddrSeg struct {
	Addr Address
	Seg  Segment
}
