// Package pickle writes a minimal subset of the Python pickle protocol 2
// wire format: lists of integers and lists of two-element integer lists.
// These are the only two shapes the scatter exporters need; nothing in the
// retrieved example repos or the broader Go ecosystem implements a pickle
// *encoder* (only decoders, for reading numpy/PyTorch checkpoints), so this
// package is built directly on encoding/binary, the same way the teacher's
// internal/protocol hand-rolls its wire framing.
package pickle

import (
	"encoding/binary"
	"io"
)

// Protocol 2 opcodes used by this writer.
const (
	opProto     = 0x80
	opEmptyList = ']'
	opMark      = '('
	opAppend    = 'a'
	opAppends   = 'e'
	opStop      = '.'
	opBinInt1   = 'K'
	opBinInt2   = 'M'
	opBinInt    = 'J'
	opLong1     = 0x8a
)

const protocolVersion = 2

// WriteInts writes xs as a pickled list of Python ints.
func WriteInts(w io.Writer, xs []int64) error {
	bw := &byteWriter{w: w}
	bw.writeHeader()
	bw.writeIntList(xs)
	bw.writeByte(opStop)
	return bw.err
}

// WritePairs writes pairs as a pickled list of two-element int lists.
func WritePairs(w io.Writer, pairs [][2]int64) error {
	bw := &byteWriter{w: w}
	bw.writeHeader()
	bw.writeByte(opEmptyList)
	if len(pairs) > 0 {
		bw.writeByte(opMark)
		for _, p := range pairs {
			bw.writeByte(opEmptyList)
			bw.writeByte(opMark)
			bw.writeInt(p[0])
			bw.writeInt(p[1])
			bw.writeByte(opAppends)
		}
		bw.writeByte(opAppends)
	}
	bw.writeByte(opStop)
	return bw.err
}

// byteWriter accumulates the first error encountered so call sites don't
// need to check every opcode write individually.
type byteWriter struct {
	w   io.Writer
	err error
}

func (bw *byteWriter) writeHeader() {
	bw.write([]byte{opProto, protocolVersion})
}

func (bw *byteWriter) writeByte(b byte) {
	bw.write([]byte{b})
}

func (bw *byteWriter) write(p []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(p)
}

func (bw *byteWriter) writeIntList(xs []int64) {
	bw.writeByte(opEmptyList)
	if len(xs) == 0 {
		return
	}
	bw.writeByte(opMark)
	for _, x := range xs {
		bw.writeInt(x)
	}
	bw.writeByte(opAppends)
}

// writeInt emits the shortest binary int opcode that represents x exactly,
// falling back to LONG1 for values outside the signed 32-bit range.
func (bw *byteWriter) writeInt(x int64) {
	switch {
	case x >= 0 && x < 0x100:
		bw.write([]byte{opBinInt1, byte(x)})
	case x >= 0 && x < 0x10000:
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(x))
		bw.writeByte(opBinInt2)
		bw.write(buf[:])
	case x >= -(1<<31) && x < (1<<31):
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(int32(x)))
		bw.writeByte(opBinInt)
		bw.write(buf[:])
	default:
		bw.writeLong1(x)
	}
}

// writeLong1 emits LONG1: a length byte followed by that many bytes of
// little-endian two's-complement representation, the minimal encoding
// pickle protocol 2 uses for ints outside BININT's range.
func (bw *byteWriter) writeLong1(x int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(x))

	n := 8
	if x >= 0 {
		for n > 1 && buf[n-1] == 0x00 && buf[n-2]&0x80 == 0 {
			n--
		}
	} else {
		for n > 1 && buf[n-1] == 0xff && buf[n-2]&0x80 != 0 {
			n--
		}
	}

	bw.write([]byte{opLong1, byte(n)})
	bw.write(buf[:n])
}
