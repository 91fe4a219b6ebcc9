package pickle

import (
	"bytes"
	"testing"
)

func TestWriteInts_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInts(&buf, nil); err != nil {
		t.Fatalf("WriteInts: %v", err)
	}
	want := []byte{opProto, protocolVersion, opEmptyList, opStop}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestWriteInts_Small(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInts(&buf, []int64{1, 2, 300}); err != nil {
		t.Fatalf("WriteInts: %v", err)
	}
	got := buf.Bytes()

	if got[0] != opProto || got[1] != protocolVersion {
		t.Fatalf("missing protocol header: % x", got)
	}
	if got[len(got)-1] != opStop {
		t.Fatalf("missing STOP opcode: % x", got)
	}
	if got[2] != opEmptyList {
		t.Fatalf("expected EMPTY_LIST after header, got %x", got[2])
	}
	if got[3] != opMark {
		t.Fatalf("expected MARK before items, got %x", got[3])
	}
	if !bytes.Contains(got, []byte{opBinInt1, 1}) {
		t.Error("expected BININT1 encoding of 1")
	}
	if !bytes.Contains(got, []byte{opBinInt2, 44, 1}) { // 300 = 0x012c, LE = 2c 01
		t.Error("expected BININT2 encoding of 300")
	}
}

func TestWriteInts_NegativeUsesBinInt(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInts(&buf, []int64{-5}); err != nil {
		t.Fatalf("WriteInts: %v", err)
	}
	got := buf.Bytes()
	if !bytes.Contains(got, []byte{opBinInt}) {
		t.Errorf("expected BININT opcode for negative value, got % x", got)
	}
}

func TestWriteInts_LargeUsesLong1(t *testing.T) {
	var buf bytes.Buffer
	big := int64(1) << 40
	if err := WriteInts(&buf, []int64{big}); err != nil {
		t.Fatalf("WriteInts: %v", err)
	}
	got := buf.Bytes()
	if !bytes.Contains(got, []byte{opLong1}) {
		t.Errorf("expected LONG1 opcode for large value, got % x", got)
	}
}

func TestWritePairs_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePairs(&buf, nil); err != nil {
		t.Fatalf("WritePairs: %v", err)
	}
	want := []byte{opProto, protocolVersion, opEmptyList, opStop}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestWritePairs_Small(t *testing.T) {
	var buf bytes.Buffer
	pairs := [][2]int64{{10, 20}, {30, 40}}
	if err := WritePairs(&buf, pairs); err != nil {
		t.Fatalf("WritePairs: %v", err)
	}
	got := buf.Bytes()

	// Outer list: EMPTY_LIST MARK ... APPENDS ; each element is itself
	// EMPTY_LIST MARK int int APPENDS.
	if got[2] != opEmptyList || got[3] != opMark {
		t.Fatalf("expected outer EMPTY_LIST MARK, got % x", got[2:4])
	}
	count := bytes.Count(got, []byte{opAppends})
	if count != 3 { // 2 inner lists + 1 outer
		t.Errorf("expected 3 APPENDS opcodes, got %d in % x", count, got)
	}
	if got[len(got)-1] != opStop {
		t.Fatalf("missing STOP opcode")
	}
}
