package model

import (
	"io"

	"github.com/tinylib/msgp/msgp"
)

// This file implements the .rmp binary format (the Go analogue of the
// reference implementation's rmp_serde/MessagePack encoding) by hand
// against the tinylib/msgp runtime writer/reader, the same way
// rockstar-0000-aistore's ext/dsort package builds ad hoc msgp.Writer/
// msgp.Reader pairs around hand-written fields instead of running the
// msgp code generator.

func (a Address) EncodeMsg(w *msgp.Writer) error {
	return w.WriteBytes(a[:])
}

func (a *Address) DecodeMsg(r *msgp.Reader) error {
	b, err := r.ReadBytes(a[:0])
	if err != nil {
		return err
	}
	copy(a[:], b)
	return nil
}

func (s Segment) EncodeMsg(w *msgp.Writer) error {
	return w.WriteBytes(s[:])
}

func (s *Segment) DecodeMsg(r *msgp.Reader) error {
	b, err := r.ReadBytes(s[:0])
	if err != nil {
		return err
	}
	copy(s[:], b)
	return nil
}

func (f Frame) EncodeMsg(w *msgp.Writer) error {
	if err := w.WriteArrayHeader(4); err != nil {
		return err
	}
	if err := f.Src.EncodeMsg(w); err != nil {
		return err
	}
	if err := f.SrcSeg.EncodeMsg(w); err != nil {
		return err
	}
	if err := f.Dst.EncodeMsg(w); err != nil {
		return err
	}
	return w.WriteBytes(f.Data[:])
}

func (f *Frame) DecodeMsg(r *msgp.Reader) error {
	sz, err := r.ReadArrayHeader()
	if err != nil {
		return err
	}
	if sz != 4 {
		return msgp.ArrayError{Wanted: 4, Got: sz}
	}
	if err := f.Src.DecodeMsg(r); err != nil {
		return err
	}
	if err := f.SrcSeg.DecodeMsg(r); err != nil {
		return err
	}
	if err := f.Dst.DecodeMsg(r); err != nil {
		return err
	}
	b, err := r.ReadBytes(f.Data[:0])
	if err != nil {
		return err
	}
	copy(f.Data[:], b)
	return nil
}

func (as AddrSeg) EncodeMsg(w *msgp.Writer) error {
	if err := w.WriteArrayHeader(2); err != nil {
		return err
	}
	if err := as.Addr.EncodeMsg(w); err != nil {
		return err
	}
	return as.Seg.EncodeMsg(w)
}

func (as *AddrSeg) DecodeMsg(r *msgp.Reader) error {
	sz, err := r.ReadArrayHeader()
	if err != nil {
		return err
	}
	if sz != 2 {
		return msgp.ArrayError{Wanted: 2, Got: sz}
	}
	if err := as.Addr.DecodeMsg(r); err != nil {
		return err
	}
	return as.Seg.DecodeMsg(r)
}

// WriteFrames encodes a sequence of frames to w in the frame.rmp format.
func WriteFrames(w io.Writer, frames []Frame) error {
	mw := msgp.NewWriter(w)
	if err := mw.WriteArrayHeader(uint32(len(frames))); err != nil {
		return err
	}
	for _, f := range frames {
		if err := f.EncodeMsg(mw); err != nil {
			return err
		}
	}
	return mw.Flush()
}

// ReadFrames decodes a sequence of frames from r in the frame.rmp format.
func ReadFrames(r io.Reader) ([]Frame, error) {
	mr := msgp.NewReader(r)
	sz, err := mr.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	frames := make([]Frame, sz)
	for i := range frames {
		if err := frames[i].DecodeMsg(mr); err != nil {
			return nil, err
		}
	}
	return frames, nil
}

// WriteAddrSegs encodes the ground-truth address->segment mapping to w in
// the addr_seg.rmp format.
func WriteAddrSegs(w io.Writer, pairs []AddrSeg) error {
	mw := msgp.NewWriter(w)
	if err := mw.WriteArrayHeader(uint32(len(pairs))); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := p.EncodeMsg(mw); err != nil {
			return err
		}
	}
	return mw.Flush()
}

// ReadAddrSegs decodes the ground-truth address->segment mapping from r.
func ReadAddrSegs(r io.Reader) ([]AddrSeg, error) {
	mr := msgp.NewReader(r)
	sz, err := mr.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	pairs := make([]AddrSeg, sz)
	for i := range pairs {
		if err := pairs[i].DecodeMsg(mr); err != nil {
			return nil, err
		}
	}
	return pairs, nil
}

// WriteAddresses encodes a sequence of addresses to w in the inv_addr.rmp
// format.
func WriteAddresses(w io.Writer, addrs []Address) error {
	mw := msgp.NewWriter(w)
	if err := mw.WriteArrayHeader(uint32(len(addrs))); err != nil {
		return err
	}
	for _, a := range addrs {
		if err := a.EncodeMsg(mw); err != nil {
			return err
		}
	}
	return mw.Flush()
}

// ReadAddresses decodes a sequence of addresses from r.
func ReadAddresses(r io.Reader) ([]Address, error) {
	mr := msgp.NewReader(r)
	sz, err := mr.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	addrs := make([]Address, sz)
	for i := range addrs {
		if err := addrs[i].DecodeMsg(mr); err != nil {
			return nil, err
		}
	}
	return addrs, nil
}
