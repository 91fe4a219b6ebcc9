// bridgegen generates the random address, segment, and frame pools the
// simulator replays, writing them as .rmp binary inputs plus .txt files
// for human inspection. Grounded on
// original_source/net-exp-bridge/src/bin/generate.rs's pool-generation
// algorithm, restated with math/rand/v2 in place of fastrand/thread_rng
// (no third-party PRNG crate exists anywhere in the retrieved pack, so the
// standard library's own modern random API is the idiomatic choice here).
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/aurantiaco/bridgesim/internal/logging"
	"github.com/aurantiaco/bridgesim/internal/model"
)

const (
	defaultValidAddrCount   = 5000
	defaultInvalidAddrCount = 100
	defaultSegCount         = 100
	defaultValidFrameCount  = 1000_0000
	defaultInvalidFrameCnt  = 10_0000
	defaultLogLevel         = "info"
)

func main() {
	fs := flag.NewFlagSet("bridgegen", flag.ExitOnError)

	validAddrCount := fs.Int("addr-count", defaultValidAddrCount, "number of valid addresses to generate")
	invalidAddrCount := fs.Int("invalid-addr-count", defaultInvalidAddrCount, "number of invalid addresses to generate")
	segCount := fs.Int("seg-count", defaultSegCount, "number of segments to generate")
	validFrameCount := fs.Int("frame-count", defaultValidFrameCount, "number of valid frames to generate")
	invalidFrameCount := fs.Int("invalid-frame-count", defaultInvalidFrameCnt, "number of invalid-destination frames to generate")
	outDir := fs.String("out", ".", "directory to write generated files into")
	logLevel := fs.String("log", defaultLogLevel, "log level: error|warn|info|debug|trace")
	fs.Parse(os.Args[1:])

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(level)

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		logger.Error("failed to create output directory: %v", err)
		os.Exit(1)
	}

	logger.Info("address pool...")
	addrPool := genAddrPool(*validAddrCount, nil)

	logger.Info("invalid address pool...")
	invAddrPool := genAddrPool(*invalidAddrCount, addrPool)

	logger.Info("segment pool...")
	segPool := genSegPool(*segCount)

	addrSlice := setToSlice(addrPool)
	invAddrSlice := setToSlice(invAddrPool)
	segSlice := segSetToSlice(segPool)

	logger.Info("frame sequence...")
	frames := genFrameSeq(addrSlice, segSlice, addrSlice, *validFrameCount)
	invalidFrames := genFrameSeq(addrSlice, segSlice, invAddrSlice, *invalidFrameCount)
	frames = append(frames, invalidFrames...)
	rand.Shuffle(len(frames), func(i, j int) { frames[i], frames[j] = frames[j], frames[i] })

	addrSeg := genAddrSeg(addrSlice, segSlice)

	logger.Info("serialization...")
	if err := serialize(*outDir, addrSeg, invAddrSlice, frames); err != nil {
		logger.Error("failed to serialize output: %v", err)
		os.Exit(1)
	}
	logger.Info("done: %d addresses, %d invalid, %d segments, %d frames", len(addrSlice), len(invAddrSlice), len(segSlice), len(frames))
}

func genAddr() model.Address {
	var a model.Address
	for i := range a {
		a[i] = byte(rand.IntN(256))
	}
	return a
}

// genAddrPool generates count unique addresses, optionally avoiding
// collisions with exclude (used to build the invalid pool disjoint from
// the valid one).
func genAddrPool(count int, exclude map[model.Address]struct{}) map[model.Address]struct{} {
	pool := make(map[model.Address]struct{}, count)
	for len(pool) < count {
		a := genAddr()
		if _, excluded := exclude[a]; excluded {
			continue
		}
		pool[a] = struct{}{}
	}
	return pool
}

func genSeg() model.Segment {
	var s model.Segment
	for i := range s {
		s[i] = byte(rand.IntN(256))
	}
	return s
}

func genSegPool(count int) map[model.Segment]struct{} {
	pool := make(map[model.Segment]struct{}, count)
	for len(pool) < count {
		pool[genSeg()] = struct{}{}
	}
	return pool
}

func setToSlice(set map[model.Address]struct{}) []model.Address {
	out := make([]model.Address, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	return out
}

func segSetToSlice(set map[model.Segment]struct{}) []model.Segment {
	out := make([]model.Segment, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}

func genData() model.FrameData {
	var d model.FrameData
	for i := range d {
		d[i] = byte(rand.IntN(256))
	}
	return d
}

// genFrame picks a random source/segment pair and a destination distinct
// from the source, matching generate.rs's rejection loop.
func genFrame(srcPool []model.Address, srcSegPool []model.Segment, dstPool []model.Address) model.Frame {
	src := srcPool[rand.IntN(len(srcPool))]
	srcSeg := srcSegPool[rand.IntN(len(srcSegPool))]
	dst := src
	for dst == src {
		dst = dstPool[rand.IntN(len(dstPool))]
	}
	return model.Frame{Src: src, SrcSeg: srcSeg, Dst: dst, Data: genData()}
}

func genFrameSeq(srcPool []model.Address, srcSegPool []model.Segment, dstPool []model.Address, count int) []model.Frame {
	seq := make([]model.Frame, count)
	for i := range seq {
		seq[i] = genFrame(srcPool, srcSegPool, dstPool)
	}
	return seq
}

// genAddrSeg assigns each address a segment: each segment in turn gets an
// equal consecutive block of addresses, with any remainder assigned at random,
// matching generate.rs's gen_addr_seg.
func genAddrSeg(addrPool []model.Address, segPool []model.Segment) []model.AddrSeg {
	seq := make([]model.AddrSeg, 0, len(addrPool))
	least := len(addrPool) / len(segPool)
	for i, seg := range segPool {
		begin := i * least
		for j := 0; j < least; j++ {
			seq = append(seq, model.AddrSeg{Addr: addrPool[begin+j], Seg: seg})
		}
	}
	for i := len(seq); i < len(addrPool); i++ {
		seq = append(seq, model.AddrSeg{Addr: addrPool[i], Seg: segPool[rand.IntN(len(segPool))]})
	}
	return seq
}

func serialize(dir string, addrSeg []model.AddrSeg, invAddr []model.Address, frames []model.Frame) error {
	if err := writeRMP(dir, "addr_seg.rmp", func(f *os.File) error { return model.WriteAddrSegs(f, addrSeg) }); err != nil {
		return err
	}
	if err := writeRMP(dir, "inv_addr.rmp", func(f *os.File) error { return model.WriteAddresses(f, invAddr) }); err != nil {
		return err
	}
	if err := writeRMP(dir, "frame.rmp", func(f *os.File) error { return model.WriteFrames(f, frames) }); err != nil {
		return err
	}

	if err := writeText(dir, "addr_seg.txt", func(f *os.File) error {
		for _, as := range addrSeg {
			if _, err := fmt.Fprintf(f, "%s %s\n", as.Addr, as.Seg); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}
	return writeText(dir, "inv_addr.txt", func(f *os.File) error {
		for _, a := range invAddr {
			if _, err := fmt.Fprintf(f, "%s\n", a); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeRMP(dir, name string, write func(*os.File) error) error {
	f, err := os.Create(dir + "/" + name)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

func writeText(dir, name string, write func(*os.File) error) error {
	f, err := os.Create(dir + "/" + name)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
