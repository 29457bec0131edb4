package routine

import (
	"context"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Include is a bitmask selecting which families a Class generates,
// mirroring the `Includes` bitmask enum from the reference generator's
// include/exclude vocabulary.
type Include uint8

const (
	IncludePack Include = 1 << iota
	IncludeUnpack
	IncludePackLoop
	IncludeUnpackLoop
	IncludeDeltaPack
	IncludeDeltaUnpack

	IncludePackers   = IncludePack | IncludePackLoop
	IncludeUnpackers = IncludeUnpack | IncludeUnpackLoop
	IncludeLoops     = IncludePackLoop | IncludeUnpackLoop
	IncludeDelta     = IncludeDeltaPack | IncludeDeltaUnpack

	// IncludeAllAdjacency is every family the adjacency generator knows
	// about (cmd/packgen); it never includes the delta families.
	IncludeAllAdjacency = IncludePack | IncludeUnpack | IncludePackLoop | IncludeUnpackLoop

	// IncludeAllDelta is every family the delta generator knows about
	// (cmd/deltapackgen); it deliberately has no streaming delta family,
	// since values cannot be delta-coded across an unbounded stream
	// without a running previous-value reset point.
	IncludeAllDelta = IncludePack | IncludeUnpack | IncludeDeltaPack | IncludeDeltaUnpack
)

// bitWidths returns 0..blockSize inclusive, the N+1 bit widths every
// family generates one specialized routine per.
func bitWidths(blockSize uint32) []uint32 {
	return lo.RangeWithSteps[uint32](0, blockSize+1, 1)
}

// buildConcurrently builds one Method per bit width in build using an
// errgroup: each bit width's construction is pure and touches only its
// own result slot, so there is no shared mutable state to coordinate.
func buildConcurrently(blockSize uint32, build func(bits uint32) Method) ([]Method, error) {
	widths := bitWidths(blockSize)
	methods := make([]Method, len(widths))

	g, _ := errgroup.WithContext(context.Background())
	for i, bits := range widths {
		i, bits := i, bits
		g.Go(func() error {
			methods[i] = build(bits)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return methods, nil
}

// BuildAdjacencyClass builds a Class for the adjacency generator
// (cmd/packgen): pack, unpack, and their streaming loop siblings, gated
// by include.
func BuildAdjacencyClass(name string, blockSize uint32, include Include) (Class, error) {
	class := Class{Name: name, BlockSize: blockSize}

	if include&IncludePack != 0 {
		ms, err := buildConcurrently(blockSize, func(b uint32) Method { return Pack(blockSize, b) })
		if err != nil {
			return Class{}, err
		}
		class.Packers = ms
	}
	if include&IncludeUnpack != 0 {
		ms, err := buildConcurrently(blockSize, func(b uint32) Method { return Unpack(blockSize, b) })
		if err != nil {
			return Class{}, err
		}
		class.Unpackers = ms
	}
	if include&IncludePackLoop != 0 {
		ms, err := buildConcurrently(blockSize, func(b uint32) Method { return PackLoop(b) })
		if err != nil {
			return Class{}, err
		}
		class.PackLoops = ms
	}
	if include&IncludeUnpackLoop != 0 {
		ms, err := buildConcurrently(blockSize, func(b uint32) Method { return UnpackLoop(b) })
		if err != nil {
			return Class{}, err
		}
		class.UnpackLoops = ms
	}

	return class, nil
}

// BuildDeltaClass builds a Class for the delta generator
// (cmd/deltapackgen): pack, unpack, and their fixed-size delta-coded
// siblings. There is no streaming delta family.
func BuildDeltaClass(name string, blockSize uint32, include Include) (Class, error) {
	class := Class{Name: name, BlockSize: blockSize}

	if include&IncludePack != 0 {
		ms, err := buildConcurrently(blockSize, func(b uint32) Method { return Pack(blockSize, b) })
		if err != nil {
			return Class{}, err
		}
		class.Packers = ms
	}
	if include&IncludeUnpack != 0 {
		ms, err := buildConcurrently(blockSize, func(b uint32) Method { return Unpack(blockSize, b) })
		if err != nil {
			return Class{}, err
		}
		class.Unpackers = ms
	}
	if include&IncludeDeltaPack != 0 {
		ms, err := buildConcurrently(blockSize, func(b uint32) Method { return DeltaPack(blockSize, b) })
		if err != nil {
			return Class{}, err
		}
		class.DeltaPackers = ms
	}
	if include&IncludeDeltaUnpack != 0 {
		ms, err := buildConcurrently(blockSize, func(b uint32) Method { return DeltaUnpack(blockSize, b) })
		if err != nil {
			return Class{}, err
		}
		class.DeltaUnpackers = ms
	}

	return class, nil
}

// ParseIncludeToken maps one CLI token from the generator's closed
// vocabulary to its bitmask, returning false for unknown tokens so
// callers can report an "unknown include/exclude token" error.
func ParseIncludeToken(token string, delta bool) (Include, bool) {
	if delta {
		switch token {
		case "pack":
			return IncludePack, true
		case "unpack":
			return IncludeUnpack, true
		case "delta-pack":
			return IncludeDeltaPack, true
		case "delta-unpack":
			return IncludeDeltaUnpack, true
		case "packers":
			return IncludePack, true
		case "unpackers":
			return IncludeUnpack, true
		case "delta":
			return IncludeDelta, true
		}
		return 0, false
	}

	switch token {
	case "pack":
		return IncludePack, true
	case "unpack":
		return IncludeUnpack, true
	case "pack-loop":
		return IncludePackLoop, true
	case "unpack-loop":
		return IncludeUnpackLoop, true
	case "packers":
		return IncludePackers, true
	case "unpackers":
		return IncludeUnpackers, true
	case "loops":
		return IncludeLoops, true
	}
	return 0, false
}
