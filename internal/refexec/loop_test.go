package refexec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neo4j/gds-bitpack-codegen/internal/instr"
	"github.com/neo4j/gds-bitpack-codegen/internal/layout"
)

func runPackLoopValues(values []uint64, bits uint32) []byte {
	words := layout.CeilDiv(uint32(len(values))*bits, layout.WordBits)
	packed := make([]byte, words*8+8)
	st := NewLoopState(values, 0, len(values), packed, 0, bits)
	Run(instr.BuildPackLoop(bits), st)
	return packed[:words*8]
}

func runUnpackLoopValues(packed []byte, length int, bits uint32) []uint64 {
	padded := make([]byte, len(packed)+8)
	copy(padded, packed)
	values := make([]uint64, length)
	st := NewLoopState(values, 0, length, padded, 0, bits)
	Run(instr.BuildUnpackLoop(bits), st)
	return values
}

func TestPackLoopEqualsBatchedFixedPack(t *testing.T) {
	// 64 values at 5 bits fill exactly 5 words, so each fixed-size block
	// ends on a word boundary and the byte streams can be compared whole.
	const blockSize, bits = 64, 5
	const blocks = 3
	values := make([]uint64, blockSize*blocks)
	for i := range values {
		values[i] = uint64(i*3+1) % (1 << bits)
	}

	streamed := runPackLoopValues(values, bits)

	var batched []byte
	for b := 0; b < blocks; b++ {
		batched = append(batched, runFixedPack(blockSize, bits, values[b*blockSize:(b+1)*blockSize])...)
	}

	require.Equal(t, batched, streamed)
}

func TestStreamingRoundTripArbitraryLengths(t *testing.T) {
	for _, tc := range []struct {
		length int
		bits   uint32
	}{
		{length: 1, bits: 1},
		{length: 3, bits: 13},
		{length: 17, bits: 9},
		{length: 100, bits: 17},
		{length: 64, bits: 64},
	} {
		values := make([]uint64, tc.length)
		mask := layout.Mask(tc.bits)
		for i := range values {
			values[i] = (uint64(i)*104729 + uint64(tc.bits)) & mask
		}

		packed := runPackLoopValues(values, tc.bits)
		got := runUnpackLoopValues(packed, tc.length, tc.bits)
		require.Equal(t, values, got, "length=%d bits=%d", tc.length, tc.bits)
	}
}

// Scenario 6: unpackLoop with len=100, B=17, matched value-by-value
// against an independent reference unpacker reading the same bytes.
func TestScenarioSix(t *testing.T) {
	const length, bits = 100, 17
	values := make([]uint64, length)
	mask := layout.Mask(bits)
	for i := range values {
		values[i] = (uint64(i)*2654435761 + 7) & mask
	}

	packed := runPackLoopValues(values, bits)
	got := runUnpackLoopValues(packed, length, bits)
	require.Equal(t, values, got)

	reference := ReferenceUnpack(packed, length, bits)
	require.Equal(t, reference, got)
}

// Regression: BuildUnpackLoop never emits DefineMask at any bit width,
// so unpackLoop must not rely on one having run, checked here against
// the independent reference unpacker.
func TestRegressionUnpackLoopMaskComesFromRoutineNotDefineMask(t *testing.T) {
	const length, bits = 50, 9
	values := make([]uint64, length)
	mask := layout.Mask(bits)
	for i := range values {
		values[i] = (uint64(i)*31 + 5) & mask
	}

	packed := runPackLoopValues(values, bits)
	got := runUnpackLoopValues(packed, length, bits)
	require.Equal(t, values, got)
	require.Equal(t, ReferenceUnpack(packed, length, bits), got)
}
