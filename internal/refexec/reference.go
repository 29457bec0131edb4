// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package refexec

// ReferencePack and ReferenceUnpack are a from-scratch bit-cursor codec,
// independent of both the word-oriented interpreter in interp.go and the
// instructions internal/lower turns into Java: a byte/bit cursor is
// advanced one value at a time, exactly as a software implementation
// with no notion of 64-bit words would write it. They exist purely as a
// second oracle to cross-check the word-packed encoding against.

// ReferencePack packs n values at bits bits each into a tightly packed
// byte slice, least-significant-bit first within each byte. Returns nil
// for bits == 0.
func ReferencePack(values []uint64, bits uint32) []byte {
	if bits == 0 || len(values) == 0 {
		return nil
	}
	totalBits := uint64(len(values)) * uint64(bits)
	dst := make([]byte, (totalBits+7)/8)

	mask := referenceMask(bits)
	bitPos, bytePos := 0, 0
	for _, v := range values {
		packOneValue(v&mask, int(bits), &bitPos, &bytePos, dst)
	}
	return dst
}

// ReferenceUnpack unpacks n values at bits bits each from a tightly
// packed byte slice produced by ReferencePack (or an equivalent
// encoding). Returns a slice of n zeros for bits == 0.
func ReferenceUnpack(packed []byte, n int, bits uint32) []uint64 {
	out := make([]uint64, n)
	if bits == 0 || n == 0 {
		return out
	}

	mask := referenceMask(bits)
	bitPos, bytePos := 0, 0
	for i := 0; i < n; i++ {
		out[i] = unpackOneValue(mask, int(bits), &bitPos, &bytePos, packed)
	}
	return out
}

func referenceMask(bits uint32) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

func packOneValue(val uint64, bitWidth int, bitPos, bytePos *int, dst []byte) {
	remaining := bitWidth
	for remaining > 0 {
		bitsAvailable := 8 - *bitPos
		bitsToWrite := remaining
		if bitsAvailable < bitsToWrite {
			bitsToWrite = bitsAvailable
		}

		writeMask := uint64(1)<<uint(bitsToWrite) - 1
		bits := val & writeMask
		val >>= uint(bitsToWrite)
		remaining -= bitsToWrite

		dst[*bytePos] |= byte(bits << uint(*bitPos))

		*bitPos += bitsToWrite
		if *bitPos >= 8 {
			*bitPos = 0
			*bytePos++
		}
	}
}

func unpackOneValue(mask uint64, bitWidth int, bitPos, bytePos *int, src []byte) uint64 {
	var val uint64
	remaining := bitWidth
	shift := 0
	for remaining > 0 {
		bitsAvailable := 8 - *bitPos
		bitsToRead := remaining
		if bitsAvailable < bitsToRead {
			bitsToRead = bitsAvailable
		}

		readMask := byte(1<<uint(bitsToRead) - 1)
		bits := (src[*bytePos] >> uint(*bitPos)) & readMask
		val |= uint64(bits) << uint(shift)

		shift += bitsToRead
		remaining -= bitsToRead
		*bitPos += bitsToRead

		if *bitPos >= 8 {
			*bitPos = 0
			*bytePos++
		}
	}
	return val & mask
}

// ReferenceDeltaEncode turns a value sequence into a delta sequence
// against base: deltas[0] = values[0] - base, deltas[i] = values[i] -
// values[i-1] thereafter.
func ReferenceDeltaEncode(values []uint64, base uint64) []uint64 {
	deltas := make([]uint64, len(values))
	prev := base
	for i, v := range values {
		deltas[i] = v - prev
		prev = v
	}
	return deltas
}

// ReferenceDeltaDecode is ReferenceDeltaEncode's inverse: a running
// prefix sum seeded with base.
func ReferenceDeltaDecode(deltas []uint64, base uint64) []uint64 {
	values := make([]uint64, len(deltas))
	prev := base
	for i, d := range deltas {
		v := prev + d
		values[i] = v
		prev = v
	}
	return values
}
