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

import "github.com/neo4j/gds-bitpack-codegen/internal/layout"

// runPackLoop executes the streaming pack loop body lower.lowerPackLoop
// emits: OR-accumulate each value into a running word at an advancing
// shift, flushing whenever the word fills exactly or overflows into the
// next one.
func runPackLoop(st *State, bits uint32) {
	threshold := int(layout.WordBits) - int(bits)
	word := st.vars["word"]
	shift := int(st.vars["shift"])

	for i := st.ValuesStart; i < st.ValuesStart+st.ValuesLength; i++ {
		word |= st.Values[i] << uint(shift)
		switch {
		case shift > threshold:
			flushWord(st, word)
			word = st.Values[i] >> uint(layout.WordBits-shift)
			shift -= layout.WordBits
		case shift == threshold:
			flushWord(st, word)
			word = 0
			shift -= layout.WordBits
		}
		shift += int(bits)
	}

	st.vars["word"] = word
	st.vars["shift"] = uint64(shift)
}

// runPackLoopRemainder flushes the final partial word runPackLoop leaves
// behind, since a word that never exactly filled is otherwise never
// written out.
func runPackLoopRemainder(st *State, bits uint32) {
	if bits == layout.WordBits || st.vars["shift"] != 0 {
		flushWord(st, st.vars["word"])
	}
}

func flushWord(st *State, word uint64) {
	writeLong(st.Packed, st.PackedPtr, word)
	st.PackedPtr += layout.ByteBits
}

// runUnpackLoop executes the streaming unpack loop body
// lower.lowerUnpackLoop emits: each of the `words` input words yields F
// = floor(64/bits) cleanly aligned values plus, except on the final
// word, a value that straddles into the next one and must be completed
// by refilling `word` from the input.
func runUnpackLoop(st *State, bits uint32) {
	f := int(layout.WordBits / bits)
	threshold := int(layout.WordBits) - int(bits)
	mask := st.mask

	shift := int(st.vars["shift"])
	offset := int(st.vars["offset"])
	words := int(st.vars["words"])
	word := st.vars["word"]

	refill := func() {
		word = readLong(st.Packed, st.PackedPtr)
		st.PackedPtr += layout.ByteBits
	}

	for i := 0; i < words; i++ {
		for k := 0; k < f; k++ {
			st.setValueAt(uint32(offset+k), (word>>uint(shift+k*int(bits)))&mask)
		}
		shift += (f - 1) * int(bits)

		if i == words-1 {
			break
		}

		straddleIdx := uint32(offset + f)
		switch {
		case shift > threshold:
			st.setValueAt(straddleIdx, word>>uint(shift))
			refill()
			st.setValueAt(straddleIdx, st.valueAt(straddleIdx)|word<<uint(layout.WordBits-shift))
			st.setValueAt(straddleIdx, st.valueAt(straddleIdx)&mask)
			shift -= layout.WordBits
			offset += f
		case shift == threshold:
			refill()
			shift = 0
			offset += f
		default:
			st.setValueAt(straddleIdx, word>>uint(shift))
			shift += int(bits)
			refill()
			st.setValueAt(straddleIdx, st.valueAt(straddleIdx)|word<<uint(layout.WordBits-shift))
			st.setValueAt(straddleIdx, st.valueAt(straddleIdx)&mask)
			offset += f + 1
		}
	}

	st.vars["word"] = word
	st.vars["shift"] = uint64(shift)
	st.vars["offset"] = uint64(offset)
}
