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

// Package refexec executes the same Instruction streams internal/lower
// turns into Java source, directly against Go slices. It exists because
// there is no JVM in this build to run the generated code against: the
// interpreter here is a second, independent implementation of the
// instruction semantics, and ReferencePack/ReferenceUnpack in
// reference.go is a third, so round-trip tests can cross-check the
// generator's arithmetic without ever compiling Java.
package refexec

import (
	"encoding/binary"
	"strconv"

	"github.com/neo4j/gds-bitpack-codegen/internal/instr"
	"github.com/neo4j/gds-bitpack-codegen/internal/layout"
)

// State is the interpreter's mutable execution context: one per routine
// invocation, mirroring the locals the lowered Java method would hold.
type State struct {
	Values        []uint64
	ValuesStart   int
	ValuesLength  int
	Packed        []byte
	PackedPtr     int
	PreviousValue uint64
	Bits          uint32
	Delta         bool

	words map[uint32]uint64
	vars  map[string]uint64
	mask  uint64
}

// NewState builds the interpreter state for one fixed-size pack/unpack call.
func NewState(values []uint64, valuesStart int, packed []byte, packedPtr int, bits uint32, delta bool, previousValue uint64) *State {
	return &State{
		Values: values, ValuesStart: valuesStart,
		Packed: packed, PackedPtr: packedPtr,
		Bits: bits, Delta: delta, PreviousValue: previousValue,
		words: map[uint32]uint64{}, vars: map[string]uint64{},
		mask: layout.Mask(bits),
	}
}

// NewLoopState builds the interpreter state for one streaming pack/unpack call.
func NewLoopState(values []uint64, valuesStart, valuesLength int, packed []byte, packedPtr int, bits uint32) *State {
	st := NewState(values, valuesStart, packed, packedPtr, bits, false, 0)
	st.ValuesLength = valuesLength
	return st
}

// Run executes blocks against st and returns the resulting packedPtr,
// i.e. the value a Return/ReturnPtr instruction would hand back.
func Run(blocks []instr.CodeBlock, st *State) int {
	for _, block := range blocks {
		for _, inst := range block.Code {
			run(st, inst)
		}
	}
	return st.PackedPtr
}

func run(st *State, inst instr.Instruction) {
	switch v := inst.(type) {
	case instr.DeclareWord:
		st.words[v.Word] = 0
	case instr.DeclareWordAndInit:
		st.words[v.Word] = readLong(st.Packed, st.PackedPtr+int(v.Offset))
	case instr.DefineMask:
		st.mask = v.Constant

	case instr.Pack:
		execPack(st, v.Pos)
	case instr.PackDelta:
		execPack(st, v.Pos)
	case instr.PackSplit:
		execPackSplit(st, v.Lower, v.UpperWord, v.UpperShift)
	case instr.PackSplitDelta:
		execPackSplit(st, v.Lower, v.UpperWord, v.UpperShift)

	case instr.Unpack:
		execUnpack(st, v.Pos)
	case instr.UnpackDelta:
		execUnpack(st, v.Pos)
	case instr.UnpackSplit:
		execUnpackSplit(st, v.Lower, v.UpperWord, v.UpperShift)
	case instr.UnpackSplitDelta:
		execUnpackSplit(st, v.Lower, v.UpperWord, v.UpperShift)

	case instr.DeclareVar:
		var n uint64
		if v.Init != "" {
			parsed, err := strconv.Atoi(v.Init)
			if err != nil {
				panic("refexec: DeclareVar has non-numeric initializer: " + v.Init)
			}
			n = uint64(parsed)
		}
		st.vars[v.Name] = n

	case instr.DeclareNumberOfWords:
		total := uint32(st.ValuesLength) * st.Bits
		st.vars["words"] = uint64(layout.CeilDiv(total, layout.WordBits))

	case instr.PackLoop:
		runPackLoop(st, v.Bits)
	case instr.PackLoopRemainder:
		runPackLoopRemainder(st, v.Bits)
	case instr.UnpackLoop:
		runUnpackLoop(st, v.Bits)

	case instr.Read:
		st.vars[v.Name] = readLong(st.Packed, st.PackedPtr)
		st.PackedPtr += layout.ByteBits

	case instr.DynamicMemset:
		fillValues(st, st.ValuesStart, st.ValuesStart+st.ValuesLength, v.Constant)
	case instr.Memset:
		fillValues(st, st.ValuesStart, st.ValuesStart+int(v.Size), v.Constant)

	case instr.Write:
		writeLong(st.Packed, st.PackedPtr+int(v.Offset), st.words[v.Word])

	case instr.Return:
		st.PackedPtr += int(v.Offset)
	case instr.ReturnPtr:
		// packedPtr already reflects every word this routine wrote

	default:
		panic("refexec: unhandled instruction")
	}
}

func fillValues(st *State, from, to int, constant uint64) {
	for i := from; i < to; i++ {
		st.Values[i] = constant
	}
}

func readLong(buf []byte, offset int) uint64 {
	return binary.LittleEndian.Uint64(buf[offset : offset+8])
}

func writeLong(buf []byte, offset int, v uint64) {
	binary.LittleEndian.PutUint64(buf[offset:offset+8], v)
}

func (st *State) valueAt(offset uint32) uint64     { return st.Values[int(offset)+st.ValuesStart] }
func (st *State) setValueAt(offset uint32, v uint64) { st.Values[int(offset)+st.ValuesStart] = v }

func (st *State) priorValue(offset uint32) uint64 {
	if offset == 0 {
		return st.PreviousValue
	}
	return st.valueAt(offset - 1)
}

func (st *State) packOperand(offset uint32) uint64 {
	v := st.valueAt(offset)
	if !st.Delta {
		return v
	}
	return v - st.priorValue(offset)
}

func (st *State) unpackResult(offset uint32, raw uint64) {
	if !st.Delta {
		st.setValueAt(offset, raw)
		return
	}
	st.setValueAt(offset, raw+st.priorValue(offset))
}

func execPack(st *State, pos layout.BitPos) {
	v := st.packOperand(pos.Offset)
	if pos.Shift == 0 {
		st.words[pos.Word] = v
	} else {
		st.words[pos.Word] |= v << pos.Shift
	}
}

func execPackSplit(st *State, lower layout.BitPos, upperWord, upperShift uint32) {
	v := st.packOperand(lower.Offset)
	st.words[lower.Word] |= v << lower.Shift
	st.words[upperWord] = v >> upperShift
}

func execUnpack(st *State, pos layout.BitPos) {
	w := st.words[pos.Word]
	var raw uint64
	if pos.Shift+st.Bits == layout.WordBits {
		raw = w >> pos.Shift
	} else {
		raw = (w >> pos.Shift) & st.mask
	}
	st.unpackResult(pos.Offset, raw)
}

func execUnpackSplit(st *State, lower layout.BitPos, upperWord, upperShift uint32) {
	low := st.words[lower.Word] >> lower.Shift
	high := st.words[upperWord] << upperShift
	st.unpackResult(lower.Offset, (low|high)&st.mask)
}
