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

// Package instr defines the closed set of abstract instructions that
// describe one emit step of a pack/unpack routine, and the builders that
// turn per-(N, B) layout facts into a sequence of them.
//
// Instruction is a closed tagged union (an interface implemented by a
// fixed set of structs); lowering to the host-language AST is an
// exhaustive type switch over this set, not virtual dispatch — the
// instruction vocabulary is fixed at generator build time and never
// grows at runtime.
package instr

import "github.com/neo4j/gds-bitpack-codegen/internal/layout"

// Instruction is implemented by every member of the closed instruction
// set. The marker method keeps arbitrary types from satisfying it.
type Instruction interface {
	isInstruction()
}

// DeclareWord declares an uninitialized output word local (`long wW;`).
type DeclareWord struct{ Word uint32 }

// DeclareWordAndInit declares an output word local initialized by
// reading 8 bytes from the packed pointer at the given byte offset.
type DeclareWordAndInit struct {
	Word   uint32
	Offset uint32
}

// DefineMask is not itself emitted; it sets the sticky mask constant
// used by subsequent Unpack/UnpackSplit instructions in the same
// routine (see the "mask as sticky state" design note).
type DefineMask struct{ Constant uint64 }

// Pack ORs (or, when Shift == 0, assigns) one in-word value into its word.
type Pack struct{ Pos layout.BitPos }

// PackSplit packs a value that straddles two words.
type PackSplit struct {
	Lower      layout.BitPos
	UpperWord  uint32
	UpperShift uint32
}

// PackDelta is Pack's delta-coded sibling (in-word, non-splitting):
// the packed value is v[i] - (i>0 ? v[i-1] : previousValue).
type PackDelta struct{ Pos layout.BitPos }

// PackSplitDelta is the delta-coded, word-straddling pack.
type PackSplitDelta struct {
	Lower      layout.BitPos
	UpperWord  uint32
	UpperShift uint32
}

// Unpack extracts one in-word value from its word, masking unless the
// value fills the word up to bit 64.
type Unpack struct{ Pos layout.BitPos }

// UnpackSplit extracts a value that straddles two words.
type UnpackSplit struct {
	Lower      layout.BitPos
	UpperWord  uint32
	UpperShift uint32
}

// UnpackDelta is Unpack's delta-coded sibling: the unpacked value is
// added to the running previous value (prefix sum).
type UnpackDelta struct{ Pos layout.BitPos }

// UnpackSplitDelta is the delta-coded, word-straddling unpack.
type UnpackSplitDelta struct {
	Lower      layout.BitPos
	UpperWord  uint32
	UpperShift uint32
}

// DeclareVar declares a loop-local variable of the given kind.
type VarKind int

const (
	VarInt VarKind = iota
	VarLong
)

type DeclareVar struct {
	Name string
	Kind VarKind
	// Init, when non-empty, is a literal initializer ("0").
	Init string
}

// DeclareNumberOfWords declares the loop word count,
// W = ceilDiv(valuesLength*bits, 64).
type DeclareNumberOfWords struct{}

// PackLoop emits the streaming pack for-loop body: OR-accumulate bits
// into a running word, flushing it to the output whenever it fills.
type PackLoop struct{ Bits uint32 }

// PackLoopRemainder flushes the final partial word after PackLoop.
type PackLoopRemainder struct{ Bits uint32 }

// UnpackLoop emits the streaming unpack for-loop: shift bits out of a
// running word, refilling it from the input whenever a value straddles
// the boundary.
type UnpackLoop struct{ Bits uint32 }

// Read reads one 64-bit word from the packed pointer and advances it.
type Read struct{ Name string }

// DynamicMemset fills [valuesStart, valuesStart+valuesLength) with a
// constant; used by loop unpack when bits == 0.
type DynamicMemset struct{ Constant uint64 }

// Memset fills a fixed-size range [valuesStart, valuesStart+Size) with
// a constant; used by fixed-size unpack when bits == 0.
type Memset struct {
	Size     uint32
	Constant uint64
}

// Write stores one output word to the packed pointer at a byte offset.
type Write struct {
	Word   uint32
	Offset uint32
}

// Return terminates a fixed-size routine, returning packedPtr+Offset.
type Return struct{ Offset uint32 }

// ReturnPtr terminates a streaming routine, returning the (already
// advanced) packedPtr unchanged.
type ReturnPtr struct{}

func (DeclareWord) isInstruction()          {}
func (DeclareWordAndInit) isInstruction()   {}
func (DefineMask) isInstruction()           {}
func (Pack) isInstruction()                 {}
func (PackSplit) isInstruction()            {}
func (PackDelta) isInstruction()            {}
func (PackSplitDelta) isInstruction()       {}
func (Unpack) isInstruction()               {}
func (UnpackSplit) isInstruction()          {}
func (UnpackDelta) isInstruction()          {}
func (UnpackSplitDelta) isInstruction()     {}
func (DeclareVar) isInstruction()           {}
func (DeclareNumberOfWords) isInstruction() {}
func (PackLoop) isInstruction()             {}
func (PackLoopRemainder) isInstruction()    {}
func (UnpackLoop) isInstruction()           {}
func (Read) isInstruction()                 {}
func (DynamicMemset) isInstruction()        {}
func (Memset) isInstruction()               {}
func (Write) isInstruction()                {}
func (Return) isInstruction()               {}
func (ReturnPtr) isInstruction()            {}

// SinglePack returns the Pack or PackSplit instruction that places the
// offset-th value of a block packed at `bits` bits each.
func SinglePack(bits, offset uint32) Instruction {
	pos, split, straddles := layout.Compute(bits, offset)
	if !straddles {
		return Pack{Pos: pos}
	}
	return PackSplit{Lower: pos, UpperWord: split.UpperWord, UpperShift: split.UpperShift}
}

// SingleUnpack retags a SinglePack result as the matching Unpack/UnpackSplit.
func SingleUnpack(bits, offset uint32) Instruction {
	switch p := SinglePack(bits, offset).(type) {
	case Pack:
		return Unpack{Pos: p.Pos}
	case PackSplit:
		return UnpackSplit{Lower: p.Lower, UpperWord: p.UpperWord, UpperShift: p.UpperShift}
	default:
		panic("unreachable: SinglePack returns only Pack or PackSplit")
	}
}
