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

// Package routine assembles full pack/unpack routines (fixed, streaming
// loop, and delta-coded) from the instructions the instr package builds,
// and groups them into the families a Class dispatches by bit width.
package routine

import (
	"fmt"

	"github.com/neo4j/gds-bitpack-codegen/internal/instr"
	"github.com/neo4j/gds-bitpack-codegen/internal/layout"
)

// Method is one specialized routine: pack17, deltaUnpack0, and so on.
type Method struct {
	Documentation []string
	Prefix        string // "pack", "unpack", "packLoop", "unpackLoop", "deltaPack", "deltaUnpack"
	Bits          uint32
	IsLoop        bool
	IsDelta       bool
	Code          []instr.CodeBlock
}

// Name returns the specialized method identifier, e.g. "pack17".
func (m Method) Name() string {
	return fmt.Sprintf("%s%d", m.Prefix, m.Bits)
}

// Pack builds the fixed-size pack routine for one bit width.
func Pack(blockSize, bits uint32) Method {
	words := layout.NumberOfWords(blockSize, bits)
	bytes := layout.NumberOfBytes(blockSize, bits)
	return Method{
		Documentation: []string{fmt.Sprintf(
			"Packs %d %d-bit value%s into %d byte%s, touching %d word%s.",
			blockSize, bits, layout.Plural(blockSize), bytes, layout.Plural(bytes), words, layout.Plural(words),
		)},
		Prefix: "pack",
		Bits:   bits,
		Code:   instr.BuildPack(blockSize, bits),
	}
}

// Unpack builds the fixed-size unpack routine for one bit width.
func Unpack(blockSize, bits uint32) Method {
	words := layout.NumberOfWords(blockSize, bits)
	bytes := layout.NumberOfBytes(blockSize, bits)
	return Method{
		Documentation: []string{fmt.Sprintf(
			"Unpacks %d %d-bit value%s using %d byte%s, touching %d word%s.",
			blockSize, bits, layout.Plural(blockSize), bytes, layout.Plural(bytes), words, layout.Plural(words),
		)},
		Prefix: "unpack",
		Bits:   bits,
		Code:   instr.BuildUnpack(blockSize, bits),
	}
}

// DeltaPack builds Pack's delta-coded sibling by rewriting its code, per
// the "delta as a rewrite" design note.
func DeltaPack(blockSize, bits uint32) Method {
	m := Pack(blockSize, bits)
	m.Documentation[0] = "Delta-encodes and " + m.Documentation[0]
	m.Prefix = "deltaPack"
	m.IsDelta = true
	m.Code = instr.RewriteDeltaPack(m.Code)
	return m
}

// DeltaUnpack builds Unpack's delta-coded sibling.
func DeltaUnpack(blockSize, bits uint32) Method {
	m := Unpack(blockSize, bits)
	m.Documentation[0] = "Delta-decodes and " + m.Documentation[0]
	m.Prefix = "deltaUnpack"
	m.IsDelta = true
	m.Code = instr.RewriteDeltaUnpack(m.Code)
	return m
}

// PackLoop builds the streaming pack routine for one bit width.
func PackLoop(bits uint32) Method {
	return Method{
		Documentation: []string{fmt.Sprintf("Packs a stream of %d-bit values.", bits)},
		Prefix:        "packLoop",
		Bits:          bits,
		IsLoop:        true,
		Code:          instr.BuildPackLoop(bits),
	}
}

// UnpackLoop builds the streaming unpack routine for one bit width.
func UnpackLoop(bits uint32) Method {
	return Method{
		Documentation: []string{fmt.Sprintf("Unpacks a stream of %d-bit values.", bits)},
		Prefix:        "unpackLoop",
		Bits:          bits,
		IsLoop:        true,
		Code:          instr.BuildUnpackLoop(bits),
	}
}

// Class is the emitted compilation unit's class-level payload: a block
// size and up to six vectors of Methods, one per enabled family. Unused
// families are left as nil slices; the assembler only emits a dispatch
// table and entry point for families that are non-empty.
type Class struct {
	Documentation   []string
	Name            string
	BlockSize       uint32
	Packers         []Method
	Unpackers       []Method
	PackLoops       []Method
	UnpackLoops     []Method
	DeltaPackers    []Method
	DeltaUnpackers  []Method
}
