package instr

import (
	"fmt"

	"github.com/neo4j/gds-bitpack-codegen/internal/layout"
)

// BuildPack builds the fixed-size pack routine's instruction stream:
// declare the output words, pack each of the block's values into them,
// write the words out, and return the number of bytes written.
func BuildPack(blockSize, bits uint32) []CodeBlock {
	words := layout.NumberOfWords(blockSize, bits)
	bytes := layout.NumberOfBytes(blockSize, bits)

	declare := make([]Instruction, words)
	for w := range declare {
		declare[w] = DeclareWord{Word: uint32(w)}
	}

	var packBlock CodeBlock
	if bits != 0 {
		code := make([]Instruction, blockSize)
		for i := range code {
			code[i] = SinglePack(bits, uint32(i))
		}
		packBlock = CodeBlock{Code: code}
	}

	writes := make([]Instruction, words)
	for w := range writes {
		writes[w] = Write{Word: uint32(w), Offset: uint32(w) * 8}
	}

	return nonEmpty([]CodeBlock{
		{Comment: fmt.Sprintf("Touching %d word%s", words, layout.Plural(words)), Code: declare},
		packBlock,
		{Comment: fmt.Sprintf("Write to %d byte%s", bytes, layout.Plural(bytes)), Code: writes},
		{Code: []Instruction{Return{Offset: bytes}}},
	})
}

// BuildUnpack builds the fixed-size unpack routine's instruction stream,
// the mirror image of BuildPack: read the input words, unpack each value
// out of them (or memset to zero when bits == 0, since there is nothing
// encoded), and return the number of bytes consumed.
func BuildUnpack(blockSize, bits uint32) []CodeBlock {
	words := layout.NumberOfWords(blockSize, bits)
	bytes := layout.NumberOfBytes(blockSize, bits)

	access := make([]Instruction, words)
	for w := range access {
		access[w] = DeclareWordAndInit{Word: uint32(w), Offset: uint32(w) * 8}
	}

	var bodyBlock CodeBlock
	if bits == 0 {
		bodyBlock = CodeBlock{Code: []Instruction{Memset{Size: blockSize, Constant: 0}}}
	} else {
		code := make([]Instruction, blockSize)
		for i := range code {
			code[i] = SingleUnpack(bits, uint32(i))
		}
		if bits != blockSize {
			code = append([]Instruction{DefineMask{Constant: layout.Mask(bits)}}, code...)
		}
		bodyBlock = CodeBlock{Code: code}
	}

	return nonEmpty([]CodeBlock{
		{Comment: fmt.Sprintf("Access %d word%s", words, layout.Plural(words)), Code: access},
		bodyBlock,
		{Code: []Instruction{Return{Offset: bytes}}},
	})
}

// RewriteDeltaPack turns a non-delta pack's code blocks into the delta
// pack's by substituting the delta-aware instruction variants in place:
// Pack -> PackDelta, PackSplit -> PackSplitDelta, everything else
// unchanged. Operates on a fresh copy; the input is left untouched.
func RewriteDeltaPack(blocks []CodeBlock) []CodeBlock {
	return rewrite(blocks, func(i Instruction) Instruction {
		switch v := i.(type) {
		case Pack:
			return PackDelta{Pos: v.Pos}
		case PackSplit:
			return PackSplitDelta{Lower: v.Lower, UpperWord: v.UpperWord, UpperShift: v.UpperShift}
		default:
			return i
		}
	})
}

// RewriteDeltaUnpack is RewriteDeltaPack's unpack counterpart.
func RewriteDeltaUnpack(blocks []CodeBlock) []CodeBlock {
	return rewrite(blocks, func(i Instruction) Instruction {
		switch v := i.(type) {
		case Unpack:
			return UnpackDelta{Pos: v.Pos}
		case UnpackSplit:
			return UnpackSplitDelta{Lower: v.Lower, UpperWord: v.UpperWord, UpperShift: v.UpperShift}
		default:
			return i
		}
	})
}

func rewrite(blocks []CodeBlock, f func(Instruction) Instruction) []CodeBlock {
	out := make([]CodeBlock, len(blocks))
	for bi, b := range blocks {
		code := make([]Instruction, len(b.Code))
		for ii, inst := range b.Code {
			code[ii] = f(inst)
		}
		out[bi] = CodeBlock{Comment: b.Comment, Code: code}
	}
	return out
}

// BuildPackLoop builds the streaming pack routine's instruction stream.
// For bits == 0 only a ReturnPtr is emitted (there is nothing to write);
// otherwise word/shift locals are declared, the loop and its remainder
// flush are emitted, then ReturnPtr.
func BuildPackLoop(bits uint32) []CodeBlock {
	if bits == 0 {
		return []CodeBlock{{Code: []Instruction{ReturnPtr{}}}}
	}
	return []CodeBlock{{Code: []Instruction{
		DeclareVar{Name: "word", Kind: VarLong, Init: "0"},
		DeclareVar{Name: "shift", Kind: VarInt, Init: "0"},
		PackLoop{Bits: bits},
		PackLoopRemainder{Bits: bits},
		ReturnPtr{},
	}}}
}

// BuildUnpackLoop builds the streaming unpack routine's instruction
// stream: a running word/shift/offset cursor refilled from the input as
// values straddle word boundaries.
func BuildUnpackLoop(bits uint32) []CodeBlock {
	if bits == 0 {
		return []CodeBlock{{Code: []Instruction{
			DynamicMemset{Constant: 0},
			ReturnPtr{},
		}}}
	}
	return []CodeBlock{{Code: []Instruction{
		DeclareNumberOfWords{},
		DeclareVar{Name: "shift", Kind: VarInt, Init: "0"},
		DeclareVar{Name: "offset", Kind: VarInt, Init: "0"},
		Read{Name: "word"},
		UnpackLoop{Bits: bits},
		ReturnPtr{},
	}}}
}
