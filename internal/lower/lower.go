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

// Package lower translates a routine.Method's instruction stream into a
// javaast.MethodDef, resolving the two pieces of state the instruction
// set itself leaves implicit: the sticky mask value set by DefineMask,
// and whether each Pack/Unpack is carrying a delta rewrite.
package lower

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/neo4j/gds-bitpack-codegen/internal/instr"
	"github.com/neo4j/gds-bitpack-codegen/internal/javaast"
	"github.com/neo4j/gds-bitpack-codegen/internal/layout"
	"github.com/neo4j/gds-bitpack-codegen/internal/routine"
)

// context carries the generator-local state that accumulates across one
// method's instruction stream. It is never shared between methods: each
// call to Method starts a fresh one, matching the "mask as sticky state,
// not global state" design.
type context struct {
	bits  uint32
	delta bool
	mask  uint64
}

// Method lowers one routine.Method to its Java method definition.
func Method(m routine.Method) javaast.MethodDef {
	ctx := &context{bits: m.Bits, delta: m.IsDelta, mask: layout.Mask(m.Bits)}

	var code []javaast.Stmt
	for _, block := range m.Code {
		if block.Comment != "" {
			code = append(code, javaast.Comment(block.Comment))
		}
		for _, inst := range block.Code {
			code = append(code, lowerInstruction(ctx, inst)...)
		}
	}

	return javaast.MethodDef{
		Documentation: strings.Join(m.Documentation, "\n"),
		Modifiers:     "private static",
		Type:          "long",
		Ident:         m.Name(),
		Params:        params(m),
		Code:          code,
	}
}

func params(m routine.Method) []javaast.Param {
	var ps []javaast.Param
	if m.IsDelta {
		ps = append(ps, javaast.Param{Type: "long", Ident: "previousValue"})
	}
	ps = append(ps,
		javaast.Param{Type: "long[]", Ident: "values"},
		javaast.Param{Type: "int", Ident: "valuesStart"},
	)
	if m.IsLoop {
		ps = append(ps, javaast.Param{Type: "int", Ident: "valuesLength"})
	}
	ps = append(ps, javaast.Param{Type: "long", Ident: "packedPtr"})
	return ps
}

func lowerInstruction(ctx *context, inst instr.Instruction) []javaast.Stmt {
	switch v := inst.(type) {
	case instr.DeclareWord:
		return []javaast.Stmt{javaast.Def{Type: "long", Ident: wordName(v.Word)}}

	case instr.DeclareWordAndInit:
		addr := javaast.BinExpr(javaast.Ident("packedPtr"), javaast.OpAdd, javaast.Literal(v.Offset))
		return []javaast.Stmt{javaast.Def{Type: "long", Ident: wordName(v.Word), Value: readLong(addr)}}

	case instr.DefineMask:
		ctx.mask = v.Constant
		return nil

	case instr.Pack:
		return emitPack(v.Pos, false)
	case instr.PackDelta:
		return emitPack(v.Pos, true)

	case instr.PackSplit:
		return emitPackSplit(v.Lower, v.UpperWord, v.UpperShift, false)
	case instr.PackSplitDelta:
		return emitPackSplit(v.Lower, v.UpperWord, v.UpperShift, true)

	case instr.Unpack:
		return emitUnpack(ctx, v.Pos, false)
	case instr.UnpackDelta:
		return emitUnpack(ctx, v.Pos, true)

	case instr.UnpackSplit:
		return emitUnpackSplit(ctx, v.Lower, v.UpperWord, v.UpperShift, false)
	case instr.UnpackSplitDelta:
		return emitUnpackSplit(ctx, v.Lower, v.UpperWord, v.UpperShift, true)

	case instr.DeclareVar:
		def := javaast.Def{Type: varTypeName(v.Kind), Ident: v.Name}
		if v.Init != "" {
			n, err := strconv.Atoi(v.Init)
			if err != nil {
				panic(fmt.Sprintf("lower: DeclareVar %q has non-numeric initializer %q", v.Name, v.Init))
			}
			def.Value = javaast.Literal(uint32(n))
		}
		return []javaast.Stmt{def}

	case instr.DeclareNumberOfWords:
		total := javaast.BinExpr(javaast.Ident("valuesLength"), javaast.OpMul, javaast.Literal(ctx.bits))
		return []javaast.Stmt{javaast.Def{
			Type:  "int",
			Ident: "words",
			Value: javaast.NewCall(javaast.Ident("BitUtil"), "ceilDiv", []javaast.Expr{total, javaast.Literal(layout.WordBits)}),
		}}

	case instr.PackLoop:
		return lowerPackLoop(v.Bits)
	case instr.PackLoopRemainder:
		return lowerPackLoopRemainder(v.Bits)
	case instr.UnpackLoop:
		return lowerUnpackLoop(ctx, v.Bits)

	case instr.Read:
		advance := javaast.OpAdd
		return []javaast.Stmt{
			javaast.Def{Type: "long", Ident: v.Name, Value: readLong(javaast.Ident("packedPtr"))},
			javaast.AssignOpStmt(javaast.Ident("packedPtr"), javaast.Literal(layout.ByteBits), &advance),
		}

	case instr.DynamicMemset:
		return []javaast.Stmt{fillStmt(
			javaast.Ident("valuesStart"),
			javaast.BinExpr(javaast.Ident("valuesStart"), javaast.OpAdd, javaast.Ident("valuesLength")),
			v.Constant,
		)}

	case instr.Memset:
		return []javaast.Stmt{fillStmt(
			javaast.Ident("valuesStart"),
			javaast.BinExpr(javaast.Ident("valuesStart"), javaast.OpAdd, javaast.Literal(v.Size)),
			v.Constant,
		)}

	case instr.Write:
		addr := javaast.BinExpr(javaast.Ident("packedPtr"), javaast.OpAdd, javaast.Literal(v.Offset))
		return []javaast.Stmt{javaast.ExprStmt{Expr: writeLong(addr, wordExpr(v.Word))}}

	case instr.Return:
		return []javaast.Stmt{javaast.ReturnStmt{Value: javaast.BinExpr(javaast.Ident("packedPtr"), javaast.OpAdd, javaast.Literal(v.Offset))}}

	case instr.ReturnPtr:
		return []javaast.Stmt{javaast.ReturnStmt{Value: javaast.Ident("packedPtr")}}
	}

	panic(fmt.Sprintf("lower: unhandled instruction %T", inst))
}

func varTypeName(k instr.VarKind) string {
	if k == instr.VarLong {
		return "long"
	}
	return "int"
}

func wordName(w uint32) string       { return fmt.Sprintf("w%d", w) }
func wordExpr(w uint32) javaast.Expr { return javaast.Ident(wordName(w)) }

func readLong(addr javaast.Expr) javaast.Expr {
	return javaast.NewCall(javaast.Ident("UnsafeUtil"), "getLong", []javaast.Expr{addr})
}

func writeLong(addr, value javaast.Expr) javaast.Expr {
	return javaast.NewCall(javaast.Ident("UnsafeUtil"), "putLong", []javaast.Expr{addr, value})
}

func fillStmt(from, to javaast.Expr, constant uint64) javaast.Stmt {
	return javaast.ExprStmt{Expr: javaast.NewCall(javaast.Ident("Arrays"), "fill",
		[]javaast.Expr{javaast.Ident("values"), from, to, javaast.HexLiteral(constant)})}
}

// valueAt returns `values[offset + valuesStart]`, the value at a
// compile-time-known offset within the block.
func valueAt(offset uint32) javaast.Expr {
	return javaast.BinExpr(javaast.Ident("values"),
		javaast.OpIndex,
		javaast.BinExpr(javaast.Literal(offset), javaast.OpAdd, javaast.Ident("valuesStart")))
}

// packOperand returns the value a Pack/PackSplit instruction writes: the
// raw value, or its delta against the prior element (or previousValue
// for the block's first element). offset is known at generation time,
// so the "i > 0" test in the delta formula resolves here rather than at
// runtime.
func packOperand(offset uint32, delta bool) javaast.Expr {
	if !delta {
		return valueAt(offset)
	}
	return javaast.BinExpr(valueAt(offset), javaast.OpSub, priorValue(offset))
}

func priorValue(offset uint32) javaast.Expr {
	if offset == 0 {
		return javaast.Ident("previousValue")
	}
	return valueAt(offset - 1)
}

func emitPack(pos layout.BitPos, delta bool) []javaast.Stmt {
	v := packOperand(pos.Offset, delta)
	target := wordExpr(pos.Word)
	if pos.Shift == 0 {
		return []javaast.Stmt{javaast.AssignStmt(target, javaast.BinExpr(v, javaast.OpShl, javaast.Literal(0)))}
	}
	or := javaast.OpOr
	return []javaast.Stmt{javaast.AssignOpStmt(target, javaast.BinExpr(v, javaast.OpShl, javaast.Literal(pos.Shift)), &or)}
}

func emitPackSplit(lower layout.BitPos, upperWord, upperShift uint32, delta bool) []javaast.Stmt {
	v := packOperand(lower.Offset, delta)
	or := javaast.OpOr
	return []javaast.Stmt{
		javaast.AssignOpStmt(wordExpr(lower.Word), javaast.BinExpr(v, javaast.OpShl, javaast.Literal(lower.Shift)), &or),
		javaast.AssignStmt(wordExpr(upperWord), javaast.BinExpr(v, javaast.OpShr, javaast.Literal(upperShift))),
	}
}

// unpackResult assigns raw (the shifted, masked word contents) to the
// value at offset, adding the running previous value first when this is
// a delta-coded routine, turning the decode into a prefix sum.
func unpackResult(offset uint32, raw javaast.Expr, delta bool) javaast.Stmt {
	if !delta {
		return javaast.AssignStmt(valueAt(offset), raw)
	}
	return javaast.AssignStmt(valueAt(offset), javaast.BinExpr(raw, javaast.OpAdd, priorValue(offset)))
}

func emitUnpack(ctx *context, pos layout.BitPos, delta bool) []javaast.Stmt {
	w := wordExpr(pos.Word)
	var raw javaast.Expr
	if pos.Shift+ctx.bits == layout.WordBits {
		raw = javaast.BinExpr(w, javaast.OpShr, javaast.Literal(pos.Shift))
	} else {
		shifted := javaast.BinExpr(w, javaast.OpShr, javaast.Literal(pos.Shift))
		raw = javaast.BinExpr(shifted, javaast.OpAnd, javaast.HexLiteral(ctx.mask))
	}
	return []javaast.Stmt{unpackResult(pos.Offset, raw, delta)}
}

func emitUnpackSplit(ctx *context, lower layout.BitPos, upperWord, upperShift uint32, delta bool) []javaast.Stmt {
	low := javaast.BinExpr(wordExpr(lower.Word), javaast.OpShr, javaast.Literal(lower.Shift))
	high := javaast.BinExpr(wordExpr(upperWord), javaast.OpShl, javaast.Literal(upperShift))
	raw := javaast.BinExpr(javaast.BinExpr(low, javaast.OpOr, high), javaast.OpAnd, javaast.HexLiteral(ctx.mask))
	return []javaast.Stmt{unpackResult(lower.Offset, raw, delta)}
}
