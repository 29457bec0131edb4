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

package lower

import (
	"fmt"

	"github.com/neo4j/gds-bitpack-codegen/internal/javaast"
	"github.com/neo4j/gds-bitpack-codegen/internal/layout"
)

// lowerPackLoop lowers the streaming pack for-loop: OR-accumulate each
// value into a running word at an advancing shift, flushing the word to
// the output whenever it fills (exactly, or with a remainder that
// carries into the next word).
func lowerPackLoop(bits uint32) []javaast.Stmt {
	valueAtI := javaast.BinExpr(javaast.Ident("values"), javaast.OpIndex, javaast.Ident("i"))
	accumulate := javaast.OrAssignStmt(javaast.Ident("word"), javaast.BinExpr(valueAtI, javaast.OpShl, javaast.Ident("shift")))

	threshold := layout.WordBits - bits
	add := javaast.OpAdd
	sub := javaast.OpSub

	flush := func() []javaast.Stmt {
		return []javaast.Stmt{
			javaast.ExprStmt{Expr: writeLong(javaast.Ident("packedPtr"), javaast.Ident("word"))},
			javaast.AssignOpStmt(javaast.Ident("packedPtr"), javaast.Literal(layout.ByteBits), &add),
		}
	}

	overflow := append(flush(),
		javaast.AssignStmt(javaast.Ident("word"), javaast.BinExpr(valueAtI, javaast.OpShr, javaast.BinExpr(javaast.Literal(layout.WordBits), javaast.OpSub, javaast.Ident("shift")))),
		javaast.AssignOpStmt(javaast.Ident("shift"), javaast.Literal(layout.WordBits), &sub),
	)
	exact := append(flush(),
		javaast.AssignStmt(javaast.Ident("word"), javaast.Literal(0)),
		javaast.AssignOpStmt(javaast.Ident("shift"), javaast.Literal(layout.WordBits), &sub),
	)

	flushIf := javaast.IfStmt{
		Cond: javaast.BinExpr(javaast.Ident("shift"), javaast.OpGt, javaast.Literal(threshold)),
		Then: overflow,
		Else: []javaast.Stmt{javaast.IfStmt{
			Cond: javaast.BinExpr(javaast.Ident("shift"), javaast.OpEq, javaast.Literal(threshold)),
			Then: exact,
		}},
	}

	return []javaast.Stmt{javaast.ForLoop{
		Init: "int i = valuesStart",
		Cond: "i < valuesStart + valuesLength",
		Post: fmt.Sprintf("i++, shift += %d", bits),
		Body: []javaast.Stmt{accumulate, flushIf},
	}}
}

// lowerPackLoopRemainder flushes the final partial word left over after
// the main loop, since a word that never exactly filled is otherwise
// never written. When bits == 64 every value fills a whole word on its
// own, so the flush is unconditional.
func lowerPackLoopRemainder(bits uint32) []javaast.Stmt {
	add := javaast.OpAdd
	flush := []javaast.Stmt{
		javaast.ExprStmt{Expr: writeLong(javaast.Ident("packedPtr"), javaast.Ident("word"))},
		javaast.AssignOpStmt(javaast.Ident("packedPtr"), javaast.Literal(layout.ByteBits), &add),
	}
	if bits == layout.WordBits {
		return flush
	}
	return []javaast.Stmt{javaast.IfStmt{
		Cond: javaast.BinExpr(javaast.Ident("shift"), javaast.OpNeq, javaast.Literal(0)),
		Then: flush,
	}}
}

// lowerUnpackLoop lowers the streaming unpack for-loop: each of the
// `words` input words yields F = floor(64/bits) cleanly aligned values
// plus, except on the final word, a value that straddles into the next
// one and must be completed by refilling `word` from the input.
func lowerUnpackLoop(ctx *context, bits uint32) []javaast.Stmt {
	f := layout.WordBits / bits
	threshold := layout.WordBits - bits
	add := javaast.OpAdd
	sub := javaast.OpSub
	and := javaast.OpAnd

	straddleTarget := javaast.BinExpr(javaast.Ident("values"), javaast.OpIndex,
		javaast.BinExpr(javaast.BinExpr(javaast.Ident("offset"), javaast.OpAdd, javaast.Literal(f)), javaast.OpAdd, javaast.Ident("valuesStart")))

	kTarget := javaast.BinExpr(javaast.Ident("values"), javaast.OpIndex,
		javaast.BinExpr(javaast.BinExpr(javaast.Ident("offset"), javaast.OpAdd, javaast.Ident("k")), javaast.OpAdd, javaast.Ident("valuesStart")))
	kShift := javaast.BinExpr(javaast.Ident("shift"), javaast.OpAdd, javaast.BinExpr(javaast.Ident("k"), javaast.OpMul, javaast.Literal(bits)))
	alignedLoop := javaast.ForLoop{
		Init: "int k = 0",
		Cond: fmt.Sprintf("k < %d", f),
		Post: "k++",
		Body: []javaast.Stmt{javaast.AssignStmt(kTarget,
			javaast.BinExpr(javaast.BinExpr(javaast.Ident("word"), javaast.OpShr, kShift), javaast.OpAnd, javaast.HexLiteral(ctx.mask)))},
	}

	advanceShift := javaast.AssignOpStmt(javaast.Ident("shift"), javaast.Literal((f-1)*bits), &add)

	breakOnLastWord := javaast.IfStmt{
		Cond: javaast.BinExpr(javaast.Ident("i"), javaast.OpEq, javaast.BinExpr(javaast.Ident("words"), javaast.OpSub, javaast.Literal(1))),
		Then: []javaast.Stmt{javaast.Raw("break;")},
	}

	refillWord := func() []javaast.Stmt {
		return []javaast.Stmt{
			javaast.AssignStmt(javaast.Ident("word"), readLong(javaast.Ident("packedPtr"))),
			javaast.AssignOpStmt(javaast.Ident("packedPtr"), javaast.Literal(layout.ByteBits), &add),
		}
	}

	straddle := []javaast.Stmt{
		javaast.AssignStmt(straddleTarget, javaast.BinExpr(javaast.Ident("word"), javaast.OpShr, javaast.Ident("shift"))),
	}
	straddle = append(straddle, refillWord()...)
	straddle = append(straddle,
		javaast.OrAssignStmt(straddleTarget, javaast.BinExpr(javaast.Ident("word"), javaast.OpShl, javaast.BinExpr(javaast.Literal(layout.WordBits), javaast.OpSub, javaast.Ident("shift")))),
		javaast.AssignOpStmt(straddleTarget, javaast.HexLiteral(ctx.mask), &and),
		javaast.AssignOpStmt(javaast.Ident("shift"), javaast.Literal(layout.WordBits), &sub),
		javaast.AssignOpStmt(javaast.Ident("offset"), javaast.Literal(f), &add),
	)

	cleanBoundary := append(refillWord(),
		javaast.AssignStmt(javaast.Ident("shift"), javaast.Literal(0)),
		javaast.AssignOpStmt(javaast.Ident("offset"), javaast.Literal(f), &add),
	)

	general := []javaast.Stmt{
		javaast.AssignStmt(straddleTarget, javaast.BinExpr(javaast.Ident("word"), javaast.OpShr, javaast.Ident("shift"))),
		javaast.AssignOpStmt(javaast.Ident("shift"), javaast.Literal(bits), &add),
	}
	general = append(general, refillWord()...)
	general = append(general,
		javaast.OrAssignStmt(straddleTarget, javaast.BinExpr(javaast.Ident("word"), javaast.OpShl, javaast.BinExpr(javaast.Literal(layout.WordBits), javaast.OpSub, javaast.Ident("shift")))),
		javaast.AssignOpStmt(straddleTarget, javaast.HexLiteral(ctx.mask), &and),
		javaast.AssignOpStmt(javaast.Ident("offset"), javaast.Literal(f+1), &add),
	)

	refillIf := javaast.IfStmt{
		Cond: javaast.BinExpr(javaast.Ident("shift"), javaast.OpGt, javaast.Literal(threshold)),
		Then: straddle,
		Else: []javaast.Stmt{javaast.IfStmt{
			Cond: javaast.BinExpr(javaast.Ident("shift"), javaast.OpEq, javaast.Literal(threshold)),
			Then: cleanBoundary,
			Else: general,
		}},
	}

	body := []javaast.Stmt{alignedLoop, advanceShift, breakOnLastWord, refillIf}

	return []javaast.Stmt{javaast.ForLoop{
		Init: "int i = 0",
		Cond: "i < words",
		Post: "i++",
		Body: body,
	}}
}
