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

// Package assembler turns a routine.Class into a single Java compilation
// unit: the dispatch scaffolding (bits-indexed tables, entry points,
// functional interfaces) wrapped around the specialized routines
// internal/lower produces.
package assembler

import (
	"fmt"
	"strings"

	"github.com/neo4j/gds-bitpack-codegen/internal/javaast"
	"github.com/neo4j/gds-bitpack-codegen/internal/lower"
	"github.com/neo4j/gds-bitpack-codegen/internal/routine"
)

const unsafeUtilImport = "org.neo4j.internal.unsafe.UnsafeUtil"
const bitUtilImport = "org.neo4j.gds.core.compression.common.BitUtil"

// family describes one of the (at most four) routine families a Class
// may populate, in the fixed order the assembler emits them.
type family struct {
	key     string // "pack", "unpack", "packLoop", "unpackLoop", "deltaPack", "deltaUnpack"
	methods []routine.Method
	isLoop  bool
	isDelta bool
}

func families(c routine.Class) []family {
	candidates := []family{
		{key: "pack", methods: c.Packers},
		{key: "unpack", methods: c.Unpackers},
		{key: "packLoop", methods: c.PackLoops, isLoop: true},
		{key: "unpackLoop", methods: c.UnpackLoops, isLoop: true},
		{key: "deltaPack", methods: c.DeltaPackers, isDelta: true},
		{key: "deltaUnpack", methods: c.DeltaUnpackers, isDelta: true},
	}
	var out []family
	for _, f := range candidates {
		if len(f.methods) > 0 {
			out = append(out, f)
		}
	}
	return out
}

// Assemble builds the compilation unit for one Class.
func Assemble(c routine.Class, pkg, copyright string) javaast.FileDef {
	fams := families(c)

	members := []javaast.Member{privateConstructor(c.Name), blockSizeConst(c.BlockSize), advanceValueOffset(c.BlockSize)}

	var usesUnpackLoop bool
	for _, f := range fams {
		members = append(members, entryPoint(f, c.BlockSize))
		members = append(members, functionalInterface(f))
		members = append(members, dispatchTable(f, c.Name))
		if f.key == "unpackLoop" {
			usesUnpackLoop = true
		}
	}
	for _, f := range fams {
		for _, m := range f.methods {
			members = append(members, lower.Method(m))
		}
	}

	imports := []string{unsafeUtilImport}
	if usesUnpackLoop {
		imports = append(imports, bitUtilImport)
	}
	if usesMemset(c) {
		imports = append(imports, "java.util.Arrays")
	}

	return javaast.FileDef{
		CopyrightBanner: copyright,
		Package:         pkg,
		Imports:         imports,
		Class: javaast.ClassDef{
			Documentation: fmt.Sprintf("Specialized pack/unpack routines for fixed-size blocks of %d values.", c.BlockSize),
			Modifiers:     "public final",
			Type:          "class",
			Name:          c.Name,
			Members:       members,
		},
	}
}

func usesMemset(c routine.Class) bool {
	return len(c.Unpackers) > 0 || len(c.UnpackLoops) > 0 || len(c.DeltaUnpackers) > 0
}

func privateConstructor(className string) javaast.MethodDef {
	return javaast.MethodDef{
		Modifiers: "private",
		Type:      "",
		Ident:     className,
		Code:      []javaast.Stmt{},
	}
}

func blockSizeConst(blockSize uint32) javaast.Def {
	return javaast.Def{
		Type:  "public static final int",
		Ident: "BLOCK_SIZE",
		Value: javaast.Literal(blockSize),
	}
}

func advanceValueOffset(blockSize uint32) javaast.MethodDef {
	return javaast.MethodDef{
		Modifiers: "public static",
		Type:      "int",
		Ident:     "advanceValueOffset",
		Params:    []javaast.Param{{Type: "int", Ident: "offset"}},
		Code: []javaast.Stmt{
			javaast.ReturnStmt{Value: javaast.BinExpr(javaast.Ident("offset"), javaast.OpAdd, javaast.Ident("BLOCK_SIZE"))},
		},
	}
}

func routineParams(f family) []javaast.Param {
	var ps []javaast.Param
	if f.isDelta {
		ps = append(ps, javaast.Param{Type: "long", Ident: "previousValue"})
	}
	ps = append(ps, javaast.Param{Type: "long[]", Ident: "values"}, javaast.Param{Type: "int", Ident: "valuesStart"})
	if f.isLoop {
		ps = append(ps, javaast.Param{Type: "int", Ident: "valuesLength"})
	}
	ps = append(ps, javaast.Param{Type: "long", Ident: "packedPtr"})
	return ps
}

func entryPoint(f family, blockSize uint32) javaast.MethodDef {
	params := append([]javaast.Param{{Type: "int", Ident: "bits"}}, routineParams(f)...)

	var args []javaast.Expr
	for _, p := range params[1:] {
		args = append(args, javaast.Ident(p.Ident))
	}

	assertion := javaast.BinExpr(javaast.Ident("bits"), javaast.OpLte, javaast.Literal(blockSize))
	message := javaast.BinExpr(javaast.StringLit("Bits must be at most "+fmt.Sprint(blockSize)+" but was "), javaast.OpAdd, javaast.Ident("bits"))

	dispatch := javaast.NewCall(
		javaast.BinExpr(javaast.Ident(tableName(f.key)), javaast.OpIndex, javaast.Ident("bits")),
		f.key,
		args,
	)

	return javaast.MethodDef{
		Modifiers: "public static",
		Type:      "long",
		Ident:     f.key,
		Params:    params,
		Code: []javaast.Stmt{
			javaast.AssertStmt{Assertion: assertion, Message: message},
			javaast.ReturnStmt{Value: dispatch},
		},
	}
}

func functionalInterface(f family) javaast.ClassDef {
	return javaast.ClassDef{
		Annotations: []javaast.Call{{Method: "FunctionalInterface"}},
		Modifiers:   "private",
		Type:        "interface",
		Name:        interfaceName(f.key),
		Members: []javaast.Member{
			javaast.MethodDef{
				Type:   "long",
				Ident:  f.key,
				Params: routineParams(f),
			},
		},
	}
}

func dispatchTable(f family, className string) javaast.Def {
	var refs []javaast.Expr
	for _, m := range f.methods {
		refs = append(refs, javaast.MethodRef{Receiver: javaast.Ident(className), Method: m.Name()})
	}
	return javaast.Def{
		Type:  fmt.Sprintf("private static final %s[]", interfaceName(f.key)),
		Ident: tableName(f.key),
		Value: javaast.ArrayInit{Elems: refs},
	}
}

func interfaceName(key string) string {
	return strings.ToUpper(key[:1]) + key[1:]
}

func tableName(key string) string {
	return "TABLE_" + strings.ToUpper(camelToSnake(key))
}

func camelToSnake(s string) string {
	var out []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' && i > 0 {
			out = append(out, '_')
		}
		out = append(out, c)
	}
	return string(out)
}
