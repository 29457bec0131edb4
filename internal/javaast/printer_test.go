package javaast

import (
	"strings"
	"testing"
)

func TestPrintSimpleFile(t *testing.T) {
	file := FileDef{
		CopyrightBanner: "Copyright Example",
		Package:         "org.example",
		Imports:         []string{"java.util.Arrays", "java.util.Arrays"},
		Class: ClassDef{
			Modifiers: "public final",
			Type:      "class",
			Name:      "Thing",
			Members: []Member{
				Def{Type: "public static final int", Ident: "BLOCK_SIZE", Value: Literal(64)},
				MethodDef{
					Modifiers: "public static",
					Type:      "int",
					Ident:     "advance",
					Params:    []Param{{Type: "int", Ident: "o"}},
					Code: []Stmt{
						ReturnStmt{Value: BinExpr(Ident("o"), OpAdd, Ident("BLOCK_SIZE"))},
					},
				},
			},
		},
	}

	got := Print(file)

	if !strings.Contains(got, "package org.example;") {
		t.Errorf("output missing package decl:\n%s", got)
	}
	if strings.Count(got, "import java.util.Arrays;") != 1 {
		t.Errorf("imports were not deduplicated:\n%s", got)
	}
	if !strings.Contains(got, "BLOCK_SIZE = 64;") {
		t.Errorf("output missing BLOCK_SIZE def:\n%s", got)
	}
	if !strings.Contains(got, "return (o + BLOCK_SIZE);") {
		t.Errorf("output missing return stmt:\n%s", got)
	}
}

func TestOptimizeFoldsTrivialAddZero(t *testing.T) {
	file := FileDef{
		Class: ClassDef{
			Modifiers: "public",
			Type:      "class",
			Name:      "X",
			Members: []Member{
				MethodDef{
					Modifiers: "public",
					Type:      "long",
					Ident:     "f",
					Code: []Stmt{
						ReturnStmt{Value: BinExpr(Ident("packedPtr"), OpAdd, Literal(0))},
					},
				},
			},
		},
	}

	got := Print(file)
	if !strings.Contains(got, "return packedPtr;") {
		t.Errorf("Optimize did not fold packedPtr + 0 down to packedPtr:\n%s", got)
	}
}

func TestRenderIndexExpr(t *testing.T) {
	got := renderExpr(BinExpr(Ident("values"), OpIndex, Ident("valuesStart")))
	if got != "values[valuesStart]" {
		t.Errorf("renderExpr(index) = %q, want values[valuesStart]", got)
	}
}
