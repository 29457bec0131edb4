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

// Package gen wires the shared pipeline both CLI drivers run: validate
// flags, build a routine.Class, assemble it into a Java compilation
// unit, and write the result. cmd/packgen and cmd/deltapackgen differ
// only in which family-builder and include vocabulary they pass in.
package gen

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"

	"github.com/neo4j/gds-bitpack-codegen/internal/assembler"
	"github.com/neo4j/gds-bitpack-codegen/internal/javaast"
	"github.com/neo4j/gds-bitpack-codegen/internal/routine"
)

// ErrOutputExists is returned when --output names an existing file and
// --force was not given.
var ErrOutputExists = errors.New("output file already exists (use --force to overwrite)")

// ClassBuilder builds a Class for one generator entry point, given the
// resolved include/exclude bitmask.
type ClassBuilder func(name string, blockSize uint32, include routine.Include) (routine.Class, error)

// Generator holds one run's resolved configuration.
type Generator struct {
	BlockSize  uint32
	ClassName  string
	Package    string
	Include    routine.Include
	ToFile     bool // write <ClassName>.java instead of Stdout
	Force      bool
	Copyright  string
	BuildClass ClassBuilder
	Stdout     io.Writer
}

// Run executes the pipeline: build the class, assemble the file, render
// it, and write it either to <ClassName>.java or to Stdout.
func (g Generator) Run() error {
	if err := ValidateBlockSize(g.BlockSize); err != nil {
		return fmt.Errorf("invalid block size: %w", err)
	}

	class, err := g.BuildClass(g.ClassName, g.BlockSize, g.Include)
	if err != nil {
		return fmt.Errorf("building %s: %w", g.ClassName, err)
	}

	file := assembler.Assemble(class, g.Package, g.Copyright)
	source := javaast.Print(file)

	if !g.ToFile {
		_, err := io.WriteString(g.Stdout, source)
		return err
	}

	path := g.ClassName + ".java"
	if err := writeFile(path, source, g.Force); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ValidateBlockSize enforces the closed range for N: a power of two in
// [1, 64].
func ValidateBlockSize(n uint32) error {
	if n == 0 || n > 64 {
		return fmt.Errorf("block size must be in [1, 64], got %d", n)
	}
	if bits.OnesCount32(n) != 1 {
		return fmt.Errorf("block size must be a power of two, got %d", n)
	}
	return nil
}

// writeFile writes source to path, failing with ErrOutputExists when
// the file is already there and force is false (os.O_EXCL), otherwise
// truncating and overwriting (os.O_TRUNC) — the same create_new vs.
// create().truncate() split the original generator used.
func writeFile(path, source string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrOutputExists
		}
		return err
	}
	defer f.Close()

	if _, err := io.WriteString(f, source); err != nil {
		return err
	}
	return nil
}

// ResolveInclude folds repeatable --include/--exclude tokens into one
// effective bitmask: the OR of explicit includes if any were given,
// otherwise allBits with the excludes masked off.
func ResolveInclude(includes, excludes []string, allBits routine.Include, delta bool) (routine.Include, error) {
	var included routine.Include
	for _, tok := range includes {
		bit, ok := routine.ParseIncludeToken(tok, delta)
		if !ok {
			return 0, fmt.Errorf("unknown include token %q", tok)
		}
		included |= bit
	}

	var excluded routine.Include
	for _, tok := range excludes {
		bit, ok := routine.ParseIncludeToken(tok, delta)
		if !ok {
			return 0, fmt.Errorf("unknown exclude token %q", tok)
		}
		excluded |= bit
	}

	if len(includes) > 0 {
		return included &^ excluded, nil
	}
	return allBits &^ excluded, nil
}
