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

// Command packgen emits the adjacency pack/unpack family: pack, unpack,
// and their streaming loop siblings, specialized per bit width for one
// block size.
//
// Usage:
//
//	packgen -b 4 -c AdjacencyPacking -o   # writes AdjacencyPacking.java
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neo4j/gds-bitpack-codegen/internal/gen"
	"github.com/neo4j/gds-bitpack-codegen/internal/routine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		blockSize uint32
		className string
		pkg       string
		includes  []string
		excludes  []string
		toFile    bool
		force     bool
	)

	cmd := &cobra.Command{
		Use:           "packgen",
		Short:         "Generate specialized bit-packing routines for fixed-size blocks of 64-bit values",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			include, err := gen.ResolveInclude(includes, excludes, routine.IncludeAllAdjacency, false)
			if err != nil {
				return err
			}

			g := gen.Generator{
				BlockSize:  blockSize,
				ClassName:  className,
				Package:    pkg,
				Include:    include,
				ToFile:     toFile,
				Force:      force,
				BuildClass: routine.BuildAdjacencyClass,
				Stdout:     cmd.OutOrStdout(),
			}
			return g.Run()
		},
	}

	flags := cmd.Flags()
	flags.Uint32VarP(&blockSize, "block-size", "b", 64, "block size N, a power of two in [1, 64]")
	flags.StringVarP(&className, "class-name", "c", "AdjacencyPacking", "name of the emitted class")
	flags.StringVarP(&pkg, "package", "p", "org.neo4j.gds.core.loading", "package of the emitted class")
	flags.StringArrayVarP(&includes, "include", "i", nil, "families to include: pack, unpack, pack-loop, unpack-loop, packers, unpackers, loops (repeatable)")
	flags.StringArrayVarP(&excludes, "exclude", "e", nil, "families to exclude from the effective include set (repeatable)")
	flags.BoolVarP(&toFile, "output", "o", false, "write to <class-name>.java instead of standard output")
	flags.BoolVarP(&force, "force", "f", false, "overwrite the output file if it already exists")

	return cmd
}
