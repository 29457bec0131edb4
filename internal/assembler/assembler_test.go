package assembler

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/neo4j/gds-bitpack-codegen/internal/javaast"
	"github.com/neo4j/gds-bitpack-codegen/internal/routine"
)

var _ = Describe("Assemble", func() {
	var class routine.Class

	BeforeEach(func() {
		var err error
		class, err = routine.BuildAdjacencyClass("AdjacencyPacking", 4, routine.IncludeAllAdjacency)
		Expect(err).NotTo(HaveOccurred())
	})

	It("declares the private constructor and BLOCK_SIZE constant", func() {
		out := javaast.Print(Assemble(class, "org.neo4j.gds.core.loading", ""))
		Expect(out).To(ContainSubstring("private AdjacencyPacking()"))
		Expect(out).To(ContainSubstring("BLOCK_SIZE = 4;"))
	})

	It("emits advanceValueOffset in terms of BLOCK_SIZE", func() {
		out := javaast.Print(Assemble(class, "org.neo4j.gds.core.loading", ""))
		Expect(out).To(ContainSubstring("return (offset + BLOCK_SIZE);"))
	})

	It("emits one entry point, functional interface, and table per non-empty family", func() {
		out := javaast.Print(Assemble(class, "org.neo4j.gds.core.loading", ""))
		for _, key := range []string{"pack", "unpack", "packLoop", "unpackLoop"} {
			Expect(out).To(ContainSubstring("public static long " + key + "("))
		}
		Expect(out).To(ContainSubstring("interface Pack"))
		Expect(out).To(ContainSubstring("TABLE_PACK["))
	})

	It("asserts bits is within range in every entry point", func() {
		out := javaast.Print(Assemble(class, "org.neo4j.gds.core.loading", ""))
		Expect(out).To(ContainSubstring("assert (bits <= 4) : "))
	})

	It("never emits a delta family for the adjacency class", func() {
		out := javaast.Print(Assemble(class, "org.neo4j.gds.core.loading", ""))
		Expect(out).NotTo(ContainSubstring("deltaPack"))
		Expect(out).NotTo(ContainSubstring("deltaUnpack"))
	})

	It("imports UnsafeUtil and BitUtil exactly once each", func() {
		out := javaast.Print(Assemble(class, "org.neo4j.gds.core.loading", ""))
		Expect(strings.Count(out, "import org.neo4j.internal.unsafe.UnsafeUtil;")).To(Equal(1))
		Expect(strings.Count(out, "import org.neo4j.gds.core.compression.common.BitUtil;")).To(Equal(1))
	})

	When("building the delta class", func() {
		It("omits the loop families and table, and has no BitUtil import", func() {
			deltaClass, err := routine.BuildDeltaClass("AdjacencyDeltaPacking", 8, routine.IncludeAllDelta)
			Expect(err).NotTo(HaveOccurred())

			out := javaast.Print(Assemble(deltaClass, "org.neo4j.gds.core.loading", ""))
			Expect(out).To(ContainSubstring("public static long deltaPack("))
			Expect(out).To(ContainSubstring("public static long deltaUnpack("))
			Expect(out).NotTo(ContainSubstring("packLoop"))
			Expect(out).NotTo(ContainSubstring("import org.neo4j.gds.core.compression.common.BitUtil;"))
		})
	})
})
