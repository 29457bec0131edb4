package assembler

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAssembler(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "assembler suite")
}
