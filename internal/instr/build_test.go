package instr

import "testing"

func countPacks(blocks []CodeBlock) int {
	n := 0
	for _, b := range blocks {
		for _, inst := range b.Code {
			switch inst.(type) {
			case Pack, PackSplit:
				n++
			}
		}
	}
	return n
}

func TestBuildPackInstructionCount(t *testing.T) {
	// The number of Pack/PackSplit instructions equals the block size
	// when bits > 0, and is zero when bits == 0 (nothing to pack).
	blocks := BuildPack(4, 3)
	if got := countPacks(blocks); got != 4 {
		t.Errorf("countPacks(BuildPack(4, 3)) = %d, want 4", got)
	}

	blocks = BuildPack(8, 0)
	if got := countPacks(blocks); got != 0 {
		t.Errorf("countPacks(BuildPack(8, 0)) = %d, want 0", got)
	}
}

func TestBuildPackTerminates(t *testing.T) {
	blocks := BuildPack(4, 3)
	last := blocks[len(blocks)-1]
	if len(last.Code) != 1 {
		t.Fatalf("last block has %d instructions, want 1", len(last.Code))
	}
	ret, ok := last.Code[0].(Return)
	if !ok {
		t.Fatalf("last instruction = %T, want Return", last.Code[0])
	}
	if ret.Offset != 2 {
		t.Errorf("Return.Offset = %d, want 2", ret.Offset)
	}
}

func TestBuildUnpackZeroWidth(t *testing.T) {
	blocks := BuildUnpack(8, 0)
	var sawMemset bool
	for _, b := range blocks {
		for _, inst := range b.Code {
			if ms, ok := inst.(Memset); ok {
				sawMemset = true
				if ms.Size != 8 || ms.Constant != 0 {
					t.Errorf("Memset = %+v, want Size=8 Constant=0", ms)
				}
			}
		}
	}
	if !sawMemset {
		t.Errorf("BuildUnpack(8, 0) did not emit Memset")
	}
}

func TestBuildUnpackDefinesMaskUnlessFull(t *testing.T) {
	blocks := BuildUnpack(32, 5)
	if !hasDefineMask(blocks) {
		t.Errorf("BuildUnpack(32, 5) should define a mask (5 != 32)")
	}

	blocks = BuildUnpack(4, 64)
	if !hasDefineMask(blocks) {
		t.Errorf("BuildUnpack(4, 64) should define a mask (64 != 4)")
	}

	blocks = BuildUnpack(64, 64)
	if hasDefineMask(blocks) {
		t.Errorf("BuildUnpack(64, 64) should not define a mask (bits == blockSize)")
	}
}

func hasDefineMask(blocks []CodeBlock) bool {
	for _, b := range blocks {
		for _, inst := range b.Code {
			if _, ok := inst.(DefineMask); ok {
				return true
			}
		}
	}
	return false
}

func TestRewriteDeltaPack(t *testing.T) {
	plain := BuildPack(4, 7) // 4 values at 7 bits fit in word 0, so no PackSplit is produced
	delta := RewriteDeltaPack(plain)

	var sawDelta, sawSplitDelta bool
	for _, b := range delta {
		for _, inst := range b.Code {
			switch inst.(type) {
			case PackDelta:
				sawDelta = true
			case PackSplitDelta:
				sawSplitDelta = true
			case Pack, PackSplit:
				t.Errorf("RewriteDeltaPack left a non-delta Pack/PackSplit instruction: %#v", inst)
			}
		}
	}
	if !sawDelta {
		t.Errorf("RewriteDeltaPack produced no PackDelta instructions")
	}
	_ = sawSplitDelta

	// The original must be untouched.
	for _, b := range plain {
		for _, inst := range b.Code {
			switch inst.(type) {
			case PackDelta, PackSplitDelta:
				t.Errorf("RewriteDeltaPack mutated its input in place: %#v", inst)
			}
		}
	}
}

func TestBuildPackLoopZeroWidth(t *testing.T) {
	blocks := BuildPackLoop(0)
	if len(blocks) != 1 || len(blocks[0].Code) != 1 {
		t.Fatalf("BuildPackLoop(0) = %+v, want a single ReturnPtr", blocks)
	}
	if _, ok := blocks[0].Code[0].(ReturnPtr); !ok {
		t.Errorf("BuildPackLoop(0) last instruction = %T, want ReturnPtr", blocks[0].Code[0])
	}
}

func TestBuildUnpackLoopZeroWidth(t *testing.T) {
	blocks := BuildUnpackLoop(0)
	code := blocks[0].Code
	if len(code) != 2 {
		t.Fatalf("BuildUnpackLoop(0) code = %+v, want 2 instructions", code)
	}
	if _, ok := code[0].(DynamicMemset); !ok {
		t.Errorf("BuildUnpackLoop(0)[0] = %T, want DynamicMemset", code[0])
	}
}
