package layout

import "testing"

func TestComputeInWord(t *testing.T) {
	pos, split, straddles := Compute(3, 2)
	if straddles {
		t.Fatalf("Compute(3, 2) straddles = true, want false")
	}
	if pos.Word != 0 || pos.Shift != 6 {
		t.Errorf("Compute(3, 2) = %+v, want Word=0 Shift=6", pos)
	}
	_ = split
}

func TestComputeSplit(t *testing.T) {
	// bits=7, offset=9: shift = 63 % 64 = 63, lowerWord = 63/64 = 0,
	// upperWord = (63+6)/64 = 1 -> straddles.
	pos, split, straddles := Compute(7, 9)
	if !straddles {
		t.Fatalf("Compute(7, 9) straddles = false, want true")
	}
	if pos.Word != 0 || pos.Shift != 63 {
		t.Errorf("Compute(7, 9) pos = %+v, want Word=0 Shift=63", pos)
	}
	if split.UpperWord != 1 || split.UpperShift != 1 {
		t.Errorf("Compute(7, 9) split = %+v, want UpperWord=1 UpperShift=1", split)
	}
}

func TestNumberOfWordsAndBytes(t *testing.T) {
	tests := []struct {
		blockSize, bits uint32
		wantWords       uint32
		wantBytes       uint32
	}{
		{4, 3, 1, 2},
		{4, 64, 4, 32},
		{8, 0, 0, 0},
		{32, 5, 3, 20},
		{64, 7, 7, 56},
	}

	for _, tt := range tests {
		gotWords := NumberOfWords(tt.blockSize, tt.bits)
		gotBytes := NumberOfBytes(tt.blockSize, tt.bits)
		if gotWords != tt.wantWords || gotBytes != tt.wantBytes {
			t.Errorf("NumberOf{Words,Bytes}(%d, %d) = (%d, %d), want (%d, %d)",
				tt.blockSize, tt.bits, gotWords, gotBytes, tt.wantWords, tt.wantBytes)
		}
	}
}

func TestMask(t *testing.T) {
	if got := Mask(5); got != 0x1F {
		t.Errorf("Mask(5) = %#x, want 0x1f", got)
	}
	if got := Mask(64); got != ^uint64(0) {
		t.Errorf("Mask(64) = %#x, want all-ones", got)
	}
}

func TestPlural(t *testing.T) {
	if Plural(1) != "" {
		t.Errorf("Plural(1) = %q, want \"\"", Plural(1))
	}
	if Plural(2) != "s" {
		t.Errorf("Plural(2) = %q, want \"s\"", Plural(2))
	}
	if Plural(0) != "s" {
		t.Errorf("Plural(0) = %q, want \"s\"", Plural(0))
	}
}

func TestCeilDiv(t *testing.T) {
	tests := []struct{ a, b, want uint32 }{
		{100, 17, 6},
		{64, 64, 1},
		{0, 5, 0},
	}
	for _, tt := range tests {
		if got := CeilDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("CeilDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
