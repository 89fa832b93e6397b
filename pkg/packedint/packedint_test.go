// pkg/packedint/packedint_test.go
package packedint

import (
	"testing"
	"testing/quick"
)

func TestU2RoundTrip(t *testing.T) {
	b := make([]byte, ByteLen(10, 2))
	want := []byte{0, 1, 2, 3, 3, 2, 1, 0, 1, 2}
	for i, v := range want {
		WriteU2(b, i, v)
	}
	for i, v := range want {
		if got := ReadU2(b, i); got != v {
			t.Errorf("ReadU2(%d) = %d, want %d", i, got, v)
		}
	}
}

func TestU4RoundTrip(t *testing.T) {
	b := make([]byte, ByteLen(6, 4))
	want := []byte{0, 5, 15, 9, 1, 14}
	for i, v := range want {
		WriteU4(b, i, v)
	}
	for i, v := range want {
		if got := ReadU4(b, i); got != v {
			t.Errorf("ReadU4(%d) = %d, want %d", i, got, v)
		}
	}
}

func TestU2AlignedBlocksIndependentBytes(t *testing.T) {
	// Distinct aligned blocks (multiples of 4) never share a byte.
	b := make([]byte, ByteLen(16, 2))
	for i := 0; i < 16; i += 4 {
		WriteU2(b, i, 1)
		WriteU2(b, i+1, 2)
		WriteU2(b, i+2, 3)
		WriteU2(b, i+3, 0)
	}
	for i := 0; i < 16; i += 4 {
		if ReadU2(b, i) != 1 || ReadU2(b, i+1) != 2 || ReadU2(b, i+2) != 3 || ReadU2(b, i+3) != 0 {
			t.Fatalf("block at %d corrupted", i)
		}
	}
}

func TestRoundTripQuick(t *testing.T) {
	f := func(vals []byte) bool {
		n := len(vals)
		if n == 0 {
			return true
		}
		b4 := make([]byte, ByteLen(n, 4))
		for i, v := range vals {
			WriteU4(b4, i, v&0xF)
		}
		for i, v := range vals {
			if ReadU4(b4, i) != v&0xF {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestAlignedBlockStart(t *testing.T) {
	cases := []struct{ idx, align, want int }{
		{0, 4, 0}, {1, 4, 4}, {3, 4, 4}, {4, 4, 4}, {5, 4, 8}, {0, 2, 0}, {1, 2, 2},
	}
	for _, c := range cases {
		if got := AlignedBlockStart(c.idx, c.align); got != c.want {
			t.Errorf("AlignedBlockStart(%d,%d) = %d, want %d", c.idx, c.align, got, c.want)
		}
	}
}
