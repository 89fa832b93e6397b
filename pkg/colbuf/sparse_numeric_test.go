package colbuf

import (
	"testing"
)

func TestSparseNumericBufferDefaultAndExceptions(t *testing.T) {
	b, err := NewSparseRealBuffer(6, -1.0)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetNext(1, 10.0); err != nil {
		t.Fatal(err)
	}
	if err := b.SetNext(4, 40.0); err != nil {
		t.Fatal(err)
	}
	col := b.ToColumn()
	dst := make([]float64, 6)
	if err := col.Fill(dst, 0); err != nil {
		t.Fatal(err)
	}
	want := []float64{-1.0, 10.0, -1.0, -1.0, 40.0, -1.0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestSparseNumericBufferRejectsOutOfOrder(t *testing.T) {
	b, _ := NewSparseRealBuffer(4, 0)
	if err := b.SetNext(2, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := b.SetNext(1, 2.0); err == nil {
		t.Fatal("expected error for index not exceeding previous index")
	}
}

func TestSparseInteger53BitBufferRounds(t *testing.T) {
	b, err := NewSparseInteger53BitBuffer(3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetNext(1, 2.6); err != nil {
		t.Fatal(err)
	}
	col := b.ToColumn()
	dst := make([]float64, 3)
	col.Fill(dst, 0)
	if dst[1] != 3.0 {
		t.Fatalf("dst[1] = %v, want 3.0 (rounded)", dst[1])
	}
}
