package colbuf

import (
	"errors"
	"math"
	"testing"

	"coltab/pkg/colerr"
)

func TestRealBufferInitializeMissing(t *testing.T) {
	b, err := NewRealBuffer(5, true)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < b.Size(); i++ {
		v, err := b.Get(i)
		if err != nil {
			t.Fatal(err)
		}
		if !math.IsNaN(v) {
			t.Fatalf("Get(%d) = %v, want NaN (missing)", i, v)
		}
	}
}

// S1: a real buffer of size 5, set {0->1.0, 2->3.5, 4->NaN}, others
// left missing: frozen column values are [1.0, NaN, 3.5, NaN, NaN].
func TestRealBufferScenarioS1(t *testing.T) {
	b, err := NewRealBuffer(5, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Set(0, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := b.Set(2, 3.5); err != nil {
		t.Fatal(err)
	}
	if err := b.Set(4, math.NaN()); err != nil {
		t.Fatal(err)
	}
	col := b.ToColumn()
	dst := make([]float64, 5)
	if err := col.Fill(dst, 0); err != nil {
		t.Fatal(err)
	}
	want := []float64{1.0, math.NaN(), 3.5, math.NaN(), math.NaN()}
	for i := range want {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(dst[i]) {
				t.Fatalf("dst[%d] = %v, want NaN", i, dst[i])
			}
			continue
		}
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestRealBufferFrozenRejectsSet(t *testing.T) {
	b, _ := NewRealBuffer(2, true)
	b.ToColumn()
	if err := b.Set(0, 1.0); !errors.Is(err, colerr.ErrBufferFrozen) {
		t.Fatalf("Set after freeze = %v, want ErrBufferFrozen", err)
	}
}

func TestRealBufferToColumnIdempotent(t *testing.T) {
	b, _ := NewRealBuffer(3, true)
	b.Set(0, 9.0)
	c1 := b.ToColumn()
	c2 := b.ToColumn()
	d1 := make([]float64, 3)
	d2 := make([]float64, 3)
	c1.Fill(d1, 0)
	c2.Fill(d2, 0)
	if d1[0] != d2[0] {
		t.Fatalf("double freeze produced different columns: %v vs %v", d1, d2)
	}
}

// Testable property 7 (rounding rule): for every finite x, Set(i,x) then Get(i) == round(x);
// NaN/+-Inf stored verbatim.
func TestInteger53BitRounding(t *testing.T) {
	b, err := NewInteger53BitBuffer(4, false)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		in, want float64
	}{
		{1.5, 2.0},
		{-1.5, -2.0},
		{2.4, 2.0},
	}
	for i, c := range cases {
		if err := b.Set(i, c.in); err != nil {
			t.Fatal(err)
		}
		got, _ := b.Get(i)
		if got != c.want {
			t.Fatalf("round(%v) = %v, want %v", c.in, got, c.want)
		}
	}
	if err := b.Set(3, math.Inf(1)); err != nil {
		t.Fatal(err)
	}
	got, _ := b.Get(3)
	if !math.IsInf(got, 1) {
		t.Fatalf("Set(+Inf) stored as %v, want +Inf verbatim", got)
	}
}

func TestNumericBufferOutOfBounds(t *testing.T) {
	b, _ := NewRealBuffer(2, true)
	if err := b.Set(5, 1.0); !errors.Is(err, colerr.ErrIndexOutOfBounds) {
		t.Fatalf("Set out of bounds = %v, want ErrIndexOutOfBounds", err)
	}
}
