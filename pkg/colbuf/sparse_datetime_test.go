package colbuf

import (
	"errors"
	"testing"

	"coltab/pkg/colerr"
)

// S4: a sparse time buffer with default=0, size 4, call
// SetNext(1, 86_400_000_000_000): must raise InvalidArgument
// (nanos-of-day out of range).
func TestSparseTimeBufferScenarioS4(t *testing.T) {
	b, err := NewSparseTimeBuffer(4, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetNext(1, 86_400_000_000_000); !errors.Is(err, colerr.ErrInvalidArgument) {
		t.Fatalf("SetNext with out-of-range nanos-of-day = %v, want ErrInvalidArgument", err)
	}
}

func TestSparseDateTimeBufferDefaultAndExceptions(t *testing.T) {
	b, err := NewSparseDateTimeBuffer(4, 1000, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetNext(2, 2000, 500); err != nil {
		t.Fatal(err)
	}
	col := b.ToColumn()
	seconds := make([]int64, 4)
	nanos := make([]int32, 4)
	if err := col.FillSecondsIntoArray(seconds, 0); err != nil {
		t.Fatal(err)
	}
	if err := col.FillNanosIntoArray(nanos, 0); err != nil {
		t.Fatal(err)
	}
	if seconds[0] != 1000 || nanos[0] != 0 {
		t.Fatalf("default position = (%d,%d), want (1000,0)", seconds[0], nanos[0])
	}
	if seconds[2] != 2000 || nanos[2] != 500 {
		t.Fatalf("exception position = (%d,%d), want (2000,500)", seconds[2], nanos[2])
	}
}
