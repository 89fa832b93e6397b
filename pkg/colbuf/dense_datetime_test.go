package colbuf

import (
	"errors"
	"testing"

	"coltab/pkg/colerr"
)

// S5: a datetime-nano buffer, Set(0, seconds=0, nanos=1_000_000_000)
// must raise InvalidArgument (nanos out of [0,999_999_999]).
func TestDateTimeNanoBufferScenarioS5(t *testing.T) {
	b, err := NewDateTimeNanoBuffer(1, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Set(0, 0, 1_000_000_000); !errors.Is(err, colerr.ErrInvalidArgument) {
		t.Fatalf("Set with nanos=1e9 = %v, want ErrInvalidArgument", err)
	}
}

func TestDateTimeNanoBufferMissing(t *testing.T) {
	b, err := NewDateTimeNanoBuffer(2, true)
	if err != nil {
		t.Fatal(err)
	}
	_, _, missing, err := b.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if !missing {
		t.Fatal("initialize=true should start every position missing")
	}
	if err := b.Set(1, 100, 5); err != nil {
		t.Fatal(err)
	}
	seconds, nanos, missing, err := b.Get(1)
	if err != nil || missing || seconds != 100 || nanos != 5 {
		t.Fatalf("Get(1) = (%d,%d,%v,%v), want (100,5,false,nil)", seconds, nanos, missing, err)
	}
}

func TestTimeBufferValidatesNanosOfDay(t *testing.T) {
	b, err := NewTimeBuffer(2, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Set(0, MaxNanosOfDay); err != nil {
		t.Fatalf("Set at upper bound should succeed: %v", err)
	}
	if err := b.Set(1, MaxNanosOfDay+1); !errors.Is(err, colerr.ErrInvalidArgument) {
		t.Fatalf("Set beyond MaxNanosOfDay = %v, want ErrInvalidArgument", err)
	}
}
