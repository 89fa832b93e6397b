package colbuf

import (
	"testing"

	"coltab/pkg/coltype"
)

func TestObjectBufferSetGetAndFreeze(t *testing.T) {
	b, err := NewObjectBuffer(coltype.Text, 3)
	if err != nil {
		t.Fatal(err)
	}
	b.Set(0, "hello")
	b.Set(1, nil)
	b.Set(2, "world")
	col := b.ToColumn()
	dst := make([]any, 3)
	if err := col.FillObject(dst, 0); err != nil {
		t.Fatal(err)
	}
	if dst[0] != "hello" || dst[1] != nil || dst[2] != "world" {
		t.Fatalf("FillObject = %v, want [hello, nil, world]", dst)
	}
}
