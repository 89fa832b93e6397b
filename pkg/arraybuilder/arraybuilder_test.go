// pkg/arraybuilder/arraybuilder_test.go
package arraybuilder

import "testing"

func TestAppendAndBuild(t *testing.T) {
	b := New[int](4, 2.0, 1024)
	var want []int
	for i := 0; i < 1000; i++ {
		b.Append(i)
		want = append(want, i)
	}
	if got := b.Len(); got != 1000 {
		t.Fatalf("Len() = %d, want 1000", got)
	}
	out := b.Build()
	if len(out) != len(want) {
		t.Fatalf("Build() len = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestMaxChunkCap(t *testing.T) {
	b := New[byte](4, 4.0, 16)
	for i := 0; i < 200; i++ {
		b.Append(byte(i))
	}
	for _, c := range b.chunks {
		if len(c) > 16 {
			t.Fatalf("chunk of len %d exceeds maxChunk 16", len(c))
		}
	}
}

func TestEmptyBuild(t *testing.T) {
	b := New[int](4, 2.0, 64)
	out := b.Build()
	if len(out) != 0 {
		t.Fatalf("Build() on empty builder = %v, want empty", out)
	}
}
