package colexec

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"coltab/pkg/colerr"
)

type fakeContext struct {
	parallelism int
	active      atomic.Bool
}

func newFakeContext(p int) *fakeContext {
	c := &fakeContext{parallelism: p}
	c.active.Store(true)
	return c
}

func (c *fakeContext) IsActive() bool    { return c.active.Load() }
func (c *fakeContext) Parallelism() int  { return c.parallelism }
func (c *fakeContext) Call(tasks []func() error) error {
	var wg sync.WaitGroup
	errs := make([]error, len(tasks))
	wg.Add(len(tasks))
	for i, fn := range tasks {
		go func(i int, fn func() error) {
			defer wg.Done()
			errs[i] = fn()
		}(i, fn)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// coverageRecorder accumulates [from,to) ranges reported by doPart calls
// under a mutex, for checking the disjoint-cover property afterward.
type coverageRecorder struct {
	mu     sync.Mutex
	ranges [][2]int
	seen   map[int]bool
}

func newCoverageRecorder() *coverageRecorder {
	return &coverageRecorder{seen: make(map[int]bool)}
}

func (r *coverageRecorder) record(from, to, batchIndex int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ranges = append(r.ranges, [2]int{from, to})
	r.seen[batchIndex] = true
}

// assertExactCover checks property 8: the union of all [from,to) ranges
// equals [0,n) exactly once (disjoint cover).
func (r *coverageRecorder) assertExactCover(t *testing.T, n int) {
	t.Helper()
	sort.Slice(r.ranges, func(i, j int) bool { return r.ranges[i][0] < r.ranges[j][0] })
	want := 0
	for _, rg := range r.ranges {
		if rg[0] != want {
			t.Fatalf("gap or overlap at %d: range %v, expected start %d", rg[0], rg, want)
		}
		want = rg[1]
	}
	if want != n {
		t.Fatalf("coverage ended at %d, want %d", want, n)
	}
}

func TestRunEmptyOperations(t *testing.T) {
	var initCalls, partCalls int32
	init := func(numBatches int) {
		atomic.AddInt32(&initCalls, 1)
		if numBatches != 1 {
			t.Fatalf("init(%d), want init(1) for n==0", numBatches)
		}
	}
	doPart := func(from, to, batchIndex int) error {
		atomic.AddInt32(&partCalls, 1)
		if from != 0 || to != 0 || batchIndex != 0 {
			t.Fatalf("doPart(%d,%d,%d), want doPart(0,0,0)", from, to, batchIndex)
		}
		return nil
	}
	var progressCalls []float64
	progress := func(v float64) { progressCalls = append(progressCalls, v) }

	err := Run(Params{NumberOfOperations: 0, Threshold: 10, BatchSize: 10, ThresholdFactorEqualParts: 4},
		init, doPart, progress, newFakeContext(4))
	if err != nil {
		t.Fatal(err)
	}
	if initCalls != 1 || partCalls != 1 {
		t.Fatalf("initCalls=%d partCalls=%d, want 1,1", initCalls, partCalls)
	}
	if len(progressCalls) == 0 || progressCalls[len(progressCalls)-1] != 1.0 {
		t.Fatalf("progress = %v, want final 1.0", progressCalls)
	}
}

func TestRunSequentialModeCompleteCover(t *testing.T) {
	n := 5
	rec := newCoverageRecorder()
	init := func(numBatches int) {
		if numBatches != 1 {
			t.Fatalf("init(%d), want 1 for sequential mode", numBatches)
		}
	}
	doPart := func(from, to, batchIndex int) error {
		rec.record(from, to, batchIndex)
		return nil
	}
	err := Run(Params{NumberOfOperations: n, Threshold: 1000, BatchSize: 1000, ThresholdFactorEqualParts: 4},
		init, doPart, nil, newFakeContext(4))
	if err != nil {
		t.Fatal(err)
	}
	rec.assertExactCover(t, n)
}

func TestRunEqualPartsModeCompleteCoverAndAlignment(t *testing.T) {
	n := 100
	rec := newCoverageRecorder()
	var initBatches int
	init := func(numBatches int) { initBatches = numBatches }
	doPart := func(from, to, batchIndex int) error {
		if from%4 != 0 && from != 0 {
			t.Fatalf("from=%d is not a multiple of 4", from)
		}
		rec.record(from, to, batchIndex)
		return nil
	}
	err := Run(Params{NumberOfOperations: n, Threshold: 1, BatchSize: 1000, ThresholdFactorEqualParts: 4},
		init, doPart, nil, newFakeContext(4))
	if err != nil {
		t.Fatal(err)
	}
	rec.assertExactCover(t, n)
	if initBatches != len(rec.seen) {
		t.Fatalf("init(%d) != observed distinct batchIndex count %d", initBatches, len(rec.seen))
	}
}

// S7: n = batchSize*parallelism*(thresholdFactorEqualParts+1)+11 exceeds
// b*f*p, the equal-parts cutoff, so Run must route through runBatched;
// the sorted batchIndex set is contiguous from 0, and every from is a
// multiple of 4.
func TestRunBatchedModeScenarioS7(t *testing.T) {
	const batchSize = 32
	const parallelism = 4
	const thresholdFactorEqualParts = 4
	n := batchSize*parallelism*(thresholdFactorEqualParts+1) + 11
	rec := newCoverageRecorder()
	var initBatches int
	init := func(numBatches int) { initBatches = numBatches }
	doPart := func(from, to, batchIndex int) error {
		if from%4 != 0 {
			t.Fatalf("from=%d is not a multiple of 4", from)
		}
		rec.record(from, to, batchIndex)
		return nil
	}
	err := Run(Params{NumberOfOperations: n, Threshold: 1, BatchSize: batchSize, ThresholdFactorEqualParts: thresholdFactorEqualParts},
		init, doPart, nil, newFakeContext(parallelism))
	if err != nil {
		t.Fatal(err)
	}
	// Equal-parts mode never dispatches more than Parallelism() batches;
	// seeing more than that here is the signal this run actually took
	// the runBatched path rather than silently falling back to it.
	if initBatches <= parallelism {
		t.Fatalf("initBatches=%d, want > parallelism=%d — this run should have landed in runBatched", initBatches, parallelism)
	}
	rec.assertExactCover(t, n)
	for i := 0; i < initBatches; i++ {
		if !rec.seen[i] {
			t.Fatalf("batchIndex %d never observed; set is not contiguous 0..%d", i, initBatches-1)
		}
	}
}

// S8: doPart fails on the second partition; Run re-raises UserCodeFailure.
func TestRunUserCodeFailurePropagates(t *testing.T) {
	n := 40
	var calls int32
	boom := errors.New("boom")
	doPart := func(from, to, batchIndex int) error {
		if atomic.AddInt32(&calls, 1) == 2 {
			return boom
		}
		return nil
	}
	err := Run(Params{NumberOfOperations: n, Threshold: 1, BatchSize: 5, ThresholdFactorEqualParts: 4},
		func(int) {}, doPart, nil, newFakeContext(4))
	if err == nil {
		t.Fatal("expected UserCodeFailure")
	}
	if !errors.Is(err, colerr.ErrUserCodeFailure) {
		t.Fatalf("err = %v, want wrapping ErrUserCodeFailure", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapping original cause", err)
	}
}

// Abort behavior: if context.IsActive() is already false on entry,
// Run raises Aborted and never invokes the progress callback.
func TestRunAbortsWhenContextInactiveAtEntry(t *testing.T) {
	ctx := newFakeContext(4)
	ctx.active.Store(false)
	progressCalled := false
	err := Run(Params{NumberOfOperations: 10, Threshold: 1, BatchSize: 1, ThresholdFactorEqualParts: 4},
		func(int) {}, func(int, int, int) error { return nil },
		func(float64) { progressCalled = true }, ctx)
	if !errors.Is(err, colerr.ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	if progressCalled {
		t.Fatal("progress callback must not be invoked on entry-abort")
	}
}

func TestBatchCountDecreasesAsBatchSizeGrows(t *testing.T) {
	// Property 10, adapted: a larger batch size (coarser workload) yields
	// fewer batches for the same n, all else equal.
	countBatches := func(batchSize int) int {
		var numBatches int
		init := func(n int) { numBatches = n }
		doPart := func(int, int, int) error { return nil }
		n := 10000
		if err := Run(Params{NumberOfOperations: n, Threshold: 1, BatchSize: batchSize, ThresholdFactorEqualParts: 4},
			init, doPart, nil, newFakeContext(4)); err != nil {
			t.Fatal(err)
		}
		return numBatches
	}
	small := countBatches(64)
	large := countBatches(4096)
	if !(large < small) {
		t.Fatalf("batchCount(large batchSize)=%d should be < batchCount(small batchSize)=%d", large, small)
	}
}
