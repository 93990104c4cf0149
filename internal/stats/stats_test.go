package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/proftop/proftop/internal/model"
	"github.com/proftop/proftop/internal/sampler"
	"github.com/proftop/proftop/internal/testutil"
)

func newTestAggregate() *Aggregate {
	agg := New(model.TimeMetric, sampler.Parse)
	base := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	tick := 0
	agg.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return agg
}

func mustUpdate(t *testing.T, agg *Aggregate, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if err := agg.Update(line); err != nil {
			t.Fatalf("Update(%q) returned error: %v", line, err)
		}
	}
}

// checkTreeInvariant asserts total == own + sum(child totals) on every node.
func checkTreeInvariant(t *testing.T, n *Node) {
	t.Helper()
	var sum int64
	for _, c := range n.Children() {
		sum += c.Total
		checkTreeInvariant(t, c)
	}
	if n.Total != n.Own+sum {
		t.Errorf("node %v: total = %d, want own %d + children %d", n.Frame, n.Total, n.Own, sum)
	}
}

func TestUpdateAccumulatesIdenticalStacks(t *testing.T) {
	t.Parallel()

	agg := newTestAggregate()
	mustUpdate(t, agg,
		"P1;T1;file.py:f:10 100",
		"P1;T1;file.py:f:10 200",
		"P1;T1;file.py:f:10 50",
	)

	if got := agg.SampleCount(); got != 3 {
		t.Fatalf("SampleCount() = %d, want 3", got)
	}
	th, ok := agg.Thread("1:1")
	if !ok {
		t.Fatal("thread 1:1 not registered")
	}
	roots := th.Roots()
	if len(roots) != 1 {
		t.Fatalf("len(roots) = %d, want a single merged node", len(roots))
	}
	if f := roots[0]; f.Own != 350 || f.Total != 350 {
		t.Errorf("node own/total = %d/%d, want 350/350", f.Own, f.Total)
	}
}

func TestUpdateMergesSiblingsUnderSharedPrefix(t *testing.T) {
	t.Parallel()

	agg := newTestAggregate()
	mustUpdate(t, agg,
		"P1;T1;a.py:A:1;a.py:B:2;a.py:C:3 10",
		"P1;T1;a.py:A:1;a.py:B:2;a.py:D:4 10",
		"P1;T1;a.py:A:1;a.py:B:2;a.py:C:3 10",
	)

	th, ok := agg.Thread("1:1")
	if !ok {
		t.Fatal("thread 1:1 not registered")
	}
	if th.Total != 30 {
		t.Fatalf("thread total = %d, want 30", th.Total)
	}

	roots := th.Roots()
	if len(roots) != 1 {
		t.Fatalf("len(roots) = %d, want 1", len(roots))
	}
	a := roots[0]
	if a.Frame.Function != "A" || a.Own != 0 || a.Total != 30 {
		t.Fatalf("root = %+v, want A with own 0 total 30", a)
	}
	if len(a.Children()) != 1 {
		t.Fatalf("A has %d children, want 1", len(a.Children()))
	}
	b := a.Children()[0]
	if b.Frame.Function != "B" || b.Own != 0 || b.Total != 30 {
		t.Fatalf("child = %+v, want B with own 0 total 30", b)
	}
	if len(b.Children()) != 2 {
		t.Fatalf("B has %d children, want 2 (C and D)", len(b.Children()))
	}
	c, d := b.Children()[0], b.Children()[1]
	if c.Frame.Function != "C" || c.Own != 20 || c.Total != 20 {
		t.Errorf("first child of B = %+v, want C own 20 total 20", c)
	}
	if d.Frame.Function != "D" || d.Own != 10 || d.Total != 10 {
		t.Errorf("second child of B = %+v, want D own 10 total 10", d)
	}

	checkTreeInvariant(t, a)
}

func TestUpdateDistinguishesFramesByLine(t *testing.T) {
	t.Parallel()

	// Same function sampled at two line numbers merges only per exact frame.
	agg := newTestAggregate()
	mustUpdate(t, agg,
		"P1;T1;a.py:f:1 5",
		"P1;T1;a.py:f:2 7",
		"P1;T1;a.py:f:1 3",
	)

	th, _ := agg.Thread("1:1")
	roots := th.Roots()
	if len(roots) != 2 {
		t.Fatalf("len(roots) = %d, want 2", len(roots))
	}
	if roots[0].Frame.Line != 1 || roots[0].Total != 8 {
		t.Errorf("roots[0] = %+v, want line 1 total 8", roots[0])
	}
	if roots[1].Frame.Line != 2 || roots[1].Total != 7 {
		t.Errorf("roots[1] = %+v, want line 2 total 7", roots[1])
	}
}

func TestUpdateTreeInvariantAcrossThreads(t *testing.T) {
	t.Parallel()

	agg := newTestAggregate()
	mustUpdate(t, agg,
		"P1;T1;m.py:main:10;m.py:work:20 100",
		"P1;T1;m.py:main:10;m.py:work:20;m.py:inner:30 50",
		"P1;T2;m.py:main:10 25",
		"P1;T1;m.py:main:10 5",
		"P2;T0xabc;n.py:loop:1 40",
		"P1;T2 15", // idle
	)

	for _, key := range agg.Threads().Keys() {
		th, _ := agg.Thread(key)
		var sum int64
		for _, root := range th.Roots() {
			sum += root.Total
			checkTreeInvariant(t, root)
		}
		if th.Total != th.Own+sum {
			t.Errorf("thread %s: total = %d, want own %d + roots %d", key, th.Total, th.Own, sum)
		}
	}
}

func TestUpdateIdleSampleFoldsIntoThreadOwn(t *testing.T) {
	t.Parallel()

	agg := newTestAggregate()
	mustUpdate(t, agg, "P1;T1 100", "P1;T1;a.py:f:1 60")

	th, _ := agg.Thread("1:1")
	if th.Own != 100 || th.Total != 160 {
		t.Fatalf("thread own/total = %d/%d, want 100/160", th.Own, th.Total)
	}
}

func TestUpdateNegativeMetricCountsButDoesNotAggregate(t *testing.T) {
	t.Parallel()

	agg := newTestAggregate()
	mustUpdate(t, agg, "P1;T1;a.py:f:1 10")
	before := agg.Rows()
	stamp := agg.LastUpdate()

	mustUpdate(t, agg, "P1;T1;a.py:f:1;a.py:g:2 -40")

	if diff := testutil.Diff(before, agg.Rows()); diff != "" {
		t.Errorf("tree changed on negative metric (-want +got):\n%s", diff)
	}
	if got := agg.SampleCount(); got != 2 {
		t.Errorf("SampleCount() = %d, want 2", got)
	}
	if got := agg.InvalidCount(); got != 0 {
		t.Errorf("InvalidCount() = %d, want 0", got)
	}
	if !agg.LastUpdate().Equal(stamp) {
		t.Errorf("LastUpdate() moved on negative-metric sample")
	}
}

func TestUpdateNegativeMetricDoesNotRegisterThread(t *testing.T) {
	t.Parallel()

	agg := newTestAggregate()
	mustUpdate(t, agg, "P1;T9;a.py:f:1 -1")

	if _, ok := agg.Threads().Index("1:9"); ok {
		t.Fatal("thread 1:9 registered by a negative-metric sample")
	}
	if got := agg.Threads().Len(); got != 0 {
		t.Fatalf("Threads().Len() = %d, want 0", got)
	}
}

func TestUpdateInvalidLineCountsWithoutTimestamp(t *testing.T) {
	t.Parallel()

	agg := newTestAggregate()
	mustUpdate(t, agg, "P1;T1;a.py:f:1 10")
	stamp := agg.LastUpdate()

	err := agg.Update("not a sample at all")
	if !errors.Is(err, sampler.ErrInvalidSample) {
		t.Fatalf("Update error = %v, want ErrInvalidSample", err)
	}
	if got := agg.SampleCount(); got != 2 {
		t.Errorf("SampleCount() = %d, want 2", got)
	}
	if got := agg.InvalidCount(); got != 1 {
		t.Errorf("InvalidCount() = %d, want 1", got)
	}
	if !agg.LastUpdate().Equal(stamp) {
		t.Errorf("LastUpdate() advanced on invalid line")
	}
	if got := agg.ErrorRate(); got != 0.5 {
		t.Errorf("ErrorRate() = %v, want 0.5", got)
	}
}

func TestThreadSetKeepsInsertionOrderAndDedupes(t *testing.T) {
	t.Parallel()

	var set ThreadSet
	for _, key := range []string{"1:1", "1:2", "1:1", "2:1", "1:2", "1:1"} {
		set.Add(key)
	}

	want := []string{"1:1", "1:2", "2:1"}
	if diff := testutil.Diff(want, set.Keys()); diff != "" {
		t.Fatalf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if set.Len() != 3 {
		t.Errorf("Len() = %d, want 3", set.Len())
	}
	for i, key := range want {
		if got := set.At(i); got != key {
			t.Errorf("At(%d) = %q, want %q", i, got, key)
		}
		if idx, ok := set.Index(key); !ok || idx != i {
			t.Errorf("Index(%q) = %d,%v, want %d,true", key, idx, ok, i)
		}
	}
}

func TestThreadSetRegistryOrderViaUpdate(t *testing.T) {
	t.Parallel()

	agg := newTestAggregate()
	mustUpdate(t, agg,
		"P1;T0xa;a.py:f:1 1",
		"P1;T0xb;a.py:f:1 1",
		"P1;T0xa;a.py:f:1 1",
		"P2;T0xa;a.py:f:1 1",
	)

	want := []string{"1:0xa", "1:0xb", "2:0xa"}
	if diff := testutil.Diff(want, agg.Threads().Keys()); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneIsIndependentOfLiveUpdates(t *testing.T) {
	t.Parallel()

	agg := newTestAggregate()
	mustUpdate(t, agg,
		"P1;T1;a.py:f:1;a.py:g:2 10",
		"P1;T2;a.py:f:1 7",
	)

	snap := agg.Clone()
	frozenRows := snap.Rows()
	frozenStamp := snap.LastUpdate()

	mustUpdate(t, agg,
		"P1;T1;a.py:f:1;a.py:g:2 90",
		"P1;T3;b.py:h:9 33",
	)

	if diff := testutil.Diff(frozenRows, snap.Rows()); diff != "" {
		t.Errorf("clone changed after live updates (-want +got):\n%s", diff)
	}
	if snap.SampleCount() != 2 {
		t.Errorf("clone SampleCount() = %d, want 2", snap.SampleCount())
	}
	if !snap.LastUpdate().Equal(frozenStamp) {
		t.Errorf("clone LastUpdate() changed after live updates")
	}
	if snap.Threads().Len() != 2 {
		t.Errorf("clone registry len = %d, want 2", snap.Threads().Len())
	}

	// The live side kept aggregating.
	th, _ := agg.Thread("1:1")
	if th.Total != 100 {
		t.Errorf("live thread total = %d, want 100", th.Total)
	}
	if agg.Threads().Len() != 3 {
		t.Errorf("live registry len = %d, want 3", agg.Threads().Len())
	}
}

func TestCloneSharesNoNodes(t *testing.T) {
	t.Parallel()

	agg := newTestAggregate()
	mustUpdate(t, agg, "P1;T1;a.py:f:1 10")

	snap := agg.Clone()
	liveTh, _ := agg.Thread("1:1")
	snapTh, _ := snap.Thread("1:1")
	if liveTh == snapTh {
		t.Fatal("clone returned the live thread pointer")
	}
	if liveTh.Roots()[0] == snapTh.Roots()[0] {
		t.Fatal("clone returned a live node pointer")
	}
}
