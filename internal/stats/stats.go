// Package stats aggregates decoded stack samples into per-thread call trees
// and keeps the session counters the dashboard displays.
package stats

import (
	"slices"
	"time"

	"github.com/proftop/proftop/internal/model"
)

// ParseFunc decodes one raw sampler line. The aggregate treats the decoder
// as an opaque collaborator so tests can substitute their own.
type ParseFunc func(line string) (model.Sample, error)

// childSet holds the children of a call-tree position in first-seen order.
// Lookup is by frame identity; iteration order never changes once a child
// exists.
type childSet struct {
	byFrame map[model.Frame]*Node
	order   []*Node
}

func (c *childSet) getOrCreate(f model.Frame) *Node {
	if n, ok := c.byFrame[f]; ok {
		return n
	}
	if c.byFrame == nil {
		c.byFrame = make(map[model.Frame]*Node)
	}
	n := &Node{Frame: f}
	c.byFrame[f] = n
	c.order = append(c.order, n)
	return n
}

func (c *childSet) get(f model.Frame) (*Node, bool) {
	n, ok := c.byFrame[f]
	return n, ok
}

func (c *childSet) clone() childSet {
	if len(c.order) == 0 {
		return childSet{}
	}
	out := childSet{
		byFrame: make(map[model.Frame]*Node, len(c.order)),
		order:   make([]*Node, 0, len(c.order)),
	}
	for _, n := range c.order {
		cp := n.clone()
		out.byFrame[cp.Frame] = cp
		out.order = append(out.order, cp)
	}
	return out
}

// Node is one call-tree position. Total carries the metric of every sample
// whose stack passed through the node, Own only of samples that ended here,
// so Total == Own + sum of child Totals at all times.
type Node struct {
	Frame model.Frame
	Own   int64
	Total int64

	kids childSet
}

// Children returns the node's children in first-seen order. The slice is
// owned by the node and must not be mutated.
func (n *Node) Children() []*Node { return n.kids.order }

// Child looks up a direct child by frame.
func (n *Node) Child(f model.Frame) (*Node, bool) { return n.kids.get(f) }

func (n *Node) clone() *Node {
	return &Node{Frame: n.Frame, Own: n.Own, Total: n.Total, kids: n.kids.clone()}
}

// Thread is the per-thread aggregation root. Total folds every accepted
// sample for the thread; Own only frameless (idle) ones, so
// Total == Own + sum of root Totals.
type Thread struct {
	Key   string
	Own   int64
	Total int64

	kids      childSet
	lastStack []model.Frame
}

// Roots returns the thread's top-level call-tree nodes in first-seen order.
func (t *Thread) Roots() []*Node { return t.kids.order }

// Root looks up a top-level node by frame.
func (t *Thread) Root(f model.Frame) (*Node, bool) { return t.kids.get(f) }

// LastStack returns the most recently sampled stack, outermost first. It is
// what the collapsed table view follows.
func (t *Thread) LastStack() []model.Frame { return t.lastStack }

func (t *Thread) update(s model.Sample) {
	t.Total += s.Metric
	t.lastStack = slices.Clone(s.Frames)
	if len(s.Frames) == 0 {
		t.Own += s.Metric
		return
	}
	container := &t.kids
	for i, f := range s.Frames {
		n := container.getOrCreate(f)
		n.Total += s.Metric
		if i == len(s.Frames)-1 {
			n.Own += s.Metric
		}
		container = &n.kids
	}
}

func (t *Thread) clone() *Thread {
	return &Thread{
		Key:       t.Key,
		Own:       t.Own,
		Total:     t.Total,
		kids:      t.kids.clone(),
		lastStack: slices.Clone(t.lastStack),
	}
}

// ThreadSet is an ordered deduplicating thread registry. Threads are never
// removed during a session, so indices stay stable: the registry is what
// thread navigation walks.
type ThreadSet struct {
	index map[string]int
	keys  []string
}

// Add registers a key and reports whether it was new. Re-adding is a no-op
// that keeps the original position.
func (s *ThreadSet) Add(key string) bool {
	if _, ok := s.index[key]; ok {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[key] = len(s.keys)
	s.keys = append(s.keys, key)
	return true
}

// Len returns the number of registered threads.
func (s *ThreadSet) Len() int { return len(s.keys) }

// At returns the key at a stable insertion-order index.
func (s *ThreadSet) At(i int) string { return s.keys[i] }

// Index returns the stable position of a key.
func (s *ThreadSet) Index(key string) (int, bool) {
	i, ok := s.index[key]
	return i, ok
}

// Keys returns the registered keys in insertion order. The slice is owned
// by the set and must not be mutated.
func (s *ThreadSet) Keys() []string { return s.keys }

func (s *ThreadSet) clone() ThreadSet {
	if len(s.keys) == 0 {
		return ThreadSet{}
	}
	out := ThreadSet{
		index: make(map[string]int, len(s.keys)),
		keys:  slices.Clone(s.keys),
	}
	for k, i := range s.index {
		out.index[k] = i
	}
	return out
}

// Aggregate is the in-memory sample model for one profiling session. It is
// confined to the event loop goroutine and therefore unlocked.
type Aggregate struct {
	Kind model.MetricKind

	parse      ParseFunc
	threads    map[string]*Thread
	registry   ThreadSet
	samples    int
	invalid    int
	lastUpdate time.Time

	now func() time.Time
}

// New returns an empty aggregate for the given metric kind and line decoder.
func New(kind model.MetricKind, parse ParseFunc) *Aggregate {
	return &Aggregate{
		Kind:    kind,
		parse:   parse,
		threads: make(map[string]*Thread),
		now:     time.Now,
	}
}

// Update folds one raw sampler line into the aggregate.
//
// The displayed sample counter advances for every observed line, decodable
// or not. Lines that fail to decode additionally bump the invalid counter
// and leave everything else untouched. A sample with a negative metric
// (the sampler emitting a correction) counts as observed but is otherwise
// dropped whole: no thread registration, no tree change, no timestamp
// advance. The error, when non-nil, wraps the decoder's.
func (a *Aggregate) Update(line string) error {
	a.samples++
	s, err := a.parse(line)
	if err != nil {
		a.invalid++
		return err
	}
	if s.Metric < 0 {
		return nil
	}

	key := model.ThreadKey(s.PID, s.TID)
	a.registry.Add(key)
	th, ok := a.threads[key]
	if !ok {
		th = &Thread{Key: key}
		a.threads[key] = th
	}
	th.update(s)
	a.lastUpdate = a.now()
	return nil
}

// Thread looks up a thread by its registry key.
func (a *Aggregate) Thread(key string) (*Thread, bool) {
	t, ok := a.threads[key]
	return t, ok
}

// Threads exposes the ordered thread registry.
func (a *Aggregate) Threads() *ThreadSet { return &a.registry }

// SampleCount returns the number of lines observed, valid or not.
func (a *Aggregate) SampleCount() int { return a.samples }

// InvalidCount returns the number of lines that failed to decode.
func (a *Aggregate) InvalidCount() int { return a.invalid }

// ErrorRate returns the fraction of observed lines that failed to decode.
func (a *Aggregate) ErrorRate() float64 {
	if a.samples == 0 {
		return 0
	}
	return float64(a.invalid) / float64(a.samples)
}

// LastUpdate returns the arrival time of the last decoded sample. The
// refresh pass uses it to skip table rebuilds when nothing new arrived.
func (a *Aggregate) LastUpdate() time.Time { return a.lastUpdate }

// Clone returns a deep copy sharing no mutable state with the receiver.
// Freezing the display takes one and keeps reading it while the live
// aggregate continues to ingest.
func (a *Aggregate) Clone() *Aggregate {
	c := &Aggregate{
		Kind:       a.Kind,
		parse:      a.parse,
		threads:    make(map[string]*Thread, len(a.threads)),
		registry:   a.registry.clone(),
		samples:    a.samples,
		invalid:    a.invalid,
		lastUpdate: a.lastUpdate,
		now:        a.now,
	}
	for k, t := range a.threads {
		c.threads[k] = t.clone()
	}
	return c
}
