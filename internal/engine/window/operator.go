package window

import (
	"TopSpectra/internal/core/container"
	"TopSpectra/internal/core/multiset"
	"TopSpectra/internal/core/topk"
	"fmt"
)

// Config describes a hopping window in logical time units. Window is the
// width covered by each emitted result, Hop the distance between consecutive
// window ends. Hop == Window degenerates to a tumbling window.
type Config struct {
	Hop    int64
	Window int64
	K      int
}

// Entry is one ranked value with its multiplicity inside a window.
type Entry[T any] struct {
	Value T
	Count int
}

// Ranking is the top-K projection of one closed window. Entries are in
// descending rank order, at most K of them. Boundary is the window's
// exclusive end time; the window covers [Boundary-Window, Boundary).
type Ranking[T any] struct {
	Boundary int64
	Entries  []Entry[T]
}

type hopDelta[T any] struct {
	genTs int64
	state *topk.HoppingState[T]
}

// Operator incrementally maintains windowed top-K rankings for one group.
// Events must arrive in non-decreasing hop order; an event behind the open
// hop is rejected. Results are emitted when a later event (or Flush) shows a
// hop boundary has passed; windows with no content emit nothing.
//
// Hopping configurations keep a running HoppingState aggregate plus one
// delta state per hop. Every event enters both under the hop-start
// generation timestamp; when a hop slides out of the window its delta is
// retracted from the aggregate in one RemoveAll. Tumbling configurations
// need no retraction bookkeeping and use a SimpleState per window instead.
type Operator[T any] struct {
	cfg     Config
	factory container.Factory[T]

	agg     *topk.HoppingState[T]
	deltas  []*hopDelta[T]
	lastGen int64

	// tumbling fast path
	tumbling bool
	bucket   *topk.SimpleState[T]

	nextBoundary int64
	started      bool
}

// NewOperator creates an operator for one group.
func NewOperator[T any](cfg Config, factory container.Factory[T]) (*Operator[T], error) {
	if cfg.Hop <= 0 {
		return nil, fmt.Errorf("window: hop must be positive, got %d", cfg.Hop)
	}
	if cfg.Window < cfg.Hop {
		return nil, fmt.Errorf("window: window %d smaller than hop %d", cfg.Window, cfg.Hop)
	}
	if cfg.K <= 0 {
		return nil, fmt.Errorf("window: k must be positive, got %d", cfg.K)
	}
	op := &Operator[T]{
		cfg:      cfg,
		factory:  factory,
		tumbling: cfg.Window == cfg.Hop,
	}
	if op.tumbling {
		op.bucket = topk.NewSimpleState(factory)
	} else {
		op.agg = topk.NewHoppingState(cfg.K, factory)
	}
	return op, nil
}

// Process feeds one event and returns the rankings of any windows it closed.
func (o *Operator[T]) Process(value T, ts int64) ([]Ranking[T], error) {
	gen := floorDiv(ts, o.cfg.Hop) * o.cfg.Hop

	if !o.started {
		o.started = true
		o.lastGen = gen
		o.nextBoundary = gen + o.cfg.Hop
	}

	if o.tumbling {
		return o.processTumbling(value, ts, gen)
	}

	out, err := o.closeThrough(gen)
	if err != nil {
		return out, err
	}

	if len(o.deltas) == 0 || o.deltas[len(o.deltas)-1].genTs < gen {
		o.deltas = append(o.deltas, &hopDelta[T]{
			genTs: gen,
			state: topk.NewHoppingState(o.cfg.K, o.factory),
		})
	}
	delta := o.deltas[len(o.deltas)-1]

	if err := o.agg.Add(value, gen); err != nil {
		return out, err
	}
	if err := delta.state.Add(value, gen); err != nil {
		return out, err
	}
	o.lastGen = gen
	return out, nil
}

// Flush closes every window that still holds content. Call it once at end
// of stream; the operator accepts further events afterwards.
func (o *Operator[T]) Flush() ([]Ranking[T], error) {
	if !o.started {
		return nil, nil
	}
	if o.tumbling {
		if o.bucket.Count() == 0 {
			return nil, nil
		}
		r := rankingOf(o.bucket.Snapshot(), o.lastGen+o.cfg.Hop, o.cfg.K)
		o.bucket = topk.NewSimpleState(o.factory)
		o.nextBoundary = o.lastGen + 2*o.cfg.Hop
		return []Ranking[T]{r}, nil
	}

	var out []Ranking[T]
	for len(o.deltas) > 0 {
		r, err := o.closeBoundary(o.nextBoundary)
		if err != nil {
			return out, err
		}
		if len(r.Entries) > 0 {
			out = append(out, r)
		}
		o.nextBoundary += o.cfg.Hop
	}
	return out, nil
}

// closeThrough emits every boundary up to and including gen, the hop start
// of the newest observed event.
func (o *Operator[T]) closeThrough(gen int64) ([]Ranking[T], error) {
	var out []Ranking[T]
	for o.nextBoundary <= gen {
		if len(o.deltas) == 0 {
			// Nothing buffered: every intermediate window is empty.
			o.nextBoundary = gen + o.cfg.Hop
			break
		}
		r, err := o.closeBoundary(o.nextBoundary)
		if err != nil {
			return out, err
		}
		if len(r.Entries) > 0 {
			out = append(out, r)
		}
		o.nextBoundary += o.cfg.Hop
	}
	return out, nil
}

// closeBoundary retracts the hops that slid out of the window ending at b
// and projects the survivors' top-K.
func (o *Operator[T]) closeBoundary(b int64) (Ranking[T], error) {
	for len(o.deltas) > 0 && o.deltas[0].genTs < b-o.cfg.Window {
		expired := o.deltas[0]
		o.deltas = o.deltas[1:]
		if expired.genTs == o.lastGen {
			// The open generation itself expired, so the whole aggregate is
			// gone; a generational retraction cannot target the newest
			// generation, start over instead.
			o.agg = topk.NewHoppingState(o.cfg.K, o.factory)
			continue
		}
		if expired.state.Count() == 0 {
			continue
		}
		if err := o.agg.RemoveAll(expired.state); err != nil {
			return Ranking[T]{}, err
		}
	}
	return rankingOf(o.agg.Snapshot(), b, o.cfg.K), nil
}

func (o *Operator[T]) processTumbling(value T, ts, gen int64) ([]Ranking[T], error) {
	var out []Ranking[T]
	if gen < o.lastGen {
		return nil, fmt.Errorf("%w: event at %d behind window %d", topk.ErrOutOfOrderTimestamp, ts, o.lastGen)
	}
	if gen > o.lastGen {
		if o.bucket.Count() > 0 {
			out = append(out, rankingOf(o.bucket.Snapshot(), o.lastGen+o.cfg.Hop, o.cfg.K))
			o.bucket = topk.NewSimpleState(o.factory)
		}
		o.lastGen = gen
		o.nextBoundary = gen + o.cfg.Hop
	}
	if err := o.bucket.Add(value, ts); err != nil {
		return out, err
	}
	return out, nil
}

// rankingOf projects the K highest-ranked entries of a snapshot, descending.
func rankingOf[T any](snap *multiset.OrderedMultiset[T], boundary int64, k int) Ranking[T] {
	items := snap.Items()
	n := len(items)
	if n > k {
		items = items[n-k:]
	}
	entries := make([]Entry[T], 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		entries = append(entries, Entry[T]{Value: items[i].Value, Count: items[i].Count})
	}
	return Ranking[T]{Boundary: boundary, Entries: entries}
}

// floorDiv rounds toward negative infinity, unlike Go's integer division.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
