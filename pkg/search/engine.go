package search

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/steamvent/pkg/network"
	"github.com/matzehuels/steamvent/pkg/network/distance"
	"github.com/matzehuels/steamvent/pkg/observability"
)

// checkEvery is how many states are expanded between context checks.
const checkEvery = 4096

// MaxTargets is the largest number of openable valves a single search
// supports. Bit 0 of the opened set is reserved for the origin.
const MaxTargets = 63

var (
	// ErrUnknownOrigin is returned by [Engine.Run] when the origin valve is
	// not part of the network.
	ErrUnknownOrigin = errors.New("origin valve not in network")

	// ErrInvalidBudget is returned by [Engine.Run] for a negative time budget.
	ErrInvalidBudget = errors.New("time budget must not be negative")

	// ErrTooManyValves is returned by [Engine.Run] when more than
	// [MaxTargets] valves could be opened.
	ErrTooManyValves = errors.New("too many useful valves")
)

// Options configures a single search run.
type Options struct {
	Origin  string // valve the search starts from
	Budget  int    // minutes available for walking and opening valves
	Workers int    // goroutines used for the search; <= 1 searches sequentially

	// Hooks receives per-generation progress. Nil uses observability.Search().
	Hooks observability.SearchHooks
}

// Result holds every terminal state of a run.
type Result struct {
	Terminals   []State
	Generations int // number of generations expanded, the root included
	Expanded    int // number of states expanded
}

// Best returns the best terminal state. See [Best].
func (r *Result) Best() (State, error) {
	return Best(r.Terminals)
}

// Engine searches a network using a filtered distance table.
// An Engine holds no per-run state and may be reused and shared.
type Engine struct {
	net  *network.Network
	dist distance.Table
}

// NewEngine returns an engine over n. filtered must be the output of
// distance.Filter for n: rows keyed by every valve, destinations restricted to
// useful valves.
func NewEngine(n *network.Network, filtered distance.Table) *Engine {
	return &Engine{net: n, dist: filtered}
}

// Run enumerates every terminal state reachable from opts.Origin within
// opts.Budget minutes.
//
// The search is exhaustive: the only branches dropped are the ones whose next
// opening would end after the budget. Context cancellation is checked every
// few thousand expansions, so a wide generation does not delay it.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	if !e.net.Has(opts.Origin) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrigin, opts.Origin)
	}
	if opts.Budget < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBudget, opts.Budget)
	}
	idx, err := e.buildIndex(opts.Origin)
	if err != nil {
		return nil, err
	}

	w := &wave{
		dist:   e.dist,
		idx:    idx,
		budget: opts.Budget,
		hooks:  opts.Hooks,
	}
	if w.hooks == nil {
		w.hooks = observability.Search()
	}

	root := State{Valve: opts.Origin, opened: idx.bits[opts.Origin], idx: idx}
	if opts.Workers <= 1 {
		return w.run(ctx, []State{root}, 0)
	}
	return w.runParallel(ctx, root, opts.Workers)
}

// buildIndex assigns bit 0 to the origin and bits 1..n to the useful valves
// other than the origin.
func (e *Engine) buildIndex(origin string) (*index, error) {
	idx := &index{
		origin: origin,
		bits:   map[string]uint64{origin: 1},
	}
	for _, id := range e.net.Useful() {
		if id == origin {
			continue
		}
		if len(idx.targets) == MaxTargets {
			return nil, fmt.Errorf("%w: more than %d", ErrTooManyValves, MaxTargets)
		}
		bit := uint64(1) << (len(idx.targets) + 1)
		idx.bits[id] = bit
		idx.targets = append(idx.targets, id)
		idx.flows = append(idx.flows, e.net.FlowRate(id))
		idx.masks = append(idx.masks, bit)
	}
	return idx, nil
}

// wave holds the read-only inputs of one run.
type wave struct {
	dist   distance.Table
	idx    *index
	budget int
	hooks  observability.SearchHooks
}

// run expands generations until none is left. depth is the depth of the
// states in current.
func (w *wave) run(ctx context.Context, current []State, depth int) (*Result, error) {
	res := &Result{}
	var next []State

	for len(current) > 0 {
		terminals := 0
		for i, s := range current {
			if i%checkEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			var terminal bool
			next, terminal = w.expand(s, next)
			if terminal {
				res.Terminals = append(res.Terminals, s)
				terminals++
			}
		}

		w.hooks.OnGeneration(ctx, depth, len(current), terminals)
		res.Generations++
		res.Expanded += len(current)

		current, next = next, current[:0]
		depth++
	}
	return res, nil
}

// runParallel expands the root on the calling goroutine and hands its
// children to up to workers goroutines.
func (w *wave) runParallel(ctx context.Context, root State, workers int) (*Result, error) {
	first, terminal := w.expand(root, nil)

	res := &Result{Generations: 1, Expanded: 1}
	rootTerminals := 0
	if terminal {
		res.Terminals = append(res.Terminals, root)
		rootTerminals = 1
	}
	w.hooks.OnGeneration(ctx, 0, 1, rootTerminals)
	if len(first) == 0 {
		return res, nil
	}

	shares := partition(first, workers)
	parts := make([]*Result, len(shares))

	g, gctx := errgroup.WithContext(ctx)
	for i, share := range shares {
		g.Go(func() error {
			r, err := w.run(gctx, share, 1)
			if err != nil {
				return err
			}
			parts[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	deepest := 0
	for _, p := range parts {
		res.Terminals = append(res.Terminals, p.Terminals...)
		res.Expanded += p.Expanded
		deepest = max(deepest, p.Generations)
	}
	res.Generations += deepest
	return res, nil
}

// expand appends the feasible children of s to next and reports whether s is
// terminal: either nothing is left to open, or at least one unopened valve
// can no longer be opened in time.
func (w *wave) expand(s State, next []State) ([]State, bool) {
	row := w.dist[s.Valve]
	children, blocked := 0, false

	for i, id := range w.idx.targets {
		if s.opened&w.idx.masks[i] != 0 {
			continue
		}
		d, ok := row[id]
		if !ok {
			continue
		}

		cost := d + 1
		remaining := w.budget - s.Elapsed - cost
		if remaining < 0 {
			blocked = true
			continue
		}
		next = append(next, s.open(i, cost, remaining))
		children++
	}
	return next, children == 0 || blocked
}

// partition deals states round-robin into at most n non-empty shares.
func partition(states []State, n int) [][]State {
	n = min(n, len(states))
	shares := make([][]State, n)
	for i, s := range states {
		shares[i%n] = append(shares[i%n], s)
	}
	return shares
}
