package search

import (
	"math/bits"
	"slices"
	"strings"
)

// Step records one valve opening along a route.
type Step struct {
	Valve    string `json:"valve"`
	Minute   int    `json:"minute"`   // minute at which the valve is open
	Released int    `json:"released"` // pressure released by this valve until the budget ends
}

// trail is a persistent list of steps, newest first. Children share their
// parent's trail and only prepend to it.
type trail struct {
	step Step
	prev *trail
	len  int
}

func (t *trail) push(s Step) *trail {
	n := 1
	if t != nil {
		n = t.len + 1
	}
	return &trail{step: s, prev: t, len: n}
}

// index assigns a bit to the origin and to every valve the search may open.
// It is built once per run and shared read-only by all states.
type index struct {
	origin  string
	bits    map[string]uint64
	targets []string // valves that may be opened, sorted
	flows   []int    // flow rate of targets[i]
	masks   []uint64 // bit of targets[i]
}

// State is one node of the search tree. It is never modified after creation.
type State struct {
	Valve    string // valve the state is at
	Released int    // pressure released by all valves opened so far, up to the budget
	Elapsed  int    // minutes spent

	opened uint64
	trail  *trail
	idx    *index
}

// Opened reports whether id has been opened along this state's route.
// The origin always counts as opened.
func (s State) Opened(id string) bool {
	if s.idx == nil {
		return false
	}
	bit, ok := s.idx.bits[id]
	return ok && s.opened&bit != 0
}

// OpenCount returns the number of valves marked opened, including the origin.
func (s State) OpenCount() int {
	return bits.OnesCount64(s.opened)
}

// Depth returns the number of valves opened after leaving the origin.
func (s State) Depth() int {
	if s.trail == nil {
		return 0
	}
	return s.trail.len
}

// Route returns the valves opened along this state, in order.
func (s State) Route() []Step {
	out := make([]Step, s.Depth())
	for t, i := s.trail, len(out)-1; t != nil; t, i = t.prev, i-1 {
		out[i] = t.step
	}
	return out
}

// RouteIDs returns the IDs of the valves opened along this state, in order.
func (s State) RouteIDs() []string {
	steps := s.Route()
	ids := make([]string, len(steps))
	for i, st := range steps {
		ids[i] = st.Valve
	}
	return ids
}

// String renders the route as "AA -> BB -> CC".
func (s State) String() string {
	var b strings.Builder
	b.WriteString(s.origin())
	for _, id := range s.RouteIDs() {
		b.WriteString(" -> ")
		b.WriteString(id)
	}
	return b.String()
}

func (s State) origin() string {
	if s.idx == nil {
		return s.Valve
	}
	return s.idx.origin
}

// open returns the child reached by opening target i of the index.
func (s State) open(i, cost, remaining int) State {
	id := s.idx.targets[i]
	released := remaining * s.idx.flows[i]
	return State{
		Valve:    id,
		Released: s.Released + released,
		Elapsed:  s.Elapsed + cost,
		opened:   s.opened | s.idx.masks[i],
		trail:    s.trail.push(Step{Valve: id, Minute: s.Elapsed + cost, Released: released}),
		idx:      s.idx,
	}
}

// compareStates orders states best first: more pressure, then less time,
// then the lexically smaller route.
func compareStates(a, b State) int {
	switch {
	case a.Released != b.Released:
		if a.Released > b.Released {
			return -1
		}
		return 1
	case a.Elapsed != b.Elapsed:
		if a.Elapsed < b.Elapsed {
			return -1
		}
		return 1
	}
	return slices.Compare(a.RouteIDs(), b.RouteIDs())
}
