// Package search finds the order in which to open valves so that the most
// pressure is released before the time budget runs out.
//
// # Overview
//
// The search starts at a fixed origin valve with nothing opened and no time
// spent. From a state at valve P, every valve N that is useful, reachable and
// not yet opened is a candidate:
//
//	cost      = distance(P, N) + 1   // walk there, then one minute to open it
//	remaining = budget - elapsed - cost
//	released += remaining * flowRate(N)
//
// A candidate with a negative remaining time is infeasible. The state that
// produced it is recorded as terminal, and its other candidates are still
// tried. A state without any unopened reachable candidate is terminal too.
// The answer is the largest released total over all terminal states; see
// [Best].
//
// # Traversal
//
// [Engine.Run] expands the tree one generation at a time: every state of the
// current generation is read, its children are collected into a fresh slice,
// and the two slices are swapped. Depth never exceeds the number of useful
// valves, so the loop always terminates, and no recursion is involved.
//
// Setting [Options.Workers] above one splits the children of the origin
// across goroutines managed by an errgroup. Each worker runs its own wave
// loop over its share of the tree and the terminal states are merged after
// all workers finish.
//
// # States
//
// [State] values are immutable. The set of opened valves is a bitmask indexed
// over the origin and the useful valves, and the route taken is a linked trail
// whose prefix is shared with the parent, so branching never copies or
// mutates a sibling's data. The bitmask caps the search at 63 useful valves
// besides the origin ([ErrTooManyValves]).
package search
