package search

import (
	"errors"
	"slices"
)

// ErrNoTerminals is returned by [Best] when there is nothing to choose from.
var ErrNoTerminals = errors.New("no terminal states")

// Best returns the terminal state that released the most pressure.
//
// Ties go to the state that used less time, then to the lexically smaller
// route, so the answer is the same for sequential and parallel runs.
// A run always yields at least the root state, so ErrNoTerminals only
// happens for a hand-built empty slice.
func Best(terminals []State) (State, error) {
	if len(terminals) == 0 {
		return State{}, ErrNoTerminals
	}
	best := terminals[0]
	for _, s := range terminals[1:] {
		if compareStates(s, best) < 0 {
			best = s
		}
	}
	return best, nil
}

// Top returns up to k terminal states, best first. Each terminal state
// follows a different route, so the result never repeats a plan.
func Top(terminals []State, k int) []State {
	if k <= 0 || len(terminals) == 0 {
		return nil
	}
	sorted := slices.Clone(terminals)
	slices.SortFunc(sorted, compareStates)
	return sorted[:min(k, len(sorted))]
}
