// Package distance computes hop distances between the valves of a network.
//
// [Compute] runs one breadth-first expansion per valve and returns a dense
// [Table]. [Filter] then narrows every row to the valves worth opening, which
// bounds the branching factor of the search.
//
// Tables are plain maps and are treated as read-only once built; they are safe
// to share between goroutines as long as nobody writes to them.
package distance

import (
	"maps"
	"slices"

	"github.com/matzehuels/steamvent/pkg/network"
)

// Table maps an origin valve to the hop distance of every valve reachable
// from it. A valve's distance to itself is 0. Unreachable pairs are absent.
type Table map[string]map[string]int

// Get returns the hop distance from one valve to another.
func (t Table) Get(from, to string) (int, bool) {
	d, ok := t[from][to]
	return d, ok
}

// Row returns a copy of the distances from origin.
func (t Table) Row(origin string) map[string]int {
	return maps.Clone(t[origin])
}

// Origins returns the row keys in sorted order.
func (t Table) Origins() []string {
	return slices.Sorted(maps.Keys(t))
}

// Len returns the number of (origin, destination) entries.
func (t Table) Len() int {
	n := 0
	for _, row := range t {
		n += len(row)
	}
	return n
}

// Equal reports whether both tables hold exactly the same entries.
func (t Table) Equal(other Table) bool {
	return maps.EqualFunc(t, other, func(a, b map[string]int) bool {
		return maps.Equal(a, b)
	})
}

// Compute returns the hop distance between every pair of connected valves.
//
// Each origin is expanded on its own, layer by layer: all valves first reached
// in layer k get distance k. Nothing is shared between origins, so the cost is
// O(V·(V+E)), which is fine for networks of a few dozen valves.
func Compute(n *network.Network) Table {
	t := make(Table, n.Len())
	for _, origin := range n.IDs() {
		t[origin] = expand(n, origin)
	}
	return t
}

// expand performs a single breadth-first expansion from origin.
// The frontier and the next layer are swapped after each layer.
func expand(n *network.Network, origin string) map[string]int {
	row := map[string]int{origin: 0}
	frontier := []string{origin}
	var next []string

	for depth := 1; len(frontier) > 0; depth++ {
		for _, id := range frontier {
			n.Neighbors(id, func(nbr string) {
				if _, seen := row[nbr]; seen {
					return
				}
				row[nbr] = depth
				next = append(next, nbr)
			})
		}
		frontier, next = next, frontier[:0]
	}
	return row
}

// Filter returns a copy of t in which every row only keeps destinations with a
// positive flow rate. Rows themselves are kept for every origin, so the
// search can still start from a zero-flow valve.
func Filter(t Table, n *network.Network) Table {
	out := make(Table, len(t))
	for origin, row := range t {
		kept := make(map[string]int)
		for dst, d := range row {
			if n.FlowRate(dst) > 0 {
				kept[dst] = d
			}
		}
		out[origin] = kept
	}
	return out
}

// Path returns one shortest walk from one valve to another, both ends
// included. t must be the unfiltered table of n. Among equally short walks the
// one following the earliest listed tunnels wins. Path returns nil when to is
// unreachable.
func Path(t Table, n *network.Network, from, to string) []string {
	left, ok := t.Get(from, to)
	if !ok {
		return nil
	}
	path := []string{from}
	for cur := from; left > 0; left-- {
		for _, nbr := range n.Tunnels(cur) {
			if d, ok := t.Get(nbr, to); ok && d == left-1 {
				cur = nbr
				break
			}
		}
		path = append(path, cur)
	}
	return path
}
