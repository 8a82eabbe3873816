package network

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrInvalidValveID is returned by [New] when a valve has an empty ID.
	ErrInvalidValveID = errors.New("valve ID must not be empty")

	// ErrDuplicateValve is returned by [New] when two valves share an ID.
	ErrDuplicateValve = errors.New("duplicate valve ID")

	// ErrNegativeFlowRate is returned by [New] when a valve has a flow rate
	// below zero.
	ErrNegativeFlowRate = errors.New("flow rate must not be negative")

	// ErrUnknownTunnel is returned by [New] when a tunnel leads to a valve
	// that is not part of the network.
	ErrUnknownTunnel = errors.New("tunnel leads to unknown valve")
)

// Valve is a vertex of the network.
//
// FlowRate is the pressure released per remaining minute once the valve is
// opened. Tunnels lists the IDs of directly adjacent valves; moving through a
// tunnel takes one minute.
type Valve struct {
	ID       string   `json:"id"`
	FlowRate int      `json:"flow_rate"`
	Tunnels  []string `json:"tunnels"`
}

// Useful reports whether opening the valve releases any pressure.
func (v Valve) Useful() bool { return v.FlowRate > 0 }

// clone returns a copy of v whose Tunnels slice is not shared.
func (v Valve) clone() Valve {
	v.Tunnels = slices.Clone(v.Tunnels)
	return v
}

// Network is an immutable, validated valve graph.
//
// The zero value is an empty network; use [New] to build a populated one.
type Network struct {
	valves map[string]Valve
	ids    []string // sorted
	useful []string // sorted, FlowRate > 0
}

// New validates valves and returns the network they describe.
//
// The input slice and its tunnel lists are copied, so later changes by the
// caller do not affect the returned network. Every tunnel must reference a
// valve present in valves; a dangling reference is reported as
// [ErrUnknownTunnel] before any distance is computed.
func New(valves []Valve) (*Network, error) {
	n := &Network{valves: make(map[string]Valve, len(valves))}

	for _, v := range valves {
		if v.ID == "" {
			return nil, ErrInvalidValveID
		}
		if _, exists := n.valves[v.ID]; exists {
			return nil, fmt.Errorf("valve %s: %w", v.ID, ErrDuplicateValve)
		}
		if v.FlowRate < 0 {
			return nil, fmt.Errorf("valve %s: %w", v.ID, ErrNegativeFlowRate)
		}
		n.valves[v.ID] = v.clone()
	}

	for _, v := range n.valves {
		for _, t := range v.Tunnels {
			if _, ok := n.valves[t]; !ok {
				return nil, fmt.Errorf("valve %s -> %s: %w", v.ID, t, ErrUnknownTunnel)
			}
		}
	}

	n.ids = slices.Sorted(maps.Keys(n.valves))
	for _, id := range n.ids {
		if n.valves[id].Useful() {
			n.useful = append(n.useful, id)
		}
	}
	return n, nil
}

// Valve returns the valve with the given ID.
func (n *Network) Valve(id string) (Valve, bool) {
	v, ok := n.valves[id]
	if !ok {
		return Valve{}, false
	}
	return v.clone(), true
}

// Has reports whether a valve with the given ID exists.
func (n *Network) Has(id string) bool {
	_, ok := n.valves[id]
	return ok
}

// FlowRate returns the flow rate of id, or 0 if it does not exist.
func (n *Network) FlowRate(id string) int {
	return n.valves[id].FlowRate
}

// Tunnels returns a copy of the tunnels leaving id.
func (n *Network) Tunnels(id string) []string {
	return slices.Clone(n.valves[id].Tunnels)
}

// neighbors returns the tunnel list of id without copying.
// Callers inside the module must not modify the result.
func (n *Network) neighbors(id string) []string {
	return n.valves[id].Tunnels
}

// Neighbors calls fn for every valve adjacent to id, in input order.
// It avoids the copy made by [Network.Tunnels] on hot paths.
func (n *Network) Neighbors(id string, fn func(string)) {
	for _, t := range n.neighbors(id) {
		fn(t)
	}
}

// IDs returns all valve IDs in sorted order.
func (n *Network) IDs() []string { return slices.Clone(n.ids) }

// Valves returns copies of all valves sorted by ID.
func (n *Network) Valves() []Valve {
	out := make([]Valve, len(n.ids))
	for i, id := range n.ids {
		out[i] = n.valves[id].clone()
	}
	return out
}

// Useful returns the sorted IDs of valves with a positive flow rate.
func (n *Network) Useful() []string { return slices.Clone(n.useful) }

// Len returns the number of valves.
func (n *Network) Len() int { return len(n.valves) }

// TunnelCount returns the number of distinct tunnels. A tunnel listed by both
// of its endpoints is counted once.
func (n *Network) TunnelCount() int {
	type pair struct{ a, b string }
	seen := make(map[pair]struct{})
	for _, v := range n.valves {
		for _, t := range v.Tunnels {
			p := pair{v.ID, t}
			if t < v.ID {
				p = pair{t, v.ID}
			}
			seen[p] = struct{}{}
		}
	}
	return len(seen)
}

// TotalFlow returns the sum of all flow rates, the pressure released per
// minute once every valve is open.
func (n *Network) TotalFlow() int {
	total := 0
	for _, v := range n.valves {
		total += v.FlowRate
	}
	return total
}
