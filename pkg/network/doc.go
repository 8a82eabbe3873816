// Package network provides the immutable valve network that every other
// steamvent package reads from.
//
// # Overview
//
// A network is a small undirected graph. Each vertex is a [Valve] with an
// identifier, a flow rate (the pressure released per remaining minute once the
// valve is opened) and the list of tunnels leading to neighbouring valves.
// Valves with a zero flow rate are pass-through rooms: they are walked through
// but never worth opening.
//
// # Basic Usage
//
// Build a network from a slice of valves with [New]. Construction validates the
// whole input at once, so a network that exists is always well formed:
//
//	n, err := network.New([]network.Valve{
//	    {ID: "AA", FlowRate: 0, Tunnels: []string{"BB"}},
//	    {ID: "BB", FlowRate: 13, Tunnels: []string{"AA"}},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(n.Useful()) // [BB]
//
// # Validation
//
// [New] rejects empty identifiers ([ErrInvalidValveID]), repeated identifiers
// ([ErrDuplicateValve]), negative flow rates ([ErrNegativeFlowRate]) and
// tunnels that lead to a valve that is not part of the input
// ([ErrUnknownTunnel]). Errors are wrapped with the offending valve so callers
// can report them and still match them with errors.Is.
//
// # Concurrency
//
// A Network is never mutated after New returns. All accessors return copies,
// so a Network is safe for concurrent use by multiple goroutines.
package network
