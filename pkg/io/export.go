package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/steamvent/pkg/network"
)

// WriteJSON encodes n as indented JSON and writes it to w. Valves are written
// in ID order with their tunnels in input order. The output can be read back
// with [ReadJSON].
func WriteJSON(n *network.Network, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Valves: valvesOf(n)}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes n to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(n *network.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(n, f)
}

// MarshalNetwork returns the canonical compact JSON encoding of n. Valves and
// their tunnel lists are sorted, so two networks that describe the same graph
// marshal to the same bytes regardless of input order or format.
func MarshalNetwork(n *network.Network) ([]byte, error) {
	valves := valvesOf(n)
	for i := range valves {
		slices.Sort(valves[i].Tunnels)
	}
	data, err := json.Marshal(document{Valves: valves})
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

func valvesOf(n *network.Network) []network.Valve {
	valves := n.Valves()
	for i := range valves {
		if valves[i].Tunnels == nil {
			valves[i].Tunnels = []string{}
		}
	}
	return valves
}
