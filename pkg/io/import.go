package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/steamvent/pkg/network"
)

// document is the JSON wire form of a network.
type document struct {
	Valves []network.Valve `json:"valves"`
}

// ReadJSON decodes a JSON network from r.
//
// The input must be an object with a "valves" array:
//
//	{"valves": [{"id": "AA", "flow_rate": 0, "tunnels": ["BB"]}, ...]}
//
// ReadJSON returns an error if the JSON is malformed or if network.New rejects
// the valves (empty or duplicate IDs, negative flow rates, dangling tunnels).
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*network.Network, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return network.New(doc.Valves)
}

// ImportFile reads a network from the file at path. Files ending in ".json"
// are decoded with [ReadJSON]; everything else with [ReadText].
//
// Errors from opening the file wrap the underlying os error, so
// errors.Is(err, fs.ErrNotExist) reports a missing file.
func ImportFile(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if IsJSON(path) {
		n, err := ReadJSON(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return n, nil
	}
	n, err := ReadText(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// IsJSON reports whether path names a JSON network file.
func IsJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
