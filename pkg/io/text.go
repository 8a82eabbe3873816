package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/steamvent/pkg/network"
)

// ErrSyntax is returned by [ReadText] for a line that is not a valve report.
var ErrSyntax = errors.New("malformed valve line")

// The tunnel clause is absent for a valve without tunnels.
var valveLine = regexp.MustCompile(`^Valve (\w+) has flow rate=(\d+)(?:; tunnels? leads? to valves? (.+))?$`)

// ReadText decodes the line-oriented text format from r.
//
// ReadText returns an error wrapping [ErrSyntax] with the 1-based line number
// for any non-blank line that does not match, and the network package's
// validation errors for structurally invalid input. ReadText does not close r.
func ReadText(r io.Reader) (*network.Network, error) {
	var valves []network.Valve

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		v, err := parseValve(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		valves = append(valves, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	return network.New(valves)
}

func parseValve(text string) (network.Valve, error) {
	m := valveLine.FindStringSubmatch(text)
	if m == nil {
		return network.Valve{}, fmt.Errorf("%w: %q", ErrSyntax, text)
	}
	rate, err := strconv.Atoi(m[2])
	if err != nil {
		return network.Valve{}, fmt.Errorf("%w: flow rate %q: %v", ErrSyntax, m[2], err)
	}

	var tunnels []string
	if m[3] == "" {
		return network.Valve{ID: m[1], FlowRate: rate}, nil
	}
	for _, t := range strings.Split(m[3], ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			return network.Valve{}, fmt.Errorf("%w: empty tunnel in %q", ErrSyntax, text)
		}
		tunnels = append(tunnels, t)
	}
	return network.Valve{ID: m[1], FlowRate: rate, Tunnels: tunnels}, nil
}

// WriteText encodes n in the text format, one valve per line in ID order.
func WriteText(n *network.Network, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, v := range n.Valves() {
		var err error
		switch len(v.Tunnels) {
		case 0:
			_, err = fmt.Fprintf(bw, "Valve %s has flow rate=%d\n", v.ID, v.FlowRate)
		case 1:
			_, err = fmt.Fprintf(bw, "Valve %s has flow rate=%d; tunnel leads to valve %s\n",
				v.ID, v.FlowRate, v.Tunnels[0])
		default:
			_, err = fmt.Fprintf(bw, "Valve %s has flow rate=%d; tunnels lead to valves %s\n",
				v.ID, v.FlowRate, strings.Join(v.Tunnels, ", "))
		}
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return bw.Flush()
}
