package distance

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/steamvent/pkg/network"
)

func mustNetwork(t *testing.T, valves []network.Valve) *network.Network {
	t.Helper()
	n, err := network.New(valves)
	if err != nil {
		t.Fatalf("network.New: %v", err)
	}
	return n
}

func exampleNetwork(t *testing.T) *network.Network {
	return mustNetwork(t, []network.Valve{
		{ID: "AA", FlowRate: 0, Tunnels: []string{"DD", "II", "BB"}},
		{ID: "BB", FlowRate: 13, Tunnels: []string{"CC", "AA"}},
		{ID: "CC", FlowRate: 2, Tunnels: []string{"DD", "BB"}},
		{ID: "DD", FlowRate: 20, Tunnels: []string{"CC", "AA", "EE"}},
		{ID: "EE", FlowRate: 3, Tunnels: []string{"FF", "DD"}},
		{ID: "FF", FlowRate: 0, Tunnels: []string{"EE", "GG"}},
		{ID: "GG", FlowRate: 0, Tunnels: []string{"FF", "HH"}},
		{ID: "HH", FlowRate: 22, Tunnels: []string{"GG"}},
		{ID: "II", FlowRate: 0, Tunnels: []string{"AA", "JJ"}},
		{ID: "JJ", FlowRate: 21, Tunnels: []string{"II"}},
	})
}

func TestCompute(t *testing.T) {
	n := exampleNetwork(t)
	table := Compute(n)

	want := map[string]int{
		"AA": 0, "BB": 1, "DD": 1, "II": 1,
		"CC": 2, "EE": 2, "JJ": 2,
		"FF": 3, "GG": 4, "HH": 5,
	}
	if diff := cmp.Diff(want, table["AA"]); diff != "" {
		t.Errorf("row AA mismatch (-want +got):\n%s", diff)
	}

	for _, id := range n.IDs() {
		if d, ok := table.Get(id, id); !ok || d != 0 {
			t.Errorf("d(%s,%s) = %d,%v, want 0,true", id, id, d, ok)
		}
	}

	// Tunnels are listed in both directions, so distances are symmetric.
	for _, a := range n.IDs() {
		for _, b := range n.IDs() {
			ab, _ := table.Get(a, b)
			ba, _ := table.Get(b, a)
			if ab != ba {
				t.Errorf("d(%s,%s)=%d but d(%s,%s)=%d", a, b, ab, b, a, ba)
			}
		}
	}

	if got := table.Len(); got != 100 {
		t.Errorf("Len() = %d, want 100", got)
	}
}

func TestComputeIdempotent(t *testing.T) {
	n := exampleNetwork(t)
	first := Compute(n)
	second := Compute(n)
	if !first.Equal(second) {
		t.Errorf("Compute is not idempotent:\n%s", cmp.Diff(first, second))
	}
}

func TestComputeUnreachable(t *testing.T) {
	n := mustNetwork(t, []network.Valve{
		{ID: "AA", Tunnels: []string{"BB"}},
		{ID: "BB", FlowRate: 5, Tunnels: []string{"AA"}},
		{ID: "ZZ", FlowRate: 9},
	})
	table := Compute(n)

	if _, ok := table.Get("AA", "ZZ"); ok {
		t.Error("unreachable valve ZZ should be absent from row AA")
	}
	if diff := cmp.Diff(map[string]int{"ZZ": 0}, table.Row("ZZ")); diff != "" {
		t.Errorf("row ZZ mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter(t *testing.T) {
	n := exampleNetwork(t)
	filtered := Filter(Compute(n), n)

	want := map[string]int{"BB": 1, "CC": 2, "DD": 1, "EE": 2, "HH": 5, "JJ": 2}
	if diff := cmp.Diff(want, filtered["AA"]); diff != "" {
		t.Errorf("filtered row AA mismatch (-want +got):\n%s", diff)
	}

	if got := len(filtered.Origins()); got != n.Len() {
		t.Errorf("filtered origins = %d, want %d", got, n.Len())
	}

	for origin, row := range filtered {
		for dst := range row {
			if n.FlowRate(dst) == 0 {
				t.Errorf("row %s still contains zero-flow valve %s", origin, dst)
			}
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	n := exampleNetwork(t)
	table := Compute(n)
	before := table.Len()
	_ = Filter(table, n)
	if table.Len() != before {
		t.Errorf("Filter mutated its input: %d entries, want %d", table.Len(), before)
	}
}

func TestPath(t *testing.T) {
	n := exampleNetwork(t)
	table := Compute(n)

	tests := []struct {
		from, to string
		want     []string
	}{
		{"AA", "AA", []string{"AA"}},
		{"AA", "HH", []string{"AA", "DD", "EE", "FF", "GG", "HH"}},
		{"AA", "JJ", []string{"AA", "II", "JJ"}},
		{"JJ", "BB", []string{"JJ", "II", "AA", "BB"}},
		// DD and BB are both one hop from CC; DD is listed first.
		{"AA", "CC", []string{"AA", "DD", "CC"}},
	}
	for _, tt := range tests {
		got := Path(table, n, tt.from, tt.to)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Path(%s, %s) mismatch (-want +got):\n%s", tt.from, tt.to, diff)
		}
		if d, _ := table.Get(tt.from, tt.to); len(got) != d+1 {
			t.Errorf("Path(%s, %s) has %d valves, want %d", tt.from, tt.to, len(got), d+1)
		}
	}
}

func TestPathUnreachable(t *testing.T) {
	n := mustNetwork(t, []network.Valve{
		{ID: "AA", Tunnels: []string{"BB"}},
		{ID: "BB", FlowRate: 5, Tunnels: []string{"AA"}},
		{ID: "ZZ", FlowRate: 9},
	})
	if got := Path(Compute(n), n, "AA", "ZZ"); got != nil {
		t.Errorf("Path(AA, ZZ) = %v, want nil", got)
	}
}
