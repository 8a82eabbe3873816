package search

import (
	"errors"
	"testing"
)

func TestBestEmpty(t *testing.T) {
	if _, err := Best(nil); !errors.Is(err, ErrNoTerminals) {
		t.Errorf("Best(nil) error = %v, want %v", err, ErrNoTerminals)
	}
}

func TestBestTieBreak(t *testing.T) {
	idx := &index{origin: "AA", bits: map[string]uint64{"AA": 1}}
	root := State{Valve: "AA", opened: 1, idx: idx}

	slow := State{Valve: "BB", Released: 100, Elapsed: 9, idx: idx, trail: root.trail.push(Step{Valve: "BB"})}
	fast := State{Valve: "CC", Released: 100, Elapsed: 5, idx: idx, trail: root.trail.push(Step{Valve: "CC"})}
	alsoFast := State{Valve: "DD", Released: 100, Elapsed: 5, idx: idx, trail: root.trail.push(Step{Valve: "DD"})}
	low := State{Valve: "EE", Released: 10, Elapsed: 1, idx: idx, trail: root.trail.push(Step{Valve: "EE"})}

	tests := []struct {
		name  string
		input []State
		want  string
	}{
		{name: "Single", input: []State{root}, want: "AA"},
		{name: "MostPressure", input: []State{low, slow}, want: "AA -> BB"},
		{name: "LessTime", input: []State{slow, fast}, want: "AA -> CC"},
		{name: "LexicalRoute", input: []State{alsoFast, fast, slow}, want: "AA -> CC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Best(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got.String() != tt.want {
				t.Errorf("Best() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTop(t *testing.T) {
	e := newEngine(t, exampleValves())
	_, res := solve(t, e, Options{Origin: "AA", Budget: 30})

	top := Top(res.Terminals, 5)
	if len(top) != 5 {
		t.Fatalf("len(Top) = %d, want 5", len(top))
	}
	if top[0].Released != 1651 {
		t.Errorf("Top[0].Released = %d, want 1651", top[0].Released)
	}
	seen := map[string]bool{}
	for i, s := range top {
		if i > 0 && s.Released > top[i-1].Released {
			t.Errorf("Top not sorted at %d: %d > %d", i, s.Released, top[i-1].Released)
		}
		if seen[s.String()] {
			t.Errorf("route %s repeated", s)
		}
		seen[s.String()] = true
	}

	if got := Top(res.Terminals, 0); got != nil {
		t.Errorf("Top(k=0) = %v, want nil", got)
	}
	if got := Top(res.Terminals[:2], 10); len(got) != 2 {
		t.Errorf("Top(k>len) returned %d states, want 2", len(got))
	}
}
