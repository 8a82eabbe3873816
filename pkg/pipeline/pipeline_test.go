package pipeline

import (
	"runtime"
	"testing"

	errs "github.com/matzehuels/steamvent/pkg/errors"
	"github.com/matzehuels/steamvent/pkg/search"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errs.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Budget: 30}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("Valid options should pass: %v", err)
	}

	// Check defaults were set
	if opts.Origin != DefaultOrigin {
		t.Errorf("Origin should be %s, got %s", DefaultOrigin, opts.Origin)
	}
	if opts.TopK != DefaultTopK {
		t.Errorf("TopK should be %d, got %d", DefaultTopK, opts.TopK)
	}
	if opts.Workers != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers should default to GOMAXPROCS, got %d", opts.Workers)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
	if opts.Budget != 30 {
		t.Errorf("Budget changed to %d", opts.Budget)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"NegativeBudget", Options{Budget: -1}, errs.ErrCodeInvalidBudget},
		{"HugeBudget", Options{Budget: errs.MaxBudget + 1}, errs.ErrCodeInvalidBudget},
		{"BadOrigin", Options{Origin: "A-A"}, errs.ErrCodeInvalidValveID},
		{"NegativeWorkers", Options{Workers: -1}, errs.ErrCodeInvalidInput},
		{"NegativeTop", Options{TopK: -3}, errs.ErrCodeInvalidInput},
		{"HugeTop", Options{TopK: MaxTopK + 1}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errs.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Budget: 26, Workers: 2}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	before := opts

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Origin != before.Origin || opts.TopK != before.TopK || opts.Workers != before.Workers {
		t.Errorf("options changed on second call: %+v -> %+v", before, opts)
	}
}

func TestResultKeyOptsIgnoresWorkers(t *testing.T) {
	a := Options{Origin: "AA", Budget: 30, TopK: 5, Workers: 1}
	b := Options{Origin: "AA", Budget: 30, TopK: 5, Workers: 8}
	if a.ResultKeyOpts() != b.ResultKeyOpts() {
		t.Error("worker count must not change the result cache key")
	}
}

func TestPlanValves(t *testing.T) {
	p := Plan{Route: []search.Step{{Valve: "DD"}, {Valve: "BB"}}}
	got := p.Valves()
	if len(got) != 2 || got[0] != "DD" || got[1] != "BB" {
		t.Errorf("Valves() = %v, want [DD BB]", got)
	}
}

func TestResultString(t *testing.T) {
	r := &Result{Origin: "AA", Route: []search.Step{{Valve: "DD"}, {Valve: "BB"}}}
	if got := r.String(); got != "AA -> DD -> BB" {
		t.Errorf("String() = %q", got)
	}
	empty := &Result{Origin: "AA"}
	if got := empty.String(); got != "AA" {
		t.Errorf("String() = %q, want AA", got)
	}
}
