// Package pipeline provides the solve pipeline shared by the CLI and the API.
//
// This package implements the complete distances → search → select pipeline
// over an already loaded network. By centralizing this logic, the command line
// and the HTTP server cache, log and report results the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Distances: hop distances between every pair of valves, narrowed to the
//     valves worth opening (cached by network hash)
//  2. Search: every opening order that fits the time budget
//  3. Select: the best plan and the runners-up
//
// Stages 2 and 3 are cached together, keyed by network hash, origin, budget
// and the number of plans kept.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, n, pipeline.Options{Budget: 30})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Pressure, result.Route)
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/steamvent/pkg/cache"
	errs "github.com/matzehuels/steamvent/pkg/errors"
	"github.com/matzehuels/steamvent/pkg/network/distance"
	"github.com/matzehuels/steamvent/pkg/search"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultOrigin is the valve every plan starts from.
	DefaultOrigin = "AA"

	// DefaultBudget is the number of minutes before the eruption.
	DefaultBudget = 30

	// DefaultTopK is the number of plans reported besides the best one.
	DefaultTopK = 5

	// MaxTopK bounds the number of plans a single request may ask for.
	MaxTopK = 100
)

// Format constants for rendered outputs.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a solve.
// This struct supports JSON serialization for API requests.
type Options struct {
	Origin  string `json:"origin,omitempty"`
	Budget  int    `json:"budget,omitempty"`
	Workers int    `json:"-"` // never changes the answer, so it is not part of requests
	TopK    int    `json:"top_k,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
//
// Budget zero is a valid request (nothing can be opened); callers that want
// the default budget must set it explicitly, as the CLI and config do.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Origin == "" {
		o.Origin = DefaultOrigin
	}
	if err := errs.ValidateValveID(o.Origin); err != nil {
		return err
	}
	if err := errs.ValidateBudget(o.Budget); err != nil {
		return err
	}
	if err := errs.ValidateWorkers(o.Workers); err != nil {
		return err
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.TopK == 0 {
		o.TopK = DefaultTopK
	}
	if o.TopK < 0 || o.TopK > MaxTopK {
		return errs.New(errs.ErrCodeInvalidInput, "top_k must be between 1 and %d: %d", MaxTopK, o.TopK)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ResultKeyOpts returns cache key options for the search stage.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Origin: o.Origin,
		Budget: o.Budget,
		TopK:   o.TopK,
	}
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Plan is one complete opening order and what it releases.
type Plan struct {
	Pressure int           `json:"pressure"`
	Elapsed  int           `json:"elapsed"`
	Route    []search.Step `json:"route"`
}

// Valves returns the IDs of the valves the plan opens, in order.
func (p Plan) Valves() []string {
	ids := make([]string, len(p.Route))
	for i, st := range p.Route {
		ids[i] = st.Valve
	}
	return ids
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this execution in logs and API responses.
	RunID string `json:"id"`

	// NetworkHash is the content hash of the canonical network encoding.
	NetworkHash string `json:"network_hash"`

	// Origin and Budget echo the effective options.
	Origin string `json:"origin"`
	Budget int    `json:"budget"`

	// Pressure is the maximum pressure that can be released.
	Pressure int `json:"pressure"`

	// Route is the opening order of the best plan.
	Route []search.Step `json:"route"`

	// Plans holds up to TopK plans, best first. Plans[0] is the best plan.
	Plans []Plan `json:"plans"`

	// Distances is the filtered distance table the search ran on.
	Distances distance.Table `json:"-"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo `json:"cache"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Valves       int           `json:"valves"`
	Useful       int           `json:"useful"`
	Tunnels      int           `json:"tunnels"`
	TotalFlow    int           `json:"total_flow"`
	Terminals    int           `json:"terminals"`
	Generations  int           `json:"generations"`
	Expanded     int           `json:"expanded"`
	DistanceTime time.Duration `json:"distance_time_ns"`
	SearchTime   time.Duration `json:"search_time_ns"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DistanceHit bool `json:"distances"` // Whether the distance table came from cache
	ResultHit   bool `json:"result"`    // Whether the search result came from cache
}

// String formats the best route as "AA -> DD -> BB".
func (r *Result) String() string {
	return routeString(r.Origin, r.Route)
}

func routeString(origin string, route []search.Step) string {
	s := origin
	for _, st := range route {
		s = fmt.Sprintf("%s -> %s", s, st.Valve)
	}
	return s
}
