package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/steamvent/pkg/cache"
	errs "github.com/matzehuels/steamvent/pkg/errors"
	netio "github.com/matzehuels/steamvent/pkg/io"
	"github.com/matzehuels/steamvent/pkg/network"
	"github.com/matzehuels/steamvent/pkg/network/distance"
	"github.com/matzehuels/steamvent/pkg/observability"
	"github.com/matzehuels/steamvent/pkg/search"
)

// Cache key types reported to observability.CacheHooks.
const (
	keyTypeDistances = "distances"
	keyTypeResult    = "result"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL, when positive, replaces cache.TTLDistances and cache.TTLResult.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete distances → search → select pipeline with caching.
func (r *Runner) Execute(ctx context.Context, n *network.Network, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if !n.Has(opts.Origin) {
		return nil, errs.New(errs.ErrCodeUnknownValve, "origin valve %q is not in the network", opts.Origin)
	}

	hash, err := NetworkHash(n)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "hash network")
	}

	result := &Result{
		RunID:       uuid.NewString(),
		NetworkHash: hash,
		Origin:      opts.Origin,
		Budget:      opts.Budget,
	}
	result.Stats.Valves = n.Len()
	result.Stats.Useful = len(n.Useful())
	result.Stats.Tunnels = n.TunnelCount()
	result.Stats.TotalFlow = n.TotalFlow()
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Distances
	distStart := time.Now()
	table, distHit, err := r.distances(ctx, n, hash, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("distances: %w", err)
	}
	result.Distances = table
	result.Stats.DistanceTime = time.Since(distStart)
	result.CacheInfo.DistanceHit = distHit

	logger.Info("computed distances",
		"valves", n.Len(),
		"entries", table.Len(),
		"cached", distHit,
		"duration", result.Stats.DistanceTime)

	// Stage 2+3: Search and select
	searchStart := time.Now()
	rec, searchHit, err := r.search(ctx, n, table, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	result.Plans = rec.Plans
	result.Pressure = rec.Plans[0].Pressure
	result.Route = rec.Plans[0].Route
	result.Stats.Terminals = rec.Terminals
	result.Stats.Generations = rec.Generations
	result.Stats.Expanded = rec.Expanded
	result.Stats.SearchTime = time.Since(searchStart)
	result.CacheInfo.ResultHit = searchHit

	logger.Info("searched plans",
		"pressure", result.Pressure,
		"route", result.String(),
		"terminals", rec.Terminals,
		"cached", searchHit,
		"duration", result.Stats.SearchTime)

	return result, nil
}

// Distances returns the filtered distance table of n, from cache when
// possible.
func (r *Runner) Distances(ctx context.Context, n *network.Network, refresh bool) (distance.Table, bool, error) {
	hash, err := NetworkHash(n)
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeInternal, err, "hash network")
	}
	return r.distances(ctx, n, hash, refresh)
}

func (r *Runner) distances(ctx context.Context, n *network.Network, hash string, refresh bool) (distance.Table, bool, error) {
	key := r.Keyer.DistanceKey(hash)

	if !refresh {
		var cached distance.Table
		if r.lookup(ctx, key, keyTypeDistances, &cached) {
			return cached, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnDistanceStart(ctx, n.Len())
	start := time.Now()
	table := distance.Filter(distance.Compute(n), n)
	hooks.OnDistanceComplete(ctx, n.Len(), table.Len(), time.Since(start))

	r.store(ctx, key, keyTypeDistances, table, cache.TTLDistances)
	return table, false, nil
}

// searchRecord is the cached outcome of the search stage.
type searchRecord struct {
	Plans       []Plan `json:"plans"`
	Terminals   int    `json:"terminals"`
	Generations int    `json:"generations"`
	Expanded    int    `json:"expanded"`
}

func (r *Runner) search(ctx context.Context, n *network.Network, table distance.Table, hash string, opts Options) (*searchRecord, bool, error) {
	key := r.Keyer.ResultKey(hash, opts.ResultKeyOpts())

	if !opts.Refresh {
		var cached searchRecord
		if r.lookup(ctx, key, keyTypeResult, &cached) && len(cached.Plans) > 0 {
			return &cached, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnSearchStart(ctx, opts.Origin, opts.Budget, len(n.Useful()))
	start := time.Now()

	res, err := search.NewEngine(n, table).Run(ctx, search.Options{
		Origin:  opts.Origin,
		Budget:  opts.Budget,
		Workers: opts.Workers,
	})
	if err != nil {
		hooks.OnSearchComplete(ctx, opts.Origin, opts.Budget, 0, time.Since(start), err)
		return nil, false, Classify(err)
	}

	rec := &searchRecord{
		Terminals:   len(res.Terminals),
		Generations: res.Generations,
		Expanded:    res.Expanded,
	}
	for _, s := range search.Top(res.Terminals, opts.TopK) {
		rec.Plans = append(rec.Plans, Plan{Pressure: s.Released, Elapsed: s.Elapsed, Route: s.Route()})
	}
	hooks.OnSearchComplete(ctx, opts.Origin, opts.Budget, rec.Plans[0].Pressure, time.Since(start), nil)

	r.store(ctx, key, keyTypeResult, rec, cache.TTLResult)
	return rec, false, nil
}

// lookup decodes the cached value at key into dst and reports a hit.
// Backend failures and undecodable entries count as misses.
func (r *Runner) lookup(ctx context.Context, key, keyType string, dst any) bool {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, keyType)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.Logger.Debug("discarding undecodable cache entry", "key", key, "err", err)
		hooks.OnCacheMiss(ctx, keyType)
		return false
	}
	hooks.OnCacheHit(ctx, keyType)
	return true
}

func (r *Runner) store(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// NetworkHash returns the content hash of n's canonical encoding.
func NetworkHash(n *network.Network) (string, error) {
	data, err := netio.MarshalNetwork(n)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
