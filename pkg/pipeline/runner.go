package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubbleset/pkg/cache"
	"github.com/matzehuels/bubbleset/pkg/document"
	"github.com/matzehuels/bubbleset/pkg/observability"
)

// Key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute runs the layout and render stages with caching.
func (r *Runner) Execute(ctx context.Context, records []document.Record, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Stats: Stats{RecordCount: len(records)}}

	layoutStart := time.Now()
	doc, ignored, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, records, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = doc
	result.Ignored = ignored
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.RegionCount = len(doc.Regions)
	result.CacheInfo.LayoutHit = layoutHit
	if data, err := document.MarshalLayout(doc); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	r.Logger.Info("computed layout",
		"strategy", opts.Strategy,
		"regions", len(doc.Regions),
		"records", len(doc.Records),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateLayoutWithCacheInfo computes a layout with caching and returns
// the ignored strategy option keys and whether the cache was hit.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, records []document.Record, opts Options) (document.Layout, []string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return document.Layout{}, nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Strategy, len(records))
	start := time.Now()

	recordData, err := json.Marshal(records)
	if err != nil {
		return document.Layout{}, nil, false, fmt.Errorf("serialize records for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(recordData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if doc, ok := r.cachedLayout(ctx, cacheKey); ok {
			// Ignored keys do not depend on the records, so they can be recomputed cheaply.
			_, ignored := LayoutOptions(opts)
			hooks.OnLayoutComplete(ctx, opts.Strategy, len(doc.Regions), time.Since(start), nil)
			return doc, ignored, true, nil
		}
	}

	doc, ignored, err := GenerateLayout(ctx, records, opts)
	hooks.OnLayoutComplete(ctx, opts.Strategy, len(doc.Regions), time.Since(start), err)
	if err != nil {
		return document.Layout{}, ignored, false, err
	}
	if len(ignored) > 0 {
		r.Logger.Warn("ignored strategy options", "strategy", opts.Strategy, "keys", ignored)
	}

	if data, err := document.MarshalLayout(doc); err == nil {
		r.store(ctx, keyTypeLayout, cacheKey, data, cache.LayoutTTL)
	}
	return doc, ignored, false, nil
}

// GenerateLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, records []document.Record, opts Options) (document.Layout, error) {
	doc, _, _, err := r.GenerateLayoutWithCacheInfo(ctx, records, opts)
	return doc, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc document.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	layoutData, err := document.MarshalLayout(doc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, ok := r.lookup(ctx, keyTypeArtifact, key)
		if !ok {
			allCached = false
			break
		}
		artifacts[format] = data
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, doc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.store(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.ArtifactTTL)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc document.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (document.Layout, bool) {
	data, ok := r.lookup(ctx, keyTypeLayout, key)
	if !ok {
		return document.Layout{}, false
	}
	doc, err := document.UnmarshalLayout(data)
	if err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "key", key, "error", err)
		return document.Layout{}, false
	}
	return doc, true
}

// lookup reads key and reports the result to the cache hooks. Cache errors
// are treated as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
