package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/citylink/pkg/cache"
	"github.com/matzehuels/citylink/pkg/ingest"
	"github.com/matzehuels/citylink/pkg/observability"
	"github.com/matzehuels/citylink/pkg/record"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
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

// Execute runs the complete load → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	store, hash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Store = store
	result.DatasetHash = hash
	result.Stats.Rows = store.Len()
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded dataset",
		"rows", store.Len(),
		"duration", result.Stats.LoadTime)
	if dups := store.DuplicateCities(); len(dups) > 0 {
		r.Logger.Warn("duplicate city names highlight together", "cities", dups)
	}

	// Stage 2 and 3: Build and Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, store, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the dataset of opts.Source and returns it with its content
// hash. Plain file sources are cached by file content; database sources
// are always read.
func (r *Runner) Load(ctx context.Context, opts Options) (*record.Store, string, error) {
	path, _, _ := strings.Cut(opts.Source, "#")
	content, err := os.ReadFile(path)
	if err != nil {
		store, err := ingest.Load(ctx, opts.Source)
		if err != nil {
			return nil, "", err
		}
		return store, DatasetHash(store), nil
	}

	key := r.Keyer.DatasetKey(opts.Source, cache.Hash(content))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var records []record.Record
			if err := json.Unmarshal(data, &records); err == nil {
				if store, err := record.New(records); err == nil {
					observability.Cache().OnCacheHit(ctx, "dataset")
					return store, cache.Hash(data), nil
				}
			}
		}
		observability.Cache().OnCacheMiss(ctx, "dataset")
	}

	store, err := ingest.Load(ctx, opts.Source)
	if err != nil {
		return nil, "", err
	}
	data, err := json.Marshal(store.All())
	if err != nil {
		return nil, "", fmt.Errorf("encode dataset: %w", err)
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Debug("cache write failed", "key", "dataset", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "dataset", len(data))
	}
	return store, cache.Hash(data), nil
}

// RenderWithCacheInfo builds the dashboard for store and renders every
// requested format, reusing cached artifacts when all formats are cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, store *record.Store, hash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if hash == "" {
		hash = DatasetHash(store)
	}

	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, format)
				break
			}
			observability.Cache().OnCacheHit(ctx, format)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	d, err := Build(store, opts)
	if err != nil {
		return nil, false, err
	}
	rendered, err := Render(ctx, d, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, store *record.Store, hash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, store, hash, opts)
	return artifacts, err
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

// DatasetHash hashes the typed records, so equal datasets from different
// sources share artifacts.
func DatasetHash(store *record.Store) string {
	data, _ := json.Marshal(store.All())
	return cache.Hash(data)
}
