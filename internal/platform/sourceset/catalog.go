// internal/platform/sourceset/catalog.go
package sourceset

import (
	"fmt"
	"sort"
	"sync"

	"horizon/internal/core/ports"
	"horizon/internal/platform/logx"
)

// Catalog holds source factories keyed by name and builds enabled sources
// from configuration. Unlike the pack's registry it carries no global
// instance: every caller that needs a Catalog (cmd/horizon) constructs its
// own, so two catalogs in the same process never share registration state.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]ports.SourceFactory
	metadata  map[string]ports.SourceMetadata
	logger    logx.Logger
}

// NewCatalog builds an empty, instance-owned catalog.
func NewCatalog(logger logx.Logger) *Catalog {
	if logger == nil {
		logger = logx.New()
	}
	return &Catalog{
		factories: make(map[string]ports.SourceFactory),
		metadata:  make(map[string]ports.SourceMetadata),
		logger:    logger.With("component", "sourceset"),
	}
}

// Register adds a source factory under name. Registering the same name
// twice on one Catalog is an error; a fresh Catalog has no such conflict
// with any other Catalog in the process.
func (c *Catalog) Register(name string, factory ports.SourceFactory, meta ports.SourceMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name == "" {
		return fmt.Errorf("source name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for source %s", name)
	}
	if _, exists := c.factories[name]; exists {
		return fmt.Errorf("source %s is already registered on this catalog", name)
	}

	c.factories[name] = factory
	c.metadata[name] = meta
	c.logger.Debug("source registered", "name", name, "horizon", meta.Horizon.String())
	return nil
}

// Build constructs every enabled, registered source named in configs, in
// descending priority order, and returns them alongside any per-source
// construction errors (a source failing to build is skipped, not fatal).
func (c *Catalog) Build(configs map[string]ports.SourceConfig, logger logx.Logger) ([]ports.Source, []error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	type candidate struct {
		name     string
		config   ports.SourceConfig
		priority int
	}

	candidates := make([]candidate, 0, len(configs))
	var buildErrs []error

	for name, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		if _, exists := c.factories[name]; !exists {
			buildErrs = append(buildErrs, fmt.Errorf("source %s not registered in catalog", name))
			continue
		}
		if cfg.Priority < 0 {
			cfg.Priority = 5
		}
		candidates = append(candidates, candidate{name: name, config: cfg, priority: cfg.Priority})
	}

	// configs is a map, so candidates are collected in random order; break
	// ties on name so two sources sharing a priority still produce the same
	// registration order on every run. Downstream fusion's tie-break relies
	// on that order being stable across runs, not just within one.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority > candidates[j].priority
		}
		return candidates[i].name < candidates[j].name
	})

	sources := make([]ports.Source, 0, len(candidates))
	for _, cand := range candidates {
		source, err := c.factories[cand.name](cand.config, logger)
		if err != nil {
			buildErrs = append(buildErrs, fmt.Errorf("failed to build source %s: %w", cand.name, err))
			continue
		}
		sources = append(sources, source)
	}

	logger.Info("sources built", "count", len(sources), "requested", len(configs))
	return sources, buildErrs
}

// Names returns every registered source name, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metadata returns the registered metadata for name, if any.
func (c *Catalog) Metadata(name string) (ports.SourceMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.metadata[name]
	return meta, ok
}
