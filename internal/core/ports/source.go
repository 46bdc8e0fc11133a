// internal/core/ports/source.go
package ports

import (
	"context"
	"time"

	"horizon/internal/core/domain"
	"horizon/internal/platform/logx"
)

// Source is the primary port every information source must implement. Its
// Search method follows a no-escape contract: on any internal failure
// (network, rate-limit, authentication, parse error) it returns an empty
// RankedList and a nil error, recording the failure in its own diagnostic
// logs. It may return an error only on catastrophic invariant violation;
// the orchestrator treats that as a Failed outcome.
type Source interface {
	// Name returns the source's stable registration name.
	Name() string

	// Horizon returns the source's immutable editorial specialty.
	Horizon() domain.Horizon

	// Search executes one query against the source and returns a ranked
	// list of at most maxResults items in the source's own rank order.
	Search(ctx context.Context, query string, maxResults int, opts SearchOptions) (domain.RankedList, error)

	// HealthCheck performs a side-effect-free liveness sample.
	HealthCheck(ctx context.Context) domain.HealthStatus

	// CostPerQuery reports an estimated nonnegative cost, for budget
	// accounting only; it is never consulted by fusion or quality scoring.
	CostPerQuery() float64
}

// SearchOptions carries the recognized, source-agnostic hints a query
// specializer attaches to a search call.
type SearchOptions struct {
	Language string
}

// SourceConfig is the construction-time configuration for one source slot.
type SourceConfig struct {
	Enabled   bool
	Timeout   time.Duration
	Priority  int
	RateLimit int
	Custom    map[string]string
}

// DefaultSourceConfig returns sensible per-source defaults.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Enabled:  true,
		Timeout:  30 * time.Second,
		Priority: 5,
		Custom:   make(map[string]string),
	}
}

// SourceFactory builds a Source from its configuration; used by a Catalog
// (internal/platform/sourceset) to construct sources by name.
type SourceFactory func(cfg SourceConfig, logger logx.Logger) (Source, error)

// SourceMetadata describes a registerable source for catalog listings.
type SourceMetadata struct {
	Name        string
	Description string
	Horizon     domain.Horizon
	Priority    int
}
