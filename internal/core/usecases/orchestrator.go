// internal/core/usecases/orchestrator.go
package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"horizon/internal/core/domain"
	"horizon/internal/core/ports"
	"horizon/internal/platform/logx"
	"horizon/internal/platform/resilience"
)

// horizonMaxResults are pacing hints, not hard limits, per source horizon.
var horizonMaxResults = map[domain.Horizon]int{
	domain.HorizonDepth:    10,
	domain.HorizonBreadth:  30,
	domain.HorizonTrends:   12,
	domain.HorizonCurated:  50,
	domain.HorizonBreaking: 50,
}

// SourceRegistration binds one Source to its construction-time config. The
// order registrations are passed in is the orchestrator's source-registration
// order: the deterministic order fusion iterates sources in.
type SourceRegistration struct {
	Source ports.Source
	Config ports.SourceConfig
}

// OrchestratorOptions configures a new Orchestrator. Registration is
// instance-owned: no global registry is consulted, and two Orchestrator
// instances in the same process never share source state.
type OrchestratorOptions struct {
	Sources           []SourceRegistration
	RRFConstant       int
	DedupThreshold    float64
	DedupPermutations int
	MaxWorkers        int
	DefaultTimeout    time.Duration
	Logger            logx.Logger
	Observers         []ports.Notifier
	// TestingMode skips the "at least one enabled source" construction
	// check, so unit tests can exercise statistics/reset operations
	// against a sourceless orchestrator.
	TestingMode bool
}

type sourceEntry struct {
	source  ports.Source
	cfg     ports.SourceConfig
	breaker *resilience.CircuitBreaker
}

// Orchestrator is the parallel source fan-out engine: it launches one task
// per enabled source, bounded by an independent timeout and a circuit
// breaker, waits for all tasks to terminate, and hands successful outcomes
// to RRF fusion and MinHash deduplication.
type Orchestrator struct {
	entries     []sourceEntry
	sourceOrder []string

	specializer *QuerySpecializer
	rrf         *RRFFusion
	dedup       *DuplicateSuppressor
	stats       *StatsService

	maxWorkers     int
	defaultTimeout time.Duration
	logger         logx.Logger

	observers []ports.Notifier
	notifyWg  sync.WaitGroup
	notifySem chan struct{}
}

// NewOrchestrator constructs an orchestrator from its source registrations.
// Construction fails with ErrNoSourcesAvailable if every source is disabled
// and TestingMode was not requested.
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 8
	}
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = 30 * time.Second
	}

	entries := make([]sourceEntry, 0, len(opts.Sources))
	order := make([]string, 0, len(opts.Sources))
	for _, reg := range opts.Sources {
		if !reg.Config.Enabled {
			continue
		}
		timeout := reg.Config.Timeout
		if timeout <= 0 {
			timeout = opts.DefaultTimeout
		}
		reg.Config.Timeout = timeout
		entries = append(entries, sourceEntry{
			source:  reg.Source,
			cfg:     reg.Config,
			breaker: resilience.NewCircuitBreaker(5, 60*time.Second, 3),
		})
		order = append(order, reg.Source.Name())
	}

	if len(entries) == 0 && !opts.TestingMode {
		return nil, domain.ErrNoSourcesAvailable
	}

	maxNotifiers := len(opts.Observers)*2 + 4

	return &Orchestrator{
		entries:        entries,
		sourceOrder:    order,
		specializer:    NewQuerySpecializer(),
		rrf:            NewRRFFusion(opts.RRFConstant),
		dedup:          NewDuplicateSuppressor(opts.DedupThreshold, opts.DedupPermutations, opts.Logger),
		stats:          NewStatsService(order),
		maxWorkers:     opts.MaxWorkers,
		defaultTimeout: opts.DefaultTimeout,
		logger:         opts.Logger.With("component", "orchestrator"),
		observers:      opts.Observers,
		notifySem:      make(chan struct{}, maxNotifiers),
	}, nil
}

// Run executes one research request: fan-out, fuse, deduplicate, score.
func (o *Orchestrator) Run(ctx context.Context, req domain.ResearchRequest) (*domain.ResearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o.notify(ctx, ports.NewEvent(ports.EventTypeResearchStarted, "orchestrator", req.Topic, nil))

	outcomes := o.executeSources(ctx, req)

	bySource := make(map[string]domain.RankedList, len(outcomes))
	perSource := make(map[string]domain.PerSourceOutcome, len(outcomes))
	successCount, failCount := 0, 0

	for _, outcome := range outcomes {
		o.stats.Record(outcome)
		if outcome.Succeeded() {
			successCount++
			bySource[outcome.SourceName] = outcome.List
			perSource[outcome.SourceName] = domain.PerSourceOutcome{
				Succeeded:   true,
				ResultCount: len(outcome.List),
			}
		} else {
			failCount++
			perSource[outcome.SourceName] = domain.PerSourceOutcome{
				Succeeded: false,
				Reason:    outcome.Err.Error(),
			}
		}
	}

	if successCount == 0 {
		o.notify(ctx, ports.NewEvent(ports.EventTypeResearchFailed, "orchestrator", req.Topic, perSource))
		reasons := make(map[string]string, len(perSource))
		for name, outcome := range perSource {
			reasons[name] = outcome.Reason
		}
		return nil, &domain.AllSourcesFailedError{Reasons: reasons}
	}

	fused := o.rrf.Fuse(bySource, o.sourceOrder)
	deduped := o.dedup.Suppress(fused)

	result := &domain.ResearchResult{
		Topic:            req.Topic,
		Sources:          deduped,
		PerSourceOutcome: perSource,
		QualityScore:     CalculateQualityScore(len(deduped), successCount, failCount),
		ResearchedAt:     time.Now(),
	}

	o.notify(ctx, ports.NewEvent(ports.EventTypeResearchCompleted, "orchestrator", req.Topic, result))
	o.notifyWg.Wait()

	return result, nil
}

// executeSources launches one task per registered source, bounded by a
// max_workers semaphore, and waits for every task to terminate before
// returning. No task can cancel or be cancelled by another.
func (o *Orchestrator) executeSources(ctx context.Context, req domain.ResearchRequest) []domain.SourceOutcome {
	outcomes := make([]domain.SourceOutcome, len(o.entries))
	sem := make(chan struct{}, o.maxWorkers)
	var wg sync.WaitGroup

	for i, entry := range o.entries {
		wg.Add(1)
		go func(i int, entry sourceEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = o.executeSource(ctx, entry, req)
		}(i, entry)
	}

	wg.Wait()
	return outcomes
}

// executeSource runs a single source task under an independent timeout and
// circuit-breaker gate. It never panics out: a recover() barrier converts a
// crashing source into a Failed outcome so it cannot corrupt its peers.
func (o *Orchestrator) executeSource(ctx context.Context, entry sourceEntry, req domain.ResearchRequest) (outcome domain.SourceOutcome) {
	name := entry.source.Name()
	outcome.SourceName = name

	if !entry.breaker.Allow() {
		outcome.Err = fmt.Errorf("circuit open for source %s", name)
		o.notify(ctx, ports.NewEvent(ports.EventTypeSourceFailed, name, req.Topic, outcome.Err.Error()))
		return outcome
	}

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("source %s panicked: %v", name, r)
			entry.breaker.RecordFailure()
		}
	}()

	o.notify(ctx, ports.NewEvent(ports.EventTypeSourceStarted, name, req.Topic, nil))

	horizon := entry.source.Horizon()
	query := o.specializer.ForHorizon(horizon, req.Topic, req.Config, req.CompetitorGaps, req.Keywords)
	maxResults := horizonMaxResults[horizon]

	callCtx, cancel := context.WithTimeout(ctx, entry.cfg.Timeout)
	defer cancel()

	list, err := entry.source.Search(callCtx, query, maxResults, ports.SearchOptions{Language: req.Config.Language})
	if err != nil {
		entry.breaker.RecordFailure()
		outcome.Err = err
		eventType := ports.EventTypeSourceFailed
		if callCtx.Err() == context.DeadlineExceeded {
			eventType = ports.EventTypeSourceTimeout
			outcome.Err = fmt.Errorf("source %s timed out: %w", name, err)
		}
		o.notify(ctx, ports.NewEvent(eventType, name, req.Topic, outcome.Err.Error()))
		return outcome
	}

	entry.breaker.RecordSuccess()
	outcome.List = list
	o.notify(ctx, ports.NewEvent(ports.EventTypeSourceCompleted, name, req.Topic, len(list)))
	return outcome
}

// HealthCheck samples every registered source concurrently, each bounded by
// an independent timeout; a source-level failure maps to HealthFailed and
// never propagates. This is a pure sampling fan-out (unlike the main
// research fan-out, it carries no per-task timeout/circuit-breaker
// bookkeeping), so it uses errgroup rather than a hand-rolled
// WaitGroup+mutex pair.
func (o *Orchestrator) HealthCheck(ctx context.Context) map[string]domain.HealthStatus {
	out := make(map[string]domain.HealthStatus, len(o.entries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, entry := range o.entries {
		entry := entry
		g.Go(func() error {
			status := o.sampleHealth(gctx, entry)
			mu.Lock()
			out[entry.source.Name()] = status
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return out
}

func (o *Orchestrator) sampleHealth(ctx context.Context, entry sourceEntry) (status domain.HealthStatus) {
	status = domain.HealthFailed
	defer func() {
		if recover() != nil {
			status = domain.HealthFailed
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, entry.cfg.Timeout)
	defer cancel()

	return entry.source.HealthCheck(callCtx)
}

// Statistics returns per-source counters plus the aggregate overall counters.
func (o *Orchestrator) Statistics() (map[string]domain.SourceStats, domain.OverallStats) {
	return o.stats.Snapshot(), o.stats.Overall()
}

// ResetStatistics zeroes all counters; no other observable effect.
func (o *Orchestrator) ResetStatistics() {
	o.stats.Reset()
}

// notify fans an event out to every observer asynchronously, bounded by a
// semaphore and an independent per-observer timeout, the way a slow or
// crashing observer can never stall the request that produced the event.
func (o *Orchestrator) notify(ctx context.Context, event ports.Event) {
	for _, observer := range o.observers {
		o.notifySem <- struct{}{}
		o.notifyWg.Add(1)
		go func(observer ports.Notifier) {
			defer o.notifyWg.Done()
			defer func() { <-o.notifySem }()

			notifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						done <- fmt.Errorf("notifier panicked: %v", r)
					}
				}()
				done <- observer.Notify(notifyCtx, event)
			}()

			select {
			case err := <-done:
				if err != nil {
					o.logger.Warn("notifier failed", "error", err.Error())
				}
			case <-notifyCtx.Done():
				o.logger.Warn("notifier timed out")
			}
		}(observer)
	}
}
