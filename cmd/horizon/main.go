// cmd/horizon/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"horizon/internal/adapters/output"
	"horizon/internal/core/domain"
	"horizon/internal/core/ports"
	"horizon/internal/core/usecases"
	"horizon/internal/platform/config"
	"horizon/internal/platform/logx"
	"horizon/internal/platform/sourceset"
	"horizon/internal/sources/feed"
	"horizon/internal/sources/httpsearch"
)

var (
	// Fillable with -ldflags at build time.
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}
	if cfg.PrintVersion {
		fmt.Printf("horizon %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if cfg.Topic == "" {
		fmt.Fprintln(os.Stderr, "missing --topic, try: horizon --topic \"edge ai chips\"")
		os.Exit(2)
	}

	logger := logx.New()
	logger.Info("horizon starting",
		"version", version,
		"commit", commit,
		"topic", cfg.Topic,
		"workers", cfg.MaxWorkers,
	)

	ctx, cancel := rootContextWithSignals(cfg.TimeoutS)
	defer cancel()

	catalog := buildCatalog(logger)
	sources, buildErrs := catalog.Build(cfg.Sources, logger)
	for _, e := range buildErrs {
		logger.Warn("source build error", "error", e.Error())
	}

	regs := make([]usecases.SourceRegistration, 0, len(sources))
	for _, src := range sources {
		regs = append(regs, usecases.SourceRegistration{
			Source: src,
			Config: cfg.Sources[src.Name()],
		})
	}

	orch, err := usecases.NewOrchestrator(usecases.OrchestratorOptions{
		Sources:           regs,
		RRFConstant:       cfg.Fusion.RRFConstant,
		DedupThreshold:    cfg.Dedup.Threshold,
		DedupPermutations: cfg.Dedup.Permutations,
		MaxWorkers:        cfg.MaxWorkers,
		DefaultTimeout:    cfg.Timeout(),
		Logger:            logger,
	})
	if err != nil {
		logger.Err(err, "phase", "construct")
		os.Exit(2)
	}

	start := time.Now()
	result, runErr := orch.Run(ctx, domain.ResearchRequest{
		Topic: cfg.Topic,
		Config: domain.ResearchConfig{
			Domain:   cfg.Domain,
			Market:   cfg.Market,
			Vertical: cfg.Vertical,
			Language: cfg.Language,
			FeedURLs: cfg.FeedURLs,
		},
	})
	elapsed := time.Since(start)

	if runErr != nil {
		logger.Err(runErr, "phase", "run", "elapsed_ms", elapsed.Milliseconds())
		os.Exit(1)
	}

	if outErr := writeOutput(cfg, result); outErr != nil {
		logger.Err(outErr, "phase", "output")
		os.Exit(1)
	}

	logger.Info("horizon finished",
		"elapsed_ms", elapsed.Milliseconds(),
		"fused_sources", len(result.Sources),
		"quality_score", result.QualityScore,
	)
}

// buildCatalog registers every known source under its catalog name. This is
// the single assembly point for new backends; add a Register call here
// without touching the rest of main.
func buildCatalog(logger logx.Logger) *sourceset.Catalog {
	catalog := sourceset.NewCatalog(logger)

	register(catalog, "depth-search", domain.HorizonDepth, httpsearch.New)
	register(catalog, "breadth-search", domain.HorizonBreadth, httpsearch.New)
	register(catalog, "trends-search", domain.HorizonTrends, httpsearch.New)

	_ = catalog.Register("curated-feed", func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error) {
		urls := splitNonEmpty(sourceset.String(cfg.Custom, "feed_urls", ""))
		return feed.New("curated-feed", urls, logger), nil
	}, ports.SourceMetadata{
		Name:    "curated-feed",
		Horizon: domain.HorizonCurated,
	})

	return catalog
}

func register(catalog *sourceset.Catalog, name string, horizon domain.Horizon, factory func(string, domain.Horizon, ports.SourceConfig, logx.Logger) (ports.Source, error)) {
	err := catalog.Register(name, func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error) {
		return factory(name, horizon, cfg, logger)
	}, ports.SourceMetadata{Name: name, Horizon: horizon})
	if err != nil {
		logx.New().Warn("catalog registration failed", "source", name, "error", err.Error())
	}
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// writeOutput decides and executes the single configured output format.
// Keeping it isolated from the main flow makes new formats addable without
// touching the run sequence.
func writeOutput(cfg config.Config, result *domain.ResearchResult) error {
	if cfg.OutputFormat == "json" {
		var w = os.Stdout
		var closeFn func() error
		if cfg.OutputPath != "" {
			f, err := os.Create(cfg.OutputPath)
			if err != nil {
				return fmt.Errorf("open output path: %w", err)
			}
			w = f
			closeFn = f.Close
		}
		if err := output.WriteJSON(w, result); err != nil {
			if closeFn != nil {
				closeFn()
			}
			return fmt.Errorf("json output: %w", err)
		}
		if closeFn != nil {
			return closeFn()
		}
		return nil
	}

	return output.WriteTable(result)
}

// rootContextWithSignals creates a root context with an optional timeout and
// SIGINT/SIGTERM cancellation; cancelling it propagates into every
// outstanding source call the orchestrator has in flight.
func rootContextWithSignals(timeoutSeconds int) (context.Context, context.CancelFunc) {
	var base context.Context = context.Background()
	var cancel context.CancelFunc

	if timeoutSeconds > 0 {
		base, cancel = context.WithTimeout(base, time.Duration(timeoutSeconds)*time.Second)
	} else {
		base, cancel = context.WithCancel(base)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()

	return base, cancel
}
