// internal/core/usecases/query_specializer.go
package usecases

import (
	"strings"

	"horizon/internal/core/domain"
)

const maxQueryLen = 300

// QuerySpecializer expands a base topic into one query variant per target
// horizon. It is a pure function of its inputs: no I/O.
type QuerySpecializer struct{}

// NewQuerySpecializer creates a query specializer.
func NewQuerySpecializer() *QuerySpecializer {
	return &QuerySpecializer{}
}

// ForHorizon builds the horizon-appropriate query variant for topic.
func (QuerySpecializer) ForHorizon(h domain.Horizon, topic string, cfg domain.ResearchConfig, competitorGaps, keywords []string) string {
	switch h {
	case domain.HorizonDepth:
		return depthQuery(topic, cfg, keywords)
	case domain.HorizonBreadth:
		return breadthQuery(topic, cfg, competitorGaps)
	case domain.HorizonTrends:
		return trendsQuery(topic, cfg)
	default:
		return genericQuery(topic, keywords)
	}
}

func depthQuery(topic string, cfg domain.ResearchConfig, keywords []string) string {
	parts := []string{topic}
	if cfg.Domain != "" {
		parts = append(parts, cfg.Domain)
	}
	if cfg.Vertical != "" {
		parts = append(parts, cfg.Vertical)
	}
	parts = append(parts, firstN(keywords, 2)...)
	return truncate(strings.Join(parts, " "))
}

func breadthQuery(topic string, cfg domain.ResearchConfig, competitorGaps []string) string {
	parts := []string{topic, "recent developments"}
	if cfg.Market != "" {
		parts = append(parts, cfg.Market)
	}
	parts = append(parts, firstN(competitorGaps, 1)...)
	return truncate(strings.Join(parts, " "))
}

func trendsQuery(topic string, cfg domain.ResearchConfig) string {
	parts := []string{topic, "trends", "emerging developments", "future outlook"}
	if cfg.Domain != "" {
		parts = append(parts, cfg.Domain)
	}
	if cfg.Vertical != "" {
		parts = append(parts, cfg.Vertical)
	}
	return truncate(strings.Join(parts, " "))
}

func genericQuery(topic string, keywords []string) string {
	parts := append([]string{topic}, firstN(keywords, 2)...)
	return truncate(strings.Join(parts, " "))
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func truncate(s string) string {
	if len(s) <= maxQueryLen {
		return s
	}
	return s[:maxQueryLen]
}
