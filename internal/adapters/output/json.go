// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"horizon/internal/core/domain"
)

// jsonResult is the wire shape of a research_topic response: keyed by topic
// rather than by target, since a research request has no notion of scope.
type jsonResult struct {
	Topic        string                              `json:"topic"`
	QualityScore int                                 `json:"quality_score"`
	ResearchedAt string                              `json:"researched_at"`
	Sources      []jsonSearchResult                  `json:"sources"`
	PerSource    map[string]domain.PerSourceOutcome `json:"per_source"`
}

type jsonSearchResult struct {
	URL         string            `json:"url"`
	Title       string            `json:"title,omitempty"`
	Snippet     string            `json:"snippet,omitempty"`
	Content     string            `json:"content,omitempty"`
	SourceName  string            `json:"source"`
	RRFScore    float64           `json:"rrf_score"`
	PublishedAt string            `json:"published_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// WriteJSON serializes a ResearchResult as indented JSON to w.
func WriteJSON(w io.Writer, result *domain.ResearchResult) error {
	out := jsonResult{
		Topic:        result.Topic,
		QualityScore: result.QualityScore,
		ResearchedAt: result.ResearchedAt.Format("2006-01-02T15:04:05Z07:00"),
		PerSource:    result.PerSourceOutcome,
		Sources:      make([]jsonSearchResult, len(result.Sources)),
	}

	for i, r := range result.Sources {
		entry := jsonSearchResult{
			URL:        r.URL,
			Title:      r.Title,
			Snippet:    r.Snippet,
			Content:    r.Content,
			SourceName: r.SourceName,
			RRFScore:   r.RRFScore,
			Metadata:   r.Metadata,
		}
		if !r.PublishedAt.IsZero() {
			entry.PublishedAt = r.PublishedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		out.Sources[i] = entry
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
