// internal/sources/httpsearch/httpsearch.go
package httpsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"horizon/internal/core/domain"
	"horizon/internal/core/ports"
	horizonerrors "horizon/internal/platform/errors"
	"horizon/internal/platform/logx"
	"horizon/internal/platform/sourceset"
)

// Source queries a JSON search API (a Tavily/SearXNG-shaped endpoint: GET
// with a query string parameter, JSON object response whose "results" array
// holds {url,title,snippet,...} objects) and adapts its response into ranked results. One Source instance
// serves one horizon; a deployment registers one per backend it wants to
// reach.
type Source struct {
	name      string
	horizon   domain.Horizon
	endpoint  string
	queryKey  string
	apiKeyHdr string
	apiKey    string
	client    *http.Client
	logger    logx.Logger
}

// New builds an HTTP search source named name, targeting horizon, from cfg.
// cfg.Custom recognizes: endpoint (required), query_param (default "q"),
// api_key, api_key_header (default "Authorization").
func New(name string, horizon domain.Horizon, cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error) {
	endpoint := sourceset.String(cfg.Custom, "endpoint", "")
	if endpoint == "" {
		return nil, fmt.Errorf("httpsearch source %s: endpoint is required", name)
	}
	return &Source{
		name:      name,
		horizon:   horizon,
		endpoint:  endpoint,
		queryKey:  sourceset.String(cfg.Custom, "query_param", "q"),
		apiKeyHdr: sourceset.String(cfg.Custom, "api_key_header", "Authorization"),
		apiKey:    sourceset.String(cfg.Custom, "api_key", ""),
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger.With("source", name),
	}, nil
}

func (s *Source) Name() string            { return s.name }
func (s *Source) Horizon() domain.Horizon { return s.horizon }
func (s *Source) CostPerQuery() float64   { return 0 }

// Search follows the no-escape contract: any transport, status, or decode
// failure is logged and returns (nil, nil), never an error.
func (s *Source) Search(ctx context.Context, query string, maxResults int, opts ports.SearchOptions) (domain.RankedList, error) {
	reqURL := s.endpoint + "?" + url.Values{s.queryKey: {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		s.logger.Warn("failed to build request", "error", err.Error())
		return nil, nil
	}
	if s.apiKey != "" {
		req.Header.Set(s.apiKeyHdr, s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		classified := horizonerrors.ErrConnectionFailed
		if ctx.Err() != nil {
			classified = horizonerrors.ErrTimeout
		}
		s.logger.Warn("request failed", "error", horizonerrors.Wrap(classified, err.Error()).Error())
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("unexpected status", "error", classifyStatus(resp.StatusCode).Error(), "status", resp.StatusCode)
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Warn("failed to read response", "error", err.Error())
		return nil, nil
	}

	var payload struct {
		Results []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			Snippet     string `json:"snippet"`
			Content     string `json:"content"`
			PublishedAt string `json:"published_at"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		s.logger.Warn("failed to parse response", "error", horizonerrors.Wrap(horizonerrors.ErrInvalidResponse, err.Error()).Error())
		return nil, nil
	}

	list := make(domain.RankedList, 0, len(payload.Results))
	for _, r := range payload.Results {
		if len(list) >= maxResults {
			break
		}
		u := strings.TrimSpace(r.URL)
		if u == "" {
			continue
		}
		result := domain.SearchResult{
			URL:        u,
			Title:      r.Title,
			Snippet:    r.Snippet,
			Content:    r.Content,
			SourceName: s.name,
		}
		if ts, err := time.Parse(time.RFC3339, r.PublishedAt); err == nil {
			result.PublishedAt = ts
		}
		list = append(list, result)
	}

	s.logger.Debug("search completed", "query", query, "results", len(list))
	return list, nil
}

// classifyStatus maps an HTTP status to the diagnostic sentinel logged
// alongside it; the classification never reaches the orchestrator, which
// only ever sees (nil, nil) from a failed call per the no-escape contract.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusTooManyRequests:
		return horizonerrors.ErrRateLimit
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return horizonerrors.ErrUnauthorized
	case status >= 500:
		return horizonerrors.ErrServiceUnavailable
	default:
		return horizonerrors.ErrInvalidResponse
	}
}

// HealthCheck issues a lightweight request to confirm the endpoint responds.
func (s *Source) HealthCheck(ctx context.Context) domain.HealthStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return domain.HealthFailed
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return domain.HealthFailed
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return domain.HealthHealthy
	case resp.StatusCode < 500:
		return domain.HealthDegraded
	default:
		return domain.HealthFailed
	}
}
