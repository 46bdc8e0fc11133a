// internal/adapters/output/terminal_test.go
package output

import (
	"io"
	"os"
	"strings"
	"testing"

	"horizon/internal/core/domain"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = oldStdout

	var buf strings.Builder
	io.Copy(&buf, r)
	return buf.String(), runErr
}

func TestWriteTable_RendersQualityScoreAndCounts(t *testing.T) {
	result := &domain.ResearchResult{
		Topic:        "edge ai chips",
		QualityScore: 84,
		Sources: []domain.SearchResult{
			{URL: "https://a.example", Title: "A", SourceName: "depth-search", RRFScore: 0.032},
		},
		PerSourceOutcome: map[string]domain.PerSourceOutcome{
			"depth-search": {Succeeded: true, ResultCount: 1},
		},
	}

	out, err := captureStdout(t, func() error { return WriteTable(result) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "84/100") {
		t.Error("output should contain the quality score")
	}
	if !strings.Contains(out, "Fused results   1") {
		t.Error("output should report the fused result count")
	}
}

func TestWriteTable_RendersFailedSourceReasons(t *testing.T) {
	result := &domain.ResearchResult{
		Topic: "edge ai chips",
		PerSourceOutcome: map[string]domain.PerSourceOutcome{
			"trends-search": {Succeeded: false, Reason: "timeout after 30s"},
		},
	}

	out, err := captureStdout(t, func() error { return WriteTable(result) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "trends-search") {
		t.Error("output should list the failed source name")
	}
	if !strings.Contains(out, "timeout after 30s") {
		t.Error("output should contain the failure reason")
	}
}

func TestTruncateDisplay(t *testing.T) {
	if got := truncateDisplay("short", 10); got != "short" {
		t.Errorf("short strings should pass through unchanged, got %q", got)
	}
	got := truncateDisplay("this is a very long title that exceeds the limit", 10)
	if len([]rune(got)) > 10 {
		t.Errorf("expected truncated output to respect the width, got %q (len %d)", got, len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected an ellipsis suffix, got %q", got)
	}
}

func TestColorizeHealth_CoversAllStatuses(t *testing.T) {
	for _, s := range []domain.HealthStatus{domain.HealthHealthy, domain.HealthDegraded, domain.HealthFailed} {
		if got := colorizeHealth(s); got == "" {
			t.Errorf("colorizeHealth(%v) should not be empty", s)
		}
	}
}
