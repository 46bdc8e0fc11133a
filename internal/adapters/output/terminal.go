// internal/adapters/output/terminal.go
package output

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"horizon/internal/core/domain"
)

var (
	styleGood = pterm.NewStyle(pterm.FgLightGreen)
	styleBad  = pterm.NewStyle(pterm.FgLightRed)
	styleWarn = pterm.NewStyle(pterm.FgLightYellow)
)

// WriteTable renders a ResearchResult as a boxed pterm table plus a summary
// line, the terminal counterpart of WriteJSON.
func WriteTable(result *domain.ResearchResult) error {
	pterm.DefaultSection.Println("Research Results: " + result.Topic)

	succeeded, failed := 0, 0
	for _, outcome := range result.PerSourceOutcome {
		if outcome.Succeeded {
			succeeded++
		} else {
			failed++
		}
	}

	fmt.Printf("  Quality score   %s\n", styleGood.Sprintf("%d/100", result.QualityScore))
	fmt.Printf("  Sources         %s succeeded, %s failed\n",
		styleGood.Sprintf("%d", succeeded), styleBad.Sprintf("%d", failed))
	fmt.Printf("  Fused results   %d\n\n", len(result.Sources))

	if len(result.Sources) > 0 {
		tableData := pterm.TableData{{"#", "Source", "RRF Score", "Title", "URL"}}
		for i, r := range result.Sources {
			tableData = append(tableData, []string{
				fmt.Sprintf("%d", i+1),
				r.SourceName,
				fmt.Sprintf("%.4f", r.RRFScore),
				truncateDisplay(r.Title, 60),
				truncateDisplay(r.URL, 60),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	} else {
		pterm.Warning.Println("No results survived fusion and deduplication.")
	}

	if failed > 0 {
		pterm.Println()
		pterm.DefaultSection.WithLevel(2).Println("Failed sources")
		for name, outcome := range result.PerSourceOutcome {
			if !outcome.Succeeded {
				fmt.Printf("  %s %s: %s\n", styleBad.Sprint("x"), name, outcome.Reason)
			}
		}
	}

	return nil
}

// WriteHealth renders a backend_health response as a colored status table.
func WriteHealth(statuses map[string]domain.HealthStatus) error {
	tableData := pterm.TableData{{"Source", "Status"}}
	for name, status := range statuses {
		tableData = append(tableData, []string{name, colorizeHealth(status)})
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
}

func colorizeHealth(status domain.HealthStatus) string {
	switch status {
	case domain.HealthHealthy:
		return styleGood.Sprint("healthy")
	case domain.HealthDegraded:
		return styleWarn.Sprint("degraded")
	default:
		return styleBad.Sprint("failed")
	}
}

func truncateDisplay(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
