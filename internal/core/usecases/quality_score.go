// internal/core/usecases/quality_score.go
package usecases

// CalculateQualityScore computes the coarse 0-100 quality indicator from
// fused result coverage, source health, and source diversity. It is purely
// informational; nothing downstream consumes it for ordering.
func CalculateQualityScore(fusedCount, successfulCount, failedCount int) int {
	coverage := 50.0 * float64(fusedCount) / 20.0
	if coverage > 50 {
		coverage = 50
	}

	var health float64
	if total := successfulCount + failedCount; total > 0 {
		health = 30.0 * float64(successfulCount) / float64(total)
	}

	var diversity float64
	switch {
	case successfulCount >= 3:
		diversity = 20
	case successfulCount == 2:
		diversity = 13
	case successfulCount == 1:
		diversity = 7
	default:
		diversity = 0
	}

	return int(coverage + health + diversity)
}
