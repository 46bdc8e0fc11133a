// internal/core/usecases/minhash_dedup.go
package usecases

import (
	"strings"

	"golang.org/x/sync/errgroup"

	"horizon/internal/core/domain"
	"horizon/internal/platform/bloom"
	"horizon/internal/platform/logx"
)

// DefaultSimilarityThreshold and DefaultPermutations are the construction
// defaults for the suppressor, taken from the source system.
const (
	DefaultSimilarityThreshold = 0.80
	DefaultPermutations        = 128
)

// DuplicateSuppressor removes results whose content is an approximate
// near-duplicate of an earlier result's content, even when the URLs differ.
// Threshold and permutation count are construction parameters, never varied
// per request.
type DuplicateSuppressor struct {
	threshold float64
	numPerm   int
	logger    logx.Logger
}

// NewDuplicateSuppressor builds a suppressor; threshold<=0 or numPerm<=0
// select the package defaults.
func NewDuplicateSuppressor(threshold float64, numPerm int, logger logx.Logger) *DuplicateSuppressor {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	if numPerm <= 0 {
		numPerm = DefaultPermutations
	}
	return &DuplicateSuppressor{
		threshold: threshold,
		numPerm:   numPerm,
		logger:    logger.With("component", "dedup"),
	}
}

// signatureTask is a result that survived the exact-content fast path and
// needs a full MinHash signature checked against the LSH index. slot is its
// position in the original (post-fast-path) ordering, used to reassemble
// output order after signatures are computed out of order.
type signatureTask struct {
	slot     int
	result   domain.SearchResult
	shingles []string
	sig      minHashSignature
}

// Suppress scans results in order (expected to already be RRF-ordered) and
// drops any result whose content is near-identical to an earlier survivor's,
// so the highest-ranked representative of any cluster is the one kept.
//
// The work splits into three passes: a serial fast-path pass (cheap,
// stateful via the Bloom filter), a parallel signature-computation pass
// (the CPU-bound part, embarrassingly parallel per candidate), and a serial
// LSH query/insert pass (the index is mutated while scanning, so it cannot
// be parallelized without changing which duplicates are found).
func (d *DuplicateSuppressor) Suppress(results []domain.SearchResult) []domain.SearchResult {
	if len(results) == 0 {
		return results
	}

	// Fast path: an exact-content Bloom filter catches byte-identical (after
	// normalization) duplicates without paying for a full MinHash signature
	// on the common case. A bare MayContain hit is only probable, not
	// certain, so seenContent below confirms true equality before anything
	// is dropped on this path. A request's result count is small enough
	// that keeping the exact strings costs nothing worth trading away
	// precision for.
	seenExact := bloom.NewBloomFilter(len(results), 0.01, d.logger)
	seenContent := make(map[string]struct{}, len(results))

	// kept, in post-fast-path order: either a result with fewer than 3
	// shingle tokens (kept unconditionally, never signed) or a
	// signatureTask awaiting its MinHash signature and an LSH verdict.
	type slotEntry struct {
		immediate *domain.SearchResult
		task      *signatureTask
	}
	slots := make([]slotEntry, 0, len(results))
	tasks := make([]*signatureTask, 0, len(results))
	dropped := 0

	for _, r := range results {
		content := strings.TrimSpace(r.Content)
		if content == "" {
			dropped++
			continue
		}
		lower := strings.ToLower(content)

		shingles := threeWordShingles(lower)
		if len(shingles) == 0 {
			// Fewer than 3 tokens: no LSH candidate can match an empty
			// shingle set, so this result is kept unconditionally and
			// never enters the exact-content or signature/LSH passes.
			result := r
			slots = append(slots, slotEntry{immediate: &result})
			continue
		}

		if seenExact.AddAndCheck(lower) {
			if _, exact := seenContent[lower]; exact {
				dropped++
				continue
			}
			// Bloom said "maybe seen" but seenContent disagrees: a false
			// positive. Fall through and treat this result as new.
		}
		seenContent[lower] = struct{}{}

		task := &signatureTask{slot: len(slots), result: r, shingles: shingles}
		slots = append(slots, slotEntry{task: task})
		tasks = append(tasks, task)
	}

	// Parallel pass: compute every candidate's MinHash signature
	// concurrently. Each computation only reads its own shingle set, so
	// this has no shared mutable state.
	g := new(errgroup.Group)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			t.sig = computeSignature(t.shingles, d.numPerm)
			return nil
		})
	}
	_ = g.Wait()

	// Serial pass: scan slots in their original order, querying and
	// inserting signed candidates into the LSH index one at a time.
	lsh := newLSHIndex(d.threshold, d.numPerm)
	nextKey := 0
	out := make([]domain.SearchResult, 0, len(results))

	for _, s := range slots {
		if s.immediate != nil {
			out = append(out, *s.immediate)
			continue
		}
		if dupes := lsh.Query(s.task.sig); len(dupes) > 0 {
			dropped++
			continue
		}
		lsh.Insert(nextKey, s.task.sig)
		nextKey++
		out = append(out, s.task.result)
	}

	d.logger.Debug("minhash dedup complete",
		"input", len(results), "output", len(out), "dropped", dropped, "threshold", d.threshold)

	return out
}

// threeWordShingles splits lowercased, whitespace-normalized content into
// contiguous 3-word shingles.
func threeWordShingles(lowerContent string) []string {
	words := strings.Fields(lowerContent)
	if len(words) < 3 {
		return nil
	}
	shingles := make([]string, 0, len(words)-2)
	for i := 0; i <= len(words)-3; i++ {
		shingles = append(shingles, strings.Join(words[i:i+3], " "))
	}
	return shingles
}
