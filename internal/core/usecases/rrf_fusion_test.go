// internal/core/usecases/rrf_fusion_test.go
package usecases

import (
	"math"
	"testing"

	"horizon/internal/core/domain"
	"horizon/internal/testutil"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestRRFFusion_SingleSourcePreservesOrder(t *testing.T) {
	fusion := NewRRFFusion(60)
	list := domain.RankedList{{URL: "a"}, {URL: "b"}, {URL: "c"}}

	out := fusion.Fuse(map[string]domain.RankedList{"s1": list}, []string{"s1"})

	testutil.AssertEqual(t, len(out), 3, "result count")
	testutil.AssertEqual(t, out[0].URL, "a", "rank 1")
	testutil.AssertEqual(t, out[1].URL, "b", "rank 2")
	testutil.AssertEqual(t, out[2].URL, "c", "rank 3")
}

func TestRRFFusion_EqualInputsDoubleScore(t *testing.T) {
	fusion := NewRRFFusion(60)
	list := domain.RankedList{{URL: "a"}, {URL: "b"}}

	singleOut := fusion.Fuse(map[string]domain.RankedList{"s1": list}, []string{"s1"})
	doubleOut := fusion.Fuse(map[string]domain.RankedList{"s1": list, "s2": list}, []string{"s1", "s2"})

	testutil.AssertEqual(t, doubleOut[0].URL, "a", "rank 1 preserved")
	testutil.AssertEqual(t, doubleOut[1].URL, "b", "rank 2 preserved")

	if !approxEqual(doubleOut[0].RRFScore, singleOut[0].RRFScore*2, 1e-9) {
		t.Errorf("expected doubled score %v, got %v", singleOut[0].RRFScore*2, doubleOut[0].RRFScore)
	}
}

func TestRRFFusion_MultiSourceRank1OutranksSingleSourceRank1(t *testing.T) {
	fusion := NewRRFFusion(60)
	a := domain.RankedList{{URL: "X"}, {URL: "a1"}}
	b := domain.RankedList{{URL: "b1"}, {URL: "X"}}
	c := domain.RankedList{{URL: "c1"}, {URL: "X"}}

	out := fusion.Fuse(map[string]domain.RankedList{"A": a, "B": b, "C": c}, []string{"A", "B", "C"})

	testutil.AssertEqual(t, out[0].URL, "X", "X should rank first")
	expected := 1.0/61 + 1.0/62 + 1.0/62
	if !approxEqual(out[0].RRFScore, expected, 1e-9) {
		t.Errorf("expected X score %v, got %v", expected, out[0].RRFScore)
	}

	// b1 and c1 are single-source rank-1s tying at 1/61 and sort by
	// registration order; a1 sits at rank 2 in A, so its 1/62 comes last.
	testutil.AssertEqual(t, out[1].URL, "b1", "b1 next by registration order")
	testutil.AssertEqual(t, out[2].URL, "c1", "c1 next by registration order")
	testutil.AssertEqual(t, out[3].URL, "a1", "a1 last at rank 2")
}

func TestRRFFusion_RankTenAndRankOneOutranksSingleRankOne(t *testing.T) {
	fusion := NewRRFFusion(60)
	// Y at rank 10 in source A, rank 1 in source B.
	aList := make(domain.RankedList, 10)
	for i := 0; i < 9; i++ {
		aList[i] = domain.SearchResult{URL: "filler-" + string(rune('a'+i))}
	}
	aList[9] = domain.SearchResult{URL: "Y"}
	bList := domain.RankedList{{URL: "Y"}}
	soloList := domain.RankedList{{URL: "Z"}}

	out := fusion.Fuse(map[string]domain.RankedList{"A": aList, "B": bList, "C": soloList}, []string{"A", "B", "C"})

	var yScore, zScore float64
	for _, r := range out {
		switch r.URL {
		case "Y":
			yScore = r.RRFScore
		case "Z":
			zScore = r.RRFScore
		}
	}
	if yScore <= zScore {
		t.Errorf("Y (rank10+rank1) should outrank Z (single rank1): y=%v z=%v", yScore, zScore)
	}
}

func TestRRFFusion_DropsEmptyURL(t *testing.T) {
	fusion := NewRRFFusion(60)
	list := domain.RankedList{{URL: ""}, {URL: "a"}}

	out := fusion.Fuse(map[string]domain.RankedList{"s1": list}, []string{"s1"})

	testutil.AssertEqual(t, len(out), 1, "empty URL result dropped")
	testutil.AssertEqual(t, out[0].URL, "a", "surviving URL")
}

func TestRRFFusion_PreservesFirstOccurrenceMetadata(t *testing.T) {
	fusion := NewRRFFusion(60)
	first := domain.SearchResult{URL: "a", Title: "first title", SourceName: "s1"}
	second := domain.SearchResult{URL: "a", Title: "second title", SourceName: "s2"}

	out := fusion.Fuse(map[string]domain.RankedList{
		"s1": {first},
		"s2": {second},
	}, []string{"s1", "s2"})

	testutil.AssertEqual(t, len(out), 1, "deduplicated to one URL")
	testutil.AssertEqual(t, out[0].Title, "first title", "first-seen metadata wins")
}

func TestRRFFusion_AllFiveSourcesNoOverlap(t *testing.T) {
	fusion := NewRRFFusion(60)
	bySource := map[string]domain.RankedList{
		"s1": {{URL: "s1-0"}, {URL: "s1-1"}},
		"s2": {{URL: "s2-0"}, {URL: "s2-1"}, {URL: "s2-2"}},
		"s3": {{URL: "s3-0"}, {URL: "s3-1"}},
		"s4": {{URL: "s4-0"}, {URL: "s4-1"}},
		"s5": {{URL: "s5-0"}},
	}
	order := []string{"s1", "s2", "s3", "s4", "s5"}

	out := fusion.Fuse(bySource, order)

	testutil.AssertEqual(t, len(out), 10, "total result count")
	rank1URLs := map[string]bool{"s1-0": true, "s2-0": true, "s3-0": true, "s4-0": true, "s5-0": true}
	for i := 0; i < 5; i++ {
		if !rank1URLs[out[i].URL] {
			t.Errorf("position %d expected a rank-1 URL, got %s", i, out[i].URL)
		}
	}
}
