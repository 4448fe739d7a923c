//go:build !integration

package recommend

import (
	"testing"

	"procureMatch/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fusionService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(&fakeCatalog{}, &fakeInteractions{}, &fakeGraph{}, &fakeCompletion{}, nil, DefaultConfig())
	require.NoError(t, err)
	return svc
}

func TestFuseAndRankHybridScore(t *testing.T) {
	svc := fusionService(t)

	candidates := []domain.CandidateItem{{ItemID: "a"}}
	vectors := map[string]*domain.ScoreVector{
		"a": {ItemID: "a", Collaborative: 1.0, Content: 1.0, Graph: 1.0, Semantic: 1.0},
	}

	ranked := svc.fuseAndRank(candidates, vectors, 10, false)
	require.Len(t, ranked, 1)
	assert.InDelta(t, 1.0, ranked[0].HybridScore, 1e-9)

	vectors["a"] = &domain.ScoreVector{ItemID: "a", Collaborative: 0.4, Content: 0.8, Graph: 0.5, Semantic: 0.2}
	ranked = svc.fuseAndRank(candidates, vectors, 10, false)
	// 0.25*0.4 + 0.25*0.8 + 0.30*0.5 + 0.20*0.2 = 0.49
	assert.InDelta(t, 0.49, ranked[0].HybridScore, 1e-9)
}

func TestFuseAndRankOrdersByHybridDesc(t *testing.T) {
	svc := fusionService(t)

	candidates := []domain.CandidateItem{{ItemID: "low"}, {ItemID: "high"}, {ItemID: "mid"}}
	vectors := map[string]*domain.ScoreVector{
		"low":  {ItemID: "low", Content: 0.1},
		"high": {ItemID: "high", Content: 0.9},
		"mid":  {ItemID: "mid", Content: 0.5},
	}

	ranked := svc.fuseAndRank(candidates, vectors, 10, false)
	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].Item.ItemID)
	assert.Equal(t, "mid", ranked[1].Item.ItemID)
	assert.Equal(t, "low", ranked[2].Item.ItemID)
}

func TestFuseAndRankTieBreakGraphThenContentThenID(t *testing.T) {
	// uniform weights make equal hybrid scores exact, so the tie-break
	// chain is what decides the order
	cfg := DefaultConfig()
	cfg.WCollaborative, cfg.WContent, cfg.WGraph, cfg.WSemantic = 0.25, 0.25, 0.25, 0.25
	svc, err := NewService(&fakeCatalog{}, &fakeInteractions{}, &fakeGraph{}, &fakeCompletion{}, nil, cfg)
	require.NoError(t, err)

	candidates := []domain.CandidateItem{{ItemID: "b-content"}, {ItemID: "c-graph"}}
	vectors := map[string]*domain.ScoreVector{
		"c-graph":   {ItemID: "c-graph", Graph: 0.8},
		"b-content": {ItemID: "b-content", Content: 0.8},
	}

	ranked := svc.fuseAndRank(candidates, vectors, 10, false)
	require.Len(t, ranked, 2)
	assert.Equal(t, "c-graph", ranked[0].Item.ItemID, "graph sub-score wins exact hybrid ties")

	// equal graph, content decides
	vectors = map[string]*domain.ScoreVector{
		"c-graph":   {ItemID: "c-graph", Graph: 0.4, Semantic: 0.8},
		"b-content": {ItemID: "b-content", Graph: 0.4, Content: 0.8},
	}
	ranked = svc.fuseAndRank(candidates, vectors, 10, false)
	assert.Equal(t, "b-content", ranked[0].Item.ItemID, "content sub-score is the second tie-break")

	// identical score vectors: lexically smaller item id first
	vectors = map[string]*domain.ScoreVector{
		"c-graph":   {ItemID: "c-graph", Content: 0.5},
		"b-content": {ItemID: "b-content", Content: 0.5},
	}
	ranked = svc.fuseAndRank(candidates, vectors, 10, false)
	assert.Equal(t, "b-content", ranked[0].Item.ItemID)
	assert.Equal(t, "c-graph", ranked[1].Item.ItemID)
}

func TestFuseAndRankAllZeroFallsBackToIDOrder(t *testing.T) {
	svc := fusionService(t)

	candidates := []domain.CandidateItem{{ItemID: "c"}, {ItemID: "a"}, {ItemID: "b"}}
	vectors := map[string]*domain.ScoreVector{}

	ranked := svc.fuseAndRank(candidates, vectors, 10, false)
	require.Len(t, ranked, 3)
	assert.Equal(t, "a", ranked[0].Item.ItemID)
	assert.Equal(t, "b", ranked[1].Item.ItemID)
	assert.Equal(t, "c", ranked[2].Item.ItemID)
}

func TestFuseAndRankTruncatesToLimit(t *testing.T) {
	svc := fusionService(t)

	candidates := testItems(30)
	vectors := map[string]*domain.ScoreVector{}
	for _, c := range candidates {
		vectors[c.ItemID] = &domain.ScoreVector{ItemID: c.ItemID, Content: 0.5}
	}

	ranked := svc.fuseAndRank(candidates, vectors, 7, false)
	assert.Len(t, ranked, 7)
}

func TestFuseAndRankDeterministic(t *testing.T) {
	svc := fusionService(t)

	candidates := testItems(20)
	vectors := map[string]*domain.ScoreVector{}
	for i, c := range candidates {
		vectors[c.ItemID] = &domain.ScoreVector{
			ItemID:  c.ItemID,
			Content: float64(i%4) * 0.25, // deliberate ties
			Graph:   float64(i%2) * 0.5,
		}
	}

	first := svc.fuseAndRank(candidates, vectors, 20, false)
	for run := 0; run < 10; run++ {
		again := svc.fuseAndRank(candidates, vectors, 20, false)
		require.Equal(t, first, again)
	}
}

// ---- explanation ----

func TestExplainOrdersByContribution(t *testing.T) {
	svc := fusionService(t)

	// graph contributes 0.30*0.9=0.27, content 0.25*0.9=0.225
	exp := svc.explain(domain.ScoreVector{Collaborative: 0.1, Content: 0.9, Graph: 0.9, Semantic: 0.0})
	require.NotNil(t, exp)

	require.NotEmpty(t, exp.TopReasons)
	assert.Equal(t, "Required by domain relationships", exp.TopReasons[0])
	assert.Equal(t, "Strong text match with the request", exp.TopReasons[1])

	assert.Len(t, exp.Contributions, 4)
	assert.InDelta(t, 0.27, exp.Contributions[string(ScorerGraph)].Contribution, 1e-9)
	assert.InDelta(t, 0.30, exp.Contributions[string(ScorerGraph)].Weight, 1e-9)
}

func TestExplainSkipsZeroScores(t *testing.T) {
	svc := fusionService(t)

	exp := svc.explain(domain.ScoreVector{Content: 0.6})
	require.NotNil(t, exp)
	assert.Equal(t, []string{"Good text match with the request"}, exp.TopReasons)
}

func TestExplainCapsReasons(t *testing.T) {
	svc := fusionService(t)

	exp := svc.explain(domain.ScoreVector{Collaborative: 0.9, Content: 0.9, Graph: 0.9, Semantic: 0.9})
	assert.LessOrEqual(t, len(exp.TopReasons), 5)
	assert.Len(t, exp.TopReasons, 4)
}

func TestExplainBelowThresholdYieldsNoReason(t *testing.T) {
	svc := fusionService(t)

	exp := svc.explain(domain.ScoreVector{Collaborative: 0.05, Content: 0.1, Graph: 0.2, Semantic: 0.1})
	assert.Empty(t, exp.TopReasons)
	assert.Len(t, exp.Contributions, 4)
}
