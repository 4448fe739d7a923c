//go:build !integration

package recommend

import (
	"context"
	"errors"
	"testing"

	"procureMatch/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectCandidatesBoundedByMultiplier(t *testing.T) {
	svc := newTestService(t, &fakeCatalog{items: testItems(100)}, &fakeInteractions{}, &fakeGraph{}, &fakeCompletion{}, nil)

	candidates, err := svc.selectCandidates(context.Background(), ledRequirements(), "led lights", 10)
	require.NoError(t, err)
	assert.Len(t, candidates, 30, "candidate set is capped at 3x the requested limit")
}

func TestSelectCandidatesDeduplicates(t *testing.T) {
	// both requirements and the raw query hit the same items; each item
	// appears once
	svc := newTestService(t, &fakeCatalog{items: testItems(5)}, &fakeInteractions{}, &fakeGraph{}, &fakeCompletion{}, nil)

	candidates, err := svc.selectCandidates(context.Background(), ledRequirements(), "led lights", 10)
	require.NoError(t, err)

	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		_, dup := seen[c.ItemID]
		require.False(t, dup, "duplicate candidate %s", c.ItemID)
		seen[c.ItemID] = struct{}{}
	}
	assert.Len(t, candidates, 5)
}

func TestSelectCandidatesEmptyCatalog(t *testing.T) {
	svc := newTestService(t, &fakeCatalog{}, &fakeInteractions{}, &fakeGraph{}, &fakeCompletion{}, nil)

	candidates, err := svc.selectCandidates(context.Background(), ledRequirements(), "led lights", 10)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSelectCandidatesExpandsGraphEdges(t *testing.T) {
	// the catalog search misses mounting brackets, but a required edge
	// from the lighting need reaches them
	items := append(testItems(2), domain.CandidateItem{
		ItemID: "bracket-1", Name: "Mounting bracket", Category: "accessories",
	})
	graph := &fakeGraph{edges: map[string][]domain.GraphEdge{
		"LED lights for warehouse": {
			edge("warehouse lighting", "bracket-1", domain.RelationRequired, 1.0),
			edge("warehouse lighting", "ignored", domain.RelationCompatibleWith, 1.0),
		},
	}}

	catalog := &searchlessCatalog{fakeCatalog{items: items}}
	svc := newTestService(t, catalog, &fakeInteractions{}, graph, &fakeCompletion{}, nil)

	candidates, err := svc.selectCandidates(context.Background(), ledRequirements(), "led lights", 10)
	require.NoError(t, err)

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ItemID)
	}
	assert.Contains(t, ids, "bracket-1")
	assert.NotContains(t, ids, "ignored", "compatible_with edges do not source candidates")
}

// searchlessCatalog returns nothing from lexical search so graph and
// category sources are isolated.
type searchlessCatalog struct {
	fakeCatalog
}

func (s *searchlessCatalog) Search(context.Context, string, int) ([]domain.CandidateItem, error) {
	return nil, nil
}

func TestSelectCandidatesGraphFailureIsNotFatal(t *testing.T) {
	graph := &fakeGraph{err: errors.New("graph store down")}
	svc := newTestService(t, &fakeCatalog{items: testItems(4)}, &fakeInteractions{}, graph, &fakeCompletion{}, nil)

	candidates, err := svc.selectCandidates(context.Background(), ledRequirements(), "led lights", 10)
	require.NoError(t, err)
	assert.Len(t, candidates, 4, "search results stand even when the graph adapter is down")
}

func TestSelectCandidatesSearchFailureIsFatal(t *testing.T) {
	catalog := &fakeCatalog{searchErr: errors.New("catalog down")}
	svc := newTestService(t, catalog, &fakeInteractions{}, &fakeGraph{}, &fakeCompletion{}, nil)

	_, err := svc.selectCandidates(context.Background(), ledRequirements(), "led lights", 10)
	require.Error(t, err)
}

func TestSelectCandidatesCategoryMention(t *testing.T) {
	items := []domain.CandidateItem{{ItemID: "cat-item", Name: "Panel", Category: "lighting"}}
	catalog := &searchlessCatalog{fakeCatalog{items: items}}
	svc := newTestService(t, catalog, &fakeInteractions{}, &fakeGraph{}, &fakeCompletion{}, nil)

	reqs := domain.RequirementSet{Requirements: []domain.Requirement{
		{Text: "category: lighting", Category: domain.RequirementTechnical},
	}}

	candidates, err := svc.selectCandidates(context.Background(), reqs, "whatever", 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "cat-item", candidates[0].ItemID)
}

func TestCategoryMention(t *testing.T) {
	cases := map[string]string{
		"category: lighting":            "lighting",
		"items from the LIGHTING category": "lighting",
		"500 LED lights":                "",
		"":                              "",
	}
	for text, want := range cases {
		got := categoryMention(domain.Requirement{Text: text})
		assert.Equal(t, want, got, "text: %q", text)
	}
}
