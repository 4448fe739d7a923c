//go:build !integration

package recommend

import (
	"context"
	"testing"

	"procureMatch/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticScoreParsesBatch(t *testing.T) {
	completion := &fakeCompletion{responses: []string{
		`{"item-000": 0.9, "item-001": 0.4, "item-999": 0.7}`,
	}}
	sc := &semanticScorer{completion: completion, cfg: DefaultConfig()}

	scores, err := sc.Score(context.Background(), testItems(2), ledRequirements(), "")
	require.NoError(t, err)

	assert.InDelta(t, 0.9, scores["item-000"], 1e-9)
	assert.InDelta(t, 0.4, scores["item-001"], 1e-9)
	assert.NotContains(t, scores, "item-999", "ids outside the batch are dropped")
}

func TestSemanticScoreClampsOutOfRange(t *testing.T) {
	completion := &fakeCompletion{responses: []string{
		`{"item-000": 1.7, "item-001": -0.3}`,
	}}
	sc := &semanticScorer{completion: completion, cfg: DefaultConfig()}

	scores, err := sc.Score(context.Background(), testItems(2), ledRequirements(), "")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, scores["item-000"], 1e-9)
	assert.InDelta(t, 0.0, scores["item-001"], 1e-9)
}

func TestSemanticScoreBatches(t *testing.T) {
	completion := &fakeCompletion{responses: []string{`{}`}}
	cfg := DefaultConfig()
	cfg.SemanticBatchSize = 4

	sc := &semanticScorer{completion: completion, cfg: cfg}
	scores, err := sc.Score(context.Background(), testItems(10), ledRequirements(), "")
	require.NoError(t, err)

	assert.Equal(t, 3, completion.calls, "10 items in batches of 4")
	assert.Len(t, scores, 10)
	for _, v := range scores {
		assert.Zero(t, v, "unscored items default to zero")
	}
}

func TestSemanticScorePartialBatchFailure(t *testing.T) {
	// first batch unparseable, second fine: the invocation still
	// succeeds with zeros for the failed batch
	completion := &fakeCompletion{responses: []string{
		"sorry, cannot help with that",
		`{"item-002": 0.8}`,
	}}
	cfg := DefaultConfig()
	cfg.SemanticBatchSize = 2

	sc := &semanticScorer{completion: completion, cfg: cfg}
	scores, err := sc.Score(context.Background(), testItems(4), ledRequirements(), "")
	require.NoError(t, err)

	assert.Zero(t, scores["item-000"])
	assert.InDelta(t, 0.8, scores["item-002"], 1e-9)
}

func TestSemanticScoreAllBatchesFailedIsError(t *testing.T) {
	completion := &fakeCompletion{} // every call errors
	sc := &semanticScorer{completion: completion, cfg: DefaultConfig()}

	_, err := sc.Score(context.Background(), testItems(3), ledRequirements(), "")
	require.Error(t, err)
}

func TestSemanticScoreNoCandidates(t *testing.T) {
	completion := &fakeCompletion{}
	sc := &semanticScorer{completion: completion, cfg: DefaultConfig()}

	scores, err := sc.Score(context.Background(), nil, ledRequirements(), "")
	require.NoError(t, err)
	assert.Empty(t, scores)
	assert.Zero(t, completion.calls)
}

func TestParseBatchScores(t *testing.T) {
	scores, err := parseBatchScores("```json\n{\"a\": 0.5}\n```")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, scores["a"], 1e-9)

	scores, err = parseBatchScores(`Scores below:
{"a": 0.5, "b": 1.0}
Done.`)
	require.NoError(t, err)
	assert.Len(t, scores, 2)

	_, err = parseBatchScores("no object at all")
	assert.Error(t, err)

	_, err = parseBatchScores(`{"a": "not a number"}`)
	assert.Error(t, err)
}

func TestFormatRequirementsIncludesQuantity(t *testing.T) {
	qty := 500.0
	reqs := domain.RequirementSet{Requirements: []domain.Requirement{
		{Text: "LED lights", Category: domain.RequirementQuantity, Quantity: &qty},
	}}

	out := formatRequirements(reqs)
	assert.Contains(t, out, "LED lights")
	assert.Contains(t, out, "quantity: 500")
	assert.Contains(t, out, "[quantity]")
}
