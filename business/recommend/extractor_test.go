//go:build !integration

package recommend

import (
	"context"
	"testing"
	"time"

	"procureMatch/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractorService(t *testing.T, completion *fakeCompletion) *Service {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ExtractorBackoff = time.Millisecond // keep retries fast under test
	svc, err := NewService(&fakeCatalog{}, &fakeInteractions{}, &fakeGraph{}, completion, nil, cfg)
	require.NoError(t, err)
	return svc
}

func TestExtractRequirementsParsesCompletion(t *testing.T) {
	completion := &fakeCompletion{responses: []string{
		`[{"text": "500 LED lights", "category": "quantity", "quantity": 500},
		  {"text": "IP65 rated", "category": "technical"}]`,
	}}
	svc := extractorService(t, completion)

	reqs := svc.extractRequirements(context.Background(), "Need 500 LED lights, IP65 rated")
	require.Len(t, reqs.Requirements, 2)

	assert.Equal(t, "500 LED lights", reqs.Requirements[0].Text)
	assert.Equal(t, domain.RequirementQuantity, reqs.Requirements[0].Category)
	require.NotNil(t, reqs.Requirements[0].Quantity)
	assert.InDelta(t, 500.0, *reqs.Requirements[0].Quantity, 1e-9)

	assert.Equal(t, domain.RequirementTechnical, reqs.Requirements[1].Category)
	assert.Nil(t, reqs.Requirements[1].Quantity)
}

func TestExtractRequirementsRetriesThenSucceeds(t *testing.T) {
	// first attempt returns prose, second a valid array
	completion := &fakeCompletion{responses: []string{
		"I could not process that request.",
		`[{"text": "LED lights", "category": "functional"}]`,
	}}
	svc := extractorService(t, completion)

	reqs := svc.extractRequirements(context.Background(), "LED lights")
	require.Len(t, reqs.Requirements, 1)
	assert.Equal(t, domain.RequirementFunctional, reqs.Requirements[0].Category)
	assert.Equal(t, 2, completion.calls)
}

func TestExtractRequirementsFallsBackAfterAllAttempts(t *testing.T) {
	completion := &fakeCompletion{} // every Complete call errors
	svc := extractorService(t, completion)

	reqs := svc.extractRequirements(context.Background(), "Need 500 LED lights for warehouse. Must be IP65 rated!")
	require.Len(t, reqs.Requirements, 2, "one requirement per sentence")
	assert.Equal(t, 2, completion.calls)

	first := reqs.Requirements[0]
	assert.Equal(t, domain.RequirementOther, first.Category)
	require.NotNil(t, first.Quantity)
	assert.InDelta(t, 500.0, *first.Quantity, 1e-9)

	second := reqs.Requirements[1]
	assert.Equal(t, "Must be IP65 rated", second.Text)
	require.NotNil(t, second.Quantity)
	assert.InDelta(t, 65.0, *second.Quantity, 1e-9, "numeric mentions are kept as quantities")
}

func TestParseRequirementsStripsMarkdownFence(t *testing.T) {
	raw := "```json\n[{\"text\": \"LED lights\", \"category\": \"functional\"}]\n```"

	reqs, err := parseRequirements(raw)
	require.NoError(t, err)
	require.Len(t, reqs.Requirements, 1)
	assert.Equal(t, "LED lights", reqs.Requirements[0].Text)
}

func TestParseRequirementsToleratesSurroundingProse(t *testing.T) {
	raw := `Here are the requirements you asked for:
[{"text": "LED lights", "category": "functional"}]
Let me know if you need anything else.`

	reqs, err := parseRequirements(raw)
	require.NoError(t, err)
	assert.Len(t, reqs.Requirements, 1)
}

func TestParseRequirementsRejectsGarbage(t *testing.T) {
	cases := []string{
		"no json here",
		"[]",
		`[{"text": "   "}]`,
		`[{"text": 42}]`,
	}
	for _, raw := range cases {
		_, err := parseRequirements(raw)
		assert.Error(t, err, "raw: %q", raw)
	}
}

func TestParseRequirementsNormalizesUnknownCategory(t *testing.T) {
	reqs, err := parseRequirements(`[{"text": "LED lights", "category": "MADE-UP"}]`)
	require.NoError(t, err)
	assert.Equal(t, domain.RequirementOther, reqs.Requirements[0].Category)

	reqs, err = parseRequirements(`[{"text": "LED lights", "category": " Technical "}]`)
	require.NoError(t, err)
	assert.Equal(t, domain.RequirementTechnical, reqs.Requirements[0].Category)
}

func TestFallbackRequirementsSkipsNoise(t *testing.T) {
	reqs := fallbackRequirements("Ok. 12. Need LED lights for warehouse.")
	require.Len(t, reqs.Requirements, 1, "sentences without a plausible word are dropped")
	assert.Equal(t, "Need LED lights for warehouse", reqs.Requirements[0].Text)
	assert.Nil(t, reqs.Requirements[0].Quantity)
}

func TestFallbackRequirementsEmptyQuery(t *testing.T) {
	reqs := fallbackRequirements("")
	assert.Empty(t, reqs.Requirements)
}
