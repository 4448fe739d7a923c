//go:build !integration

package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"fusion weights off":       func(c *Config) { c.WGraph = 0.4 },
		"negative weight":          func(c *Config) { c.WContent = -0.25; c.WGraph = 0.8 },
		"collab split off":         func(c *Config) { c.CoOccurrenceWeight = 0.7 },
		"content split off":        func(c *Config) { c.LexicalWeight = 0.5 },
		"zero multiplier":          func(c *Config) { c.CandidateMultiplier = 0 },
		"zero batch size":          func(c *Config) { c.SemanticBatchSize = 0 },
		"zero extractor attempts":  func(c *Config) { c.ExtractorAttempts = 0 },
	}

	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestConfigWeights(t *testing.T) {
	w := DefaultConfig().Weights()
	require.Len(t, w, 4)

	var sum float64
	for _, v := range w {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, 0.30, w[string(ScorerGraph)], 1e-9)
}
