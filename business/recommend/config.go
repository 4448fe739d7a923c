package recommend

import (
	"fmt"
	"math"
	"time"
)

// Config carries every tunable ranking parameter. Values are loaded
// once at engine construction; re-weighting means building a new
// engine instance.
type Config struct {
	// fusion weights, must sum to 1.0
	WCollaborative float64
	WContent       float64
	WGraph         float64
	WSemantic      float64

	// collaborative signal split
	CoOccurrenceWeight float64
	SimilarUserWeight  float64
	SimilarUsersTopN   int

	// content sub-score weights, must sum to 1.0
	LexicalWeight   float64
	EmbeddingWeight float64
	KeywordWeight   float64

	// graph relation base scores and compatibility bonus
	ScoreRequired          float64
	ScoreRecommended       float64
	ScoreOptional          float64
	CompatibilityBonus     float64
	CompatibilityThreshold float64

	// candidate set bound = CandidateMultiplier * limit
	CandidateMultiplier int
	DefaultLimit        int

	SemanticBatchSize int

	ExtractorAttempts int
	ExtractorBackoff  time.Duration
	MaxQueryChars     int

	ScorerTimeout  time.Duration
	OverallTimeout time.Duration

	CacheTTL time.Duration
}

const (
	defaultWCollaborative = 0.25
	defaultWContent       = 0.25
	defaultWGraph         = 0.30
	defaultWSemantic      = 0.20

	defaultCoOccurrenceWeight = 0.6
	defaultSimilarUserWeight  = 0.4
	defaultSimilarUsersTopN   = 10

	defaultLexicalWeight   = 0.4
	defaultEmbeddingWeight = 0.4
	defaultKeywordWeight   = 0.2

	defaultScoreRequired          = 0.9
	defaultScoreRecommended       = 0.7
	defaultScoreOptional          = 0.4
	defaultCompatibilityBonus     = 0.2
	defaultCompatibilityThreshold = 0.5

	defaultCandidateMultiplier = 3
	defaultLimit               = 10
	defaultSemanticBatchSize   = 10

	defaultExtractorAttempts = 2
	defaultExtractorBackoff  = 500 * time.Millisecond
	defaultMaxQueryChars     = 20000

	defaultScorerTimeout  = 2500 * time.Millisecond
	defaultOverallTimeout = 5 * time.Second

	defaultCacheTTL = time.Hour
)

func DefaultConfig() Config {
	return Config{
		WCollaborative: defaultWCollaborative,
		WContent:       defaultWContent,
		WGraph:         defaultWGraph,
		WSemantic:      defaultWSemantic,

		CoOccurrenceWeight: defaultCoOccurrenceWeight,
		SimilarUserWeight:  defaultSimilarUserWeight,
		SimilarUsersTopN:   defaultSimilarUsersTopN,

		LexicalWeight:   defaultLexicalWeight,
		EmbeddingWeight: defaultEmbeddingWeight,
		KeywordWeight:   defaultKeywordWeight,

		ScoreRequired:          defaultScoreRequired,
		ScoreRecommended:       defaultScoreRecommended,
		ScoreOptional:          defaultScoreOptional,
		CompatibilityBonus:     defaultCompatibilityBonus,
		CompatibilityThreshold: defaultCompatibilityThreshold,

		CandidateMultiplier: defaultCandidateMultiplier,
		DefaultLimit:        defaultLimit,
		SemanticBatchSize:   defaultSemanticBatchSize,

		ExtractorAttempts: defaultExtractorAttempts,
		ExtractorBackoff:  defaultExtractorBackoff,
		MaxQueryChars:     defaultMaxQueryChars,

		ScorerTimeout:  defaultScorerTimeout,
		OverallTimeout: defaultOverallTimeout,

		CacheTTL: defaultCacheTTL,
	}
}

const weightTolerance = 1e-9

// Validate is a startup-time contract: the engine constructor refuses
// configurations whose weights do not form a convex combination.
func (c Config) Validate() error {
	fusion := []float64{c.WCollaborative, c.WContent, c.WGraph, c.WSemantic}
	for _, w := range fusion {
		if w <= 0 {
			return fmt.Errorf("fusion weights must be positive, got %v", fusion)
		}
	}
	if sum := c.WCollaborative + c.WContent + c.WGraph + c.WSemantic; math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("fusion weights must sum to 1.0, got %v", sum)
	}

	if c.CoOccurrenceWeight < 0 || c.SimilarUserWeight < 0 ||
		math.Abs(c.CoOccurrenceWeight+c.SimilarUserWeight-1.0) > weightTolerance {
		return fmt.Errorf("collaborative sub-weights must sum to 1.0")
	}

	if c.LexicalWeight < 0 || c.EmbeddingWeight < 0 || c.KeywordWeight < 0 ||
		math.Abs(c.LexicalWeight+c.EmbeddingWeight+c.KeywordWeight-1.0) > weightTolerance {
		return fmt.Errorf("content sub-weights must sum to 1.0")
	}

	if c.CandidateMultiplier < 1 {
		return fmt.Errorf("candidate multiplier must be at least 1")
	}
	if c.SemanticBatchSize < 1 {
		return fmt.Errorf("semantic batch size must be at least 1")
	}
	if c.ExtractorAttempts < 1 {
		return fmt.Errorf("extractor attempts must be at least 1")
	}

	return nil
}

// Weights returns the fusion weights keyed by scorer name, as exposed
// through engine statistics.
func (c Config) Weights() map[string]float64 {
	return map[string]float64{
		string(ScorerCollaborative): c.WCollaborative,
		string(ScorerContent):       c.WContent,
		string(ScorerGraph):         c.WGraph,
		string(ScorerSemantic):      c.WSemantic,
	}
}

func (c Config) weightFor(kind ScorerKind) float64 {
	switch kind {
	case ScorerCollaborative:
		return c.WCollaborative
	case ScorerContent:
		return c.WContent
	case ScorerGraph:
		return c.WGraph
	case ScorerSemantic:
		return c.WSemantic
	}
	return 0
}
