package recommend

import (
	"context"

	"procureMatch/domain"
)

// ScorerKind is the closed set of signal sources the fusion step
// iterates over.
type ScorerKind string

const (
	ScorerCollaborative ScorerKind = "collaborative"
	ScorerContent       ScorerKind = "content"
	ScorerGraph         ScorerKind = "graph"
	ScorerSemantic      ScorerKind = "semantic"
)

// scorer produces a normalized [0,1] fit score per candidate. A scorer
// that cannot score an item omits it or reports 0.0; it never returns
// partial errors, only a total failure.
type scorer interface {
	Kind() ScorerKind
	Score(
		ctx context.Context,
		candidates []domain.CandidateItem,
		requirements domain.RequirementSet,
		userID string,
	) (map[string]float64, error)
}
