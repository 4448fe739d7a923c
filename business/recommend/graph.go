package recommend

import (
	"context"
	"fmt"
	"strings"

	"procureMatch/domain"
	"procureMatch/pkg/logger"
)

// graphScorer maps typed need-to-item edges onto base scores. No
// matching edge is a valid zero, not a failure. The compatible_with
// bonus runs after the fan-in because it depends on the other
// scorers' outputs.
type graphScorer struct {
	repo GraphRepository
	cfg  Config
}

func (g *graphScorer) Kind() ScorerKind {
	return ScorerGraph
}

func (g *graphScorer) Score(
	ctx context.Context,
	candidates []domain.CandidateItem,
	requirements domain.RequirementSet,
	_ string,
) (map[string]float64, error) {

	scores := make(map[string]float64, len(candidates))
	bestWeight := make(map[string]float64, len(candidates))
	for _, cand := range candidates {
		scores[cand.ItemID] = 0
	}

	for _, req := range requirements.Requirements {
		edges, err := g.repo.FindEdges(ctx, req.Text)
		if err != nil {
			return nil, fmt.Errorf("find edges: %w", err)
		}

		for _, edge := range edges {
			if _, ok := scores[edge.TargetItemID]; !ok {
				continue
			}
			if !nodeMatchesRequirement(edge.SourceNode, req.Text) {
				continue
			}

			base := g.relationBase(edge.Relation)
			if base <= 0 {
				continue
			}

			// the maximum-weight matching edge decides the base score;
			// equal weights resolve to the stronger relation
			w, b := bestWeight[edge.TargetItemID], scores[edge.TargetItemID]
			if edge.Weight > w || (edge.Weight == w && base > b) {
				bestWeight[edge.TargetItemID] = edge.Weight
				scores[edge.TargetItemID] = base
			}
		}
	}

	return scores, nil
}

func (g *graphScorer) relationBase(relation domain.EdgeRelation) float64 {
	switch relation {
	case domain.RelationRequired:
		return g.cfg.ScoreRequired
	case domain.RelationRecommended:
		return g.cfg.ScoreRecommended
	case domain.RelationOptional:
		return g.cfg.ScoreOptional
	default:
		return 0
	}
}

// applyCompatibilityBonus raises a candidate's graph score by up to
// CompatibilityBonus when it has a compatible_with edge to another
// candidate that already clears the threshold on any non-graph scorer.
// Encourages coherent multi-item bundles.
func (g *graphScorer) applyCompatibilityBonus(
	ctx context.Context,
	candidates []domain.CandidateItem,
	vectors map[string]*domain.ScoreVector,
) {

	inSet := make(map[string]struct{}, len(candidates))
	for _, cand := range candidates {
		inSet[cand.ItemID] = struct{}{}
	}

	for _, cand := range candidates {
		edges, err := g.repo.FindEdges(ctx, cand.ItemID)
		if err != nil {
			logger.Warn("compatibility_lookup_failed",
				"trace_id", TraceIDFromContext(ctx),
				"item_id", cand.ItemID,
				"error", err,
			)
			return
		}

		var bonus float64
		for _, edge := range edges {
			if edge.Relation != domain.RelationCompatibleWith {
				continue
			}

			other := edge.TargetItemID
			if other == cand.ItemID {
				other = edge.SourceNode
			}
			if _, ok := inSet[other]; !ok {
				continue
			}

			v := vectors[other]
			if v == nil {
				continue
			}
			if v.Collaborative <= g.cfg.CompatibilityThreshold &&
				v.Content <= g.cfg.CompatibilityThreshold &&
				v.Semantic <= g.cfg.CompatibilityThreshold {
				continue
			}

			b := g.cfg.CompatibilityBonus * clamp01(edge.Weight)
			if b > bonus {
				bonus = b
			}
		}

		if bonus > 0 {
			if v := vectors[cand.ItemID]; v != nil {
				v.Graph = clamp01(v.Graph + bonus)
			}
		}
	}
}

// nodeMatchesRequirement checks lexical overlap between a need-node
// label and the requirement text the adapter was queried with.
func nodeMatchesRequirement(nodeLabel, requirement string) bool {
	label := strings.ToLower(nodeLabel)
	for _, tok := range tokenize(requirement) {
		if len(tok) < 3 {
			continue
		}
		if strings.Contains(label, tok) {
			return true
		}
	}
	return false
}
