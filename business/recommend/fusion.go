package recommend

import (
	"sort"

	"procureMatch/domain"
)

// fuseAndRank combines the four per-scorer scores into the hybrid
// score, sorts with the deterministic tie-break and truncates to the
// requested limit.
//
// Tie-break on exact hybrid equality: higher graph sub-score, then
// higher content sub-score, then lower item id lexical order.
func (s *Service) fuseAndRank(
	candidates []domain.CandidateItem,
	vectors map[string]*domain.ScoreVector,
	limit int,
	explain bool,
) []domain.RankedRecommendation {

	ranked := make([]domain.RankedRecommendation, 0, len(candidates))
	for _, cand := range candidates {
		v := vectors[cand.ItemID]
		if v == nil {
			v = &domain.ScoreVector{ItemID: cand.ItemID}
		}

		hybrid := s.cfg.WCollaborative*v.Collaborative +
			s.cfg.WContent*v.Content +
			s.cfg.WGraph*v.Graph +
			s.cfg.WSemantic*v.Semantic

		rec := domain.RankedRecommendation{
			Item:        cand,
			HybridScore: clamp01(hybrid),
			Scores:      *v,
		}
		if explain {
			rec.Explanation = s.explain(*v)
		}

		ranked = append(ranked, rec)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.HybridScore != b.HybridScore {
			return a.HybridScore > b.HybridScore
		}
		if a.Scores.Graph != b.Scores.Graph {
			return a.Scores.Graph > b.Scores.Graph
		}
		if a.Scores.Content != b.Scores.Content {
			return a.Scores.Content > b.Scores.Content
		}
		return a.Item.ItemID < b.Item.ItemID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
