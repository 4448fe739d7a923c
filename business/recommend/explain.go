package recommend

import (
	"sort"

	"procureMatch/domain"
)

const maxReasons = 5

// reasonRule maps a sub-score threshold to a human-readable reason.
// Rules per scorer are ordered strongest first; the first match wins.
type reasonRule struct {
	threshold float64
	reason    string
}

var reasonTable = map[ScorerKind][]reasonRule{
	ScorerContent: {
		{0.8, "Strong text match with the request"},
		{0.5, "Good text match with the request"},
		{0.2, "Partial text match with the request"},
	},
	ScorerGraph: {
		{0.85, "Required by domain relationships"},
		{0.6, "Recommended by domain relationships"},
		{0.3, "Optionally related to the request"},
	},
	ScorerCollaborative: {
		{0.6, "Frequently selected together with items in your history"},
		{0.3, "Popular with buyers like you"},
		{0.1, "Some purchase-history affinity"},
	},
	ScorerSemantic: {
		{0.8, "High-confidence AI-assessed fit"},
		{0.5, "Moderate AI-assessed fit"},
		{0.2, "Possible AI-assessed fit"},
	},
}

// explain derives reasons from the score vector alone. Purely
// computed, no external calls, ordered by weighted contribution.
func (s *Service) explain(v domain.ScoreVector) *domain.Explanation {
	type entry struct {
		kind         ScorerKind
		score        float64
		contribution float64
	}

	entries := []entry{
		{ScorerCollaborative, v.Collaborative, s.cfg.WCollaborative * v.Collaborative},
		{ScorerContent, v.Content, s.cfg.WContent * v.Content},
		{ScorerGraph, v.Graph, s.cfg.WGraph * v.Graph},
		{ScorerSemantic, v.Semantic, s.cfg.WSemantic * v.Semantic},
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].contribution != entries[j].contribution {
			return entries[i].contribution > entries[j].contribution
		}
		return entries[i].kind < entries[j].kind
	})

	explanation := &domain.Explanation{
		TopReasons:    make([]string, 0, maxReasons),
		Contributions: make(map[string]domain.ScorerContribution, len(entries)),
	}

	for _, e := range entries {
		explanation.Contributions[string(e.kind)] = domain.ScorerContribution{
			Score:        e.score,
			Weight:       s.cfg.weightFor(e.kind),
			Contribution: e.contribution,
		}

		if len(explanation.TopReasons) >= maxReasons || e.score <= 0 {
			continue
		}
		for _, rule := range reasonTable[e.kind] {
			if e.score >= rule.threshold {
				explanation.TopReasons = append(explanation.TopReasons, rule.reason)
				break
			}
		}
	}

	return explanation
}
