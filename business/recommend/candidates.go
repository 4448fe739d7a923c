package recommend

import (
	"context"
	"fmt"
	"strings"

	"procureMatch/domain"
	"procureMatch/pkg/logger"
)

// selectCandidates builds the bounded candidate set as the union of
// lexical search hits, graph-reachable items, and category matches,
// deduplicated by item id. An empty union means "no confident match",
// never an error.
func (s *Service) selectCandidates(
	ctx context.Context,
	reqs domain.RequirementSet,
	query string,
	limit int,
) ([]domain.CandidateItem, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	candidateLimit := limit * s.cfg.CandidateMultiplier
	if candidateLimit < limit {
		candidateLimit = limit
	}

	seen := make(map[string]struct{}, candidateLimit)
	candidates := make([]domain.CandidateItem, 0, candidateLimit)

	add := func(items []domain.CandidateItem) {
		for _, item := range items {
			if len(candidates) >= candidateLimit {
				return
			}
			if _, ok := seen[item.ItemID]; ok {
				continue
			}
			seen[item.ItemID] = struct{}{}
			candidates = append(candidates, item)
		}
	}

	// (a) lexical search per requirement, plus the raw query as a
	// backstop when extraction produced coarse requirements
	for _, req := range reqs.Requirements {
		if len(candidates) >= candidateLimit {
			break
		}
		hits, err := s.catalogRepo.Search(ctx, req.Text, candidateLimit)
		if err != nil {
			return nil, fmt.Errorf("candidate search: %w", err)
		}
		add(hits)
	}
	if len(candidates) < candidateLimit {
		hits, err := s.catalogRepo.Search(ctx, query, candidateLimit)
		if err != nil {
			return nil, fmt.Errorf("candidate search: %w", err)
		}
		add(hits)
	}

	// (b) items reachable via required/recommended edges from need
	// nodes overlapping a requirement
	for _, req := range reqs.Requirements {
		if len(candidates) >= candidateLimit {
			break
		}

		edges, err := s.graphRepo.FindEdges(ctx, req.Text)
		if err != nil {
			// the graph adapter being down must not sink selection;
			// search and category sources still stand
			logger.Warn("candidate_graph_lookup_failed", "error", err)
			break
		}

		reachable := make([]string, 0, len(edges))
		for _, edge := range edges {
			if edge.Relation != domain.RelationRequired && edge.Relation != domain.RelationRecommended {
				continue
			}
			if _, ok := seen[edge.TargetItemID]; ok {
				continue
			}
			reachable = append(reachable, edge.TargetItemID)
		}
		if len(reachable) == 0 {
			continue
		}

		hits, err := s.catalogRepo.FindByItemIDs(ctx, reachable)
		if err != nil {
			return nil, fmt.Errorf("candidate graph expansion: %w", err)
		}
		add(hits)
	}

	// (c) requirements that name a category directly
	for _, req := range reqs.Requirements {
		if len(candidates) >= candidateLimit {
			break
		}
		category := categoryMention(req)
		if category == "" {
			continue
		}
		hits, err := s.catalogRepo.FindByCategory(ctx, category, candidateLimit-len(candidates))
		if err != nil {
			return nil, fmt.Errorf("candidate category lookup: %w", err)
		}
		add(hits)
	}

	return candidates, nil
}

// categoryMention extracts a category name from requirements shaped
// like "category: lighting" or "<something> category". Technical
// requirements often carry the catalog taxonomy term directly.
func categoryMention(req domain.Requirement) string {
	text := strings.ToLower(req.Text)

	if idx := strings.Index(text, "category:"); idx >= 0 {
		return strings.TrimSpace(text[idx+len("category:"):])
	}
	if strings.HasSuffix(text, " category") {
		fields := strings.Fields(strings.TrimSuffix(text, " category"))
		if len(fields) > 0 {
			return fields[len(fields)-1]
		}
	}

	return ""
}
