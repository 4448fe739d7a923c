package recommend

import (
	"context"
	"fmt"
	"sort"

	"procureMatch/domain"
)

// collaborativeScorer blends item co-occurrence with similar-user
// votes, both Jaccard-based over interaction item sets. With no user
// history it degrades to global popularity.
type collaborativeScorer struct {
	repo InteractionRepository
	cfg  Config
}

func (c *collaborativeScorer) Kind() ScorerKind {
	return ScorerCollaborative
}

func (c *collaborativeScorer) Score(
	ctx context.Context,
	candidates []domain.CandidateItem,
	_ domain.RequirementSet,
	userID string,
) (map[string]float64, error) {

	all, err := c.repo.GetAllInteractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	userSet := map[string]struct{}{}
	if userID != "" {
		history, err := c.repo.GetUserHistory(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load user history: %w", err)
		}
		for _, rec := range history {
			if rec.Action == domain.ActionCart || rec.Action == domain.ActionPurchase {
				userSet[rec.ItemID] = struct{}{}
			}
		}
	}

	// Cold start: anonymous caller or a user with no cart/purchase
	// history scores by global popularity across the candidates.
	if len(userSet) == 0 {
		return popularityScores(candidates, all), nil
	}

	itemSets := buildUserItemSets(all, userID)

	scores := make(map[string]float64, len(candidates))
	for _, cand := range candidates {
		co := coOccurrenceScore(cand.ItemID, userSet, itemSets)
		su := similarUserScore(cand.ItemID, userSet, itemSets, c.cfg.SimilarUsersTopN)
		scores[cand.ItemID] = c.cfg.CoOccurrenceWeight*co + c.cfg.SimilarUserWeight*su
	}

	return scores, nil
}

// buildUserItemSets groups cart/purchase interactions into per-user
// item sets, excluding the target user.
func buildUserItemSets(all []domain.InteractionRecord, excludeUser string) map[string]map[string]struct{} {
	sets := make(map[string]map[string]struct{})
	for _, rec := range all {
		if rec.UserID == excludeUser {
			continue
		}
		if rec.Action != domain.ActionCart && rec.Action != domain.ActionPurchase {
			continue
		}
		set, ok := sets[rec.UserID]
		if !ok {
			set = make(map[string]struct{})
			sets[rec.UserID] = set
		}
		set[rec.ItemID] = struct{}{}
	}
	return sets
}

// coOccurrenceScore is the Jaccard overlap between the users who
// selected the candidate and the users who selected anything from the
// target user's history.
func coOccurrenceScore(itemID string, userSet map[string]struct{}, itemSets map[string]map[string]struct{}) float64 {
	withCandidate := 0
	withHistory := 0
	withBoth := 0

	for _, set := range itemSets {
		_, hasCandidate := set[itemID]

		hasHistory := false
		for historyItem := range userSet {
			if _, ok := set[historyItem]; ok {
				hasHistory = true
				break
			}
		}

		if hasCandidate {
			withCandidate++
		}
		if hasHistory {
			withHistory++
		}
		if hasCandidate && hasHistory {
			withBoth++
		}
	}

	union := withCandidate + withHistory - withBoth
	if union == 0 {
		return 0
	}

	return float64(withBoth) / float64(union)
}

// similarUserScore takes the top-N users by Jaccard similarity to the
// target user's item set and scores the candidate by their
// similarity-weighted vote.
func similarUserScore(itemID string, userSet map[string]struct{}, itemSets map[string]map[string]struct{}, topN int) float64 {
	type neighbor struct {
		userID string
		sim    float64
	}

	neighbors := make([]neighbor, 0, len(itemSets))
	for uid, set := range itemSets {
		sim := jaccard(userSet, set)
		if sim > 0 {
			neighbors = append(neighbors, neighbor{userID: uid, sim: sim})
		}
	}
	if len(neighbors) == 0 {
		return 0
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].sim != neighbors[j].sim {
			return neighbors[i].sim > neighbors[j].sim
		}
		return neighbors[i].userID < neighbors[j].userID
	})
	if topN > 0 && len(neighbors) > topN {
		neighbors = neighbors[:topN]
	}

	var simSum, voteSum float64
	for _, n := range neighbors {
		simSum += n.sim
		if _, ok := itemSets[n.userID][itemID]; ok {
			voteSum += n.sim
		}
	}
	if simSum == 0 {
		return 0
	}

	return voteSum / simSum
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}

	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}

	return float64(inter) / float64(union)
}

// popularityScores normalizes raw interaction counts by the maximum
// across the candidate set.
func popularityScores(candidates []domain.CandidateItem, all []domain.InteractionRecord) map[string]float64 {
	counts := make(map[string]int, len(candidates))
	for _, rec := range all {
		counts[rec.ItemID]++
	}

	maxCount := 0
	for _, cand := range candidates {
		if counts[cand.ItemID] > maxCount {
			maxCount = counts[cand.ItemID]
		}
	}

	scores := make(map[string]float64, len(candidates))
	if maxCount == 0 {
		for _, cand := range candidates {
			scores[cand.ItemID] = 0
		}
		return scores
	}

	for _, cand := range candidates {
		scores[cand.ItemID] = float64(counts[cand.ItemID]) / float64(maxCount)
	}

	return scores
}
