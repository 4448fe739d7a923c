package domain

import (
	"time"
)

type RequirementCategory string

const (
	RequirementFunctional RequirementCategory = "functional"
	RequirementTechnical  RequirementCategory = "technical"
	RequirementQuantity   RequirementCategory = "quantity"
	RequirementOther      RequirementCategory = "other"
)

// Requirement is one discrete need extracted from an RFP request.
type Requirement struct {
	Text     string              `json:"text"`
	Category RequirementCategory `json:"category"`
	Quantity *float64            `json:"quantity,omitempty"`
}

// RequirementSet is the ordered requirement list produced once per
// request. It is immutable after extraction.
type RequirementSet struct {
	Requirements []Requirement `json:"requirements"`
}

// CandidateItem is a read-only projection of a catalog item eligible
// for scoring in a given query.
type CandidateItem struct {
	ItemID      string            `json:"item_id"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// ScoreVector holds the four normalized per-scorer scores for one item.
// It lives for a single pipeline execution.
type ScoreVector struct {
	ItemID        string  `json:"item_id"`
	Collaborative float64 `json:"collaborative"`
	Content       float64 `json:"content"`
	Graph         float64 `json:"graph"`
	Semantic      float64 `json:"semantic"`
}

// ScorerContribution breaks a scorer's share of the hybrid score out
// for explanations and diagnostics.
type ScorerContribution struct {
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

type Explanation struct {
	TopReasons    []string                      `json:"top_reasons"`
	Contributions map[string]ScorerContribution `json:"per_scorer_contribution"`
}

// RankedRecommendation is the final output unit; ownership transfers
// to the caller.
type RankedRecommendation struct {
	Item        CandidateItem `json:"item"`
	HybridScore float64       `json:"hybrid_score"`
	Scores      ScoreVector   `json:"score_vector"`
	Explanation *Explanation  `json:"explanation,omitempty"`
}

// CacheEntry wraps a cached ranked list. Entries past TTLSeconds are
// treated as absent.
type CacheEntry struct {
	Fingerprint       string                 `json:"fingerprint"`
	RequirementDigest string                 `json:"requirement_digest,omitempty"`
	Recommendations   []RankedRecommendation `json:"recommendations"`
	CreatedAt         time.Time              `json:"created_at"`
	TTLSeconds        int                    `json:"ttl_seconds"`
}

func (e CacheEntry) Expired(now time.Time) bool {
	return now.After(e.CreatedAt.Add(time.Duration(e.TTLSeconds) * time.Second))
}
