package recommend

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"procureMatch/domain"
	"procureMatch/pkg/logger"
)

// contentScorer matches candidate text against the concatenated
// requirement text with three sub-scores: TF-IDF cosine, embedding
// cosine and keyword overlap. When an embedding is missing its weight
// is redistributed proportionally so the composite stays in [0,1].
type contentScorer struct {
	catalog    CatalogIndexRepository
	completion CompletionService
	cfg        Config
}

func (c *contentScorer) Kind() ScorerKind {
	return ScorerContent
}

func (c *contentScorer) Score(
	ctx context.Context,
	candidates []domain.CandidateItem,
	requirements domain.RequirementSet,
	_ string,
) (map[string]float64, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	queryText := requirementText(requirements)
	queryTokens := tokenize(queryText)

	docs := make([][]string, len(candidates))
	for i, cand := range candidates {
		docs[i] = tokenize(candidateText(cand))
	}

	idf := inverseDocumentFrequency(docs)
	queryVec := tfidfVector(queryTokens, idf)

	// one query embedding per invocation; failure disables the
	// embedding sub-score for every candidate
	var queryEmbedding []float32
	if c.completion != nil {
		emb, err := c.completion.EmbedQuery(ctx, queryText)
		if err != nil {
			logger.Warn("content_query_embedding_failed",
				"trace_id", TraceIDFromContext(ctx),
				"error", err,
			)
		} else {
			queryEmbedding = emb
		}
	}

	scores := make(map[string]float64, len(candidates))
	for i, cand := range candidates {
		lexical := cosineSparse(queryVec, tfidfVector(docs[i], idf))
		keyword := keywordOverlap(queryTokens, candidateText(cand))

		embedding := 0.0
		hasEmbedding := false
		if queryEmbedding != nil {
			itemEmbedding, err := c.catalog.GetEmbedding(ctx, cand.ItemID)
			if err == nil && itemEmbedding != nil {
				embedding = clamp01(cosineDense(queryEmbedding, itemEmbedding))
				hasEmbedding = true
			}
		}

		wLex, wEmb, wKw := c.cfg.LexicalWeight, c.cfg.EmbeddingWeight, c.cfg.KeywordWeight
		if !hasEmbedding {
			// redistribute the embedding weight over the two lexical signals
			remaining := wLex + wKw
			if remaining > 0 {
				wLex += wEmb * wLex / remaining
				wKw += wEmb * wKw / remaining
			}
			wEmb = 0
		}

		scores[cand.ItemID] = clamp01(wLex*lexical + wEmb*embedding + wKw*keyword)
	}

	return scores, nil
}

func requirementText(reqs domain.RequirementSet) string {
	parts := make([]string, 0, len(reqs.Requirements))
	for _, r := range reqs.Requirements {
		parts = append(parts, r.Text)
	}
	return strings.Join(parts, " ")
}

func candidateText(cand domain.CandidateItem) string {
	return strings.Join([]string{cand.Name, cand.Brand, cand.Category, cand.Description}, " ")
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// inverseDocumentFrequency computes smoothed idf over the candidate
// corpus only; the corpus is small and rebuilt per query.
func inverseDocumentFrequency(docs [][]string) map[string]float64 {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, tok := range doc {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for tok, count := range df {
		idf[tok] = math.Log(1.0 + n/float64(1+count))
	}

	return idf
}

func tfidfVector(tokens []string, idf map[string]float64) map[string]float64 {
	if len(tokens) == 0 {
		return map[string]float64{}
	}

	tf := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}

	vec := make(map[string]float64, len(tf))
	for tok, count := range tf {
		weight, ok := idf[tok]
		if !ok {
			// query-only terms still carry a neutral idf
			weight = 1.0
		}
		vec[tok] = (count / float64(len(tokens))) * weight
	}

	return vec
}

func cosineSparse(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for tok, va := range a {
		normA += va * va
		if vb, ok := b[tok]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func cosineDense(a []float32, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// keywordOverlap is the fraction of unique query terms found in the
// candidate text; substring matches count half.
func keywordOverlap(queryTokens []string, text string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	docTokens := make(map[string]struct{})
	for _, tok := range tokenize(lower) {
		docTokens[tok] = struct{}{}
	}

	unique := make(map[string]struct{}, len(queryTokens))
	for _, tok := range queryTokens {
		unique[tok] = struct{}{}
	}

	var matched float64
	for tok := range unique {
		if _, ok := docTokens[tok]; ok {
			matched += 1.0
		} else if strings.Contains(lower, tok) {
			matched += 0.5
		}
	}

	return clamp01(matched / float64(len(unique)))
}
