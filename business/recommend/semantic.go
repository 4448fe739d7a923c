package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"procureMatch/domain"
	"procureMatch/pkg/logger"
)

const semanticPromptHeader = `You assess how well catalog items fit a procurement request.
Requirements:
%s

Items:
%s

For every item return a fit score between 0.0 and 1.0 covering functional match, technical alignment and general suitability.
Respond with a JSON object only: {"<item_id>": <score>, ...}`

// semanticScorer asks the completion service for a per-item fit score
// in bounded batches. It is the most expensive scorer and the first
// skipped under a tight deadline: a batch that cannot complete in time
// contributes zeros.
type semanticScorer struct {
	completion CompletionService
	cfg        Config
}

func (s *semanticScorer) Kind() ScorerKind {
	return ScorerSemantic
}

func (s *semanticScorer) Score(
	ctx context.Context,
	candidates []domain.CandidateItem,
	requirements domain.RequirementSet,
	_ string,
) (map[string]float64, error) {

	scores := make(map[string]float64, len(candidates))
	for _, cand := range candidates {
		scores[cand.ItemID] = 0
	}

	reqBlock := formatRequirements(requirements)

	batches := 0
	failures := 0
	for start := 0; start < len(candidates); start += s.cfg.SemanticBatchSize {
		if ctx.Err() != nil {
			break
		}

		end := start + s.cfg.SemanticBatchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]
		batches++

		prompt := fmt.Sprintf(semanticPromptHeader, reqBlock, formatBatch(batch))

		raw, err := s.completion.Complete(ctx, prompt)
		if err != nil {
			failures++
			logger.Warn("semantic_batch_failed",
				"trace_id", TraceIDFromContext(ctx),
				"batch_size", len(batch),
				"error", err,
			)
			continue
		}

		parsed, err := parseBatchScores(raw)
		if err != nil {
			failures++
			logger.Warn("semantic_batch_unparseable",
				"trace_id", TraceIDFromContext(ctx),
				"error", err,
			)
			continue
		}

		for _, cand := range batch {
			if v, ok := parsed[cand.ItemID]; ok {
				scores[cand.ItemID] = clamp01(v)
			}
		}
	}

	// all batches failing means the provider is down for this
	// invocation; report it so the engine can mark degradation
	if batches > 0 && failures == batches {
		return nil, fmt.Errorf("semantic completion unavailable: %d/%d batches failed", failures, batches)
	}

	return scores, nil
}

func formatRequirements(reqs domain.RequirementSet) string {
	var b strings.Builder
	for _, r := range reqs.Requirements {
		fmt.Fprintf(&b, "- [%s] %s", r.Category, r.Text)
		if r.Quantity != nil {
			fmt.Fprintf(&b, " (quantity: %g)", *r.Quantity)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatBatch(batch []domain.CandidateItem) string {
	var b strings.Builder
	for _, cand := range batch {
		fmt.Fprintf(&b, "- id=%s name=%q brand=%q description=%q\n",
			cand.ItemID, cand.Name, cand.Brand, truncate(cand.Description, 300))
	}
	return b.String()
}

func truncate(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n]
}

// parseBatchScores reads the {"item": score} object out of a raw
// completion, tolerating markdown fences and surrounding prose.
func parseBatchScores(raw string) (map[string]float64, error) {
	text := strings.TrimSpace(raw)
	if m := jsonFenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in completion")
	}

	var parsed map[string]float64
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("malformed score JSON: %w", err)
	}

	return parsed, nil
}
