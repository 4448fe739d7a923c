package recommend

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"context"

	"procureMatch/domain"
	"procureMatch/pkg/logger"
)

const extractionPrompt = `You are a procurement assistant. Extract the discrete requirements from the request below.
Respond with a JSON array only, no prose, one element per identified need:
[{"text": "<requirement>", "category": "functional|technical|quantity|other", "quantity": <number, omit if none>}]

Request:
%s`

type extractedRequirement struct {
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Quantity *float64 `json:"quantity,omitempty"`
}

// extractRequirements turns raw request text into a RequirementSet.
// The LLM path retries with exponential backoff; any failure falls
// back to the lexical heuristic so the pipeline never blocks on an
// unavailable provider.
func (s *Service) extractRequirements(ctx context.Context, query string) domain.RequirementSet {
	prompt := fmt.Sprintf(extractionPrompt, query)

	backoff := s.cfg.ExtractorBackoff
	for attempt := 0; attempt < s.cfg.ExtractorAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		if ctx.Err() != nil {
			break
		}

		raw, err := s.completion.Complete(ctx, prompt)
		if err != nil {
			s.markDegraded("extractor", err)
			logger.Warn("extractor_attempt_failed",
				"trace_id", TraceIDFromContext(ctx),
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		reqs, err := parseRequirements(raw)
		if err != nil {
			s.markDegraded("extractor", err)
			logger.Warn("extractor_parse_failed",
				"trace_id", TraceIDFromContext(ctx),
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		s.markHealthy("extractor")
		return reqs
	}

	ExtractorFallbackTotal.Inc()
	logger.Info("extractor_fallback",
		"trace_id", TraceIDFromContext(ctx),
		"query_len", len(query),
	)

	return fallbackRequirements(query)
}

var jsonFenceRe = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

// parseRequirements accepts a raw completion, strips markdown fences,
// and unmarshals the requirement array.
func parseRequirements(raw string) (domain.RequirementSet, error) {
	text := strings.TrimSpace(raw)
	if m := jsonFenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return domain.RequirementSet{}, fmt.Errorf("no JSON array in completion")
	}

	var parsed []extractedRequirement
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return domain.RequirementSet{}, fmt.Errorf("malformed requirement JSON: %w", err)
	}
	if len(parsed) == 0 {
		return domain.RequirementSet{}, fmt.Errorf("empty requirement array")
	}

	out := domain.RequirementSet{Requirements: make([]domain.Requirement, 0, len(parsed))}
	for _, p := range parsed {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		out.Requirements = append(out.Requirements, domain.Requirement{
			Text:     text,
			Category: normalizeCategory(p.Category),
			Quantity: p.Quantity,
		})
	}

	if len(out.Requirements) == 0 {
		return domain.RequirementSet{}, fmt.Errorf("no usable requirements in completion")
	}

	return out, nil
}

func normalizeCategory(category string) domain.RequirementCategory {
	switch domain.RequirementCategory(strings.ToLower(strings.TrimSpace(category))) {
	case domain.RequirementFunctional:
		return domain.RequirementFunctional
	case domain.RequirementTechnical:
		return domain.RequirementTechnical
	case domain.RequirementQuantity:
		return domain.RequirementQuantity
	default:
		return domain.RequirementOther
	}
}

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?;\n]+`)
	wordRe          = regexp.MustCompile(`[a-zA-Z]{4,}`)
	numberRe        = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// fallbackRequirements is the lexical heuristic: each sentence that
// carries a plausible noun phrase becomes one requirement of category
// "other". Numeric mentions are kept as quantities.
func fallbackRequirements(query string) domain.RequirementSet {
	sentences := sentenceSplitRe.Split(query, -1)

	out := domain.RequirementSet{}
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" || !wordRe.MatchString(sentence) {
			continue
		}

		req := domain.Requirement{
			Text:     sentence,
			Category: domain.RequirementOther,
		}
		if m := numberRe.FindString(sentence); m != "" {
			var qty float64
			if _, err := fmt.Sscanf(m, "%g", &qty); err == nil {
				req.Quantity = &qty
			}
		}

		out.Requirements = append(out.Requirements, req)
	}

	return out
}
