package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"procureMatch/domain"
	"procureMatch/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// ---- Repository interfaces ----

type CatalogIndexRepository interface {
	Search(ctx context.Context, query string, limit int) ([]domain.CandidateItem, error)
	FindByCategory(ctx context.Context, category string, limit int) ([]domain.CandidateItem, error)
	FindByItemIDs(ctx context.Context, itemIDs []string) ([]domain.CandidateItem, error)
	// GetEmbedding returns nil (no error) when an item has no vector.
	GetEmbedding(ctx context.Context, itemID string) ([]float32, error)
}

type InteractionRepository interface {
	GetUserHistory(ctx context.Context, userID string) ([]domain.InteractionRecord, error)
	GetAllInteractions(ctx context.Context) ([]domain.InteractionRecord, error)
}

type GraphRepository interface {
	FindEdges(ctx context.Context, nodeOrItemID string) ([]domain.GraphEdge, error)
}

// CompletionService is the external semantic-completion dependency.
// Any failure is treated uniformly as "unavailable".
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ResultCache is advisory: every error degrades to a miss.
type ResultCache interface {
	Get(ctx context.Context, fingerprint string) (*domain.CacheEntry, error)
	Set(ctx context.Context, fingerprint string, entry domain.CacheEntry, ttl time.Duration) error
	Invalidate(ctx context.Context, fingerprint string) error
	InvalidateAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

// ---- Service ----

type RecommendRequest struct {
	Query   string
	UserID  string
	Limit   int
	Explain bool
}

type ComponentStatus struct {
	Healthy   bool      `json:"healthy"`
	LastError string    `json:"last_error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

type EngineStatistics struct {
	Weights     map[string]float64         `json:"weights"`
	CacheStatus string                     `json:"cache_status"`
	Components  map[string]ComponentStatus `json:"component_health"`
}

type Service struct {
	catalogRepo CatalogIndexRepository
	interRepo   InteractionRepository
	graphRepo   GraphRepository
	completion  CompletionService
	cache       ResultCache
	cfg         Config

	scorers []scorer
	graph   *graphScorer

	mu     sync.Mutex
	health map[string]ComponentStatus
}

// NewService validates configuration and wires the four scorers.
// Invalid weights fail here, at startup, never at request time.
func NewService(
	catalogRepo CatalogIndexRepository,
	interRepo InteractionRepository,
	graphRepo GraphRepository,
	completion CompletionService,
	cache ResultCache,
	cfg Config,
) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}

	s := &Service{
		catalogRepo: catalogRepo,
		interRepo:   interRepo,
		graphRepo:   graphRepo,
		completion:  completion,
		cache:       cache,
		cfg:         cfg,
		health:      make(map[string]ComponentStatus),
	}

	s.graph = &graphScorer{repo: graphRepo, cfg: cfg}
	s.scorers = []scorer{
		&collaborativeScorer{repo: interRepo, cfg: cfg},
		&contentScorer{catalog: catalogRepo, completion: completion, cfg: cfg},
		s.graph,
		&semanticScorer{completion: completion, cfg: cfg},
	}

	return s, nil
}

// Recommend runs the full pipeline: cache lookup, requirement
// extraction, candidate selection, four-way scoring, fusion,
// explanation, cache write.
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) ([]domain.RankedRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return []domain.RankedRecommendation{}, nil
	}
	if len(query) > s.cfg.MaxQueryChars {
		query = query[:s.cfg.MaxQueryChars]
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.OverallTimeout)
	defer cancel()

	tid := TraceIDFromContext(ctx)
	fp := Fingerprint(query, req.UserID, limit)

	if entry := s.cacheGet(ctx, fp); entry != nil {
		RecommendRequestsTotal.WithLabelValues("hit").Inc()
		logger.Debug("recommend_cache_hit",
			"trace_id", tid,
			"fingerprint", fp,
			"results", len(entry.Recommendations),
		)
		return entry.Recommendations, nil
	}

	// 1) structured requirements (never fails: lexical fallback)
	reqs := s.extractRequirements(ctx, query)

	// 2) bounded candidate set
	candidates, err := s.selectCandidates(ctx, reqs, query, limit)
	if err != nil {
		RecommendRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(candidates) == 0 {
		RecommendRequestsTotal.WithLabelValues("empty").Inc()
		logger.Debug("recommend_no_candidates", "trace_id", tid, "query_len", len(query))
		return []domain.RankedRecommendation{}, nil
	}

	logger.Debug("recommend_pipeline",
		"trace_id", tid,
		"user_id", req.UserID,
		"limit", limit,
		"requirements", len(reqs.Requirements),
		"candidates", len(candidates),
	)

	// 3) fan out the four scorers, join at the fusion barrier
	vectors, healthyScorers := s.runScorers(ctx, candidates, reqs, req.UserID)
	if healthyScorers == 0 {
		RecommendRequestsTotal.WithLabelValues("error").Inc()
		return nil, ErrNoScorersAvailable
	}

	// 4) graph compatibility bonus needs the other scorers' outputs
	s.graph.applyCompatibilityBonus(ctx, candidates, vectors)

	// 5) fuse, rank, explain
	ranked := s.fuseAndRank(candidates, vectors, limit, req.Explain)

	// 6) best-effort cache write off the response path
	s.cacheWrite(fp, reqs, ranked)

	RecommendRequestsTotal.WithLabelValues("miss").Inc()

	return ranked, nil
}

// runScorers launches the four scorers concurrently, each under its
// own timeout. A failed or late scorer contributes zeros; the count of
// scorers that produced output is returned for the all-failed check.
func (s *Service) runScorers(
	ctx context.Context,
	candidates []domain.CandidateItem,
	reqs domain.RequirementSet,
	userID string,
) (map[string]*domain.ScoreVector, int) {

	results := make([]map[string]float64, len(s.scorers))

	var g errgroup.Group
	for i, sc := range s.scorers {
		g.Go(func() error {
			scoreCtx, cancel := context.WithTimeout(ctx, s.cfg.ScorerTimeout)
			defer cancel()

			scores, err := sc.Score(scoreCtx, candidates, reqs, userID)
			if err != nil {
				s.markDegraded(string(sc.Kind()), err)
				ScorerDegradedTotal.WithLabelValues(string(sc.Kind())).Inc()
				logger.Warn("scorer_degraded",
					"trace_id", TraceIDFromContext(ctx),
					"scorer", string(sc.Kind()),
					"error", err,
				)
				return nil
			}

			s.markHealthy(string(sc.Kind()))
			results[i] = scores
			return nil
		})
	}
	_ = g.Wait()

	vectors := make(map[string]*domain.ScoreVector, len(candidates))
	for _, c := range candidates {
		vectors[c.ItemID] = &domain.ScoreVector{ItemID: c.ItemID}
	}

	healthy := 0
	for i, sc := range s.scorers {
		if results[i] == nil {
			continue
		}
		healthy++
		for itemID, score := range results[i] {
			v, ok := vectors[itemID]
			if !ok {
				continue
			}
			switch sc.Kind() {
			case ScorerCollaborative:
				v.Collaborative = clamp01(score)
			case ScorerContent:
				v.Content = clamp01(score)
			case ScorerGraph:
				v.Graph = clamp01(score)
			case ScorerSemantic:
				v.Semantic = clamp01(score)
			}
		}
	}

	return vectors, healthy
}

// ---- Cache helpers ----

func (s *Service) cacheGet(ctx context.Context, fingerprint string) *domain.CacheEntry {
	if s.cache == nil {
		return nil
	}

	entry, err := s.cache.Get(ctx, fingerprint)
	if err != nil {
		CacheErrorsTotal.Inc()
		s.markDegraded("cache", err)
		logger.Warn("cache_read_failed", "error", err)
		return nil
	}

	s.markHealthy("cache")
	return entry
}

// cacheWrite stores the ranked list in the background; the response
// never waits on it.
func (s *Service) cacheWrite(fingerprint string, reqs domain.RequirementSet, ranked []domain.RankedRecommendation) {
	if s.cache == nil || len(ranked) == 0 {
		return
	}

	entry := domain.CacheEntry{
		Fingerprint:       fingerprint,
		RequirementDigest: RequirementDigest(reqs),
		Recommendations:   ranked,
		CreatedAt:         time.Now(),
		TTLSeconds:        int(s.cfg.CacheTTL / time.Second),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := s.cache.Set(ctx, fingerprint, entry, s.cfg.CacheTTL); err != nil {
			CacheErrorsTotal.Inc()
			s.markDegraded("cache", err)
			logger.Warn("cache_write_failed", "error", err)
		}
	}()
}

// InvalidateCache drops one fingerprint, or everything when scope is
// "all". Administrative operation, typically driven by catalog bulk
// updates.
func (s *Service) InvalidateCache(ctx context.Context, scope string) error {
	if s.cache == nil {
		return nil
	}

	if scope == "all" {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			return fmt.Errorf("failed to invalidate cache: %w", err)
		}
		return nil
	}

	if err := s.cache.Invalidate(ctx, scope); err != nil {
		return fmt.Errorf("failed to invalidate cache entry: %w", err)
	}

	return nil
}

// Statistics reports weights, cache reachability and per-component
// health. Read-only diagnostics.
func (s *Service) Statistics(ctx context.Context) EngineStatistics {
	cacheStatus := "disabled"
	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			cacheStatus = "unavailable"
		} else {
			cacheStatus = "available"
		}
	}

	s.mu.Lock()
	components := make(map[string]ComponentStatus, len(s.health))
	for k, v := range s.health {
		components[k] = v
	}
	s.mu.Unlock()

	return EngineStatistics{
		Weights:     s.cfg.Weights(),
		CacheStatus: cacheStatus,
		Components:  components,
	}
}

func (s *Service) markDegraded(component string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health[component] = ComponentStatus{
		Healthy:   false,
		LastError: err.Error(),
		CheckedAt: time.Now(),
	}
}

func (s *Service) markHealthy(component string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health[component] = ComponentStatus{
		Healthy:   true,
		CheckedAt: time.Now(),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
