package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"procureMatch/business/recommend"
	"procureMatch/domain"
	"procureMatch/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendHandler struct {
		validate         *validator.Validate
		recommendService RecommendService
	}

	RecommendService interface {
		Recommend(ctx context.Context, req recommend.RecommendRequest) ([]domain.RankedRecommendation, error)
		Statistics(ctx context.Context) recommend.EngineStatistics
		InvalidateCache(ctx context.Context, scope string) error
	}

	RecommendQuery struct {
		Q       string `query:"q" validate:"required"`
		N       int    `query:"n"`
		Explain *bool  `query:"explain"`
	}

	InvalidateRequest struct {
		Scope string `json:"scope" validate:"required"`
	}

	ResponseError struct {
		Message string `json:"message"`
	}
)

func NewRecommendHandler(svc RecommendService) *RecommendHandler {
	return &RecommendHandler{
		validate:         validator.New(),
		recommendService: svc,
	}
}

// GET /api/v1/recommendations?q=...&n=10&explain=true
func (h *RecommendHandler) Recommend(c echo.Context) error {
	started := time.Now()

	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if q.N <= 0 {
		q.N = 10
	}
	explain := true
	if q.Explain != nil {
		explain = *q.Explain
	}

	// identity is optional here: anonymous callers get the cold-start path
	userID := ""
	if uid, ok := c.Get("user_id").(string); ok {
		userID = uid
	}

	recs, err := h.recommendService.Recommend(c.Request().Context(), recommend.RecommendRequest{
		Query:   q.Q,
		UserID:  userID,
		Limit:   q.N,
		Explain: explain,
	})
	if err != nil {
		if errors.Is(err, recommend.ErrNoScorersAvailable) {
			return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: "recommendations temporarily unavailable, try again"})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	metrics.RecommendRequests.Inc()
	metrics.RecommendLatency.Observe(time.Since(started).Seconds())

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

// GET /api/v1/recommendations/stats
func (h *RecommendHandler) Statistics(c echo.Context) error {
	stats := h.recommendService.Statistics(c.Request().Context())

	return c.JSON(http.StatusOK, fres.Response.StatusOK(stats))
}

// POST /api/v1/recommendations/cache/invalidate
func (h *RecommendHandler) InvalidateCache(c echo.Context) error {
	var req InvalidateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.recommendService.InvalidateCache(c.Request().Context(), req.Scope); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("cache invalidated"))
}
