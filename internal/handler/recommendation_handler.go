package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/trackrec/records-backend-go/internal/middleware"
	"github.com/trackrec/records-backend-go/internal/recommend"
	"github.com/trackrec/records-backend-go/pkg/response"
)

const (
	defaultTopK = 5
	maxTopK     = 100
)

// RecommendationHandler serves similar-track recommendations
type RecommendationHandler struct {
	engine *recommend.Engine
	logger zerolog.Logger
}

// NewRecommendationHandler creates a new recommendation handler
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewRecommendationHandler(engine *recommend.Engine, logger zerolog.Logger) *RecommendationHandler {
	return &RecommendationHandler{engine: engine, logger: logger}
}

// Recommend handles GET /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	topK, err := strconv.Atoi(c.DefaultQuery("top_k", strconv.Itoa(defaultTopK)))
	if err != nil || topK < 1 {
		response.BadRequest(c, "top_k must be a positive integer")
		return
	}
	topK = min(topK, maxTopK)

	includeOthers, err := strconv.ParseBool(c.DefaultQuery("include_other_users", "false"))
	if err != nil {
		response.BadRequest(c, "include_other_users must be a boolean")
		return
	}

	recs, err := h.engine.Recommend(c.Request.Context(), recommend.Request{
		ExternalUserID:    middleware.ExternalUserID(c),
		TopK:              topK,
		IncludeOtherUsers: includeOthers,
	})
	if errors.Is(err, recommend.ErrSearchFailed) {
		h.logger.Error().Err(err).Msg("similarity search failed")
		response.Error(c, http.StatusBadGateway, "similarity index unavailable")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("recommendation failed")
		response.InternalError(c, "failed to compute recommendations")
		return
	}

	response.Success(c, recs)
}
