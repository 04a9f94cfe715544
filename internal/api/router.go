package api

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/trackrec/records-backend-go/internal/config"
	"github.com/trackrec/records-backend-go/internal/handler"
	"github.com/trackrec/records-backend-go/internal/metrics"
	"github.com/trackrec/records-backend-go/internal/middleware"
	"github.com/trackrec/records-backend-go/internal/recommend"
	"github.com/trackrec/records-backend-go/internal/service"
)

// rateLimitIdle is how long an idle client's bucket is kept
const rateLimitIdle = 10 * time.Minute

// Services are the dependencies the HTTP layer is built on
type Services struct {
	DB        *sql.DB
	Tracks    *service.TrackService
	Ingest    *service.IngestService
	Users     *service.UserService
	Recommend *recommend.Engine
}

// SetupRouter builds the gin engine with every route and middleware.
// The rate limiter is returned so the caller can run its cleanup loop.
//
//nolint:gocritic // zerolog.Logger is passed by value
func SetupRouter(cfg *config.Config, svc Services, logger zerolog.Logger) (*gin.Engine, *middleware.RateLimiter) {
	gin.SetMode(cfg.GinMode)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimitIdle)

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logger(logger), middleware.CORS())

	health := handler.NewHealthHandler(svc.DB)
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	tracks := handler.NewTrackHandler(svc.Tracks, svc.Ingest, cfg.MaxUploadBytes, logger)
	recs := handler.NewRecommendationHandler(svc.Recommend, logger)
	users := handler.NewUserHandler(svc.Users)

	v1 := r.Group("/api/v1", limiter.Middleware(), middleware.Auth([]byte(cfg.JWTSecret)))
	{
		v1.PUT("/users/me", users.UpsertMe)

		t := v1.Group("/tracks")
		{
			t.POST("", tracks.Upload)
			t.GET("", tracks.List)
			t.GET("/:id/features", tracks.GetFeatures)
		}

		v1.GET("/recommendations", recs.Recommend)
	}

	return r, limiter
}
