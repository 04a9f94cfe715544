// Package app wires configuration into the stores, index and services
// shared by the server and the maintenance commands.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/trackrec/records-backend-go/internal/api"
	"github.com/trackrec/records-backend-go/internal/config"
	"github.com/trackrec/records-backend-go/internal/database"
	"github.com/trackrec/records-backend-go/internal/features"
	"github.com/trackrec/records-backend-go/internal/models"
	"github.com/trackrec/records-backend-go/internal/recommend"
	"github.com/trackrec/records-backend-go/internal/repository"
	"github.com/trackrec/records-backend-go/internal/service"
	"github.com/trackrec/records-backend-go/internal/storage"
	"github.com/trackrec/records-backend-go/internal/vectorindex"
	"github.com/trackrec/records-backend-go/internal/vectorize"
)

// Index backends
const (
	IndexQdrant = "qdrant"
	IndexMemory = "memory"
)

// App holds every long-lived dependency of the process
type App struct {
	DB       *sql.DB
	Index    vectorindex.Index
	Services api.Services
}

// New opens the database, applies migrations, connects the vector index
// and builds the services on top of them.
//
//nolint:gocritic // zerolog.Logger is passed by value
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	dbCfg := database.Config{Driver: cfg.DBDriver, Path: cfg.DBPath, URL: cfg.DatabaseURL}
	if err := database.Init(dbCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	conn := database.GetDB()

	index, err := NewIndex(cfg, logger)
	if err != nil {
		database.Close()
		return nil, err
	}
	if err := index.EnsureCollection(ctx, models.VectorSize); err != nil {
		index.Close()
		database.Close()
		return nil, fmt.Errorf("failed to prepare vector collection: %w", err)
	}

	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		index.Close()
		database.Close()
		return nil, err
	}

	users := repository.NewUserRepository(conn, cfg.DBDriver)
	tracks := repository.NewTrackRepository(conn, cfg.DBDriver)
	feats := repository.NewFeatureRepository(conn, cfg.DBDriver)
	builder := features.NewBuilder(features.DefaultConfig())
	vectorizer := vectorize.NewDefault()

	a := &App{
		DB:    conn,
		Index: index,
		Services: api.Services{
			DB:        conn,
			Tracks:    service.NewTrackService(users, tracks, feats),
			Ingest:    service.NewIngestService(users, tracks, feats, store, index, builder, vectorizer, logger),
			Users:     service.NewUserService(users),
			Recommend: recommend.NewEngine(users, feats, index, vectorizer, logger),
		},
	}

	// The memory index starts empty on every run
	if _, ok := index.(*vectorindex.Memory); ok {
		if _, err := a.Services.Ingest.RestoreIndex(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to restore memory index: %w", err)
		}
	}
	return a, nil
}

// NewIndex connects the configured vector index backend
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewIndex(cfg *config.Config, logger zerolog.Logger) (vectorindex.Index, error) {
	switch cfg.IndexBackend {
	case IndexQdrant, "":
		q, err := vectorindex.NewQdrant(vectorindex.QdrantConfig{
			Host:       cfg.QdrantHost,
			Port:       cfg.QdrantPort,
			APIKey:     cfg.QdrantAPIKey,
			UseTLS:     cfg.QdrantUseTLS,
			Collection: cfg.QdrantCollection,
		}, logger)
		if err != nil {
			return nil, err
		}
		return vectorindex.NewBreaker(q, vectorindex.BreakerConfig{
			FailureThreshold: uint32(max(cfg.IndexBreakerFailures, 0)),
			Timeout:          cfg.IndexBreakerTimeout,
		}, logger), nil
	case IndexMemory:
		logger.Warn().Msg("using in-memory vector index, vectors are lost on restart")
		return vectorindex.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.IndexBackend)
	}
}

// Close releases the index and the database
func (a *App) Close() error {
	return errors.Join(a.Index.Close(), database.Close())
}
