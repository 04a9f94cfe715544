package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trackrec/records-backend-go/internal/features"
	"github.com/trackrec/records-backend-go/internal/metrics"
	"github.com/trackrec/records-backend-go/internal/models"
	"github.com/trackrec/records-backend-go/internal/parser"
	"github.com/trackrec/records-backend-go/internal/repository"
	"github.com/trackrec/records-backend-go/internal/spatial"
	"github.com/trackrec/records-backend-go/internal/storage"
	"github.com/trackrec/records-backend-go/internal/vectorindex"
	"github.com/trackrec/records-backend-go/internal/vectorize"
)

// ErrEmptyUpload is returned for zero-byte uploads
var ErrEmptyUpload = errors.New("uploaded file is empty")

// payloadGeohashPrecision gives ~150 m cells
const payloadGeohashPrecision = 7

// IngestCommand is one uploaded activity file
type IngestCommand struct {
	ExternalUserID string
	Filename       string
	Blob           []byte
	Source         string
}

// IngestResult is the stored outcome of an ingest
type IngestResult struct {
	Track    models.Track         `json:"track"`
	Features models.TrackFeatures `json:"features"`
}

// ReindexResult summarizes a reindex run
type ReindexResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// IngestService stores uploads and keeps their features and vectors current
type IngestService struct {
	users      *repository.UserRepository
	tracks     *repository.TrackRepository
	features   *repository.FeatureRepository
	storage    *storage.LocalStorage
	index      vectorindex.Index
	builder    *features.Builder
	vectorizer *vectorize.Vectorizer
	logger     zerolog.Logger

	newID func() string
	now   func() time.Time
}

// NewIngestService creates a new ingest service
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewIngestService(
	users *repository.UserRepository,
	tracks *repository.TrackRepository,
	featureRepo *repository.FeatureRepository,
	store *storage.LocalStorage,
	index vectorindex.Index,
	builder *features.Builder,
	vectorizer *vectorize.Vectorizer,
	logger zerolog.Logger,
) *IngestService {
	return &IngestService{
		users:      users,
		tracks:     tracks,
		features:   featureRepo,
		storage:    store,
		index:      index,
		builder:    builder,
		vectorizer: vectorizer,
		logger:     logger.With().Str("component", "ingest").Logger(),
		newID:      func() string { return uuid.NewString() },
		now:        time.Now,
	}
}

// Ingest stores the raw file, extracts its features and indexes its vector
func (s *IngestService) Ingest(ctx context.Context, cmd IngestCommand) (*IngestResult, error) {
	if len(cmd.Blob) == 0 {
		metrics.RecordIngestFailure("detect")
		return nil, ErrEmptyUpload
	}

	format, ok := parser.DetectFormat(cmd.Filename, cmd.Blob)
	if !ok {
		metrics.RecordIngestFailure("detect")
		return nil, parser.ErrUnsupportedFormat
	}

	raw, err := parser.Parse(format, cmd.Blob)
	if err != nil {
		metrics.RecordIngestFailure("parse")
		return nil, err
	}

	userID, err := s.ensureUser(ctx, cmd.ExternalUserID)
	if err != nil {
		metrics.RecordIngestFailure("user")
		return nil, err
	}

	source := cmd.Source
	if source == "" {
		source = "api"
	}
	track := models.Track{
		ID:        s.newID(),
		UserID:    userID,
		Filename:  cmd.Filename,
		Format:    string(format),
		Source:    source,
		CreatedAt: s.now().UTC(),
	}

	if _, err := s.storage.SaveRaw(track, cmd.Blob); err != nil {
		metrics.RecordIngestFailure("store")
		return nil, err
	}

	f, err := s.process(ctx, &track, raw)
	if err != nil {
		return nil, err
	}

	metrics.TracksIngestedTotal.WithLabelValues(track.Format).Inc()
	s.logger.Info().
		Str("track_id", track.ID).
		Int64("user_id", userID).
		Str("format", track.Format).
		Int("points", raw.PointCount()).
		Msg("track ingested")

	return &IngestResult{Track: track, Features: f}, nil
}

// Reindex recomputes records written by an older extraction version, and
// records whose vector never reached the index, from their raw files. With
// all set, every record is recomputed and re-upserted.
func (s *IngestService) Reindex(ctx context.Context, all bool) (ReindexResult, error) {
	version := models.FeaturesVersion
	if all {
		version++
	}
	stale, err := s.features.ListStale(ctx, version)
	if err != nil {
		return ReindexResult{}, err
	}

	var res ReindexResult
	for _, old := range stale {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := s.reindexTrack(ctx, old.TrackID); err != nil {
			res.Failed++
			s.logger.Warn().Err(err).Str("track_id", old.TrackID).Msg("reindex failed")
			continue
		}
		res.Processed++
	}

	s.logger.Info().Int("processed", res.Processed).Int("failed", res.Failed).Msg("reindex finished")
	return res, nil
}

// RestoreIndex upserts the stored vector of every current feature record
// without reparsing raw files. Used to refill an index that does not persist.
func (s *IngestService) RestoreIndex(ctx context.Context) (ReindexResult, error) {
	records, err := s.features.ListStale(ctx, models.FeaturesVersion+1)
	if err != nil {
		return ReindexResult{}, err
	}

	var res ReindexResult
	for _, f := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if f.FeaturesVersion < models.FeaturesVersion {
			continue
		}
		vector := s.vectorizer.VectorizeFeatures(f)
		if err := s.index.Upsert(ctx, f.TrackID, vector, BuildPayload(f)); err != nil {
			res.Failed++
			s.logger.Warn().Err(err).Str("track_id", f.TrackID).Msg("restore failed")
			continue
		}
		if err := s.features.MarkIndexed(ctx, f.TrackID, s.now().UTC()); err != nil {
			res.Failed++
			continue
		}
		res.Processed++
	}

	s.logger.Info().Int("restored", res.Processed).Int("failed", res.Failed).Msg("index restored")
	return res, nil
}

func (s *IngestService) reindexTrack(ctx context.Context, trackID string) error {
	track, err := s.tracks.Get(ctx, trackID)
	if err != nil {
		return err
	}
	blob, err := s.storage.LoadRaw(*track)
	if err != nil {
		return err
	}
	raw, err := parser.Parse(parser.Format(track.Format), blob)
	if err != nil {
		return err
	}
	_, err = s.process(ctx, track, raw)
	return err
}

// process builds, stores and indexes the features of a parsed track
func (s *IngestService) process(ctx context.Context, track *models.Track, raw models.RawTrack) (models.TrackFeatures, error) {
	start := time.Now()
	f := s.builder.Build(track.ID, track.UserID, track.Format, raw)
	metrics.FeatureExtractionSeconds.Observe(time.Since(start).Seconds())

	track.DistanceKm = f.TotalDistanceKm
	track.DurationS = f.ElapsedSeconds
	track.ElevationGainM = f.ElevationGainM
	if err := s.tracks.Save(ctx, *track); err != nil {
		metrics.RecordIngestFailure("save")
		return f, err
	}
	if err := s.features.Save(ctx, f); err != nil {
		metrics.RecordIngestFailure("save")
		return f, err
	}

	// The record stays unindexed, and so listed by Reindex, until the upsert lands
	vector := s.vectorizer.VectorizeFeatures(f)
	if err := s.index.Upsert(ctx, track.ID, vector, BuildPayload(f)); err != nil {
		metrics.RecordIngestFailure("index")
		s.logger.Warn().Err(err).Str("track_id", track.ID).Msg("track stored but not indexed, queued for reindex")
		return f, fmt.Errorf("failed to index track: %w", err)
	}
	if err := s.features.MarkIndexed(ctx, track.ID, s.now().UTC()); err != nil {
		metrics.RecordIngestFailure("save")
		return f, err
	}
	return f, nil
}

func (s *IngestService) ensureUser(ctx context.Context, externalID string) (int64, error) {
	id, ok, err := s.users.ResolveID(ctx, externalID)
	if err != nil {
		return 0, err
	}
	if ok {
		return id, nil
	}
	return s.users.Upsert(ctx, models.User{ExternalID: externalID})
}

// BuildPayload returns the metadata indexed next to a track vector.
// Absent features are stored as null.
func BuildPayload(f models.TrackFeatures) vectorindex.Payload {
	p := vectorindex.Payload{
		vectorindex.PayloadUserID: f.UserID,
		"format":                  f.SourceFormat,
		"start_time":              nil,
		"route":                   nil,
		"terrain":                 nil,
		"area":                    nil,
		"geohash":                 nil,
		"distance":                nil,
		"hour":                    nil,
	}
	if f.StartTime != nil {
		p["start_time"] = f.StartTime.Format(time.RFC3339)
	}
	if f.RouteCurvature != nil {
		p["route"] = string(*f.RouteCurvature)
	}
	if f.Terrain != nil {
		p["terrain"] = string(*f.Terrain)
	}
	if f.StartAreaID != nil {
		p["area"] = *f.StartAreaID
	}
	if f.StartLatitude != nil && f.StartLongitude != nil {
		p["geohash"] = spatial.EncodeGeohash(*f.StartLatitude, *f.StartLongitude, payloadGeohashPrecision)
	}
	if f.TotalDistanceKm != nil {
		p["distance"] = *f.TotalDistanceKm
	}
	if f.StartHourOfDay != nil {
		p["hour"] = *f.StartHourOfDay
	}
	return p
}
