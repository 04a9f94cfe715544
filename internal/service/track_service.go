package service

import (
	"context"
	"fmt"
	"math"

	"github.com/trackrec/records-backend-go/internal/models"
	"github.com/trackrec/records-backend-go/internal/repository"
)

// TrackService serves a user's stored tracks and feature records
type TrackService struct {
	users    *repository.UserRepository
	tracks   *repository.TrackRepository
	features *repository.FeatureRepository
}

// NewTrackService creates a new track service
func NewTrackService(users *repository.UserRepository, tracks *repository.TrackRepository, featureRepo *repository.FeatureRepository) *TrackService {
	return &TrackService{users: users, tracks: tracks, features: featureRepo}
}

// ListTracks returns a page of the caller's tracks, newest first
func (s *TrackService) ListTracks(ctx context.Context, externalID string, page, pageSize int) (*models.TrackListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 500 {
		pageSize = 500
	}

	resp := &models.TrackListResponse{Data: []models.Track{}, Page: page, PageSize: pageSize}

	userID, ok, err := s.users.ResolveID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return resp, nil
	}

	tracks, total, err := s.tracks.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}

	resp.Data = tracks
	resp.Total = total
	resp.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	return resp, nil
}

// GetFeatures returns the feature record of one of the caller's tracks.
// Tracks owned by someone else are reported as not found.
func (s *TrackService) GetFeatures(ctx context.Context, externalID, trackID string) (*models.TrackFeatures, error) {
	userID, ok, err := s.users.ResolveID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrNotFound
	}

	f, err := s.features.Get(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if f.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return f, nil
}
