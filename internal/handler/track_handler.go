package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/trackrec/records-backend-go/internal/middleware"
	"github.com/trackrec/records-backend-go/internal/parser"
	"github.com/trackrec/records-backend-go/internal/repository"
	"github.com/trackrec/records-backend-go/internal/service"
	"github.com/trackrec/records-backend-go/pkg/response"
)

// TrackHandler handles HTTP requests for uploaded tracks
type TrackHandler struct {
	trackService   *service.TrackService
	ingestService  *service.IngestService
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewTrackHandler creates a new track handler
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewTrackHandler(trackService *service.TrackService, ingestService *service.IngestService, maxUploadBytes int64, logger zerolog.Logger) *TrackHandler {
	return &TrackHandler{
		trackService:   trackService,
		ingestService:  ingestService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Upload handles POST /api/v1/tracks
func (h *TrackHandler) Upload(c *gin.Context) {
	if c.Request.ContentLength > h.maxUploadBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		response.BadRequest(c, "multipart field \"file\" is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	blob, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "failed to read uploaded file")
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), service.IngestCommand{
		ExternalUserID: middleware.ExternalUserID(c),
		Filename:       header.Filename,
		Blob:           blob,
		Source:         c.DefaultPostForm("source", "api"),
	})
	switch {
	case err == nil:
		response.Created(c, result)
	case errors.Is(err, service.ErrEmptyUpload):
		response.BadRequest(c, err.Error())
	case errors.Is(err, parser.ErrUnsupportedFormat):
		response.Error(c, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, parser.ErrMalformedTrack):
		response.Error(c, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("ingest failed")
		response.InternalError(c, "failed to ingest track")
	}
}

// List handles GET /api/v1/tracks
func (h *TrackHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		response.BadRequest(c, "Invalid page parameter")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if err != nil {
		response.BadRequest(c, "Invalid page_size parameter")
		return
	}

	result, err := h.trackService.ListTracks(c.Request.Context(), middleware.ExternalUserID(c), page, pageSize)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetFeatures handles GET /api/v1/tracks/:id/features
func (h *TrackHandler) GetFeatures(c *gin.Context) {
	features, err := h.trackService.GetFeatures(c.Request.Context(), middleware.ExternalUserID(c), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		response.NotFound(c, "Track not found")
		return
	}
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, features)
}
