package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/watchmate/watchmate/internal/domain"
	"github.com/watchmate/watchmate/internal/metadata"
	"github.com/watchmate/watchmate/internal/repository"
)

type itemCreateRequest struct {
	Title        string   `json:"title"`
	Storyline    string   `json:"storyline"`
	PlatformID   string   `json:"platformId"`
	GenreIDs     []string `json:"genreIds"`
	ReleaseYear  *int     `json:"releaseYear"`
	DurationMins *int     `json:"durationMinutes"`
}

type itemResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Storyline     string   `json:"storyline,omitempty"`
	PlatformID    string   `json:"platformId"`
	Active        bool     `json:"active"`
	AverageRating float64  `json:"averageRating"`
	RatingCount   int      `json:"ratingCount"`
	ReleaseYear   *int     `json:"releaseYear,omitempty"`
	DurationMins  *int     `json:"durationMinutes,omitempty"`
	PosterURL     *string  `json:"posterUrl,omitempty"`
	TrailerURL    *string  `json:"trailerUrl,omitempty"`
	GenreIDs      []string `json:"genreIds,omitempty"`
	CreatedAt     string   `json:"createdAt"`
}

type itemListResponse struct {
	Items []itemResponse `json:"items"`
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req itemCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required")
		return
	}
	platformID, err := uuid.Parse(req.PlatformID)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "platformId must be a valid uuid")
		return
	}
	genreIDs := make([]uuid.UUID, 0, len(req.GenreIDs))
	for _, raw := range req.GenreIDs {
		genreID, err := uuid.Parse(raw)
		if err != nil {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "genreIds must be valid uuids")
			return
		}
		genreIDs = append(genreIDs, genreID)
	}

	item, err := s.repo.Items.Create(r.Context(), repository.ItemCreateParams{
		Title:        strings.TrimSpace(req.Title),
		Storyline:    strings.TrimSpace(req.Storyline),
		PlatformID:   platformID,
		GenreIDs:     genreIDs,
		ReleaseYear:  req.ReleaseYear,
		DurationMins: req.DurationMins,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown platform or genre")
			return
		}
		s.logger.Error().Err(err).Msg("create item failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create item")
		return
	}

	enriched := s.enrichItemMetadata(r.Context(), item)

	w.Header().Set("Location", fmt.Sprintf("/items/%s", url.PathEscape(enriched.ID.String())))
	s.respondJSON(w, http.StatusCreated, toItemResponse(enriched))
}

// enrichItemMetadata fetches poster/trailer data best-effort; upstream failure
// never fails the create.
func (s *Server) enrichItemMetadata(ctx context.Context, item domain.Item) domain.Item {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.MetadataTimeoutSecs)*time.Second)
	defer cancel()

	result, err := s.metadata.Fetch(ctx, item.Title)
	if err != nil {
		if !errors.Is(err, metadata.ErrNotFound) {
			s.logger.Warn().Err(err).Str("title", item.Title).Msg("metadata fetch failed")
		}
		return item
	}

	updated, err := s.repo.Items.SetEnrichment(ctx, item.ID, result.PosterURL, result.TrailerURL, result.ReleaseYear, result.DurationMins)
	if err != nil {
		s.logger.Warn().Err(err).Str("item_id", item.ID.String()).Msg("store item metadata failed")
		return item
	}
	updated.GenreIDs = item.GenreIDs
	return updated
}

func toItemResponse(item domain.Item) itemResponse {
	resp := itemResponse{
		ID:            item.ID.String(),
		Title:         item.Title,
		Storyline:     item.Storyline,
		PlatformID:    item.PlatformID.String(),
		Active:        item.Active,
		AverageRating: item.AverageRating,
		RatingCount:   item.RatingCount,
		ReleaseYear:   item.ReleaseYear,
		DurationMins:  item.DurationMins,
		PosterURL:     item.PosterURL,
		TrailerURL:    item.TrailerURL,
		CreatedAt:     item.CreatedAt.Format(time.RFC3339),
	}
	for _, genreID := range item.GenreIDs {
		resp.GenreIDs = append(resp.GenreIDs, genreID.String())
	}
	return resp
}

func toItemListResponse(items []domain.Item) itemListResponse {
	resp := itemListResponse{Items: make([]itemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, toItemResponse(item))
	}
	return resp
}
