package httpserver

import (
	"net/http"
	"time"

	"github.com/watchmate/watchmate/internal/domain"
	"github.com/watchmate/watchmate/internal/repository"
)

type reviewCreateRequest struct {
	Rating      int     `json:"rating"`
	Description *string `json:"description"`
	IsSpoiler   bool    `json:"isSpoiler"`
}

type reviewUpdateRequest struct {
	Rating      *int    `json:"rating"`
	Description *string `json:"description"`
	IsSpoiler   *bool   `json:"isSpoiler"`
}

type reviewResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId"`
	ItemID       string  `json:"itemId"`
	Rating       int     `json:"rating"`
	Description  *string `json:"description,omitempty"`
	IsSpoiler    bool    `json:"isSpoiler"`
	HelpfulCount int     `json:"helpfulCount"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type reviewListResponse struct {
	Items []reviewResponse `json:"items"`
}

type helpfulResponse struct {
	HelpfulCount int `json:"helpfulCount"`
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuidParam(r, "itemID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	userID, ok := userIDFromHeader(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req reviewCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	review, err := s.repo.Reviews.Submit(r.Context(), repository.SubmitParams{
		UserID:      userID,
		ItemID:      itemID,
		Rating:      req.Rating,
		Description: req.Description,
		IsSpoiler:   req.IsSpoiler,
	})
	if err != nil {
		s.respondRepoError(w, err, "submit review failed")
		return
	}
	s.respondJSON(w, http.StatusCreated, toReviewResponse(review))
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuidParam(r, "itemID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	reviews, err := s.repo.Reviews.ListForItem(r.Context(), itemID)
	if err != nil {
		s.respondRepoError(w, err, "list reviews failed")
		return
	}

	resp := reviewListResponse{Items: make([]reviewResponse, 0, len(reviews))}
	for _, review := range reviews {
		resp.Items = append(resp.Items, toReviewResponse(review))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuidParam(r, "reviewID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	actorID, ok := userIDFromHeader(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req reviewUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	review, err := s.repo.Reviews.Update(r.Context(), repository.UpdateParams{
		ReviewID:    reviewID,
		ActorID:     actorID,
		Rating:      req.Rating,
		Description: req.Description,
		IsSpoiler:   req.IsSpoiler,
	})
	if err != nil {
		s.respondRepoError(w, err, "update review failed")
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewResponse(review))
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuidParam(r, "reviewID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	actorID, ok := userIDFromHeader(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	if err := s.repo.Reviews.Remove(r.Context(), reviewID, actorID); err != nil {
		s.respondRepoError(w, err, "delete review failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkHelpful(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuidParam(r, "reviewID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	count, err := s.repo.Reviews.MarkHelpful(r.Context(), reviewID)
	if err != nil {
		s.respondRepoError(w, err, "mark helpful failed")
		return
	}
	s.respondJSON(w, http.StatusOK, helpfulResponse{HelpfulCount: count})
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:           review.ID.String(),
		UserID:       review.UserID.String(),
		ItemID:       review.ItemID.String(),
		Rating:       review.Rating,
		Description:  review.Description,
		IsSpoiler:    review.IsSpoiler,
		HelpfulCount: review.HelpfulCount,
		CreatedAt:    review.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    review.UpdatedAt.Format(time.RFC3339),
	}
}
