package httpserver

import (
	"context"
	"net/http"

	"github.com/watchmate/watchmate/internal/domain"
)

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	s.respondRanking(w, r, "trending", s.repo.Rankings.Trending)
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	s.respondRanking(w, r, "popular", s.repo.Rankings.Popular)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	s.respondRanking(w, r, "recent", s.repo.Rankings.Recent)
}

func (s *Server) handleTopRated(w http.ResponseWriter, r *http.Request) {
	s.respondRanking(w, r, "top-rated", s.repo.Rankings.TopRated)
}

func (s *Server) respondRanking(w http.ResponseWriter, r *http.Request, name string, query func(context.Context) ([]domain.Item, error)) {
	items, err := query(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Str("ranking", name).Msg("ranking query failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute ranking")
		return
	}
	s.respondJSON(w, http.StatusOK, toItemListResponse(items))
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuidParam(r, "itemID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	items, err := s.repo.Rankings.Similar(r.Context(), itemID)
	if err != nil {
		s.respondRepoError(w, err, "similar query failed")
		return
	}
	s.respondJSON(w, http.StatusOK, toItemListResponse(items))
}
