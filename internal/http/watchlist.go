package httpserver

import (
	"net/http"
	"time"

	"github.com/watchmate/watchmate/internal/domain"
)

type watchlistUpsertRequest struct {
	Status string `json:"status"`
}

type watchlistEntryResponse struct {
	ID      string `json:"id"`
	ItemID  string `json:"itemId"`
	Status  string `json:"status"`
	AddedAt string `json:"addedAt"`
}

type watchlistListResponse struct {
	Items []watchlistEntryResponse `json:"items"`
}

func (s *Server) handleUpsertWatchlist(w http.ResponseWriter, r *http.Request) {
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

	req := watchlistUpsertRequest{Status: string(domain.StatusWantToWatch)}
	if r.ContentLength > 0 {
		if err := decodeJSONBody(w, r, &req); err != nil {
			s.respondDecodeError(w, err)
			return
		}
	}
	status := domain.WatchlistStatus(req.Status)
	if !status.Valid() {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "status must be one of want_to_watch, watching, watched")
		return
	}

	entry, inserted, err := s.repo.Watchlist.Upsert(r.Context(), userID, itemID, status)
	if err != nil {
		s.respondRepoError(w, err, "upsert watchlist entry failed")
		return
	}

	code := http.StatusOK
	if inserted {
		code = http.StatusCreated
	}
	s.respondJSON(w, code, toWatchlistEntryResponse(entry))
}

func (s *Server) handleRemoveWatchlist(w http.ResponseWriter, r *http.Request) {
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

	if err := s.repo.Watchlist.Remove(r.Context(), userID, itemID); err != nil {
		s.respondRepoError(w, err, "remove watchlist entry failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromHeader(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	entries, err := s.repo.Watchlist.ListForUser(r.Context(), userID)
	if err != nil {
		s.respondRepoError(w, err, "list watchlist failed")
		return
	}

	resp := watchlistListResponse{Items: make([]watchlistEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Items = append(resp.Items, toWatchlistEntryResponse(entry))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func toWatchlistEntryResponse(entry domain.WatchlistEntry) watchlistEntryResponse {
	return watchlistEntryResponse{
		ID:      entry.ID.String(),
		ItemID:  entry.ItemID.String(),
		Status:  string(entry.Status),
		AddedAt: entry.AddedAt.Format(time.RFC3339),
	}
}
