package httpserver

import (
	"net/http"

	"github.com/watchmate/watchmate/internal/domain"
)

type topReviewerResponse struct {
	Username    string `json:"username"`
	ReviewCount int    `json:"reviewCount"`
}

type mostReviewedResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ReviewCount int    `json:"reviewCount"`
}

type platformStatsResponse struct {
	TotalItems       int                   `json:"totalItems"`
	TotalReviews     int                   `json:"totalReviews"`
	TotalUsers       int                   `json:"totalUsers"`
	TotalPlatforms   int                   `json:"totalPlatforms"`
	AverageRating    float64               `json:"averageRating"`
	TopReviewers     []topReviewerResponse `json:"topReviewers"`
	MostReviewedItem *mostReviewedResponse `json:"mostReviewedItem"`
}

type watchlistBreakdownResponse struct {
	Total       int `json:"total"`
	WantToWatch int `json:"wantToWatch"`
	Watching    int `json:"watching"`
	Watched     int `json:"watched"`
}

type genreCountResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type userStatsResponse struct {
	TotalReviews   int                        `json:"totalReviews"`
	AverageRating  float64                    `json:"averageRating"`
	Watchlist      watchlistBreakdownResponse `json:"watchlist"`
	FavoriteGenres []genreCountResponse       `json:"favoriteGenres"`
}

func (s *Server) handlePlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repo.Stats.Platform(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("platform stats failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute statistics")
		return
	}
	s.respondJSON(w, http.StatusOK, toPlatformStatsResponse(stats))
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromHeader(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	stats, err := s.repo.Stats.User(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("user stats failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute statistics")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserStatsResponse(stats))
}

func toPlatformStatsResponse(stats domain.PlatformStats) platformStatsResponse {
	resp := platformStatsResponse{
		TotalItems:     stats.TotalItems,
		TotalReviews:   stats.TotalReviews,
		TotalUsers:     stats.TotalUsers,
		TotalPlatforms: stats.TotalPlatforms,
		AverageRating:  stats.AverageRating,
		TopReviewers:   make([]topReviewerResponse, 0, len(stats.TopReviewers)),
	}
	for _, reviewer := range stats.TopReviewers {
		resp.TopReviewers = append(resp.TopReviewers, topReviewerResponse{
			Username:    reviewer.Username,
			ReviewCount: reviewer.ReviewCount,
		})
	}
	if stats.MostReviewedItem != nil {
		resp.MostReviewedItem = &mostReviewedResponse{
			ID:          stats.MostReviewedItem.ID.String(),
			Title:       stats.MostReviewedItem.Title,
			ReviewCount: stats.MostReviewedItem.ReviewCount,
		}
	}
	return resp
}

func toUserStatsResponse(stats domain.UserStats) userStatsResponse {
	resp := userStatsResponse{
		TotalReviews:  stats.TotalReviews,
		AverageRating: stats.AverageRating,
		Watchlist: watchlistBreakdownResponse{
			Total:       stats.Watchlist.Total,
			WantToWatch: stats.Watchlist.WantToWatch,
			Watching:    stats.Watchlist.Watching,
			Watched:     stats.Watchlist.Watched,
		},
		FavoriteGenres: make([]genreCountResponse, 0, len(stats.FavoriteGenres)),
	}
	for _, genre := range stats.FavoriteGenres {
		resp.FavoriteGenres = append(resp.FavoriteGenres, genreCountResponse{
			Name:  genre.Name,
			Count: genre.Count,
		})
	}
	return resp
}
