package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/discover"
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/tmdb"
)

const trendingTimeout = 5 * time.Second

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MoviesResponse is the body of a successful /api/movies call.
type MoviesResponse struct {
	Query  string       `json:"query"`
	Movies []tmdb.Movie `json:"movies"`
}

// TrendingResponse is the body of /api/trending.
type TrendingResponse struct {
	Trending []storage.TrendingEntry `json:"trending"`
}

func (s *Server) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Movies runs one fetch cycle. An empty query lists popular movies.
func (s *Server) Movies(c fiber.Ctx) error {
	query := discover.SanitizeQuery(c.Query("query"), s.cfg.Search.MaxQueryLength)

	result := s.fetcher.Run(c.Context(), query)
	if result.Phase == discover.PhaseError {
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: result.Message})
	}

	return c.JSON(MoviesResponse{Query: query, Movies: result.Movies})
}

// Trending lists the most searched queries. Store failures yield an empty
// list, never an error status.
func (s *Server) Trending(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", s.cfg.Search.TrendingLimit)
	if limit <= 0 {
		limit = s.cfg.Search.TrendingLimit
	}
	if limit > MaxTrendingLimit {
		limit = MaxTrendingLimit
	}

	entries := []storage.TrendingEntry{}
	if s.trending != nil {
		ctx, cancel := context.WithTimeout(c.Context(), trendingTimeout)
		defer cancel()

		list, err := s.trending.ListTrending(ctx, limit)
		if err != nil {
			debuglog.Warnf("listing trending searches: %v", err)
		} else if list != nil {
			entries = list
		}
	}

	return c.JSON(TrendingResponse{Trending: entries})
}
