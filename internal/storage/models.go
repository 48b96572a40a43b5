package storage

import (
	"time"
)

// Movie is the part of a search hit kept next to a query's counter.
type Movie struct {
	ID        int    `json:"movie_id"`
	Title     string `json:"title"`
	PosterURL string `json:"poster_url"`
}

// TrendingEntry is one row of the search count store.
type TrendingEntry struct {
	Query     string    `json:"query"`
	Count     int64     `json:"count"`
	MovieID   int       `json:"movie_id"`
	Title     string    `json:"title"`
	PosterURL string    `json:"poster_url"`
	UpdatedAt time.Time `json:"updated_at"`
}
