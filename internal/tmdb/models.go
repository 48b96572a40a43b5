package tmdb

import (
	"fmt"
	"strings"
)

// Movie is one entry of a search or discover result. Fields are passed
// through untouched; callers only check presence before rendering.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	Popularity       float64 `json:"popularity"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	OriginalLanguage string  `json:"original_language"`
	GenreIDs         []int   `json:"genre_ids"`
}

// Year returns the release year or "N/A".
func (m Movie) Year() string {
	if len(m.ReleaseDate) >= 4 {
		return m.ReleaseDate[:4]
	}
	return "N/A"
}

// Rating returns the vote average with one decimal or "N/A".
func (m Movie) Rating() string {
	if m.VoteAverage <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", m.VoteAverage)
}

// Response is the body of /search/movie and /discover/movie.
//
// Besides the regular payload it carries the two failure markers seen in
// practice: an OMDb-style {"Response":"False","error":"..."} and TMDB's own
// {"success":false,"status_message":"..."}.
type Response struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`

	Response      string `json:"Response"`
	Error         string `json:"error"`
	Success       *bool  `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// Failed reports whether the body carries a failure marker.
func (r *Response) Failed() bool {
	if strings.EqualFold(r.Response, "false") {
		return true
	}
	return r.Success != nil && !*r.Success
}

// FailureMessage returns the server-provided failure text, if any.
func (r *Response) FailureMessage() string {
	if r.Error != "" {
		return r.Error
	}
	return r.StatusMessage
}

// PosterURL joins an image base URL and a poster path. Empty path gives "".
func PosterURL(imageBaseURL, posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return strings.TrimRight(imageBaseURL, "/") + "/" + strings.TrimLeft(posterPath, "/")
}

// PageURL is the public web page of a movie.
func PageURL(webBaseURL string, id int) string {
	return fmt.Sprintf("%s/%d", strings.TrimRight(webBaseURL, "/"), id)
}
