package discover

import (
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/tmdb"
)

// Phase is the active variant of a FetchResult.
type Phase int

const (
	PhaseReady Phase = iota
	PhaseLoading
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	default:
		return "ready"
	}
}

// SearchState holds what the user typed and what survived the quiet period.
type SearchState struct {
	RawText       string
	DebouncedText string
}

// FetchResult is Loading, Error(Message) or Ready(Movies). Movies is only
// meaningful when Phase is PhaseReady and Message only for PhaseError.
type FetchResult struct {
	Phase   Phase
	Message string
	Movies  []tmdb.Movie
}

func loading() FetchResult {
	return FetchResult{Phase: PhaseLoading}
}

func ready(movies []tmdb.Movie) FetchResult {
	if movies == nil {
		movies = []tmdb.Movie{}
	}
	return FetchResult{Phase: PhaseReady, Movies: movies}
}

func failed(message string) FetchResult {
	return FetchResult{Phase: PhaseError, Message: message}
}

// State is an immutable snapshot handed to subscribers. Version increases
// with every change, so a subscriber receiving snapshots out of order can
// drop the older one.
type State struct {
	Version  uint64
	Search   SearchState
	Query    string
	Result   FetchResult
	Trending []storage.TrendingEntry
}

func (s State) clone() State {
	out := s
	if s.Result.Movies != nil {
		out.Result.Movies = append([]tmdb.Movie(nil), s.Result.Movies...)
	}
	if s.Trending != nil {
		out.Trending = append([]storage.TrendingEntry(nil), s.Trending...)
	}
	return out
}
