package discover

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/tmdb"
)

// User-facing messages of a failed fetch.
const (
	ErrorMessage           = "Error fetching movies. Please try again later."
	FallbackFailureMessage = "Failed to fetch movies"
)

const defaultRecordTimeout = 5 * time.Second

// MovieSource returns the result list for a query; empty means popular.
type MovieSource interface {
	Movies(ctx context.Context, query string) ([]tmdb.Movie, error)
}

// Recorder receives the top hit of every successful non-empty search.
type Recorder interface {
	RecordSearch(ctx context.Context, query string, movie storage.Movie) error
}

// Fetcher runs one fetch cycle per call and reports the top hit to the
// Recorder in the background.
type Fetcher struct {
	source        MovieSource
	recorder      Recorder
	imageBaseURL  string
	recordTimeout time.Duration

	wg sync.WaitGroup
}

// NewFetcher creates a Fetcher. recorder may be nil, in which case searches
// are not counted. imageBaseURL prefixes poster paths handed to the recorder.
func NewFetcher(source MovieSource, recorder Recorder, imageBaseURL string) *Fetcher {
	return &Fetcher{
		source:        source,
		recorder:      recorder,
		imageBaseURL:  imageBaseURL,
		recordTimeout: defaultRecordTimeout,
	}
}

// Run fetches movies for query and maps the outcome to a FetchResult. It never
// returns PhaseLoading.
func (f *Fetcher) Run(ctx context.Context, query string) FetchResult {
	movies, err := f.source.Movies(ctx, query)
	if err != nil {
		return resultForError(query, err)
	}

	if query != "" && len(movies) > 0 && f.recorder != nil {
		f.record(ctx, query, movies[0])
	}

	return ready(movies)
}

// Wait blocks until background recordings started by Run have finished.
func (f *Fetcher) Wait() {
	f.wg.Wait()
}

func (f *Fetcher) record(ctx context.Context, query string, top tmdb.Movie) {
	movie := storage.Movie{
		ID:        top.ID,
		Title:     top.Title,
		PosterURL: tmdb.PosterURL(f.imageBaseURL, top.PosterPath),
	}

	// Recording outlives the fetch: a superseded search was still made.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.recordTimeout)

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer cancel()

		if err := f.recorder.RecordSearch(recordCtx, query, movie); err != nil {
			debuglog.WithFields(map[string]interface{}{
				"query":    query,
				"movie_id": movie.ID,
			}).Warnf("recording search failed: %v", err)
		}
	}()
}

func resultForError(query string, err error) FetchResult {
	fields := debuglog.WithFields(map[string]interface{}{"query": query})

	var domainErr *tmdb.DomainError
	if errors.As(err, &domainErr) {
		fields.Warnf("movie source reported failure: %v", err)
		if domainErr.Message != "" {
			return failed(domainErr.Message)
		}
		return failed(FallbackFailureMessage)
	}

	if errors.Is(err, context.Canceled) {
		fields.Debugf("fetch cancelled")
	} else {
		fields.Errorf("fetching movies: %v", err)
	}
	return failed(ErrorMessage)
}
