package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/discover"
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/tmdb"
)

// catalog is a stand-in for the movie API shared by all tests.
var catalog *fakeCatalog

type fakeCatalog struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []string
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RequestURI())
	f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer test-key" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"status_message":"Invalid API key"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/3/discover/movie":
		writeMovies(w, tmdb.Movie{ID: 1, Title: "Popular One", PosterPath: "/p1.jpg"})
	case "/3/search/movie":
		switch q := r.URL.Query().Get("query"); q {
		case "nothing":
			writeMovies(w)
		case "broken":
			_, _ = w.Write([]byte(`{"Response":"False","error":"Movie not found!"}`))
		default:
			writeMovies(w,
				tmdb.Movie{ID: 100, Title: strings.ToUpper(q), PosterPath: "/" + q + ".jpg"},
				tmdb.Movie{ID: 101, Title: q + " II"},
			)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeMovies(w http.ResponseWriter, movies ...tmdb.Movie) {
	if movies == nil {
		movies = []tmdb.Movie{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"page": 1, "results": movies})
}

func (f *fakeCatalog) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = nil
}

func (f *fakeCatalog) searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.requests {
		if strings.HasPrefix(r, "/3/search/movie") {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeCatalog) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func TestMain(m *testing.M) {
	catalog = &fakeCatalog{}
	catalog.server = httptest.NewServer(catalog)

	code := m.Run()

	catalog.server.Close()
	os.Exit(code)
}

type environment struct {
	cfg     *config.Config
	store   *storage.Store
	fetcher *discover.Fetcher
}

func setupTestEnvironment(t *testing.T) *environment {
	t.Helper()
	catalog.reset()

	cfg := config.TestConfig()
	cfg.TMDB.BaseURL = catalog.server.URL + "/3"
	cfg.Store.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Search.Debounce = 50 * time.Millisecond
	require.NoError(t, cfg.Validate())

	store, err := storage.NewStore(cfg.Store.Path, cfg.Store.Timeout)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, tmdb.WithTimeout(cfg.TMDB.HTTPTimeout))

	return &environment{
		cfg:     cfg,
		store:   store,
		fetcher: discover.NewFetcher(client, store, cfg.TMDB.ImageBaseURL),
	}
}

func (e *environment) controller(t *testing.T) *discover.Controller {
	t.Helper()
	ctrl := discover.NewController(e.fetcher, e.store,
		discover.WithDebounce(e.cfg.Search.Debounce),
		discover.WithTrendingLimit(e.cfg.Search.TrendingLimit),
		discover.WithMaxQueryLength(e.cfg.Search.MaxQueryLength),
	)
	t.Cleanup(ctrl.Close)
	return ctrl
}

func waitForState(t *testing.T, ctrl *discover.Controller, desc string, cond func(discover.State) bool) discover.State {
	t.Helper()
	require.Eventually(t, func() bool {
		return cond(ctrl.State())
	}, 5*time.Second, 10*time.Millisecond, desc)
	return ctrl.State()
}

func readyFor(query string) func(discover.State) bool {
	return func(s discover.State) bool {
		return s.Query == query && s.Result.Phase == discover.PhaseReady
	}
}

func typeText(ctrl *discover.Controller, text string) {
	for i := 1; i <= len(text); i++ {
		ctrl.SetRawText(text[:i])
	}
}

func TestIntegration_MountLoadsPopularMovies(t *testing.T) {
	env := setupTestEnvironment(t)
	ctrl := env.controller(t)

	ctrl.Mount()
	ctrl.Mount()

	state := waitForState(t, ctrl, "popular movies", readyFor(""))
	require.Len(t, state.Result.Movies, 1)
	assert.Equal(t, "Popular One", state.Result.Movies[0].Title)

	waitForState(t, ctrl, "trending loaded", func(s discover.State) bool { return s.Trending != nil })
	assert.Equal(t, 1, catalog.count("/3/discover/movie?sort_by=popularity.desc"))
	assert.Empty(t, catalog.searches())
}

func TestIntegration_TypingIssuesOneSearch(t *testing.T) {
	env := setupTestEnvironment(t)
	ctrl := env.controller(t)
	ctrl.Mount()
	waitForState(t, ctrl, "popular movies", readyFor(""))

	typeText(ctrl, "batman")

	state := waitForState(t, ctrl, "batman results", readyFor("batman"))
	require.Len(t, state.Result.Movies, 2)
	assert.Equal(t, "BATMAN", state.Result.Movies[0].Title)
	assert.Equal(t, "batman", state.Search.DebouncedText)

	assert.Equal(t, []string{"/3/search/movie?query=batman"}, catalog.searches())

	env.fetcher.Wait()
	entries, err := env.store.ListTrending(t.Context(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "batman", entries[0].Query)
	assert.Equal(t, int64(1), entries[0].Count)
	assert.Equal(t, 100, entries[0].MovieID)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/batman.jpg", entries[0].PosterURL)
}

func TestIntegration_QueryIsPercentEncoded(t *testing.T) {
	env := setupTestEnvironment(t)
	ctrl := env.controller(t)

	ctrl.SetRawText("  the   dark knight & co ")
	waitForState(t, ctrl, "encoded search", readyFor("the dark knight & co"))

	assert.Equal(t, []string{"/3/search/movie?query=the%20dark%20knight%20%26%20co"}, catalog.searches())
}

func TestIntegration_TrendingAcrossSessions(t *testing.T) {
	env := setupTestEnvironment(t)

	for _, q := range []string{"heat", "alien", "heat", "heat", "alien", "zodiac"} {
		result := env.fetcher.Run(t.Context(), q)
		require.Equal(t, discover.PhaseReady, result.Phase)
	}
	env.fetcher.Wait()

	ctrl := env.controller(t)
	ctrl.Mount()

	state := waitForState(t, ctrl, "trending loaded", func(s discover.State) bool { return len(s.Trending) > 0 })
	require.Len(t, state.Trending, 3)

	var got []string
	for _, e := range state.Trending {
		got = append(got, fmt.Sprintf("%s:%d", e.Query, e.Count))
	}
	assert.Equal(t, []string{"heat:3", "alien:2", "zodiac:1"}, got)
}

func TestIntegration_EmptyResultsAreNotCounted(t *testing.T) {
	env := setupTestEnvironment(t)
	ctrl := env.controller(t)

	ctrl.SetRawText("nothing")
	state := waitForState(t, ctrl, "empty results", readyFor("nothing"))
	assert.Empty(t, state.Result.Movies)

	env.fetcher.Wait()
	entries, err := env.store.ListTrending(t.Context(), 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIntegration_FailureMarker(t *testing.T) {
	env := setupTestEnvironment(t)
	ctrl := env.controller(t)

	ctrl.SetRawText("broken")
	state := waitForState(t, ctrl, "failure shown", func(s discover.State) bool {
		return s.Query == "broken" && s.Result.Phase == discover.PhaseError
	})
	assert.Equal(t, "Movie not found!", state.Result.Message)
	assert.Empty(t, state.Result.Movies)

	// A following search clears the error.
	ctrl.SetRawText("heat")
	waitForState(t, ctrl, "heat results", readyFor("heat"))
}

func TestIntegration_BadAPIKey(t *testing.T) {
	env := setupTestEnvironment(t)
	client := tmdb.NewClient("wrong", env.cfg.TMDB.BaseURL)
	fetcher := discover.NewFetcher(client, env.store, env.cfg.TMDB.ImageBaseURL)

	result := fetcher.Run(t.Context(), "heat")
	assert.Equal(t, discover.PhaseError, result.Phase)
	assert.Equal(t, discover.ErrorMessage, result.Message)
}
