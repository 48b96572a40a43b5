package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/reel/internal/discover"
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/tmdb"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-outC
}

func TestVersionCommand(t *testing.T) {
	out := captureStdout(t, func() {
		versionCmd.Run(nil, nil)
	})

	// Version is "dev" by default in tests
	assert.Contains(t, out, "reel dev")
	assert.Contains(t, out, "Movie discovery")
	assert.Contains(t, out, "github.com/pders01/reel")
}

func TestGenerateConfigCommand(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	configFile := filepath.Join(tmpDir, ".config", "reel", "config.toml")

	out := captureStdout(t, func() {
		configGenCmd.Run(configGenCmd, nil)
	})

	_, err := os.Stat(configFile)
	assert.NoError(t, err, "config file was not created at %s", configFile)
	assert.Contains(t, out, "Generated default configuration at:")
}

func TestGenerateConfigCommand_ExplicitPath(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "custom.toml")

	out := captureStdout(t, func() {
		configGenCmd.Run(configGenCmd, []string{configFile})
	})

	_, err := os.Stat(configFile)
	assert.NoError(t, err)
	assert.Contains(t, out, configFile)
}

// catalogServer answers every search with the given body and status.
func catalogServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func setupCLIEnv(t *testing.T, baseURL string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("REEL_TMDB_BASE_URL", baseURL)
	t.Setenv("REEL_TMDB_API_KEY", "test-key")
	t.Setenv("REEL_LOG_LEVEL", "off")
	return filepath.Join(home, "reel.db")
}

func TestSearchAndTrendingCommands(t *testing.T) {
	ts := catalogServer(t, http.StatusOK, `{"results":[
		{"id":268,"title":"Batman","release_date":"1989-06-23","vote_average":7.2,"original_language":"en","poster_path":"/b.jpg"},
		{"id":364,"title":"Batman Returns","release_date":"1992-06-19","vote_average":6.9,"original_language":"en"}
	]}`)
	dbPath := setupCLIEnv(t, ts.URL+"/3")

	out, _, err := runRoot(t, "search", "--db", dbPath, "batman")
	require.NoError(t, err)
	assert.Contains(t, out, "Batman Returns")
	assert.Contains(t, out, "1989")
	assert.Contains(t, out, "7.2")

	out, _, err = runRoot(t, "trending", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "batman")
	assert.Contains(t, out, "Batman")

	store, err := storage.NewStore(dbPath, 0)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.ListTrending(t.Context(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "batman", entries[0].Query)
	assert.Equal(t, int64(1), entries[0].Count)
	assert.Equal(t, 268, entries[0].MovieID)
}

func TestSearchCommand_Failure(t *testing.T) {
	ts := catalogServer(t, http.StatusInternalServerError, `{}`)
	dbPath := setupCLIEnv(t, ts.URL)

	_, stderr, err := runRoot(t, "search", "--db", dbPath, "heat")
	require.Error(t, err)
	assert.Equal(t, discover.ErrorMessage, err.Error())
	assert.Contains(t, stderr, discover.ErrorMessage)
}

func TestSearchCommand_FailureMarker(t *testing.T) {
	ts := catalogServer(t, http.StatusOK, `{"Response":"False","error":"Movie not found!"}`)
	dbPath := setupCLIEnv(t, ts.URL)

	_, _, err := runRoot(t, "search", "--db", dbPath, "qwertyuiop")
	require.Error(t, err)
	assert.Equal(t, "Movie not found!", err.Error())
}

func TestTrendingCommand_Empty(t *testing.T) {
	dbPath := setupCLIEnv(t, "http://127.0.0.1:1")

	out, _, err := runRoot(t, "trending", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No searches recorded yet.")
}

func TestMoviesTable(t *testing.T) {
	out := moviesTable([]tmdb.Movie{
		{ID: 1, Title: "Alien", ReleaseDate: "1979-05-25", VoteAverage: 8.1, OriginalLanguage: "en"},
		{ID: 2},
	})

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, out, "Alien")
	assert.Contains(t, out, "EN")
	assert.Contains(t, out, "N/A")
}
