package discover

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/tmdb"
)

// manualScheduler fires timers only when Advance moves its clock past them.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

type fakeResponse struct {
	movies []tmdb.Movie
	err    error
}

type fakeSource struct {
	mu        sync.Mutex
	calls     []string
	responses map[string]fakeResponse
	gates     map[string]chan struct{}
	cancelled map[string]bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		responses: make(map[string]fakeResponse),
		gates:     make(map[string]chan struct{}),
		cancelled: make(map[string]bool),
	}
}

func (f *fakeSource) respond(query string, movies []tmdb.Movie, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[query] = fakeResponse{movies: movies, err: err}
}

// hold makes the call for query block until the returned func is called.
func (f *fakeSource) hold(query string) func() {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[query] = gate
	f.mu.Unlock()
	return func() { close(gate) }
}

func (f *fakeSource) Movies(ctx context.Context, query string) ([]tmdb.Movie, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	gate := f.gates[query]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if ctx.Err() != nil {
		f.cancelled[query] = true
	}
	resp, ok := f.responses[query]
	if !ok {
		return []tmdb.Movie{}, nil
	}
	return resp.movies, resp.err
}

func (f *fakeSource) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSource) WasCancelled(query string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled[query]
}

type recordCall struct {
	query string
	movie storage.Movie
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordCall
	err   error
}

func (r *fakeRecorder) RecordSearch(_ context.Context, query string, movie storage.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordCall{query: query, movie: movie})
	return r.err
}

func (r *fakeRecorder) Calls() []recordCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordCall(nil), r.calls...)
}

type fakeTrending struct {
	mu      sync.Mutex
	calls   int
	limits  []int
	entries []storage.TrendingEntry
	err     error
}

func (f *fakeTrending) ListTrending(_ context.Context, limit int) ([]storage.TrendingEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.limits = append(f.limits, limit)
	return f.entries, f.err
}

func (f *fakeTrending) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type harness struct {
	sched    *manualScheduler
	source   *fakeSource
	recorder *fakeRecorder
	trending *fakeTrending
	fetcher  *Fetcher
	ctrl     *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		sched:    &manualScheduler{},
		source:   newFakeSource(),
		recorder: &fakeRecorder{},
		trending: &fakeTrending{},
	}
	h.fetcher = NewFetcher(h.source, h.recorder, "https://image.tmdb.org/t/p/w500")
	h.ctrl = NewController(h.fetcher, h.trending,
		WithScheduler(h.sched),
		WithDebounce(750*time.Millisecond),
		WithTrendingLimit(5),
	)
	t.Cleanup(h.ctrl.Close)
	return h
}

// waitFor polls the controller until cond holds.
func (h *harness) waitFor(t *testing.T, cond func(State) bool, msg string) State {
	t.Helper()
	var last State
	require.Eventually(t, func() bool {
		last = h.ctrl.State()
		return cond(last)
	}, 2*time.Second, 5*time.Millisecond, msg)
	return last
}

func (h *harness) waitReady(t *testing.T, query string) State {
	t.Helper()
	return h.waitFor(t, func(s State) bool {
		return s.Query == query && s.Result.Phase != PhaseLoading
	}, "fetch for "+query+" did not finish")
}

// settle waits for every goroutine the controller and fetcher started.
func (h *harness) settle() {
	h.ctrl.wg.Wait()
	h.fetcher.Wait()
}

func movies(titles ...string) []tmdb.Movie {
	out := make([]tmdb.Movie, len(titles))
	for i, title := range titles {
		out[i] = tmdb.Movie{ID: i + 1, Title: title, PosterPath: "/" + title + ".jpg"}
	}
	return out
}
