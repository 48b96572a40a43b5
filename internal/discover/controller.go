package discover

import (
	"context"
	"sync"
	"time"

	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/storage"
)

// TrendingSource lists the most searched queries.
type TrendingSource interface {
	ListTrending(ctx context.Context, limit int) ([]storage.TrendingEntry, error)
}

const (
	defaultTrendingLimit   = 5
	defaultTrendingTimeout = 5 * time.Second
)

// Controller owns the discovery state: typed text, the debounced query, the
// current fetch result and the trending list. Every change is pushed to the
// subscribers as a State snapshot.
//
// Fetches run on goroutines. Each carries a sequence number and only the
// latest one may write its result; starting a fetch cancels the previous one.
type Controller struct {
	fetcher       *Fetcher
	trending      TrendingSource
	trendingLimit int
	maxQueryLen   int
	debouncer     *Debouncer

	mu          sync.Mutex
	state       State
	committed   bool
	mounted     bool
	closed      bool
	fetchSeq    uint64
	cancelFetch context.CancelFunc
	subs        map[int]func(State)
	nextSub     int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type options struct {
	debounce      time.Duration
	scheduler     Scheduler
	trendingLimit int
	maxQueryLen   int
}

// Option customizes a Controller.
type Option func(*options)

// WithDebounce sets the quiet period. Zero commits on the next tick.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithScheduler replaces the wall clock used for the quiet period.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithTrendingLimit sets how many trending entries Mount loads.
func WithTrendingLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.trendingLimit = n
		}
	}
}

// WithMaxQueryLength caps committed queries, see SanitizeQuery.
func WithMaxQueryLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxQueryLen = n
		}
	}
}

// NewController wires a Controller. trending may be nil.
func NewController(fetcher *Fetcher, trending TrendingSource, opts ...Option) *Controller {
	o := options{
		debounce:      DefaultDebounce,
		scheduler:     RealScheduler,
		trendingLimit: defaultTrendingLimit,
		maxQueryLen:   DefaultMaxQueryLength,
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		fetcher:       fetcher,
		trending:      trending,
		trendingLimit: o.trendingLimit,
		maxQueryLen:   o.maxQueryLen,
		debouncer:     NewDebouncer(o.debounce, o.scheduler),
		state:         State{Result: ready(nil), Trending: []storage.TrendingEntry{}},
		subs:          make(map[int]func(State)),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Subscribe registers fn for every state change and returns a function that
// removes it. fn is called outside the controller lock, possibly from
// several goroutines; compare State.Version to order snapshots.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Mount starts the initial popular-movies fetch and the one trending read.
// Calls after the first are no-ops.
func (c *Controller) Mount() {
	c.mu.Lock()
	if c.mounted || c.closed {
		c.mu.Unlock()
		return
	}
	c.mounted = true
	c.mu.Unlock()

	c.commit("")
	c.loadTrending()
}

// SetRawText records a keystroke and restarts the quiet period.
func (c *Controller) SetRawText(text string) {
	c.mu.Lock()
	if c.closed || c.state.Search.RawText == text {
		c.mu.Unlock()
		return
	}
	c.state.Search.RawText = text
	notify := c.changedLocked()
	c.mu.Unlock()
	notify()

	c.debouncer.Trigger(func() { c.commit(text) })
}

// Close stops the timer, cancels in-flight work and waits for it to end.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.debouncer.Stop()
	c.cancel()
	c.wg.Wait()
	c.fetcher.Wait()
}

// commit makes text the debounced value and fetches when the sanitized
// query differs from the last one.
func (c *Controller) commit(text string) {
	query := SanitizeQuery(text, c.maxQueryLen)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Search.DebouncedText = text
	if c.committed && query == c.state.Query {
		notify := c.changedLocked()
		c.mu.Unlock()
		notify()
		return
	}
	c.committed = true

	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	c.fetchSeq++
	seq := c.fetchSeq
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelFetch = cancel

	c.state.Query = query
	c.state.Result = loading()
	notify := c.changedLocked()
	c.mu.Unlock()
	notify()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		result := c.fetcher.Run(ctx, query)

		c.mu.Lock()
		if seq != c.fetchSeq || c.closed {
			c.mu.Unlock()
			debuglog.Debugf("dropping stale result for %q", query)
			return
		}
		c.state.Result = result
		notify := c.changedLocked()
		c.mu.Unlock()
		notify()
	}()
}

func (c *Controller) loadTrending() {
	if c.trending == nil {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(c.ctx, defaultTrendingTimeout)
		defer cancel()

		entries, err := c.trending.ListTrending(ctx, c.trendingLimit)
		if err != nil {
			debuglog.Warnf("loading trending searches: %v", err)
			return
		}
		if entries == nil {
			entries = []storage.TrendingEntry{}
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.state.Trending = entries
		notify := c.changedLocked()
		c.mu.Unlock()
		notify()
	}()
}

// changedLocked bumps the version and returns a func delivering the new
// snapshot. Must be called with c.mu held; the returned func must not be.
func (c *Controller) changedLocked() func() {
	c.state.Version++
	snapshot := c.state.clone()

	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}

	return func() {
		for _, fn := range subs {
			fn(snapshot)
		}
	}
}
