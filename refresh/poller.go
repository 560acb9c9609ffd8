// Package refresh drives the per-provider polling lifecycle: an interval
// loop with coalesced manual triggers, a last-known-good snapshot for
// instant paint, and a background badge watcher.
package refresh

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/drjarvisw-bit/usageclaw/usage"
)

// State is the lifecycle phase of one provider's poller.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSettled State = "settled"
)

// DefaultInterval is the automatic refresh cadence.
const DefaultInterval = 5 * time.Minute

// FetchFunc resolves usage for one provider. The aggregator's Fetch method
// satisfies it.
type FetchFunc func(ctx context.Context, providerID, key string) (*usage.Result, error)

// Snapshot is a point-in-time view of a poller. Result holds the last good
// data even while a refresh is in flight or after a failed one, so
// consumers keep painting stale data instead of flashing empty.
type Snapshot struct {
	State      State
	Result     *usage.Result
	Err        string
	FetchedAt  time.Time
	Loaded     bool // a fetch has settled at least once
	Refreshing bool // a fetch is in flight right now
}

// Poller runs the refresh state machine for a single provider. Pollers are
// independent of each other: each owns its ticker goroutine and its own
// snapshot, so one provider's slow upstream never delays another's.
type Poller struct {
	provider string
	key      string
	fetch    FetchFunc
	cache    *usage.CacheStore
	interval time.Duration
	demo     bool

	// demoDelay simulates upstream latency in demo mode.
	demoDelay func() time.Duration

	mu         sync.Mutex
	snap       Snapshot
	inFlight   bool
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewPoller builds an idle poller. A non-positive interval selects the
// default. The cache may be nil.
func NewPoller(providerID, key string, fetch FetchFunc, cache *usage.CacheStore, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		provider:  providerID,
		key:       key,
		fetch:     fetch,
		cache:     cache,
		interval:  interval,
		demoDelay: randomDemoDelay,
		snap:      Snapshot{State: StateIdle},
	}
	if cache != nil {
		if entry, ok := cache.Get(providerID); ok {
			p.snap.Result = entry.Result
			p.snap.FetchedAt = entry.FetchedAt
		}
	}
	return p
}

// NewDemoPoller builds a poller that serves generated data after a
// simulated delay instead of calling upstream.
func NewDemoPoller(providerID string, interval time.Duration) *Poller {
	p := NewPoller(providerID, "", nil, nil, interval)
	p.demo = true
	return p
}

// Start issues an immediate fetch and begins the interval loop. It returns
// immediately; results land in the snapshot as they settle.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.ctx = ctx
	p.cancel = cancel
	p.mu.Unlock()

	p.trigger(ctx)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.trigger(ctx)
			}
		}
	}()
}

// Refresh requests a fetch outside the interval cadence. While a fetch is
// already in flight the call is a no-op. Before Start the fetch runs
// against a background context.
func (p *Poller) Refresh() {
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	p.trigger(ctx)
}

// Stop cancels the interval loop. An in-flight fetch may still complete
// but its result is discarded.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.generation++
	p.inFlight = false
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.snap.State = StateIdle
	p.snap.Refreshing = false
}

// Snapshot returns a copy of the current state.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// trigger starts one fetch unless one is already in flight.
func (p *Poller) trigger(ctx context.Context) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	gen := p.generation
	p.snap.State = StateLoading
	p.snap.Refreshing = true
	p.mu.Unlock()

	go func() {
		result, err := p.doFetch(ctx)
		p.apply(gen, result, err)
	}()
}

func (p *Poller) doFetch(ctx context.Context) (*usage.Result, error) {
	if p.demo {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.demoDelay()):
		}
		return usage.DemoResult(p.provider), nil
	}
	return p.fetch(ctx, p.provider, p.key)
}

// apply settles a fetch outcome, unless the poller was stopped (or
// restarted) since the fetch began.
func (p *Poller) apply(gen uint64, result *usage.Result, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		return
	}
	p.inFlight = false
	p.snap.State = StateSettled
	p.snap.Refreshing = false
	p.snap.Loaded = true

	if err != nil {
		// Stale Result stays visible alongside the error.
		p.snap.Err = err.Error()
		return
	}

	p.snap.Err = ""
	p.snap.Result = result
	p.snap.FetchedAt = time.Now()
	if p.cache != nil {
		p.cache.Put(p.provider, result)
	}
}

func randomDemoDelay() time.Duration {
	return 300*time.Millisecond + time.Duration(rand.Int64N(700))*time.Millisecond
}
