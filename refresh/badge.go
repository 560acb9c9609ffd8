package refresh

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/drjarvisw-bit/usageclaw/tui"
	"github.com/drjarvisw-bit/usageclaw/usage"
)

// DefaultWatchInterval is the badge refresh cadence. The badge tolerates
// staleness, so it polls far less often than the dashboard.
const DefaultWatchInterval = 30 * time.Minute

// Notifier receives the badge summary. Fire-and-forget: implementations
// must not block or fail loudly.
type Notifier interface {
	Notify(summary string)
}

// TitleNotifier sets the terminal title to the badge summary and echoes it
// on a status line.
type TitleNotifier struct {
	Out io.Writer // defaults to stdout
}

func (n *TitleNotifier) Notify(summary string) {
	out := n.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "\x1b]0;usageclaw %s\x07", summary)
	tui.Status("badge", "%s", summary)
}

// KeySource yields the stored provider credentials.
type KeySource interface {
	All() (map[string]string, error)
}

// Watcher is the background badge worker: on every tick it re-fetches
// usage for each provider with a stored key, writes through to the cache,
// and pushes the rounded total spend to the notifier. A single provider's
// failure is logged and skipped, never fatal.
type Watcher struct {
	fetch    FetchFunc
	keys     KeySource
	cache    *usage.CacheStore
	notifier Notifier
	interval time.Duration
}

func NewWatcher(fetch FetchFunc, keys KeySource, cache *usage.CacheStore, notifier Notifier, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{
		fetch:    fetch,
		keys:     keys,
		cache:    cache,
		notifier: notifier,
		interval: interval,
	}
}

// Run performs one pass immediately, then one per interval until the
// context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	w.Pass(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Pass(ctx)
		}
	}
}

// Pass fetches every keyed provider once and notifies the summed spend.
func (w *Watcher) Pass(ctx context.Context) {
	keys, err := w.keys.All()
	if err != nil {
		tui.Error("reading credentials: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}

	ids := make([]string, 0, len(keys))
	for id := range keys {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var total float64
	for _, id := range ids {
		result, err := w.fetchOne(ctx, id, keys[id])
		if err != nil {
			tui.Error("%s: %v", id, err)
			continue
		}
		total += result.TotalSpend
		if w.cache != nil {
			w.cache.Put(id, result)
		}
	}

	w.notifier.Notify(fmt.Sprintf("$%.0f", total))
}

func (w *Watcher) fetchOne(ctx context.Context, providerID, key string) (*usage.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return w.fetch(ctx, providerID, key)
}
