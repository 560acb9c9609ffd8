package refresh

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drjarvisw-bit/usageclaw/usage"
)

type staticKeys map[string]string

func (k staticKeys) All() (map[string]string, error) { return k, nil }

type failingKeys struct{}

func (failingKeys) All() (map[string]string, error) {
	return nil, errors.New("keystore unreadable")
}

type recordingNotifier struct {
	mu        sync.Mutex
	summaries []string
}

func (n *recordingNotifier) Notify(summary string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.summaries = append(n.summaries, summary)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.summaries...)
}

func TestWatcherPass(t *testing.T) {
	t.Run("notifies the rounded total across providers", func(t *testing.T) {
		fetch := func(ctx context.Context, providerID, key string) (*usage.Result, error) {
			switch providerID {
			case "openai":
				return &usage.Result{TotalSpend: 47.80}, nil
			case "deepseek":
				return &usage.Result{TotalSpend: 8.90}, nil
			}
			return nil, errors.New("unexpected provider")
		}
		notifier := &recordingNotifier{}
		cache := usage.NewCacheStore()
		w := NewWatcher(fetch, staticKeys{"openai": "sk-a", "deepseek": "sk-b"}, cache, notifier, time.Hour)

		w.Pass(context.Background())

		require.Equal(t, []string{"$57"}, notifier.all())
		entry, ok := cache.Get("openai")
		require.True(t, ok)
		assert.InDelta(t, 47.80, entry.Result.TotalSpend, 1e-9)
	})

	t.Run("one provider failing does not stop the pass", func(t *testing.T) {
		fetch := func(ctx context.Context, providerID, key string) (*usage.Result, error) {
			if providerID == "deepseek" {
				return nil, errors.New("upstream down")
			}
			return &usage.Result{TotalSpend: 10}, nil
		}
		notifier := &recordingNotifier{}
		cache := usage.NewCacheStore()
		w := NewWatcher(fetch, staticKeys{"openai": "sk-a", "deepseek": "sk-b"}, cache, notifier, time.Hour)

		w.Pass(context.Background())

		require.Equal(t, []string{"$10"}, notifier.all())
		_, ok := cache.Get("deepseek")
		assert.False(t, ok)
	})

	t.Run("no stored keys means no notification", func(t *testing.T) {
		notifier := &recordingNotifier{}
		w := NewWatcher(nil, staticKeys{}, nil, notifier, time.Hour)

		w.Pass(context.Background())
		assert.Empty(t, notifier.all())
	})

	t.Run("unreadable keystore is logged not fatal", func(t *testing.T) {
		notifier := &recordingNotifier{}
		w := NewWatcher(nil, failingKeys{}, nil, notifier, time.Hour)

		w.Pass(context.Background())
		assert.Empty(t, notifier.all())
	})
}

func TestWatcherRun(t *testing.T) {
	t.Run("stops on context cancellation", func(t *testing.T) {
		fetch := func(ctx context.Context, providerID, key string) (*usage.Result, error) {
			return &usage.Result{TotalSpend: 1}, nil
		}
		notifier := &recordingNotifier{}
		w := NewWatcher(fetch, staticKeys{"openai": "sk-a"}, nil, notifier, 10*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			w.Run(ctx)
			close(done)
		}()

		require.Eventually(t, func() bool {
			return len(notifier.all()) >= 2
		}, 2*time.Second, 5*time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("watcher did not stop")
		}
	})
}

func TestTitleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := &TitleNotifier{Out: &buf}
	n.Notify("$48")

	assert.Contains(t, buf.String(), "\x1b]0;usageclaw $48\x07")
}
