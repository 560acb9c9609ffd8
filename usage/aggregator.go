package usage

import (
	"context"
	"errors"
	"time"

	"github.com/drjarvisw-bit/usageclaw/provider"
)

// Aggregator routes a fetch to the adapter registered for the provider id.
// It applies no retry policy; that belongs to the refresh layer.
type Aggregator struct {
	adapters map[string]Adapter
	log      *FetchLog
}

// NewAggregator builds the adapter table for the given registry. Active
// providers get their real adapter; coming-soon catalog entries get an
// UnsupportedAdapter so they fail with a useful message instead of a 404.
func NewAggregator(reg *provider.Registry, log *FetchLog) *Aggregator {
	adapters := map[string]Adapter{
		"openai":   &OpenAIAdapter{},
		"deepseek": &DeepSeekAdapter{},
		"minimax":  &MiniMaxAdapter{},
	}
	for _, d := range reg.All() {
		if _, ok := adapters[d.ID]; ok {
			continue
		}
		adapters[d.ID] = &UnsupportedAdapter{
			Reason: d.Name + " usage API not publicly available yet",
		}
	}
	return &Aggregator{adapters: adapters, log: log}
}

// Register replaces the adapter for a provider id. Tests use this to point
// a provider at an httptest upstream.
func (g *Aggregator) Register(id string, a Adapter) {
	g.adapters[id] = a
}

// Fetch dispatches to the adapter for providerID and passes its outcome
// through unchanged. Unknown ids fail as not supported without any network
// call. Every settled attempt is recorded in the fetch log.
func (g *Aggregator) Fetch(ctx context.Context, providerID, key string) (*Result, error) {
	adapter, ok := g.adapters[providerID]
	if !ok {
		err := errf(KindNotSupported, "provider not supported: %s", providerID)
		g.record(providerID, 0, err)
		return nil, err
	}

	started := time.Now()
	result, err := adapter.Fetch(ctx, key)
	g.record(providerID, time.Since(started), err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (g *Aggregator) record(providerID string, dur time.Duration, err error) {
	if g.log == nil {
		return
	}

	rec := FetchRecord{
		Time:     time.Now(),
		Provider: providerID,
		Outcome:  OutcomeOK,
		Duration: dur,
	}
	if err != nil {
		rec.Outcome = OutcomeError
		rec.Message = err.Error()
		var fe *FetchError
		if errors.As(err, &fe) {
			rec.Kind = fe.Kind
		}
	}
	g.log.Add(rec)
}
