package usage

import (
	"sync"
	"time"
)

// Outcome records whether a fetch attempt settled with data or an error.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// FetchRecord is one completed fetch attempt. It never carries key material.
type FetchRecord struct {
	ID       uint64        `json:"id"`
	Time     time.Time     `json:"time"`
	Provider string        `json:"provider"`
	Outcome  Outcome       `json:"outcome"`
	Kind     ErrorKind     `json:"kind,omitempty"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// ProviderStats counts settled fetches per provider.
type ProviderStats struct {
	OK     int `json:"ok"`
	Failed int `json:"failed"`
}

// FetchLog is a fixed-capacity ring buffer of fetch attempts with running
// per-provider counters. Safe for concurrent use.
type FetchLog struct {
	mu      sync.Mutex
	records []FetchRecord
	cap     int
	pos     int
	full    bool
	nextID  uint64
	stats   map[string]*ProviderStats
}

func NewFetchLog(capacity int) *FetchLog {
	return &FetchLog{
		records: make([]FetchRecord, capacity),
		cap:     capacity,
		nextID:  1,
		stats:   make(map[string]*ProviderStats),
	}
}

func (l *FetchLog) Add(rec FetchRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec.ID = l.nextID
	l.nextID++
	l.records[l.pos] = rec
	l.pos = (l.pos + 1) % l.cap
	if l.pos == 0 && !l.full {
		l.full = true
	}

	s, ok := l.stats[rec.Provider]
	if !ok {
		s = &ProviderStats{}
		l.stats[rec.Provider] = s
	}
	switch rec.Outcome {
	case OutcomeOK:
		s.OK++
	case OutcomeError:
		s.Failed++
	}
}

// Records returns all buffered records in insertion order.
func (l *FetchLog) Records() []FetchRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.full {
		out := make([]FetchRecord, l.pos)
		copy(out, l.records[:l.pos])
		return out
	}

	out := make([]FetchRecord, 0, l.cap)
	out = append(out, l.records[l.pos:]...)
	out = append(out, l.records[:l.pos]...)
	return out
}

// RecordsAfter returns the buffered records with an ID greater than afterID,
// in insertion order. Used for cursor-based polling.
func (l *FetchLog) RecordsAfter(afterID uint64) []FetchRecord {
	var out []FetchRecord
	for _, rec := range l.Records() {
		if rec.ID > afterID {
			out = append(out, rec)
		}
	}
	return out
}

// Stats returns a copy of the per-provider counters.
func (l *FetchLog) Stats() map[string]ProviderStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]ProviderStats, len(l.stats))
	for k, v := range l.stats {
		out[k] = *v
	}
	return out
}
