package usage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

// CacheEntry is the last-known-good result for one provider.
type CacheEntry struct {
	Result    *Result   `json:"data"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// CacheStore keeps one entry per provider id, last-write-wins. The provider
// count is small and static, so there is no eviction. Entries can optionally
// be persisted to a directory so a restart paints cached data instantly.
type CacheStore struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
	dir     string // empty disables persistence
}

func NewCacheStore() *CacheStore {
	return &CacheStore{entries: make(map[string]CacheEntry)}
}

// NewPersistentCacheStore returns a store backed by the user cache
// directory. Existing entries are loaded best-effort.
func NewPersistentCacheStore() *CacheStore {
	cacheDir := xdg.CacheHome
	if cacheDir == "" {
		userCacheDir, err := os.UserCacheDir()
		if err != nil {
			return NewCacheStore()
		}
		cacheDir = userCacheDir
	}

	return newCacheStoreAt(filepath.Join(cacheDir, "usageclaw"))
}

func newCacheStoreAt(dir string) *CacheStore {
	s := &CacheStore{
		entries: make(map[string]CacheEntry),
		dir:     dir,
	}
	s.load()
	return s
}

func (s *CacheStore) Get(providerID string) (CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[providerID]
	return e, ok
}

func (s *CacheStore) Put(providerID string, result *Result) {
	entry := CacheEntry{Result: result, FetchedAt: time.Now()}

	s.mu.Lock()
	s.entries[providerID] = entry
	dir := s.dir
	s.mu.Unlock()

	if dir != "" {
		// Persistence is best effort; a failed write never surfaces.
		s.save(dir, providerID, entry)
	}
}

func (s *CacheStore) load() {
	files, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var entry CacheEntry
		if err := json.Unmarshal(data, &entry); err != nil || entry.Result == nil {
			continue
		}
		id := strings.TrimSuffix(filepath.Base(path), ".json")
		s.entries[id] = entry
	}
}

func (s *CacheStore) save(dir, providerID string, entry CacheEntry) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(dir, providerID+".json"), data, 0o644)
}
