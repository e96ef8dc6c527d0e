package fedreg

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultVocabularyTTL is how long a vocabulary snapshot stays fresh.
const DefaultVocabularyTTL = 15 * time.Second

// Vocabulary is a snapshot of the domain terms known to the document store.
// It feeds both relevance scoring and help output. Snapshots are immutable;
// a refresh produces a new value rather than mutating an existing one.
type Vocabulary struct {
	Agencies              []string  `json:"agencies"`
	DocumentTypes         []string  `json:"documentTypes"`
	Keywords              []string  `json:"keywords"` // ranked, most frequent first
	TotalDocuments        int       `json:"totalDocuments"`
	LatestPublicationDate time.Time `json:"latestPublicationDate"`
	RefreshedAt           time.Time `json:"refreshedAt"`
}

// Tokens returns the union of tokens across agencies, document types and
// keywords, for overlap scoring.
func (v *Vocabulary) Tokens() map[string]struct{} {
	out := make(map[string]struct{})
	add := func(items []string) {
		for _, item := range items {
			for _, tok := range Tokenize(item) {
				out[tok] = struct{}{}
			}
		}
	}
	add(v.Agencies)
	add(v.DocumentTypes)
	add(v.Keywords)
	return out
}

// VocabularyService builds vocabulary snapshots from the document store.
type VocabularyService interface {
	// RefreshVocabulary recomputes the vocabulary from the underlying
	// document set. Recomputing over the same documents yields the same
	// vocabulary.
	RefreshVocabulary(ctx context.Context) (*Vocabulary, error)
}

// VocabularyCache caches a vocabulary snapshot with a fixed TTL and lazily
// refreshes it on access. Reads always observe a complete snapshot: the
// cache swaps an immutable pointer, never mutates in place.
type VocabularyCache struct {
	source VocabularyService
	ttl    time.Duration

	// Now reports the current time. Overridable in tests; defaults to
	// time.Now.
	Now func() time.Time

	mu       sync.Mutex // serializes refreshes only
	snapshot atomic.Pointer[Vocabulary]
}

// NewVocabularyCache creates a cache over the given source. A non-positive
// ttl falls back to DefaultVocabularyTTL.
func NewVocabularyCache(source VocabularyService, ttl time.Duration) *VocabularyCache {
	if ttl <= 0 {
		ttl = DefaultVocabularyTTL
	}
	return &VocabularyCache{
		source: source,
		ttl:    ttl,
		Now:    time.Now,
	}
}

// Snapshot returns the cached vocabulary, refreshing it first if the cached
// snapshot is older than the TTL. When a refresh fails and a previous
// snapshot exists, the stale snapshot is returned instead of the error.
func (c *VocabularyCache) Snapshot(ctx context.Context) (*Vocabulary, error) {
	now := c.Now()
	if snap := c.snapshot.Load(); snap != nil && now.Sub(snap.RefreshedAt) < c.ttl {
		return snap, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if snap := c.snapshot.Load(); snap != nil && now.Sub(snap.RefreshedAt) < c.ttl {
		return snap, nil
	}

	fresh, err := c.source.RefreshVocabulary(ctx)
	if err != nil {
		if snap := c.snapshot.Load(); snap != nil {
			return snap, nil
		}
		return nil, err
	}
	fresh.RefreshedAt = c.Now()
	c.snapshot.Store(fresh)
	return fresh, nil
}
