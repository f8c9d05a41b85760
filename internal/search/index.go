// Package search provides a simple, deterministic, concurrency-safe in-memory
// keyword index over product listings. It is intentionally small and
// dependency-free:
//
//   - No logging in the library (callers decide how/what to log)
//   - Unicode-aware tokenization with optional stop-word removal
//   - Mutable under a single RWMutex (listings change at runtime)
//   - Deterministic scoring and sorting (stable order for ties)
//
// Scoring uses Jaccard similarity between the query token set and each
// listing's token set: score = |Q ∩ L| / |Q ∪ L|.
package search

import (
	"sort"
	"sync"
)

// Result is a ranked product id with its similarity score.
type Result struct {
	ProductID string
	Score     float64
}

// Option configures a ProductIndex.
type Option func(*config)

type config struct {
	stopwords map[string]struct{}
	maxHits   int
}

func defaultConfig() config {
	return config{
		stopwords: nil,
		maxHits:   50,
	}
}

// WithStopwords removes the given words from every token set.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			if t := normalizeToken(w); t != "" {
				m[t] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithMaxHits caps the number of results a query may return.
func WithMaxHits(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxHits = n
		}
	}
}

type entry struct {
	tokens map[string]struct{}
}

// ProductIndex maps product ids to token sets and answers ranked queries.
// Safe for concurrent use.
type ProductIndex struct {
	cfg config

	mu      sync.RWMutex
	entries map[string]entry
}

// NewProductIndex builds an empty index.
func NewProductIndex(opts ...Option) *ProductIndex {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &ProductIndex{cfg: cfg, entries: map[string]entry{}}
}

// Upsert indexes a product under the concatenation of its text fields,
// replacing any previous entry.
func (ix *ProductIndex) Upsert(productID string, fields ...string) {
	if productID == "" {
		return
	}
	tokens := map[string]struct{}{}
	for _, f := range fields {
		for _, t := range Tokenize(f) {
			if _, stop := ix.cfg.stopwords[t]; stop {
				continue
			}
			tokens[t] = struct{}{}
		}
	}
	ix.mu.Lock()
	ix.entries[productID] = entry{tokens: tokens}
	ix.mu.Unlock()
}

// Remove drops a product from the index.
func (ix *ProductIndex) Remove(productID string) {
	ix.mu.Lock()
	delete(ix.entries, productID)
	ix.mu.Unlock()
}

// Len returns the number of indexed products.
func (ix *ProductIndex) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Search returns the ids of products matching the query, ranked by Jaccard
// similarity, ties broken by id for determinism. An empty or all-stopword
// query matches nothing.
func (ix *ProductIndex) Search(query string) []Result {
	q := map[string]struct{}{}
	for _, t := range Tokenize(query) {
		if _, stop := ix.cfg.stopwords[t]; stop {
			continue
		}
		q[t] = struct{}{}
	}
	if len(q) == 0 {
		return nil
	}

	ix.mu.RLock()
	hits := make([]Result, 0, len(ix.entries))
	for id, e := range ix.entries {
		if s := jaccard(q, e.tokens); s > 0 {
			hits = append(hits, Result{ProductID: id, Score: s})
		}
	}
	ix.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ProductID < hits[j].ProductID
	})
	if len(hits) > ix.cfg.maxHits {
		hits = hits[:ix.cfg.maxHits]
	}
	return hits
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
