// Package search implements the dashboard's global search: a small in-memory
// index over every navigable entity (phone numbers, conversations,
// verifications, settings pages) with relevance-ranked, category-grouped
// results.
package search

import (
	"sort"
	"strings"
	"sync"
)

// Document is one searchable entity.
type Document struct {
	ID       string `json:"id"`
	Category string `json:"category"` // numbers|conversations|verifications|pages|contacts
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	// Weight boosts a whole category (pages rank above raw messages for the
	// same textual match). 0 means 1.0.
	Weight float64 `json:"-"`
}

// Result is one ranked hit.
type Result struct {
	Document
	Score float64 `json:"score"`
}

// Match quality tiers. Spacing leaves room for the weight multiplier to
// reorder within a tier but not across tiers of a stronger kind.
const (
	scoreExactTitle    = 100.0
	scoreTitlePrefix   = 70.0
	scoreTitleContains = 50.0
	scoreBodyContains  = 30.0
	scoreSubsequence   = 15.0
)

// Index holds the corpus. Safe for concurrent Query/Put.
type Index struct {
	mu   sync.RWMutex
	docs []Document
}

func NewIndex() *Index { return &Index{} }

// Put adds or replaces a document by ID.
func (ix *Index) Put(d Document) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for i := range ix.docs {
		if ix.docs[i].ID == d.ID {
			ix.docs[i] = d
			return
		}
	}
	ix.docs = append(ix.docs, d)
}

// Remove deletes a document by ID (no-op if absent).
func (ix *Index) Remove(id string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for i := range ix.docs {
		if ix.docs[i].ID == id {
			ix.docs = append(ix.docs[:i], ix.docs[i+1:]...)
			return
		}
	}
}

// Len returns the corpus size.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// Query ranks the corpus against q and returns at most limit results, best
// first. Ties break on shorter title then lexical ID so ordering is stable
// across calls. Empty queries return nothing: the search overlay shows
// recent items instead, which is the caller's concern.
func (ix *Index) Query(q string, limit int) []Result {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = 20
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	results := make([]Result, 0, 16)
	for _, d := range ix.docs {
		s := scoreDoc(d, q)
		if s <= 0 {
			continue
		}
		results = append(results, Result{Document: d, Score: s})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if len(results[i].Title) != len(results[j].Title) {
			return len(results[i].Title) < len(results[j].Title)
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Grouped buckets ranked results by category, keeping rank order inside each
// bucket (the overlay renders one section per category).
func Grouped(results []Result) map[string][]Result {
	out := make(map[string][]Result)
	for _, r := range results {
		out[r.Category] = append(out[r.Category], r)
	}
	return out
}

func scoreDoc(d Document, q string) float64 {
	title := strings.ToLower(d.Title)
	body := strings.ToLower(d.Body)
	var base float64
	switch {
	case title == q:
		base = scoreExactTitle
	case strings.HasPrefix(title, q):
		base = scoreTitlePrefix
	case strings.Contains(title, q):
		base = scoreTitleContains
	case body != "" && strings.Contains(body, q):
		base = scoreBodyContains
	case isSubsequence(q, title):
		base = scoreSubsequence
	default:
		return 0
	}
	w := d.Weight
	if w <= 0 {
		w = 1
	}
	return base * w
}

// isSubsequence reports whether every rune of q appears in s in order
// (cheap fuzzy matching: "vfy" finds "verify").
func isSubsequence(q, s string) bool {
	qr := []rune(q)
	if len(qr) < 2 {
		return false
	}
	i := 0
	for _, r := range s {
		if i < len(qr) && qr[i] == r {
			i++
		}
	}
	return i == len(qr)
}
