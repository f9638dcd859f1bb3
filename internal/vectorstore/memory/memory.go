// Package memory implements the document index in process memory with
// brute-force cosine ranking. Useful for tests and for running without a
// Qdrant server; contents do not survive a restart.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/OoVTo/foodrag/internal/domain"
)

var _ domain.DocumentIndex = (*Store)(nil)

type entry struct {
	id     string
	text   string
	vector []float32
}

// Store is an in-memory document index.
type Store struct {
	mu      sync.RWMutex
	entries []entry
}

// NewStore creates an empty in-memory index.
func NewStore() *Store { return &Store{} }

// ListIDs returns every stored record id.
func (s *Store) ListIDs(ctx context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make(map[string]struct{}, len(s.entries))
	for _, e := range s.entries {
		ids[e.id] = struct{}{}
	}
	return ids, nil
}

// Insert stores one entry. The caller reconciles against ListIDs first.
func (s *Store) Insert(ctx context.Context, id, text string, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{id: id, text: text, vector: embedding})
	return nil
}

// Query returns up to topK entries ranked by cosine similarity, best first.
func (s *Store) Query(ctx context.Context, embedding []float32, topK int) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 3
	}
	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(s.entries))
	for i, e := range s.entries {
		scores[i] = scored{idx: i, score: cosine(e.vector, embedding)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if topK > len(scores) {
		topK = len(scores)
	}
	results := make([]domain.Source, 0, topK)
	for i := 0; i < topK; i++ {
		e := s.entries[scores[i].idx]
		results = append(results, domain.Source{ID: e.id, Text: e.text})
	}
	return results, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
