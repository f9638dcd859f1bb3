// Package qdrant implements the document index on a Qdrant collection over
// its REST API. The collection is durable on disk, so a fresh process sees
// every prior insert without re-ingestion.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/OoVTo/foodrag/internal/domain"
)

var _ domain.DocumentIndex = (*Store)(nil)

const scrollPageSize = 256

// Store is a minimal REST client to a named Qdrant collection. It assumes
// cosine distance and creates the collection on first insert, sized to the
// first vector it sees.
type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client

	mu    sync.Mutex
	ready bool
}

// Config contains connection details for a Qdrant store.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewStore creates a store for the named collection.
func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// pointID maps a record id onto a Qdrant-legal point id. Qdrant only accepts
// UUIDs or unsigned integers, so the record id is hashed to a deterministic
// UUIDv5; the same record always lands on the same point.
func pointID(recordID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(recordID)).String()
}

// ListIDs returns the record id of every stored entry. A collection that
// does not exist yet reads as an empty index.
func (s *Store) ListIDs(ctx context.Context) (map[string]struct{}, error) {
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{})
	if !exists {
		return ids, nil
	}

	var offset any
	for {
		req := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": true,
		}
		if offset != nil {
			req["offset"] = offset
		}
		var resp struct {
			Result struct {
				Points []struct {
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		url := fmt.Sprintf("%s/collections/%s/points/scroll", s.url, s.collection)
		if err := s.postJSON(ctx, url, req, &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.Result.Points {
			if id, ok := p.Payload["record_id"].(string); ok {
				ids[id] = struct{}{}
			}
		}
		if resp.Result.NextPageOffset == nil {
			return ids, nil
		}
		offset = resp.Result.NextPageOffset
	}
}

// Insert stores one entry. Duplicate record ids are the caller's problem;
// re-inserting the same id overwrites the same point.
func (s *Store) Insert(ctx context.Context, id, text string, embedding []float32) error {
	if err := s.ensureCollection(ctx, len(embedding)); err != nil {
		return err
	}
	body := map[string]any{
		"points": []map[string]any{{
			"id":     pointID(id),
			"vector": embedding,
			"payload": map[string]any{
				"record_id": id,
				"text":      text,
			},
		}},
	}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection)
	return s.putJSON(ctx, url, body)
}

// Query returns up to topK entries nearest to the vector, best match first.
// An index holding fewer than topK entries returns what it has.
func (s *Store) Query(ctx context.Context, embedding []float32, topK int) ([]domain.Source, error) {
	if topK <= 0 {
		topK = 3
	}
	req := map[string]any{
		"vector":       embedding,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection)
	if err := s.postJSON(ctx, url, req, &resp); err != nil {
		return nil, err
	}
	sources := make([]domain.Source, 0, len(resp.Result))
	for _, r := range resp.Result {
		var src domain.Source
		if v, ok := r.Payload["record_id"].(string); ok {
			src.ID = v
		}
		if v, ok := r.Payload["text"].(string); ok {
			src.Text = v
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (s *Store) collectionExists(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	if err != nil {
		return false, err
	}
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("qdrant GET collection: %w", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 300:
		return false, fmt.Errorf("qdrant GET collection %s failed: %s", s.collection, resp.Status)
	}
	return true, nil
}

func (s *Store) ensureCollection(ctx context.Context, dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		body := map[string]any{
			"vectors": map[string]any{
				"size":     dimension,
				"distance": "Cosine",
			},
		}
		if err := s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body); err != nil {
			return err
		}
	}
	s.ready = true
	return nil
}

func (s *Store) putJSON(ctx context.Context, url string, body any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant PUT %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant POST %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (s *Store) setHeaders(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
}
