package domain

import (
	"context"
	"fmt"
)

// Record is a single corpus entry. Text is the canonical payload that is
// stored and retrieved; Region and Type only influence the embedding input.
type Record struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Region string `json:"region,omitempty"`
	Type   string `json:"type,omitempty"`
}

// EnrichedText returns the embedding input for the record: the original text
// with a clause appended for each present optional attribute. The enriched
// form is never stored.
func (r Record) EnrichedText() string {
	enriched := r.Text
	if r.Region != "" {
		enriched += fmt.Sprintf(" This food is popular in %s.", r.Region)
	}
	if r.Type != "" {
		enriched += fmt.Sprintf(" It is a type of %s.", r.Type)
	}
	return enriched
}

// Source is one retrieved document, ranked by similarity to the question.
type Source struct {
	ID   string
	Text string
}

// AnswerResult is the terminal output of the answer pipeline.
type AnswerResult struct {
	Question string
	Sources  []Source
	Answer   string
}

// Embedder converts text into a fixed-length vector via an external service.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a completion for a prompt via an external service.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DocumentIndex persists (id, text, embedding) entries and answers
// nearest-neighbor queries. Insert does not dedupe; callers reconcile
// against ListIDs first.
type DocumentIndex interface {
	ListIDs(ctx context.Context) (map[string]struct{}, error)
	Insert(ctx context.Context, id, text string, embedding []float32) error
	Query(ctx context.Context, embedding []float32, topK int) ([]Source, error)
}
