// Package service orchestrates the retrieval-augmented answer pipeline:
// corpus reconciliation into the document index, and question answering via
// embed -> nearest-neighbor query -> prompt -> generate.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/OoVTo/foodrag/internal/domain"
)

// DefaultTopK is the number of sources retrieved per question when the
// caller does not choose one.
const DefaultTopK = 3

// ErrEmptyQuestion reports a blank question. It is a usage error, distinct
// from the service failure taxonomy.
var ErrEmptyQuestion = errors.New("question is empty")

// promptTemplate fixes the prompt shape: context block first, then the
// question, then the generation cue. Generation quality depends on this
// ordering.
const promptTemplate = `Use the following context to answer the question.

Context:
%s

Question: %s
Answer:`

// Pipeline owns the document index handle and the corpus, and wires the
// external service clients together. Construct once at startup.
type Pipeline struct {
	embedder  domain.Embedder
	generator domain.Generator
	index     domain.DocumentIndex
	corpus    []domain.Record
}

// NewPipeline assembles a pipeline from its ports and the loaded corpus.
func NewPipeline(embedder domain.Embedder, generator domain.Generator, index domain.DocumentIndex, corpus []domain.Record) *Pipeline {
	return &Pipeline{embedder: embedder, generator: generator, index: index, corpus: corpus}
}

// Ingest reconciles the corpus against the index: records whose id is not
// yet stored are embedded (from their enriched text) and inserted with their
// original text. It returns the number of records inserted; zero means the
// index already held the whole corpus.
//
// Ingest is not atomic. A failure mid-loop keeps every insert made so far,
// and a re-run recomputes the remaining delta from the index's own id set,
// so repeated runs converge without duplicates.
func (p *Pipeline) Ingest(ctx context.Context) (int, error) {
	existing, err := p.index.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing indexed ids: %w", err)
	}

	inserted := 0
	for _, rec := range p.corpus {
		if _, ok := existing[rec.ID]; ok {
			continue
		}
		emb, err := p.embedder.Embed(ctx, rec.EnrichedText())
		if err != nil {
			return inserted, fmt.Errorf("embedding record %s: %w", rec.ID, err)
		}
		// Store the original text; the enriched form exists only as
		// embedding input.
		if err := p.index.Insert(ctx, rec.ID, rec.Text, emb); err != nil {
			return inserted, fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
		inserted++
	}
	return inserted, nil
}

// CorpusSize returns the number of records in the loaded corpus.
func (p *Pipeline) CorpusSize() int { return len(p.corpus) }

// Answer runs the full pipeline for one question: embed it, retrieve the
// topK nearest documents, build the prompt, and generate. The sources keep
// the index's ranking; nothing is re-ranked or cached. Any service failure
// aborts the call with no partial result, and a failed embed never reaches
// the generator.
func (p *Pipeline) Answer(ctx context.Context, question string, topK int) (*domain.AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	qEmb, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	sources, err := p.index.Query(ctx, qEmb, topK)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	texts := make([]string, len(sources))
	for i, src := range sources {
		texts[i] = src.Text
	}
	prompt := fmt.Sprintf(promptTemplate, strings.Join(texts, "\n"), question)

	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &domain.AnswerResult{
		Question: question,
		Sources:  sources,
		Answer:   answer,
	}, nil
}
