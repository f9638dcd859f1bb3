// Package ollama is a thin client for the two Ollama endpoints the pipeline
// needs: /api/embeddings and /api/generate. Failures are classified into the
// domain error kinds; nothing is retried.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/OoVTo/foodrag/internal/domain"
)

var (
	_ domain.Embedder  = (*Client)(nil)
	_ domain.Generator = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL         = "http://localhost:11434"
	DefaultEmbedModel      = "mxbai-embed-large"
	DefaultLLMModel        = "llama3.2"
	DefaultEmbedTimeout    = 30 * time.Second
	DefaultGenerateTimeout = 60 * time.Second
)

// Config configures the Ollama client.
type Config struct {
	BaseURL         string
	EmbedModel      string
	LLMModel        string
	EmbedTimeout    time.Duration
	GenerateTimeout time.Duration
}

// Client talks to a local Ollama server. Embedding calls are bounded by the
// embed timeout, generation calls by the longer generate timeout.
type Client struct {
	baseURL         string
	embedModel      string
	llmModel        string
	embedTimeout    time.Duration
	generateTimeout time.Duration
	client          *http.Client
}

// NewClient creates an Ollama client, filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = DefaultLLMModel
	}
	if cfg.EmbedTimeout == 0 {
		cfg.EmbedTimeout = DefaultEmbedTimeout
	}
	if cfg.GenerateTimeout == 0 {
		cfg.GenerateTimeout = DefaultGenerateTimeout
	}
	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		embedModel:      cfg.EmbedModel,
		llmModel:        cfg.LLMModel,
		embedTimeout:    cfg.EmbedTimeout,
		generateTimeout: cfg.GenerateTimeout,
		client:          &http.Client{},
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Embed generates a vector embedding for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.embedTimeout)
	defer cancel()

	body, err := c.post(ctx, "embedding", "/api/embeddings", embedRequest{
		Model:  c.embedModel,
		Prompt: text,
	})
	if err != nil {
		return nil, err
	}

	var out embedResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errored("embedding", fmt.Errorf("decoding response: %w", err))
	}
	if len(out.Embedding) == 0 {
		return nil, errored("embedding", errors.New("empty embedding in response"))
	}
	return out.Embedding, nil
}

// Generate produces a single complete (non-streamed) completion for the
// prompt and returns it with surrounding whitespace trimmed.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.generateTimeout)
	defer cancel()

	body, err := c.post(ctx, "generation", "/api/generate", generateRequest{
		Model:  c.llmModel,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", errored("generation", fmt.Errorf("decoding response: %w", err))
	}
	return strings.TrimSpace(out.Response), nil
}

func (c *Client) post(ctx context.Context, service, path string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, errored(service, fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, errored(service, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransport(service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(service, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errored(service, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return body, nil
}

// classifyTransport maps a transport failure onto the domain taxonomy:
// deadline or net timeout becomes KindTimeout, anything else on the wire
// (refused connection, DNS, reset) becomes KindUnreachable.
func classifyTransport(service string, err error) *domain.ServiceError {
	kind := domain.KindUnreachable
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		kind = domain.KindTimeout
	}
	return &domain.ServiceError{Service: service, Kind: kind, Err: err}
}

func errored(service string, err error) *domain.ServiceError {
	return &domain.ServiceError{Service: service, Kind: domain.KindErrored, Err: err}
}
