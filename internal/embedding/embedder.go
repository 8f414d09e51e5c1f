package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
)

const (
	// EmbeddingModel is the OpenAI model used for generating embeddings.
	EmbeddingModel = openai.EmbeddingModelTextEmbedding3Small

	// RequestedDimension is the dimensionality requested from the service.
	RequestedDimension = 1536

	// VectorDimension is the length of every persisted vector. Service output
	// is truncated to it, so 500 of the requested dimensions are discarded.
	// Downstream consumers rely on this exact length.
	VectorDimension = 1036

	// DefaultMaxAttempts bounds calls per text, including the first.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is the first retry delay.
	DefaultBaseDelay = time.Second
)

// Service produces a raw embedding for one text.
type Service interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Embedder generates fixed-length embeddings through a Service.
// Failed calls are retried a bounded number of times: exponentially after
// rate limiting, with a flat delay after other errors.
type Embedder struct {
	service     Service
	maxAttempts int
	baseDelay   time.Duration
	dimension   int
	timer       backoff.Timer // nil uses a real timer
	logger      *slog.Logger
}

// NewEmbedder creates a new Embedder for service.
// If maxAttempts is 0, DefaultMaxAttempts (3) is used.
func NewEmbedder(service Service, maxAttempts int, logger *slog.Logger) *Embedder {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Embedder{
		service:     service,
		maxAttempts: maxAttempts,
		baseDelay:   DefaultBaseDelay,
		dimension:   VectorDimension,
		logger:      logger.With("component", "embedder"),
	}
}

// Dimension returns the length of vectors produced by Embed.
func (e *Embedder) Dimension() int {
	return e.dimension
}

// Embed returns the embedding of text, truncated or zero-padded to Dimension().
// The error from the last attempt is returned once all attempts fail.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	policy := &attemptPolicy{base: e.baseDelay}
	b := backoff.WithMaxRetries(backoff.WithContext(policy, ctx), uint64(e.maxAttempts-1))

	var (
		raw      []float64
		attempts int
	)
	operation := func() error {
		attempts++
		v, err := e.service.Embed(ctx, text)
		if err != nil {
			policy.observe(err)
			return err
		}
		raw = v
		return nil
	}
	notify := func(err error, wait time.Duration) {
		if policy.rateLimited {
			e.logger.Warn("Rate limit hit, backing off", "attempt", attempts, "wait", wait)
			return
		}
		e.logger.Warn("Embedding request failed, retrying", "attempt", attempts, "wait", wait, "error", err)
	}

	if err := backoff.RetryNotifyWithTimer(operation, b, notify, e.timer); err != nil {
		return nil, fmt.Errorf("embed after %d attempts: %w", attempts, err)
	}

	if len(raw) != e.dimension {
		e.logger.Debug("Fitting embedding dimension", "from", len(raw), "to", e.dimension)
	}
	return FitDimension(raw, e.dimension), nil
}
