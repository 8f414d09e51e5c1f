// Package augment adds embedding vectors to housing-listing files.
package augment

import (
	"context"
	"log/slog"

	"github.com/bull/semantic-search/internal/embedding"
	"github.com/bull/semantic-search/internal/listing"
)

// Mode selects where vectors come from.
type Mode int

const (
	// ModeRemote calls the embedding service and falls back on failure.
	ModeRemote Mode = iota
	// ModeFallback only uses deterministic hash-based vectors.
	ModeFallback
)

func (m Mode) String() string {
	if m == ModeFallback {
		return "fallback"
	}
	return "remote"
}

// Outcome reports how Augment handled a record.
type Outcome int

const (
	// OutcomeSkipped means the record already had a vector.
	OutcomeSkipped Outcome = iota
	// OutcomeRemote means the vector came from the embedding service.
	OutcomeRemote
	// OutcomeFallback means a fallback vector was used by choice.
	OutcomeFallback
	// OutcomeFallbackAfterError means the service failed and a fallback vector was used.
	OutcomeFallbackAfterError
)

// VectorSource produces fixed-length embeddings. *embedding.Embedder implements it.
type VectorSource interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Augmentor attaches a vector to records that lack one.
type Augmentor struct {
	source    VectorSource
	mode      Mode
	dimension int
	logger    *slog.Logger
}

// NewAugmentor creates an Augmentor. A nil source forces ModeFallback.
func NewAugmentor(source VectorSource, mode Mode, logger *slog.Logger) *Augmentor {
	if logger == nil {
		logger = slog.Default()
	}
	if source == nil {
		mode = ModeFallback
	}
	return &Augmentor{
		source:    source,
		mode:      mode,
		dimension: embedding.VectorDimension,
		logger:    logger,
	}
}

// Mode returns the effective mode.
func (a *Augmentor) Mode() Mode {
	return a.mode
}

// Augment returns rec with a vector field. Records that already carry one
// are returned unchanged. Service failures are logged and replaced by a
// fallback vector; Augment never fails.
func (a *Augmentor) Augment(ctx context.Context, rec listing.Record) (listing.Record, Outcome) {
	if rec.HasVector() {
		return rec, OutcomeSkipped
	}

	text := listing.ComposeText(rec)

	if a.mode == ModeRemote {
		vector, err := a.source.Embed(ctx, text)
		if err == nil {
			updated, err := rec.WithVector(vector)
			if err == nil {
				return updated, OutcomeRemote
			}
			a.logger.Warn("Failed to attach embedding, using fallback", "key", keyOf(rec), "error", err)
		} else {
			a.logger.Warn("Embedding generation failed, using fallback", "key", keyOf(rec), "error", err)
		}
		return a.withFallback(rec, text), OutcomeFallbackAfterError
	}

	return a.withFallback(rec, text), OutcomeFallback
}

func (a *Augmentor) withFallback(rec listing.Record, text string) listing.Record {
	updated, err := rec.WithVector(embedding.FallbackVector(text, a.dimension))
	if err != nil {
		// Unit vectors always encode; reaching this is a bug.
		a.logger.Error("Failed to attach fallback vector", "key", keyOf(rec), "error", err)
		return rec
	}
	return updated
}

func keyOf(rec listing.Record) string {
	if k := rec.Key(); k != "" {
		return k
	}
	return "unknown"
}
