package augment

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bull/semantic-search/internal/listing"
)

// ProgressInterval is how many records pass between progress log lines.
const ProgressInterval = 50

// FileResult contains statistics about one processed file.
type FileResult struct {
	Path       string
	Records    int // object elements visited
	NonRecords int // elements skipped because they are not objects
	Skipped    int // records that already had a vector
	Remote     int
	Fallback   int // includes fallbacks after service errors
	Errors     int // service failures replaced by fallback vectors
	Duration   time.Duration
}

// Processor augments every record of a single listings file.
type Processor struct {
	augmentor *Augmentor
	logger    *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(augmentor *Augmentor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{augmentor: augmentor, logger: logger}
}

// ProcessFile loads path, adds vectors to records lacking one, and rewrites
// the whole file. On any load error the file is left untouched.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	start := time.Now()
	name := filepath.Base(path)
	result := &FileResult{Path: path}

	coll, err := listing.LoadFile(path)
	if err != nil {
		return result, err
	}

	for i := 0; i < coll.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rec, ok := coll.Record(i)
		if !ok {
			result.NonRecords++
			continue
		}

		updated, outcome := p.augmentor.Augment(ctx, rec)
		coll.SetRecord(i, updated)
		result.Records++

		switch outcome {
		case OutcomeSkipped:
			result.Skipped++
		case OutcomeRemote:
			result.Remote++
		case OutcomeFallback:
			result.Fallback++
		case OutcomeFallbackAfterError:
			result.Fallback++
			result.Errors++
		}

		if result.Records%ProgressInterval == 0 {
			p.logger.Info("Processed records", "file", name, "count", result.Records)
		}
	}

	if err := listing.SaveFile(path, coll); err != nil {
		return result, fmt.Errorf("save: %w", err)
	}
	result.Duration = time.Since(start)
	return result, nil
}
