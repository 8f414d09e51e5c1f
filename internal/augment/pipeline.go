package augment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ExcludedNamePattern marks files in the output directory that are not listings.
	ExcludedNamePattern = "market_report"

	// DefaultFileInterval spaces file starts in remote mode to respect API rate limits.
	DefaultFileInterval = 500 * time.Millisecond
)

// RunResult contains statistics about a batch run.
type RunResult struct {
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     []FailedFile
	Files           []*FileResult // successful files, in processing order
	Records         int
	Remote          int
	Fallback        int
	Skipped         int
	Duration        time.Duration
}

// FailedFile represents a file that could not be processed.
type FailedFile struct {
	Path   string
	Reason string
}

// Pipeline runs a Processor over every listings file in a directory.
type Pipeline struct {
	processor *Processor
	limiter   *rate.Limiter // nil disables pacing
	logger    *slog.Logger
}

// NewPipeline creates a batch pipeline. In ModeRemote file starts are spaced
// at least interval apart; in ModeFallback files run back to back.
func NewPipeline(processor *Processor, interval time.Duration, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{processor: processor, logger: logger}
	if processor.augmentor.Mode() == ModeRemote {
		p.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return p
}

// ListFiles returns the listings files in dir sorted by name: every *.json
// file whose name does not contain ExcludedNamePattern.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		if strings.Contains(name, ExcludedNamePattern) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// Run processes every listings file in dir sequentially. A failing file is
// recorded and the run continues; only an unreadable directory or a
// canceled context aborts the run.
func (p *Pipeline) Run(ctx context.Context, dir string) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{}

	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	result.TotalFiles = len(files)
	p.logger.Info("Found listing files", "count", len(files), "dir", dir, "mode", p.processor.augmentor.Mode())

	for _, path := range files {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return result, fmt.Errorf("wait before %s: %w", filepath.Base(path), err)
			}
		}

		fr, err := p.processor.ProcessFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			p.logger.Warn("Failed to process file", "file", filepath.Base(path), "error", err)
			result.FailedFiles = append(result.FailedFiles, FailedFile{
				Path:   path,
				Reason: err.Error(),
			})
			continue // Leave the file as it was, continue with others
		}

		result.SuccessfulFiles++
		result.Files = append(result.Files, fr)
		result.Records += fr.Records
		result.Remote += fr.Remote
		result.Fallback += fr.Fallback
		result.Skipped += fr.Skipped
		p.logger.Info("Processed file",
			"file", filepath.Base(path),
			"records", fr.Records,
			"skipped", fr.Skipped,
			"fallback", fr.Fallback,
			"duration", fr.Duration.Round(time.Millisecond),
		)
	}

	result.Duration = time.Since(start)
	p.logger.Info("Embedding generation complete",
		"successful", result.SuccessfulFiles,
		"failed", len(result.FailedFiles),
		"records", result.Records,
		"duration", result.Duration,
	)

	return result, nil
}
