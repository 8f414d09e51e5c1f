// Package main provides the embed CLI for adding vectors to housing listings.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/semantic-search/internal/augment"
	"github.com/bull/semantic-search/internal/config"
	"github.com/bull/semantic-search/internal/embedding"
	"github.com/bull/semantic-search/internal/storage"
)

var (
	dir         string
	logLevel    string
	apiKey      string
	useFallback bool
	maxAttempts int
	interval    time.Duration
	clearFirst  bool
	collection  string
)

var rootCmd = &cobra.Command{
	Use:   "embed",
	Short: "Housing listing embedding tool",
	Long:  "CLI tool for adding embedding vectors to housing listing files and exporting them to Qdrant",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		if dir == "" {
			dir = config.GetEnv("EMBED_OUTPUT_DIR", "output")
		}
		if collection == "" {
			collection = config.GetEnv("QDRANT_COLLECTION", storage.DefaultCollectionName)
		}
		return nil
	},
	SilenceUsage: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Add vectors to every listing file that lacks them",
	Long: `Adds a "vector" field to every listing record that does not have one.

This command:
1. Resolves the OpenAI API key (flag, environment, then prompt)
2. Lists every *.json file in the directory, skipping market reports
3. Embeds each record's descriptive text, falling back to a
   deterministic hash-based vector when the service fails
4. Rewrites each file in place

Records that already carry a vector are left untouched, so the command
can be re-run safely.

Environment variables:
  OPENAI_API_KEY   OpenAI API key (required unless --fallback)
  OPENAI_BASE_URL  Alternative OpenAI-compatible endpoint (optional)
  EMBED_OUTPUT_DIR Directory holding listing files (default: output)`,
	RunE: runGenerate,
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Export embedded listings to Qdrant",
	Long: `Upserts every embedded listing record into a Qdrant collection.

Point IDs are derived from the file name and primary_key, so publishing
the same files again overwrites existing points.

Environment variables:
  QDRANT_HOST       Qdrant hostname (default: localhost)
  QDRANT_PORT       Qdrant gRPC port (default: 6334)
  QDRANT_COLLECTION Collection name (default: listings)
  EMBED_OUTPUT_DIR  Directory holding listing files (default: output)`,
	RunE: runPublish,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dir, "dir", "", "directory containing listing files (default $EMBED_OUTPUT_DIR or output)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	generateCmd.Flags().StringVar(&apiKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY)")
	generateCmd.Flags().BoolVar(&useFallback, "fallback", false, "use deterministic hash-based vectors instead of the OpenAI API")
	generateCmd.Flags().IntVar(&maxAttempts, "max-attempts", embedding.DefaultMaxAttempts, "embedding attempts per record")
	generateCmd.Flags().DurationVar(&interval, "interval", augment.DefaultFileInterval, "minimum spacing between files in remote mode")

	publishCmd.Flags().BoolVar(&clearFirst, "clear", false, "drop and recreate the collection before publishing")
	publishCmd.Flags().StringVar(&collection, "collection", "", "Qdrant collection name (default $QDRANT_COLLECTION or listings)")

	rootCmd.AddCommand(generateCmd, publishCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()

	mode := augment.ModeRemote
	if useFallback {
		mode = augment.ModeFallback
	}

	// 1. Build the vector source
	var source augment.VectorSource
	if mode == augment.ModeRemote {
		key, err := config.ResolveAPIKey(apiKey, os.Getenv, config.NewTerminalPrompter())
		if err != nil {
			return fmt.Errorf("resolve API key: %w", err)
		}
		client, err := embedding.NewClient(key, os.Getenv("OPENAI_BASE_URL"))
		if err != nil {
			return fmt.Errorf("create embedding client: %w", err)
		}
		source = embedding.NewEmbedder(client, maxAttempts, slog.Default())
	}

	fmt.Printf("Generating embeddings in %s (%s mode)...\n", dir, mode)
	fmt.Println()

	// 2. Run the pipeline
	augmentor := augment.NewAugmentor(source, mode, slog.Default())
	processor := augment.NewProcessor(augmentor, slog.Default())
	pipeline := augment.NewPipeline(processor, interval, slog.Default())

	result, err := pipeline.Run(ctx, dir)
	if errors.Is(err, augment.ErrDirNotFound) {
		fmt.Printf("Output directory not found: %s\n", dir)
		return nil
	}
	if result != nil {
		printGenerateSummary(result, mode)
	}
	if err != nil {
		return fmt.Errorf("embedding generation failed: %w", err)
	}

	fmt.Println()
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func printGenerateSummary(result *augment.RunResult, mode augment.Mode) {
	if result.TotalFiles == 0 {
		fmt.Println("No listing files found.")
		return
	}

	for _, f := range result.Files {
		fmt.Printf("  %s: %d records (%d embedded, %d fallback, %d already embedded) in %s\n",
			filepath.Base(f.Path), f.Records, f.Remote, f.Fallback, f.Skipped, f.Duration.Round(time.Millisecond))
	}

	fmt.Println()
	fmt.Println("Embedding generation complete!")
	fmt.Printf("  Files: %d/%d\n", result.SuccessfulFiles, result.TotalFiles)
	fmt.Printf("  Records: %d\n", result.Records)
	fmt.Printf("  Embedded: %d\n", result.Remote)
	fmt.Printf("  Fallback: %d\n", result.Fallback)
	fmt.Printf("  Already embedded: %d\n", result.Skipped)
	if mode == augment.ModeRemote {
		fmt.Printf("  Method: OpenAI %s\n", embedding.EmbeddingModel)
	} else {
		fmt.Println("  Method: hash-based fallback")
	}
	fmt.Printf("  Dimension: %d\n", embedding.VectorDimension)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))

	if len(result.FailedFiles) > 0 {
		fmt.Println()
		fmt.Println("Failed files:")
		for _, failed := range result.FailedFiles {
			fmt.Printf("  - %s: %s\n", failed.Path, failed.Reason)
		}
	}
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()

	qdrantHost := config.GetEnv("QDRANT_HOST", "localhost")
	qdrantPort := config.GetEnvInt("QDRANT_PORT", 6334)

	// 1. Connect to Qdrant
	fmt.Printf("Connecting to Qdrant at %s:%d...\n", qdrantHost, qdrantPort)
	store, err := storage.NewQdrantStorage(qdrantHost, qdrantPort, collection)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	defer store.Close()
	fmt.Println("Qdrant healthy")

	// 2. Prepare collection
	if clearFirst {
		if err := store.ClearCollection(ctx); err != nil {
			return fmt.Errorf("failed to clear collection: %w", err)
		}
		fmt.Println("Collection cleared")
	} else if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}

	// 3. Upsert each file
	files, err := augment.ListFiles(dir)
	if err != nil {
		return err
	}

	fmt.Println()
	var published, skipped, failed int
	for _, path := range files {
		listings, notEmbedded, err := storage.LoadListings(path)
		if err != nil {
			slog.Warn("Failed to load file", "file", filepath.Base(path), "error", err)
			failed++
			continue
		}
		if err := store.UpsertListings(ctx, listings); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("Failed to publish file", "file", filepath.Base(path), "error", err)
			failed++
			continue
		}
		published += len(listings)
		skipped += notEmbedded
		fmt.Printf("  %s: %d listings (%d without vector)\n", filepath.Base(path), len(listings), notEmbedded)
	}

	total, err := store.CountListings(ctx, "")
	if err != nil {
		return err
	}

	// 4. Print results
	fmt.Println()
	fmt.Println("Publish complete!")
	fmt.Printf("  Files: %d/%d\n", len(files)-failed, len(files))
	fmt.Printf("  Listings: %d\n", published)
	fmt.Printf("  Skipped: %d\n", skipped)
	fmt.Printf("  Collection %s: %d points\n", store.Collection(), total)
	fmt.Printf("  Duration: %s\n", time.Since(start).Round(time.Millisecond))

	return nil
}
