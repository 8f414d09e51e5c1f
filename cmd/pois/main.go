// Package main provides the pois CLI for exporting a city's points of interest.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/semantic-search/internal/config"
	"github.com/bull/semantic-search/internal/osm"
)

var (
	city        string
	output      string
	overpassURL string
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "pois",
	Short: "Export points of interest for a city to CSV",
	Long: `Queries the Overpass API for hospitals, schools, transit stops, shops,
parks and similar amenities inside a named city and writes them to CSV.

Columns: id, lat, lon, name, category, tags

Environment variables:
  OVERPASS_URL Overpass interpreter endpoint (default: public instance)`,
	RunE:         runPOIs,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&city, "city", "Mumbai", "city name as tagged in OpenStreetMap")
	rootCmd.Flags().StringVar(&output, "output", "", "output CSV path (default <city>_pois.csv)")
	rootCmd.Flags().StringVar(&overpassURL, "overpass-url", "", "Overpass endpoint (default $OVERPASS_URL or public instance)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", osm.DefaultTimeout, "HTTP timeout per request")
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

func runPOIs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if overpassURL == "" {
		overpassURL = config.GetEnv("OVERPASS_URL", osm.DefaultURL)
	}
	if output == "" {
		output = strings.ToLower(strings.ReplaceAll(city, " ", "_")) + "_pois.csv"
	}

	taxonomy := osm.DefaultTaxonomy()
	client := osm.NewClient(overpassURL, timeout, slog.Default())

	fmt.Printf("Fetching POIs for %s...\n", city)
	body, err := client.Fetch(ctx, osm.BuildQuery(city, taxonomy))
	if err != nil {
		return fmt.Errorf("failed to fetch POIs: %w", err)
	}

	pois, err := osm.ParseElements(body, taxonomy)
	if err != nil {
		return fmt.Errorf("failed to parse POIs: %w", err)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := osm.WriteCSV(f, pois); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", output, err)
	}

	fmt.Printf("Saved %d POIs to %s\n", len(pois), output)
	return nil
}
