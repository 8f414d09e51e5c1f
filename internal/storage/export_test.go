package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/semantic-search/internal/listing"
)

func vectorJSON(dim int) string {
	parts := make([]string, dim)
	for i := range parts {
		parts[i] = "0.5"
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestListingsFromCollection(t *testing.T) {
	data := `[
		{"primary_key": "MUM-1", "title": "2 BHK", "rent": 15000, "_zone": "Western Suburbs", "vector": ` + vectorJSON(VectorDimension) + `},
		{"title": "no key", "vector": [1, 2, 3]},
		{"primary_key": "MUM-3", "title": "not embedded"},
		"not a record",
		{"primary_key": "MUM-5", "vector": "broken"}
	]`
	coll, err := listing.Decode([]byte(data))
	require.NoError(t, err)

	listings, skipped := ListingsFromCollection("/tmp/out/mumbai_rentals.json", coll)
	require.Len(t, listings, 2)
	assert.Equal(t, 3, skipped, "Unembedded, non-object and non-numeric vectors are skipped")

	first := listings[0]
	assert.Equal(t, "mumbai_rentals.json", first.SourceFile)
	assert.Equal(t, "MUM-1", first.Key)
	assert.Equal(t, ListingID("mumbai_rentals.json", "MUM-1"), first.ID)
	assert.Len(t, first.Vector, VectorDimension)
	assert.Equal(t, float32(0.5), first.Vector[0])
	assert.Equal(t, float64(15000), first.Fields["rent"])
	assert.Equal(t, "Western Suburbs", first.Fields["_zone"])
	assert.NotContains(t, first.Fields, "vector")

	second := listings[1]
	assert.Equal(t, "#1", second.Key, "Records without primary_key use their index")
	assert.Len(t, second.Vector, 3)
}

func TestListingID(t *testing.T) {
	id := ListingID("a.json", "K1")
	assert.Equal(t, id, ListingID("a.json", "K1"), "IDs are deterministic")
	assert.NotEqual(t, id, ListingID("b.json", "K1"), "Source file is part of the ID")
	assert.NotEqual(t, id, ListingID("a.json", "K2"))
	assert.Len(t, id, 36)
}

func TestLoadListings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pune.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"primary_key": "P1", "vector": [0.1, 0.2]}]`), 0o644))

	listings, skipped, err := LoadListings(path)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, listings, 1)
	assert.Equal(t, "pune.json", listings[0].SourceFile)

	_, _, err = LoadListings(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestPayloadOf(t *testing.T) {
	l := &Listing{
		SourceFile: "a.json",
		Key:        "K1",
		Fields:     map[string]any{"title": "Flat", "amenities": []any{"Gym"}},
	}
	payload := payloadOf(l)
	assert.Equal(t, "a.json", payload["source_file"])
	assert.Equal(t, "K1", payload["listing_key"])
	assert.Equal(t, "Flat", payload["title"])
	assert.Equal(t, []any{"Gym"}, payload["amenities"])
	assert.NotContains(t, l.Fields, "source_file", "Fields are not mutated")
}
