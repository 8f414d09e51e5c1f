package storage

import (
	"path/filepath"
	"strconv"

	"github.com/bull/semantic-search/internal/embedding"
	"github.com/bull/semantic-search/internal/listing"
)

// ListingsFromCollection converts the embedded records of one listings file
// into exportable listings. Non-object elements and records without a
// numeric vector are counted in skipped and left out.
func ListingsFromCollection(sourceFile string, coll *listing.Collection) (listings []*Listing, skipped int) {
	sourceFile = filepath.Base(sourceFile)

	for i := 0; i < coll.Len(); i++ {
		rec, ok := coll.Record(i)
		if !ok {
			skipped++
			continue
		}
		vector, ok := rec.Vector()
		if !ok {
			skipped++
			continue
		}

		key := rec.Key()
		if key == "" {
			key = "#" + strconv.Itoa(i)
		}
		_, fields := rec.Fields()

		listings = append(listings, &Listing{
			ID:         ListingID(sourceFile, key),
			SourceFile: sourceFile,
			Key:        key,
			Fields:     fields,
			Vector:     embedding.ToFloat32(vector),
		})
	}

	return listings, skipped
}

// LoadListings reads a listings file and converts it with ListingsFromCollection.
func LoadListings(path string) ([]*Listing, int, error) {
	coll, err := listing.LoadFile(path)
	if err != nil {
		return nil, 0, err
	}
	listings, skipped := ListingsFromCollection(path, coll)
	return listings, skipped, nil
}
