package storage

import "github.com/google/uuid"

// Listing is an embedded housing listing exported to Qdrant.
type Listing struct {
	ID         string         // UUID, see ListingID
	SourceFile string         // Base name of the listings file
	Key        string         // primary_key, or "#<index>" when the record has none
	Fields     map[string]any // Record fields without the vector
	Vector     []float32      // 1036-dim vector
}

// DefaultCollectionName is the Qdrant collection listings are exported to.
const DefaultCollectionName = "listings"

// VectorDimension is the persisted listing vector size.
// This matches embedding.VectorDimension (1036).
const VectorDimension = 1036

// listingNamespace scopes listing point IDs.
var listingNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("semantic-search/listings"))

// ListingID derives a stable point ID so re-publishing a file overwrites
// the same points instead of duplicating them.
func ListingID(sourceFile, key string) string {
	return uuid.NewSHA1(listingNamespace, []byte(sourceFile+"/"+key)).String()
}
