package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantStorage wraps the Qdrant client with connection management and health checks.
type QdrantStorage struct {
	client     *qdrant.Client
	collection string
	host       string
	port       int
}

// NewQdrantStorage creates a new Qdrant client with health validation.
// It performs health check with retry on startup and fails fast if Qdrant is unreachable.
// An empty collection uses DefaultCollectionName.
func NewQdrantStorage(host string, port int, collection string) (*QdrantStorage, error) {
	if collection == "" {
		collection = DefaultCollectionName
	}

	// Create Qdrant client using gRPC
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	storage := &QdrantStorage{
		client:     client,
		collection: collection,
		host:       host,
		port:       port,
	}

	if err := storage.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrQdrantUnreachable, err)
	}

	return storage, nil
}

// newRetryBackOff is the policy for Qdrant calls: 500ms initial, 10s max interval, 30s total.
func newRetryBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second
	return b
}

// healthCheckWithRetry performs health check with exponential backoff.
func (s *QdrantStorage) healthCheckWithRetry(ctx context.Context) error {
	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, backoff.WithContext(newRetryBackOff(), ctx))
}

// Health performs a single health check against Qdrant.
func (s *QdrantStorage) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}

	return nil
}

// Collection returns the collection name used by this storage.
func (s *QdrantStorage) Collection() string {
	return s.collection
}

// EnsureCollection creates the listings collection (1036-dim cosine vectors
// plus keyword payload indexes) if it does not exist yet.
func (s *QdrantStorage) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     VectorDimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	if err := s.createPayloadIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create payload indexes: %w", err)
	}

	return nil
}

// createPayloadIndexes creates keyword indexes for the filterable fields.
func (s *QdrantStorage) createPayloadIndexes(ctx context.Context) error {
	fields := []string{
		"source_file", // File the listing was exported from
		"_zone",
		"_area",
	}

	for _, field := range fields {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: s.collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("failed to create index for field %s: %w", field, err)
		}
	}

	return nil
}

// ClearCollection drops and recreates the collection.
func (s *QdrantStorage) ClearCollection(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return s.EnsureCollection(ctx)
}

// Close closes the Qdrant client connection.
func (s *QdrantStorage) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// upsertWithRetry performs upsert operation with exponential backoff retry.
func (s *QdrantStorage) upsertWithRetry(ctx context.Context, points []*qdrant.PointStruct) error {
	operation := func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Wait:           qdrant.PtrOf(true),
			Points:         points,
		})
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(newRetryBackOff(), ctx))
}

// UpsertListings stores listings with their vectors.
// Listings are batched in groups of 100 for performance.
func (s *QdrantStorage) UpsertListings(ctx context.Context, listings []*Listing) error {
	if len(listings) == 0 {
		return nil
	}

	// Validate embedding dimensions
	for _, l := range listings {
		if len(l.Vector) != VectorDimension {
			return fmt.Errorf("%w: listing %s/%s has %d dimensions, expected %d",
				ErrDimensionMismatch, l.SourceFile, l.Key, len(l.Vector), VectorDimension)
		}
	}

	batchSize := 100
	for i := 0; i < len(listings); i += batchSize {
		end := min(i+batchSize, len(listings))

		batch := listings[i:end]
		points := make([]*qdrant.PointStruct, len(batch))
		for j, l := range batch {
			payload, err := qdrant.TryValueMap(payloadOf(l))
			if err != nil {
				return fmt.Errorf("payload for %s/%s: %w", l.SourceFile, l.Key, err)
			}
			points[j] = &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(l.ID),
				Vectors: qdrant.NewVectors(l.Vector...),
				Payload: payload,
			}
		}

		if err := s.upsertWithRetry(ctx, points); err != nil {
			return fmt.Errorf("failed to upsert batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// CountListings returns the exact number of points, optionally limited to one source file.
func (s *QdrantStorage) CountListings(ctx context.Context, sourceFile string) (uint64, error) {
	req := &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	}
	if sourceFile != "" {
		req.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("source_file", sourceFile)},
		}
	}

	n, err := s.client.Count(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return n, nil
}

// payloadOf builds the point payload: every record field plus export metadata.
func payloadOf(l *Listing) map[string]any {
	payload := make(map[string]any, len(l.Fields)+2)
	for k, v := range l.Fields {
		payload[k] = v
	}
	payload["source_file"] = l.SourceFile
	payload["listing_key"] = l.Key
	return payload
}
