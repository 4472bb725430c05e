package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks email-advisor/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with its payload.
type Point struct {
	ID      string
	Vec     []float32
	Payload map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Payload map[string]any
}

// CollectionInfo contains information about a collection.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
	Status      string
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// ResetCollection drops collection if it exists and creates it empty with vectorSize dimensions.
	ResetCollection(ctx context.Context, collection string, vectorSize int) error

	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns the k nearest points, optionally restricted to points tagged with tag.
	Search(ctx context.Context, collection string, query []float32, k int, tag string) ([]SearchResult, error)

	// Info describes a collection.
	Info(ctx context.Context, collection string) (*CollectionInfo, error)
}
