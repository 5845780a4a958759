package reports

import "context"

// Loader port (interface for report ingestion)
type Loader interface {
	Load(ctx context.Context, dir string) (*LoadResult, error)
}
