package ports

import (
	"context"

	"github.com/kamal-hamza/imgc/internal/core/domain"
)

// MetadataStore defines the port for durable catalog persistence.
// Every backend shares the filename,original_name,date_added,description schema.
type MetadataStore interface {
	// Load reads every record. A missing backing file is created empty;
	// an unparseable one fails with domain.ErrStoreCorrupt.
	Load(ctx context.Context) (*domain.Catalog, error)

	// AppendAndPersist rewrites the backing file with catalog+rec and only
	// then appends rec to catalog. On failure catalog is left unchanged.
	AppendAndPersist(ctx context.Context, catalog *domain.Catalog, rec domain.AssetRecord) error

	// Persist rewrites the backing file with exactly records
	Persist(ctx context.Context, records []domain.AssetRecord) error

	// Kind returns the backend name ("table", "delimited", "sqlite")
	Kind() string

	// Path returns the backing file
	Path() string
}
