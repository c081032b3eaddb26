package mocks

import (
	"context"
	"sync"

	"github.com/kamal-hamza/imgc/internal/core/domain"
)

// MockMetadataStore is an in-memory MetadataStore for testing.
// Set FailPersist to make every write fail with that error.
type MockMetadataStore struct {
	mu          sync.Mutex
	records     []domain.AssetRecord
	FailLoad    error
	FailPersist error
	Persists    int
}

// NewMockMetadataStore creates a store preloaded with records
func NewMockMetadataStore(records ...domain.AssetRecord) *MockMetadataStore {
	return &MockMetadataStore{records: append([]domain.AssetRecord(nil), records...)}
}

func (m *MockMetadataStore) Kind() string { return "mock" }

func (m *MockMetadataStore) Path() string { return "mock://metadata" }

// Load returns the persisted records as a fresh catalog
func (m *MockMetadataStore) Load(ctx context.Context) (*domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailLoad != nil {
		return nil, m.FailLoad
	}
	return domain.NewCatalog(m.records)
}

// AppendAndPersist writes catalog+rec and only then adds rec to catalog
func (m *MockMetadataStore) AppendAndPersist(ctx context.Context, catalog *domain.Catalog, rec domain.AssetRecord) error {
	if catalog.Has(rec.StoredName) {
		return domain.NewError(domain.ErrStoreUnavailable, "append", rec.StoredName, nil)
	}
	if err := m.Persist(ctx, append(catalog.Records(), rec)); err != nil {
		return err
	}
	return catalog.Add(rec)
}

// Persist replaces the stored records
func (m *MockMetadataStore) Persist(ctx context.Context, records []domain.AssetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailPersist != nil {
		return domain.NewError(domain.ErrStoreUnavailable, "persist", "mock", m.FailPersist)
	}
	m.records = append([]domain.AssetRecord(nil), records...)
	m.Persists++
	return nil
}

// Records returns what was last persisted
func (m *MockMetadataStore) Records() []domain.AssetRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AssetRecord(nil), m.records...)
}
