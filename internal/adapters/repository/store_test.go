package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/internal/core/ports"
	"github.com/kamal-hamza/imgc/pkg/vault"
)

func newStore(t *testing.T, kind string) (ports.MetadataStore, *vault.Vault) {
	t.Helper()
	v := vault.NewAt(t.TempDir())
	require.NoError(t, v.Ensure())
	store, err := NewMetadataStore(kind, v)
	require.NoError(t, err)
	if c, ok := store.(interface{ Close() error }); ok {
		t.Cleanup(func() { c.Close() })
	}
	return store, v
}

func sampleRecords() []domain.AssetRecord {
	return []domain.AssetRecord{
		{
			StoredName:   "20240115_090000_beach.jpg",
			OriginalName: "beach.jpg",
			AddedAt:      time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local),
			Description:  "beach trip",
		},
		{
			StoredName:   "20240120_181512_party.png",
			OriginalName: "party.png",
			AddedAt:      time.Date(2024, 1, 20, 18, 15, 12, 0, time.Local),
			Description:  "comma, \"quotes\" and\nnewline",
		},
		{
			StoredName:   "20240201_000001_scan",
			OriginalName: "scan",
			AddedAt:      time.Date(2024, 2, 1, 0, 0, 1, 0, time.Local),
			Description:  "",
		},
		{
			StoredName:   "20240305_071500_notes.jpg",
			OriginalName: "notes.jpg",
			AddedAt:      time.Date(2024, 3, 5, 7, 15, 0, 0, time.Local),
			Description:  "line1\r\nline2\rx C:\\raw\\ \\r",
		},
	}
}

func requireSameRecords(t *testing.T, want, got []domain.AssetRecord) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].StoredName, got[i].StoredName, "record %d stored name", i)
		assert.Equal(t, want[i].OriginalName, got[i].OriginalName, "record %d original name", i)
		assert.Equal(t, want[i].Description, got[i].Description, "record %d description", i)
		assert.True(t, want[i].AddedAt.Equal(got[i].AddedAt),
			"record %d added at: want %v, got %v", i, want[i].AddedAt, got[i].AddedAt)
	}
}

func TestStores_LoadCreatesEmptyStore(t *testing.T) {
	for _, kind := range Backends {
		t.Run(kind, func(t *testing.T) {
			store, _ := newStore(t, kind)

			catalog, err := store.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 0, catalog.Len())

			_, err = os.Stat(store.Path())
			require.NoError(t, err, "backing file should be created")
		})
	}
}

func TestCSVStores_EmptyFileIsHeaderOnly(t *testing.T) {
	for _, kind := range []string{BackendTable, BackendDelimited} {
		t.Run(kind, func(t *testing.T) {
			store, _ := newStore(t, kind)

			_, err := store.Load(context.Background())
			require.NoError(t, err)

			data, err := os.ReadFile(store.Path())
			require.NoError(t, err)
			assert.Equal(t, "filename,original_name,date_added,description\n", string(data))
		})
	}
}

func TestStores_RoundTrip(t *testing.T) {
	for _, kind := range Backends {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			store, v := newStore(t, kind)
			records := sampleRecords()

			require.NoError(t, store.Persist(ctx, records))

			// A fresh store instance must see the same snapshot
			reopened, err := NewMetadataStore(kind, v)
			require.NoError(t, err)
			if c, ok := reopened.(interface{ Close() error }); ok {
				defer c.Close()
			}

			catalog, err := reopened.Load(ctx)
			require.NoError(t, err)
			requireSameRecords(t, records, catalog.Records())
		})
	}
}

func TestStores_RoundTripEmpty(t *testing.T) {
	for _, kind := range Backends {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			store, _ := newStore(t, kind)

			require.NoError(t, store.Persist(ctx, sampleRecords()))
			require.NoError(t, store.Persist(ctx, nil))

			catalog, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, catalog.Len())
		})
	}
}

func TestStores_AppendAndPersist(t *testing.T) {
	for _, kind := range Backends {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			store, _ := newStore(t, kind)

			catalog, err := store.Load(ctx)
			require.NoError(t, err)

			for _, rec := range sampleRecords() {
				require.NoError(t, store.AppendAndPersist(ctx, catalog, rec))
			}
			assert.Equal(t, len(sampleRecords()), catalog.Len())

			reloaded, err := store.Load(ctx)
			require.NoError(t, err)
			requireSameRecords(t, catalog.Records(), reloaded.Records())
		})
	}
}

func TestStores_AppendAndPersistRejectsDuplicate(t *testing.T) {
	for _, kind := range Backends {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			store, _ := newStore(t, kind)

			catalog, err := store.Load(ctx)
			require.NoError(t, err)

			rec := sampleRecords()[0]
			require.NoError(t, store.AppendAndPersist(ctx, catalog, rec))
			require.Error(t, store.AppendAndPersist(ctx, catalog, rec))
			assert.Equal(t, 1, catalog.Len())
		})
	}
}

func TestCSVStores_AppendFailureLeavesCatalogUnchanged(t *testing.T) {
	for _, kind := range []string{BackendTable, BackendDelimited} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			store, v := newStore(t, kind)

			catalog, err := store.Load(ctx)
			require.NoError(t, err)
			require.NoError(t, store.AppendAndPersist(ctx, catalog, sampleRecords()[0]))

			// Pull the storage directory out from under the store
			require.NoError(t, os.RemoveAll(v.StoragePath))

			err = store.AppendAndPersist(ctx, catalog, sampleRecords()[1])
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrStoreUnavailable), "got %v", err)
			assert.Equal(t, 1, catalog.Len())
			assert.False(t, catalog.Has(sampleRecords()[1].StoredName))
		})
	}
}

func TestCSVStores_CorruptFiles(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		content string
	}{
		{"table missing column", BackendTable, "filename,original_name,date_added\na.jpg,a.jpg,2024-01-01 00:00:00\n"},
		{"table ragged row", BackendTable, "filename,original_name,date_added,description\na.jpg,a.jpg\n"},
		{"table bad date", BackendTable, "filename,original_name,date_added,description\na.jpg,a.jpg,yesterday,\n"},
		{"table empty file", BackendTable, ""},
		{"table duplicate name", BackendTable, "filename,original_name,date_added,description\na.jpg,a.jpg,2024-01-01 00:00:00,\na.jpg,b.jpg,2024-01-02 00:00:00,\n"},
		{"delimited reordered header", BackendDelimited, "original_name,filename,date_added,description\n"},
		{"delimited extra column", BackendDelimited, "filename,original_name,date_added,description,extension\na.jpg,a.jpg,2024-01-01 00:00:00,,.jpg\n"},
		{"delimited bad quoting", BackendDelimited, "filename,original_name,date_added,description\na.jpg,a.jpg,2024-01-01 00:00:00,\"unterminated\n"},
		{"table invalid utf-8", BackendTable, "filename,original_name,date_added,description\na.jpg,caf\xe9.jpg,2024-01-01 00:00:00,d\xe9j\xe0\n"},
		{"delimited invalid utf-8", BackendDelimited, "filename,original_name,date_added,description\na.jpg,caf\xe9.jpg,2024-01-01 00:00:00,\n"},
		{"delimited empty filename", BackendDelimited, "filename,original_name,date_added,description\n,a.jpg,2024-01-01 00:00:00,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newStore(t, tt.kind)
			require.NoError(t, os.WriteFile(store.Path(), []byte(tt.content), 0o644))

			_, err := store.Load(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrStoreCorrupt), "got %v", err)
		})
	}
}

func TestTableStore_LegacyExtraColumns(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t, BackendTable)

	legacy := "filename,original_name,date_added,description,year_month,extension\n" +
		"20240115_090000_beach.jpg,beach.jpg,2024-01-15 09:00:00,beach trip,2024-01,.jpg\n" +
		"20240201_120000_cat.PNG,cat.PNG,2024-02-01 12:00:00,,2024-02,.png\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(legacy), 0o644))

	catalog, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, catalog.Len())

	rec, ok := catalog.Get("20240201_120000_cat.PNG")
	require.True(t, ok)
	assert.Equal(t, "cat.PNG", rec.OriginalName)
	assert.Equal(t, "", rec.Description)

	// Rewriting normalises to the canonical four columns
	require.NoError(t, store.Persist(ctx, catalog.Records()))
	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "filename,original_name,date_added,description\n")
	assert.NotContains(t, string(data), "year_month")
}

func TestTableStore_ColumnOrderIndependent(t *testing.T) {
	store, _ := newStore(t, BackendTable)

	content := "description,date_added,filename,original_name\n" +
		"sunset,2024-03-01 10:00:00,20240301_100000_photo.jpg,photo.jpg\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

	catalog, err := store.Load(context.Background())
	require.NoError(t, err)

	rec, ok := catalog.Get("20240301_100000_photo.jpg")
	require.True(t, ok)
	assert.Equal(t, "sunset", rec.Description)
	assert.Equal(t, "photo.jpg", rec.OriginalName)
}

func TestCSVStores_ByteOrderMark(t *testing.T) {
	for _, kind := range []string{BackendTable, BackendDelimited} {
		t.Run(kind, func(t *testing.T) {
			store, _ := newStore(t, kind)
			content := "\xEF\xBB\xBFfilename,original_name,date_added,description\n" +
				"20240301_100000_photo.jpg,photo.jpg,2024-03-01 10:00:00,x\n"
			require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

			catalog, err := store.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, catalog.Len())
		})
	}
}

func TestCSVStores_CarriageReturnsOnDisk(t *testing.T) {
	for _, kind := range []string{BackendTable, BackendDelimited} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			store, _ := newStore(t, kind)
			rec := domain.AssetRecord{
				StoredName:   "20240305_071500_notes.jpg",
				OriginalName: "notes.jpg",
				AddedAt:      time.Date(2024, 3, 5, 7, 15, 0, 0, time.Local),
				Description:  "a\r\nb",
			}
			require.NoError(t, store.Persist(ctx, []domain.AssetRecord{rec}))

			data, err := os.ReadFile(store.Path())
			require.NoError(t, err)
			assert.NotContains(t, string(data), "\r")

			catalog, err := store.Load(ctx)
			require.NoError(t, err)
			got, ok := catalog.Get(rec.StoredName)
			require.True(t, ok)
			assert.Equal(t, "a\r\nb", got.Description)
		})
	}
}

func TestDelimitedStore_ZeroByteFile(t *testing.T) {
	store, _ := newStore(t, BackendDelimited)
	require.NoError(t, os.WriteFile(store.Path(), nil, 0o644))

	catalog, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, catalog.Len())
}

func TestSQLiteStore_NotADatabase(t *testing.T) {
	store, _ := newStore(t, BackendSQLite)
	junk := []byte(strings.Repeat("this is not a sqlite database\n", 64))
	require.NoError(t, os.WriteFile(store.Path(), junk, 0o644))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreCorrupt), "got %v", err)
}

func TestBackendsShareCSVFile(t *testing.T) {
	ctx := context.Background()
	v := vault.NewAt(t.TempDir())
	require.NoError(t, v.Ensure())

	table := NewTableStore(v.MetadataPath(BackendTable))
	require.NoError(t, table.Persist(ctx, sampleRecords()))

	// A file written by the tabular backend is a valid delimited file
	delimited := NewDelimitedStore(v.MetadataPath(BackendDelimited))
	catalog, err := delimited.Load(ctx)
	require.NoError(t, err)
	requireSameRecords(t, sampleRecords(), catalog.Records())
}

func TestNewMetadataStore(t *testing.T) {
	v := vault.NewAt(t.TempDir())

	tests := []struct {
		kind     string
		wantKind string
		wantFile string
		wantErr  bool
	}{
		{"", BackendTable, "image_data.csv", false},
		{BackendTable, BackendTable, "image_data.csv", false},
		{BackendDelimited, BackendDelimited, "image_data.csv", false},
		{BackendSQLite, BackendSQLite, "image_data.db", false},
		{"parquet", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			store, err := NewMetadataStore(tt.kind, v)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, store.Kind())
			assert.Equal(t, filepath.Join(v.StoragePath, tt.wantFile), store.Path())
		})
	}
}
