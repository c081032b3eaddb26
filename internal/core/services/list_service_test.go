package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/internal/core/ports/mocks"
)

func storedNames(records []domain.AssetRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.StoredName
	}
	return out
}

func TestSortRecords(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.Local) }
	base := []domain.AssetRecord{
		{StoredName: "3_b.jpg", OriginalName: "b.jpg", AddedAt: day(3)},
		{StoredName: "1_C.jpg", OriginalName: "C.jpg", AddedAt: day(1)},
		{StoredName: "2_a.jpg", OriginalName: "a.jpg", AddedAt: day(2)},
	}

	tests := []struct {
		name    string
		sortBy  string
		reverse bool
		want    []string
	}{
		{"added", SortAdded, false, []string{"1_C.jpg", "2_a.jpg", "3_b.jpg"}},
		{"added reversed", SortAdded, true, []string{"3_b.jpg", "2_a.jpg", "1_C.jpg"}},
		{"name is case-insensitive", SortName, false, []string{"2_a.jpg", "3_b.jpg", "1_C.jpg"}},
		{"unknown falls back to added", "size", false, []string{"1_C.jpg", "2_a.jpg", "3_b.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := append([]domain.AssetRecord(nil), base...)
			SortRecords(records, tt.sortBy, tt.reverse)
			assert.Equal(t, tt.want, storedNames(records))
		})
	}
}

func TestCatalogEngine_Query(t *testing.T) {
	e, _ := newTestEngine(t, mocks.NewMockMetadataStore())
	ctx := context.Background()

	first, err := e.Ingest(ctx, writeSource(t, "zebra.jpg", "z"), "stripes")
	require.NoError(t, err)
	second, err := e.Ingest(ctx, writeSource(t, "apple.png", "a"), "fruit")
	require.NoError(t, err)

	// Same second: added order falls back to insertion order
	resp := e.Query(ListRequest{SortBy: SortAdded})
	assert.Equal(t, []string{first.StoredName, second.StoredName}, storedNames(resp.Records))
	assert.Equal(t, 2, resp.Total)

	resp = e.Query(ListRequest{SortBy: SortName})
	assert.Equal(t, []string{second.StoredName, first.StoredName}, storedNames(resp.Records))

	resp = e.Query(ListRequest{Query: "fruit"})
	assert.Equal(t, []string{second.StoredName}, storedNames(resp.Records))
	assert.Equal(t, 2, resp.Total)
}
