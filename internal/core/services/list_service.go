package services

import (
	"sort"
	"strings"

	"github.com/kamal-hamza/imgc/internal/core/domain"
)

// Sort keys accepted by ListRequest.SortBy
const (
	SortAdded = "added"
	SortName  = "name"
)

// ListRequest represents a request to list records
type ListRequest struct {
	Query   string // Substring filter (optional)
	SortBy  string // "added", "name" (default: added)
	Reverse bool   // Reverse sort order
}

// ListResponse represents the response from listing records
type ListResponse struct {
	Records []domain.AssetRecord
	Total   int // Size of the whole catalog, before filtering
}

// Query filters and sorts the catalog. Equal keys keep insertion order.
func (e *CatalogEngine) Query(req ListRequest) ListResponse {
	records := e.Search(req.Query)
	SortRecords(records, req.SortBy, req.Reverse)

	return ListResponse{
		Records: records,
		Total:   e.catalog.Len(),
	}
}

// SortRecords sorts records in place by "added" or "name"
func SortRecords(records []domain.AssetRecord, sortBy string, reverse bool) {
	sort.SliceStable(records, func(i, j int) bool {
		switch sortBy {
		case SortName:
			a, b := strings.ToLower(records[i].OriginalName), strings.ToLower(records[j].OriginalName)
			if a != b {
				return a < b
			}
			return records[i].StoredName < records[j].StoredName
		default: // "added"
			return records[i].AddedAt.Before(records[j].AddedAt)
		}
	})

	if reverse {
		for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
			records[i], records[j] = records[j], records[i]
		}
	}
}
