package repository

import (
	"fmt"
	"strings"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/internal/core/ports"
)

var _ ports.MetadataStore = (*TableStore)(nil)

// TableStore is the tabular-file backend. Columns are located by header
// name, so files written by the older dataframe tool (which appended
// year_month and extension columns after an analysis run) still load.
// Unknown columns are dropped on the next rewrite.
type TableStore struct {
	csvStore
}

// NewTableStore creates a tabular store backed by path
func NewTableStore(path string) *TableStore {
	return &TableStore{csvStore{
		path:            path,
		kind:            BackendTable,
		parse:           parseTable,
		fieldsPerRecord: 0,
	}}
}

func parseTable(rows [][]string) ([]domain.AssetRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	positions := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		positions[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range domain.Columns {
		if _, ok := positions[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	records := make([]domain.AssetRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := recordFromCells(i+2,
			row[positions["filename"]],
			row[positions["original_name"]],
			row[positions["date_added"]],
			row[positions["description"]],
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
