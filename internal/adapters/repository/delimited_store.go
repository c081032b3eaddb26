package repository

import (
	"fmt"
	"strings"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/internal/core/ports"
)

var _ ports.MetadataStore = (*DelimitedStore)(nil)

// DelimitedStore is the flat delimited-record backend: the header must be
// exactly the four schema columns in order and every row has four fields.
// A zero-byte file reads as an empty catalog.
type DelimitedStore struct {
	csvStore
}

// NewDelimitedStore creates a delimited store backed by path
func NewDelimitedStore(path string) *DelimitedStore {
	return &DelimitedStore{csvStore{
		path:            path,
		kind:            BackendDelimited,
		parse:           parseDelimited,
		emptyOK:         true,
		fieldsPerRecord: len(domain.Columns),
	}}
}

func parseDelimited(rows [][]string) ([]domain.AssetRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	for i, col := range domain.Columns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected header %q, want %q",
				strings.Join(header, ","), strings.Join(domain.Columns, ","))
		}
	}

	records := make([]domain.AssetRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := recordFromCells(i+2, row[0], row[1], row[2], row[3])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
