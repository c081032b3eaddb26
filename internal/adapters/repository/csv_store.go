package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/pkg/fileutil"
)

// utf8BOM is prepended by some spreadsheet tools when saving CSV
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// encoding/csv drops a carriage return that precedes a newline, even inside a
// quoted field, so CR and the escape character itself are written escaped.
var (
	cellEscaper   = strings.NewReplacer(`\`, `\\`, "\r", `\r`)
	cellUnescaper = strings.NewReplacer(`\\`, `\`, `\r`, "\r")
)

// rowParser turns the raw rows of a metadata file (header included) into records
type rowParser func(rows [][]string) ([]domain.AssetRecord, error)

// csvStore is the shared file handling of the two CSV backends. They differ
// only in how strictly they read the header and rows.
type csvStore struct {
	path  string
	kind  string
	parse rowParser

	// emptyOK treats a zero-byte file as an empty catalog
	emptyOK bool
	// fieldsPerRecord is passed to csv.Reader (0: first row decides, -1: any)
	fieldsPerRecord int
}

func (s *csvStore) Kind() string { return s.kind }

func (s *csvStore) Path() string { return s.path }

// Load reads the metadata file, creating a header-only one if absent
func (s *csvStore) Load(ctx context.Context) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := s.Persist(ctx, nil); err != nil {
				return nil, err
			}
			return domain.NewCatalog(nil)
		}
		return nil, domain.NewError(domain.ErrStoreUnavailable, "load", s.path, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, domain.NewError(domain.ErrStoreCorrupt, "load", s.path, errors.New("not valid UTF-8"))
	}
	if len(bytes.TrimSpace(data)) == 0 && s.emptyOK {
		return domain.NewCatalog(nil)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = s.fieldsPerRecord
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, domain.NewError(domain.ErrStoreCorrupt, "load", s.path, err)
	}

	records, err := s.parse(rows)
	if err != nil {
		return nil, domain.NewError(domain.ErrStoreCorrupt, "load", s.path, err)
	}

	catalog, err := domain.NewCatalog(records)
	if err != nil {
		return nil, domain.NewError(domain.ErrStoreCorrupt, "load", s.path, err)
	}
	return catalog, nil
}

// AppendAndPersist rewrites the file with catalog+rec, then commits rec in memory
func (s *csvStore) AppendAndPersist(ctx context.Context, catalog *domain.Catalog, rec domain.AssetRecord) error {
	return appendAndPersist(ctx, s, catalog, rec)
}

// Persist performs a full atomic rewrite of the metadata file
func (s *csvStore) Persist(ctx context.Context, records []domain.AssetRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := fileutil.WriteFileAtomic(s.path, func(w io.Writer) error {
		return writeRecords(w, records)
	})
	if err != nil {
		return domain.NewError(domain.ErrStoreUnavailable, "persist", s.path, err)
	}
	return nil
}

// writeRecords emits the canonical four-column layout with a header row
func writeRecords(w io.Writer, records []domain.AssetRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.Columns); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			cellEscaper.Replace(rec.StoredName),
			cellEscaper.Replace(rec.OriginalName),
			rec.FormatAddedAt(),
			cellEscaper.Replace(rec.Description),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// persister is the part of a store appendAndPersist needs
type persister interface {
	Persist(ctx context.Context, records []domain.AssetRecord) error
}

// appendAndPersist writes the snapshot first so the in-memory catalog only
// ever reflects what is on disk.
func appendAndPersist(ctx context.Context, p persister, catalog *domain.Catalog, rec domain.AssetRecord) error {
	if catalog.Has(rec.StoredName) {
		return domain.NewError(domain.ErrStoreUnavailable, "append", rec.StoredName,
			errors.New("stored name already recorded"))
	}

	snapshot := append(catalog.Records(), rec)
	if err := p.Persist(ctx, snapshot); err != nil {
		return err
	}

	if err := catalog.Add(rec); err != nil {
		// Unreachable after the Has check above
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

// recordFromCells builds a record from the four schema cells, undoing the
// escaping applied by writeRecords
func recordFromCells(line int, storedName, originalName, addedAt, description string) (domain.AssetRecord, error) {
	storedName = cellUnescaper.Replace(storedName)
	if storedName == "" {
		return domain.AssetRecord{}, fmt.Errorf("line %d: empty filename", line)
	}
	ts, err := domain.ParseAddedAt(addedAt)
	if err != nil {
		return domain.AssetRecord{}, fmt.Errorf("line %d: invalid date_added %q: %w", line, addedAt, err)
	}
	return domain.AssetRecord{
		StoredName:   storedName,
		OriginalName: cellUnescaper.Replace(originalName),
		AddedAt:      ts,
		Description:  cellUnescaper.Replace(description),
	}, nil
}
