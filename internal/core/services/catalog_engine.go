package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/internal/core/ports"
	"github.com/kamal-hamza/imgc/pkg/fileutil"
	"github.com/kamal-hamza/imgc/pkg/vault"
)

// CatalogEngine keeps the storage directory and its metadata store in step.
// Every mutation writes the new snapshot before touching the in-memory catalog,
// so a failed write leaves both sides as they were.
type CatalogEngine struct {
	vault   *vault.Vault
	store   ports.MetadataStore
	catalog *domain.Catalog
	now     func() time.Time
	log     zerolog.Logger
}

// Option configures a CatalogEngine
type Option func(*CatalogEngine)

// WithClock overrides the time source used to stamp ingested files
func WithClock(now func() time.Time) Option {
	return func(e *CatalogEngine) {
		e.now = now
	}
}

// WithLogger sets where non-fatal problems are reported
func WithLogger(log zerolog.Logger) Option {
	return func(e *CatalogEngine) {
		e.log = log
	}
}

// OpenCatalog prepares the storage directory and loads the catalog from store
func OpenCatalog(ctx context.Context, v *vault.Vault, store ports.MetadataStore, opts ...Option) (*CatalogEngine, error) {
	if err := v.Ensure(); err != nil {
		return nil, err
	}

	catalog, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	e := &CatalogEngine{
		vault:   v,
		store:   store,
		catalog: catalog,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases the metadata store if it holds resources
func (e *CatalogEngine) Close() error {
	if c, ok := e.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Store returns the backing metadata store
func (e *CatalogEngine) Store() ports.MetadataStore {
	return e.store
}

// Ingest copies sourcePath into storage under a freshly minted name and
// records it. On failure neither the file nor the record survive.
func (e *CatalogEngine) Ingest(ctx context.Context, sourcePath, description string) (domain.AssetRecord, error) {
	const op = "ingest"

	if err := ctx.Err(); err != nil {
		return domain.AssetRecord{}, err
	}

	// 1. Validate source
	info, err := os.Stat(sourcePath)
	if err != nil {
		return domain.AssetRecord{}, domain.NewError(domain.ErrSourceNotFound, op, sourcePath, err)
	}
	if !info.Mode().IsRegular() {
		return domain.AssetRecord{}, domain.NewError(domain.ErrSourceNotFound, op, sourcePath,
			fmt.Errorf("not a regular file"))
	}

	// 2. Mint a name free in both the catalog and the directory
	now := e.now().Local().Truncate(time.Second)
	original := OriginalName(sourcePath)
	storedName := MintUniqueName(original, now, e.nameTaken)
	destPath := e.vault.AssetPath(storedName)

	// 3. Copy
	if err := fileutil.CopyFileExclusive(sourcePath, destPath); err != nil {
		return domain.AssetRecord{}, domain.NewError(domain.ErrCopyFailed, op, storedName, err)
	}
	if err := fileutil.CopyModTime(sourcePath, destPath); err != nil {
		e.log.Warn().Err(err).Str("stored", storedName).Msg("could not keep source modification time")
	}

	// 4. Record, undoing the copy if the write fails
	rec := domain.AssetRecord{
		StoredName:   storedName,
		OriginalName: original,
		AddedAt:      now,
		Description:  description,
	}
	if err := e.store.AppendAndPersist(ctx, e.catalog, rec); err != nil {
		if rmErr := os.Remove(destPath); rmErr != nil && !os.IsNotExist(rmErr) {
			err = errors.Join(err, fmt.Errorf("remove copied file: %w", rmErr))
		}
		return domain.AssetRecord{}, domain.NewError(domain.ErrMetadataPersistFailed, op, storedName, err)
	}

	return rec, nil
}

// nameTaken only treats an existing entry as a collision. Stat errors fall
// through to the exclusive create in the copy, which reports them.
func (e *CatalogEngine) nameTaken(name string) bool {
	if e.catalog.Has(name) {
		return true
	}
	_, err := os.Lstat(e.vault.AssetPath(name))
	return err == nil
}

// List returns every record in insertion order
func (e *CatalogEngine) List() []domain.AssetRecord {
	return e.catalog.Records()
}

// Len returns the number of records
func (e *CatalogEngine) Len() int {
	return e.catalog.Len()
}

// Get looks up a record by stored name
func (e *CatalogEngine) Get(name string) (domain.AssetRecord, error) {
	rec, ok := e.catalog.Get(name)
	if !ok {
		return domain.AssetRecord{}, domain.NewError(domain.ErrNotFound, "get", name, nil)
	}
	return rec, nil
}

// ResolvePath returns where a stored name lives on disk. It does not check
// that the name is catalogued or that the file exists.
func (e *CatalogEngine) ResolvePath(name string) string {
	return e.vault.AssetPath(name)
}

// CheckFile resolves a catalogued name and confirms its file is present
func (e *CatalogEngine) CheckFile(name string) (string, error) {
	const op = "check"

	if !e.catalog.Has(name) {
		return "", domain.NewError(domain.ErrNotFound, op, name, nil)
	}

	path := e.vault.AssetPath(name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, domain.NewError(domain.ErrAssetFileMissing, op, name, err)
		}
		return path, domain.NewError(domain.ErrStorageUnavailable, op, name, err)
	}
	if !info.Mode().IsRegular() {
		return path, domain.NewError(domain.ErrAssetFileMissing, op, name, fmt.Errorf("not a regular file"))
	}
	return path, nil
}

// Stats aggregates the current catalog
func (e *CatalogEngine) Stats() domain.StatsReport {
	return ComputeStats(e.catalog.Records())
}

// Search returns records whose stored name, original name or description
// contain query, case-insensitively. An empty query matches everything.
func (e *CatalogEngine) Search(query string) []domain.AssetRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	records := e.catalog.Records()
	if query == "" {
		return records
	}

	var matches []domain.AssetRecord
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.StoredName), query) ||
			strings.Contains(strings.ToLower(rec.OriginalName), query) ||
			strings.Contains(strings.ToLower(rec.Description), query) {
			matches = append(matches, rec)
		}
	}
	return matches
}

// Describe replaces the description of a record
func (e *CatalogEngine) Describe(ctx context.Context, name, description string) (domain.AssetRecord, error) {
	const op = "describe"

	rec, ok := e.catalog.Get(name)
	if !ok {
		return domain.AssetRecord{}, domain.NewError(domain.ErrNotFound, op, name, nil)
	}
	rec.Description = description

	next := e.catalog.Clone()
	next.Update(rec)
	if err := e.store.Persist(ctx, next.Records()); err != nil {
		return domain.AssetRecord{}, domain.NewError(domain.ErrMetadataPersistFailed, op, name, err)
	}

	e.catalog.Update(rec)
	return rec, nil
}

// Remove deletes a record and its file. The file is parked under a hidden
// name until the metadata write succeeds and is restored if it fails.
func (e *CatalogEngine) Remove(ctx context.Context, name string) error {
	const op = "remove"

	if !e.catalog.Has(name) {
		return domain.NewError(domain.ErrNotFound, op, name, nil)
	}

	path := e.vault.AssetPath(name)
	parked := e.vault.AssetPath("." + name + ".trash")

	moved := true
	if err := os.Rename(path, parked); err != nil {
		if !os.IsNotExist(err) {
			return domain.NewError(domain.ErrStorageUnavailable, op, name, err)
		}
		// Already gone; dropping the record repairs the catalog
		moved = false
	}

	if err := e.store.Persist(ctx, e.catalog.Without(name)); err != nil {
		if moved {
			if rbErr := os.Rename(parked, path); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("restore file: %w", rbErr))
			}
		}
		return domain.NewError(domain.ErrMetadataPersistFailed, op, name, err)
	}

	e.catalog.Remove(name)

	if moved {
		if err := os.Remove(parked); err != nil && !os.IsNotExist(err) {
			return domain.NewError(domain.ErrStorageUnavailable, op, name,
				fmt.Errorf("record removed but file left at %s: %w", parked, err))
		}
	}
	return nil
}

// Verify compares the catalog with the storage directory
func (e *CatalogEngine) Verify() (domain.VerifyReport, error) {
	entries, err := os.ReadDir(e.vault.StoragePath)
	if err != nil {
		return domain.VerifyReport{}, domain.NewError(domain.ErrStorageUnavailable, "verify", e.vault.StoragePath, err)
	}

	files := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || e.vault.IsReserved(entry.Name()) {
			continue
		}
		files[entry.Name()] = true
	}

	report := domain.VerifyReport{
		Records: e.catalog.Len(),
		Files:   len(files),
	}

	for _, rec := range e.catalog.Records() {
		if !files[rec.StoredName] {
			report.MissingFiles = append(report.MissingFiles, rec.StoredName)
		}
	}
	for name := range files {
		if !e.catalog.Has(name) {
			report.OrphanFiles = append(report.OrphanFiles, name)
		}
	}
	sort.Strings(report.OrphanFiles)

	return report, nil
}
