package services

import (
	"context"
	"fmt"

	"github.com/kamal-hamza/imgc/internal/core/domain"
	"github.com/kamal-hamza/imgc/internal/core/ports"
)

// MigrateResult summarises a backend migration
type MigrateResult struct {
	From    string
	To      string
	Records int
	DryRun  bool
}

// Migrate copies every record from src into dst and reads dst back to
// confirm nothing was lost. The source is left in place.
func Migrate(ctx context.Context, src, dst ports.MetadataStore, dryRun bool) (MigrateResult, error) {
	result := MigrateResult{From: src.Kind(), To: dst.Kind(), DryRun: dryRun}

	catalog, err := src.Load(ctx)
	if err != nil {
		return result, err
	}
	result.Records = catalog.Len()

	if dryRun {
		return result, nil
	}

	if err := dst.Persist(ctx, catalog.Records()); err != nil {
		return result, domain.NewError(domain.ErrMetadataPersistFailed, "migrate", dst.Path(), err)
	}

	check, err := dst.Load(ctx)
	if err != nil {
		return result, err
	}
	if check.Len() != catalog.Len() {
		return result, domain.NewError(domain.ErrStoreCorrupt, "migrate", dst.Path(),
			fmt.Errorf("wrote %d records, read back %d", catalog.Len(), check.Len()))
	}
	for _, rec := range catalog.Records() {
		got, ok := check.Get(rec.StoredName)
		if !ok || got.Description != rec.Description || got.OriginalName != rec.OriginalName {
			return result, domain.NewError(domain.ErrStoreCorrupt, "migrate", dst.Path(),
				fmt.Errorf("record %s did not survive the migration", rec.StoredName))
		}
	}
	return result, nil
}
