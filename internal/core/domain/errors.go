package domain

import (
	"errors"
	"fmt"
)

// Error kinds reported by the catalog. Match them with errors.Is.
var (
	ErrSourceNotFound        = errors.New("source not found")
	ErrStorageUnavailable    = errors.New("storage unavailable")
	ErrCopyFailed            = errors.New("copy failed")
	ErrMetadataPersistFailed = errors.New("metadata persist failed")
	ErrStoreCorrupt          = errors.New("metadata store corrupt")
	ErrStoreUnavailable      = errors.New("metadata store unavailable")
	ErrAssetFileMissing      = errors.New("asset file missing")
	ErrNotFound              = errors.New("not found")
)

// CatalogError carries the kind of a failure together with its cause
type CatalogError struct {
	Kind error  // One of the Err* sentinels
	Op   string // Operation, e.g. "ingest"
	Name string // Path or stored name involved, if any
	Err  error
}

// Error implements the error interface
func (e *CatalogError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Name != "" {
		msg += fmt.Sprintf(" (%s)", e.Name)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements errors.Unwrap
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CatalogError) Is(target error) bool {
	return target == e.Kind
}

// NewError builds a CatalogError
func NewError(kind error, op, name string, err error) *CatalogError {
	return &CatalogError{Kind: kind, Op: op, Name: name, Err: err}
}
