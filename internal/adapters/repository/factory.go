package repository

import (
	"fmt"

	"github.com/kamal-hamza/imgc/internal/core/ports"
	"github.com/kamal-hamza/imgc/pkg/vault"
)

// Store backends selectable through config
const (
	BackendTable     = "table"
	BackendDelimited = "delimited"
	BackendSQLite    = "sqlite"
)

// Backends lists every supported backend name
var Backends = []string{BackendTable, BackendDelimited, BackendSQLite}

// NewMetadataStore returns the backend named by kind, stored under v
func NewMetadataStore(kind string, v *vault.Vault) (ports.MetadataStore, error) {
	path := v.MetadataPath(kind)
	switch kind {
	case BackendTable, "":
		return NewTableStore(v.MetadataPath(BackendTable)), nil
	case BackendDelimited:
		return NewDelimitedStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unknown metadata backend %q (want one of %v)", kind, Backends)
	}
}
