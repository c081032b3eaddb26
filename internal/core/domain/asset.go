package domain

import (
	"fmt"
	"time"
)

// DateLayout is the on-disk format of AssetRecord.AddedAt
const DateLayout = "2006-01-02 15:04:05"

// Columns is the metadata schema shared by every store backend, in order
var Columns = []string{"filename", "original_name", "date_added", "description"}

// AssetRecord is the metadata of one ingested file
type AssetRecord struct {
	StoredName   string    `json:"filename"`      // Storage name (e.g. 20240301_100000_photo.jpg)
	OriginalName string    `json:"original_name"` // Source base name at ingestion
	AddedAt      time.Time `json:"date_added"`
	Description  string    `json:"description"` // User provided description
}

// FormatAddedAt returns AddedAt in the metadata file format
func (r AssetRecord) FormatAddedAt() string {
	return r.AddedAt.Format(DateLayout)
}

// ParseAddedAt parses a date_added cell in local time
func ParseAddedAt(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.Local)
}

// Catalog is the ordered set of records backing one storage root.
// Insertion order is preserved; stored names are unique.
type Catalog struct {
	records []AssetRecord
	index   map[string]int
}

// NewCatalog builds a catalog from records, rejecting duplicate stored names
func NewCatalog(records []AssetRecord) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(records); err != nil {
		return nil, err
	}
	return c, nil
}

// Len returns the number of records
func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns a copy of the records in insertion order
func (c *Catalog) Records() []AssetRecord {
	out := make([]AssetRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Get looks up a record by stored name
func (c *Catalog) Get(storedName string) (AssetRecord, bool) {
	i, ok := c.index[storedName]
	if !ok {
		return AssetRecord{}, false
	}
	return c.records[i], true
}

// Has reports whether a stored name is taken
func (c *Catalog) Has(storedName string) bool {
	_, ok := c.index[storedName]
	return ok
}

// Clone returns an independent copy
func (c *Catalog) Clone() *Catalog {
	clone, _ := NewCatalog(c.records)
	return clone
}

// Add appends a record
func (c *Catalog) Add(rec AssetRecord) error {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if rec.StoredName == "" {
		return fmt.Errorf("stored name cannot be empty")
	}
	if _, exists := c.index[rec.StoredName]; exists {
		return fmt.Errorf("duplicate stored name %q", rec.StoredName)
	}
	c.index[rec.StoredName] = len(c.records)
	c.records = append(c.records, rec)
	return nil
}

// Replace swaps the whole record set. The catalog is left untouched on error.
func (c *Catalog) Replace(records []AssetRecord) error {
	next := &Catalog{index: make(map[string]int, len(records))}
	for _, rec := range records {
		if err := next.Add(rec); err != nil {
			return err
		}
	}
	c.records = next.records
	c.index = next.index
	return nil
}

// Update replaces the record with the same stored name
func (c *Catalog) Update(rec AssetRecord) bool {
	i, ok := c.index[rec.StoredName]
	if !ok {
		return false
	}
	c.records[i] = rec
	return true
}

// Remove deletes a record, keeping the order of the others
func (c *Catalog) Remove(storedName string) bool {
	i, ok := c.index[storedName]
	if !ok {
		return false
	}
	c.records = append(c.records[:i:i], c.records[i+1:]...)
	delete(c.index, storedName)
	for j := i; j < len(c.records); j++ {
		c.index[c.records[j].StoredName] = j
	}
	return true
}

// Without returns the records minus storedName, without mutating the catalog
func (c *Catalog) Without(storedName string) []AssetRecord {
	out := make([]AssetRecord, 0, len(c.records))
	for _, rec := range c.records {
		if rec.StoredName != storedName {
			out = append(out, rec)
		}
	}
	return out
}
