package services

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// StampLayout is the sortable timestamp prefix of stored names
const StampLayout = "20060102_150405"

// OriginalName reduces a source path to the name recorded for it.
// Names are normalised to NFC so the same file imported from a
// decomposed-Unicode filesystem mints the same key.
func OriginalName(sourcePath string) string {
	return norm.NFC.String(filepath.Base(sourcePath))
}

// MintName derives the stored name "{YYYYMMDD_HHMMSS}_{originalName}"
func MintName(originalName string, now time.Time) string {
	return now.Format(StampLayout) + "_" + originalName
}

// MintUniqueName mints a name and, while taken reports a collision,
// inserts a counter before the extension: photo.jpg -> photo-1.jpg -> photo-2.jpg.
func MintUniqueName(originalName string, now time.Time, taken func(string) bool) string {
	name := MintName(originalName, now)
	if !taken(name) {
		return name
	}

	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(originalName, ext)
	for counter := 1; ; counter++ {
		candidate := MintName(fmt.Sprintf("%s-%d%s", base, counter, ext), now)
		if !taken(candidate) {
			return candidate
		}
	}
}
