package services

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/kamal-hamza/imgc/internal/core/domain"
)

// ComputeStats aggregates a catalog snapshot. It performs no I/O.
func ComputeStats(records []domain.AssetRecord) domain.StatsReport {
	report := domain.StatsReport{Count: len(records)}
	if len(records) == 0 {
		return report
	}

	months := make(map[string]int)
	exts := make(map[string]int)

	report.Oldest = records[0].AddedAt
	report.Newest = records[0].AddedAt

	for _, rec := range records {
		months[rec.AddedAt.Format("2006-01")]++
		exts[strings.ToLower(filepath.Ext(rec.StoredName))]++

		if rec.AddedAt.Before(report.Oldest) {
			report.Oldest = rec.AddedAt
		}
		if rec.AddedAt.After(report.Newest) {
			report.Newest = rec.AddedAt
		}
	}

	// YYYY-MM keys sort chronologically as strings
	for month, count := range months {
		report.ByMonth = append(report.ByMonth, domain.Bucket{Key: month, Count: count})
	}
	sort.Slice(report.ByMonth, func(i, j int) bool {
		return report.ByMonth[i].Key < report.ByMonth[j].Key
	})

	for ext, count := range exts {
		report.ByExtension = append(report.ByExtension, domain.Bucket{Key: ext, Count: count})
	}
	sort.Slice(report.ByExtension, func(i, j int) bool {
		a, b := report.ByExtension[i], report.ByExtension[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Key < b.Key
	})

	return report
}
