package domain

import "time"

// Bucket is one group of a StatsReport
type Bucket struct {
	Key   string
	Count int
}

// StatsReport aggregates a catalog snapshot.
// Oldest and Newest are zero when Count is 0.
type StatsReport struct {
	Count       int
	Oldest      time.Time
	Newest      time.Time
	ByMonth     []Bucket // "YYYY-MM", chronological
	ByExtension []Bucket // lower-case extension incl. dot, "" when none
}

// MonthCounts returns ByMonth as a map
func (s StatsReport) MonthCounts() map[string]int {
	out := make(map[string]int, len(s.ByMonth))
	for _, b := range s.ByMonth {
		out[b.Key] = b.Count
	}
	return out
}

// ExtensionCounts returns ByExtension as a map
func (s StatsReport) ExtensionCounts() map[string]int {
	out := make(map[string]int, len(s.ByExtension))
	for _, b := range s.ByExtension {
		out[b.Key] = b.Count
	}
	return out
}

// VerifyReport lists violations of the file/record consistency invariant
type VerifyReport struct {
	Records      int
	Files        int
	MissingFiles []string // records whose stored file is gone
	OrphanFiles  []string // files in storage without a record
}

// Consistent reports whether no violation was found
func (r VerifyReport) Consistent() bool {
	return len(r.MissingFiles) == 0 && len(r.OrphanFiles) == 0
}
