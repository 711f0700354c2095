package sorter

import "time"

// Statistics aggregates placed files per category.
//
// Add and Merge are commutative, so partial statistics collected by
// independent workers reduce to the same value in any order.
type Statistics struct {
	TotalFiles int                        `json:"total_files"`
	TotalSize  uint64                     `json:"total_size"`
	Categories map[Category]CategoryStats `json:"categories"`
	Criteria   Criterion                  `json:"criteria"`
	DryRun     bool                       `json:"dry_run"`
	OldestFile *time.Time                 `json:"oldest_file,omitempty"`
	NewestFile *time.Time                 `json:"newest_file,omitempty"`
}

// NewStatistics returns empty statistics for a job
func NewStatistics(criterion Criterion, dryRun bool) Statistics {
	return Statistics{
		Categories: make(map[Category]CategoryStats),
		Criteria:   criterion,
		DryRun:     dryRun,
	}
}

// Add counts one placed file
func (s *Statistics) Add(category Category, entry FileEntry) {
	if s.Categories == nil {
		s.Categories = make(map[Category]CategoryStats)
	}
	size := uint64(0)
	if entry.Size > 0 {
		size = uint64(entry.Size)
	}

	cs := s.Categories[category]
	cs.Count++
	cs.TotalSize += size
	s.Categories[category] = cs

	s.TotalFiles++
	s.TotalSize += size
	s.observeTime(entry.ModTime)
}

// Merge folds other into s
func (s *Statistics) Merge(other Statistics) {
	if s.Categories == nil {
		s.Categories = make(map[Category]CategoryStats)
	}
	for category, cs := range other.Categories {
		cur := s.Categories[category]
		cur.Count += cs.Count
		cur.TotalSize += cs.TotalSize
		s.Categories[category] = cur
	}
	s.TotalFiles += other.TotalFiles
	s.TotalSize += other.TotalSize
	if other.OldestFile != nil {
		s.observeTime(*other.OldestFile)
	}
	if other.NewestFile != nil {
		s.observeTime(*other.NewestFile)
	}
}

func (s *Statistics) observeTime(t time.Time) {
	if t.IsZero() {
		return
	}
	t = t.UTC()
	if s.OldestFile == nil || t.Before(*s.OldestFile) {
		oldest := t
		s.OldestFile = &oldest
	}
	if s.NewestFile == nil || t.After(*s.NewestFile) {
		newest := t
		s.NewestFile = &newest
	}
}
