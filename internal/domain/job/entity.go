package job

import (
	"time"

	"darion/internal/domain/sorter"
)

// Job outcomes
const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Job is the persisted summary of one sort request
type Job struct {
	ID         string                                   `json:"id"`
	SourceDir  string                                   `json:"source_dir"`
	DestDir    string                                   `json:"dest_dir"`
	Criteria   sorter.Criterion                         `json:"criteria"`
	Recursive  bool                                     `json:"recursive"`
	DryRun     bool                                     `json:"dry_run"`
	Status     string                                   `json:"status"`
	TotalFiles int                                      `json:"total_files"`
	TotalSize  uint64                                   `json:"total_size"`
	Failures   int                                      `json:"failures"`
	Categories map[sorter.Category]sorter.CategoryStats `json:"categories"`
	StartedAt  time.Time                                `json:"started_at"`
	FinishedAt time.Time                                `json:"finished_at"`
}

// FromResult builds a job record from a finished or cancelled sort
func FromResult(req sorter.SortRequest, res *sorter.SortResult, status string) *Job {
	return &Job{
		SourceDir:  req.SourceDir,
		DestDir:    req.DestDir,
		Criteria:   req.Criterion,
		Recursive:  req.Recursive,
		DryRun:     req.DryRun,
		Status:     status,
		TotalFiles: res.Statistics.TotalFiles,
		TotalSize:  res.Statistics.TotalSize,
		Failures:   len(res.Failures),
		Categories: res.Statistics.Categories,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
}
