package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"darion/internal/domain/job"
	"darion/internal/domain/sorter"
	"darion/internal/infrastructure/database"
)

type jobRepository struct {
	db *database.DB
}

// NewJobRepository creates a new sort job repository
func NewJobRepository(db *database.DB) job.Repository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(j *job.Job) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.StartedAt.IsZero() {
		j.StartedAt = time.Now()
	}
	if j.FinishedAt.IsZero() {
		j.FinishedAt = j.StartedAt
	}
	if j.Status == "" {
		j.Status = job.StatusCompleted
	}

	categories, err := json.Marshal(j.Categories)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO sort_jobs (id, source_dir, dest_dir, criteria, recursive, dry_run, status, total_files, total_size, failures, categories, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.SourceDir, j.DestDir, j.Criteria, j.Recursive, j.DryRun, j.Status, j.TotalFiles, int64(j.TotalSize), j.Failures, string(categories), j.StartedAt, j.FinishedAt,
	)
	return err
}

// List returns the most recent jobs first
func (r *jobRepository) List(limit int) ([]job.Job, error) {
	rows, err := r.db.Query(
		`SELECT id, source_dir, dest_dir, criteria, recursive, dry_run, status, total_files, total_size, failures, categories, started_at, finished_at
		 FROM sort_jobs ORDER BY started_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []job.Job{}
	for rows.Next() {
		var j job.Job
		var totalSize int64
		var categories string

		if err := rows.Scan(&j.ID, &j.SourceDir, &j.DestDir, &j.Criteria, &j.Recursive, &j.DryRun, &j.Status, &j.TotalFiles, &totalSize, &j.Failures, &categories, &j.StartedAt, &j.FinishedAt); err != nil {
			return nil, err
		}
		j.TotalSize = uint64(totalSize)
		j.Categories = map[sorter.Category]sorter.CategoryStats{}
		if err := json.Unmarshal([]byte(categories), &j.Categories); err != nil {
			return nil, err
		}

		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
