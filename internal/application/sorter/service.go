package sorter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"darion/internal/domain/job"
	domain "darion/internal/domain/sorter"
	"darion/internal/infrastructure/logging"
	"darion/internal/infrastructure/metrics"
)

// Service defines the file sorting use cases
type Service interface {
	// Sort runs one job. When ctx is cancelled after files were placed it
	// returns ctx's error together with the partial result.
	Sort(ctx context.Context, req domain.SortRequest) (*domain.SortResult, error)
	History(limit int) ([]job.Job, error)
}

// Locker serializes jobs writing to the same destination
type Locker interface {
	Lock(ctx context.Context, key string) (func() error, error)
}

// Option configures the service
type Option func(*service)

// WithWorkers sets how many files are placed concurrently
func WithWorkers(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLocker guards destinations against concurrent jobs
func WithLocker(l Locker) Option {
	return func(s *service) { s.locker = l }
}

// WithJobs records every finished job
func WithJobs(repo job.Repository) Option {
	return func(s *service) { s.jobs = repo }
}

type service struct {
	fs      afero.Fs
	table   *domain.Table
	workers int
	locker  Locker
	jobs    job.Repository
	now     func() time.Time
}

// NewService creates a new sort service operating on fs
func NewService(fs afero.Fs, table *domain.Table, opts ...Option) Service {
	if table == nil {
		table = domain.DefaultTable()
	}
	s := &service{
		fs:      fs,
		table:   table,
		workers: 1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Sort(ctx context.Context, req domain.SortRequest) (*domain.SortResult, error) {
	req, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	log := logging.WithContext(ctx).With(
		zap.String("source", req.SourceDir),
		zap.String("dest", req.DestDir),
		zap.String("criteria", string(req.Criterion)),
		zap.Bool("recursive", req.Recursive),
		zap.Bool("dry_run", req.DryRun),
	)

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, req.DestDir)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := unlock(); err != nil {
				log.Warn("failed to release destination lock", zap.Error(err))
			}
		}()
	}

	started := s.now()

	w := walker{fs: s.fs, table: s.table, req: req}
	entries, failures, err := w.walk(ctx)
	if err != nil {
		metrics.RecordSortJob(string(req.Criterion), walkStatus(ctx), 0, 0, 0, s.now().Sub(started))
		log.Error("traversal failed", zap.Error(err))
		return nil, err
	}
	log.Debug("traversal finished", zap.Int("files", len(entries)), zap.Int("skipped", len(failures)))

	p := newPlacer(s.fs, req.DestDir, req.DryRun)
	parts := s.place(ctx, entries, req.Criterion, p)

	result := &domain.SortResult{
		Statistics: domain.NewStatistics(req.Criterion, req.DryRun),
		Failures:   failures,
		Moves:      []domain.Move{},
		StartedAt:  started,
	}
	for _, part := range parts {
		result.Statistics.Merge(part.stats)
		result.Failures = append(result.Failures, part.failures...)
		result.Moves = append(result.Moves, part.moves...)
	}
	if result.Failures == nil {
		result.Failures = []domain.Failure{}
	}
	sort.Slice(result.Failures, func(i, j int) bool { return result.Failures[i].Path < result.Failures[j].Path })
	sort.Slice(result.Moves, func(i, j int) bool { return result.Moves[i].Source < result.Moves[j].Source })
	result.FinishedAt = s.now()

	for _, f := range result.Failures {
		log.Warn("file not sorted", zap.String("path", f.Path), zap.String("reason", string(f.Reason)), zap.String("detail", f.Detail))
	}

	// Files moved before a cancellation stay moved, so the partial
	// result is still logged, counted and recorded.
	cancelErr := ctx.Err()
	status, jobStatus := "success", job.StatusCompleted
	switch {
	case cancelErr != nil:
		status, jobStatus = "cancelled", job.StatusCancelled
	case len(result.Failures) > 0:
		status = "partial"
	}
	metrics.RecordSortJob(string(req.Criterion), status, result.Statistics.TotalFiles, len(result.Failures),
		result.Statistics.TotalSize, result.FinishedAt.Sub(started))

	fields := []zap.Field{
		zap.Int("placed", result.Statistics.TotalFiles),
		zap.Uint64("bytes", result.Statistics.TotalSize),
		zap.Int("failed", len(result.Failures)),
		zap.Duration("duration", result.FinishedAt.Sub(started)),
	}
	if cancelErr != nil {
		log.Warn("sort cancelled", fields...)
	} else {
		log.Info("sort finished", fields...)
	}

	if s.jobs != nil {
		if err := s.jobs.Create(job.FromResult(req, result, jobStatus)); err != nil {
			log.Error("failed to record sort job", zap.Error(err))
		}
	}

	if cancelErr != nil {
		return result, cancelErr
	}
	return result, nil
}

func (s *service) History(limit int) ([]job.Job, error) {
	if s.jobs == nil {
		return []job.Job{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.jobs.List(limit)
}

func walkStatus(ctx context.Context) string {
	if ctx.Err() != nil {
		return "cancelled"
	}
	return "error"
}

// prepare validates the request and normalizes its paths
func (s *service) prepare(req domain.SortRequest) (domain.SortRequest, error) {
	req.SourceDir = strings.TrimSpace(req.SourceDir)
	req.DestDir = strings.TrimSpace(req.DestDir)
	if req.SourceDir == "" || req.DestDir == "" {
		return req, domain.ErrMissingDirectory
	}
	if !req.Criterion.Valid() {
		return req, fmt.Errorf("%w %q, supported: %v", domain.ErrUnsupportedCriterion, req.Criterion, domain.Criteria)
	}

	var err error
	if req.SourceDir, err = filepath.Abs(req.SourceDir); err != nil {
		return req, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if req.DestDir, err = filepath.Abs(req.DestDir); err != nil {
		return req, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if req.SourceDir == req.DestDir {
		return req, domain.ErrSameDirectory
	}

	info, err := s.fs.Stat(req.SourceDir)
	switch {
	case os.IsNotExist(err):
		return req, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, req.SourceDir)
	case err != nil:
		return req, fmt.Errorf("%w: %v", domain.ErrTraversal, err)
	case !info.IsDir():
		return req, fmt.Errorf("%w: %s", domain.ErrSourceNotDirectory, req.SourceDir)
	}

	info, err = s.fs.Stat(req.DestDir)
	switch {
	case os.IsNotExist(err):
		if req.DryRun {
			return req, nil
		}
		if err := s.fs.MkdirAll(req.DestDir, 0o755); err != nil {
			return req, fmt.Errorf("%w: %v", domain.ErrDestinationUnwritable, err)
		}
	case err != nil:
		return req, fmt.Errorf("%w: %v", domain.ErrDestinationUnwritable, err)
	case !info.IsDir():
		return req, fmt.Errorf("%w: %s", domain.ErrDestNotDirectory, req.DestDir)
	}

	return req, nil
}
