package sorter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	domain "darion/internal/domain/sorter"
	"darion/internal/infrastructure/fsutil"
)

// maxSuffix bounds the name_N.ext search before a collision is reported
const maxSuffix = 9999

// moveRetries is how often a name taken between claim and move is re-claimed
const moveRetries = 3

// placer picks collision-free destinations and performs the moves.
// Names handed out during a run are remembered so that neither parallel
// workers nor dry runs assign one destination twice.
type placer struct {
	fs     afero.Fs
	dest   string
	dryRun bool

	mu      sync.Mutex
	claimed map[string]struct{}
}

func newPlacer(fs afero.Fs, dest string, dryRun bool) *placer {
	return &placer{
		fs:      fs,
		dest:    dest,
		dryRun:  dryRun,
		claimed: make(map[string]struct{}),
	}
}

// place moves entry into its category folder and returns the final path
func (p *placer) place(entry domain.FileEntry, category domain.Category) (string, *domain.Failure) {
	dir := filepath.Join(p.dest, string(category))

	// source inside destination: the file may already sit in its folder
	if filepath.Join(dir, entry.Name) == entry.Path {
		return entry.Path, nil
	}

	for attempt := 0; ; attempt++ {
		target, err := p.claim(dir, entry.Name)
		if errors.Is(err, fsutil.ErrNoFreeName) {
			return "", &domain.Failure{Path: entry.Path, Reason: domain.ReasonDestinationCollision, Detail: filepath.Join(dir, entry.Name)}
		}
		if err != nil {
			return "", &domain.Failure{Path: entry.Path, Reason: domain.ReasonIOError, Detail: err.Error()}
		}

		if p.dryRun {
			return target, nil
		}
		err = fsutil.Move(p.fs, entry.Path, target)
		if errors.Is(err, os.ErrExist) && attempt < moveRetries {
			// someone outside this job took the name after we claimed it
			continue
		}
		if err != nil {
			return "", &domain.Failure{Path: entry.Path, Reason: domain.ReasonIOError, Detail: err.Error()}
		}
		return target, nil
	}
}

func (p *placer) claim(dir, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	free, err := fsutil.UniqueName(name, maxSuffix, func(candidate string) (bool, error) {
		path := filepath.Join(dir, candidate)
		if _, ok := p.claimed[path]; ok {
			return true, nil
		}
		return afero.Exists(p.fs, path)
	})
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, free)
	p.claimed[path] = struct{}{}
	return path, nil
}

// partial is one worker's share of the result
type partial struct {
	stats    domain.Statistics
	failures []domain.Failure
	moves    []domain.Move
}

// place classifies and places entries on a bounded pool of workers.
// It stops handing out work once ctx is done.
func (s *service) place(ctx context.Context, entries []domain.FileEntry, criterion domain.Criterion, p *placer) []*partial {
	workers := s.workers
	if workers > len(entries) {
		workers = len(entries)
	}
	if workers < 1 {
		workers = 1
	}

	parts := make([]*partial, workers)
	queue := make(chan domain.FileEntry)
	var wg sync.WaitGroup

	for i := range parts {
		part := &partial{stats: domain.NewStatistics(criterion, p.dryRun)}
		parts[i] = part

		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range queue {
				// drain without placing once cancelled
				if ctx.Err() != nil {
					continue
				}
				category := domain.Classify(entry, criterion, s.table)
				target, failure := p.place(entry, category)
				if failure != nil {
					part.failures = append(part.failures, *failure)
					continue
				}
				part.stats.Add(category, entry)
				part.moves = append(part.moves, domain.Move{
					Source:      entry.Path,
					Destination: target,
					Category:    category,
					Size:        entry.Size,
				})
			}
		}()
	}

feed:
	for _, entry := range entries {
		select {
		case queue <- entry:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)
	wg.Wait()

	return parts
}
