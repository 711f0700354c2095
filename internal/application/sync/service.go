package sync

import (
	"context"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	"go.uber.org/zap"

	"darion/internal/domain/integration"
	"darion/internal/infrastructure/logging"
	"darion/internal/infrastructure/metrics"
)

// Service defines the data synchronization use cases
type Service interface {
	// Sync runs one target ("all" runs every source) and returns the text
	// shown to the user, one line per source.
	Sync(ctx context.Context, target string) (string, error)
}

type service struct {
	sources map[string]integration.Source
	order   []string
	timeout time.Duration
}

// Named pairs a sync target with its source
type Named struct {
	Target string
	Source integration.Source
}

// NewService creates a new sync service. "all" reports sources in the
// order given here.
func NewService(timeout time.Duration, sources ...Named) Service {
	s := &service{
		sources: make(map[string]integration.Source, len(sources)),
		timeout: timeout,
	}
	for _, n := range sources {
		s.sources[n.Target] = n.Source
		s.order = append(s.order, n.Target)
	}
	return s
}

func (s *service) Sync(ctx context.Context, target string) (string, error) {
	target = strings.ToLower(strings.TrimSpace(target))

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if target == integration.TargetAll {
		return s.syncAll(ctx), nil
	}

	src, ok := s.sources[target]
	if !ok {
		return "", fmt.Errorf("%w: %s", integration.ErrUnknownTarget, target)
	}
	return s.run(ctx, target, src), nil
}

// syncAll runs every source concurrently
func (s *service) syncAll(ctx context.Context) string {
	lines := make([]string, len(s.order))

	var wg gosync.WaitGroup
	for i, target := range s.order {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			lines[i] = s.run(ctx, target, s.sources[target])
		}(i, target)
	}
	wg.Wait()

	return strings.Join(lines, "\n")
}

func (s *service) run(ctx context.Context, target string, src integration.Source) string {
	log := logging.WithContext(ctx).With(zap.String("source", target))

	if !src.Configured() {
		log.Debug("sync skipped, source not configured")
		return fmt.Sprintf("%s sync functionality will be available after authentication setup.", src.Name())
	}

	start := time.Now()
	summary, err := src.Sync(ctx)
	metrics.RecordSync(target, err == nil)
	if err != nil {
		log.Warn("sync failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		if summary == "" {
			summary = fmt.Sprintf("Failed to sync %s data.", src.Name())
		}
		return summary
	}

	log.Info("sync finished", zap.String("summary", summary), zap.Duration("duration", time.Since(start)))
	return summary
}
