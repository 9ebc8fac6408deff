package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ChizhovVadim/dataforge/internal/domain"
	"github.com/ChizhovVadim/dataforge/internal/quiet"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type QuietConfig struct {
	MaxDepth int
	Threads  int
	Logger   zerolog.Logger
	// ProgressInterval defaults to 5 seconds.
	ProgressInterval time.Duration
}

type QuietStats struct {
	Total         int
	Kept          int
	Resolved      int
	DroppedCheck  int
	DroppedFailed int
}

type quietStatus int

const (
	statusKept quietStatus = iota
	statusResolved
	statusCheck
	statusFailed
)

type quietJob struct {
	index  int
	record domain.Record
}

type quietResult struct {
	index  int
	record domain.Record
	status quietStatus
}

// Quiet replaces every record by the quiet position found by the resolver.
// Records in check at the root and records that fail to resolve are dropped.
// An empty input is ErrNoPositions.
func Quiet(ctx context.Context, records []domain.Record, cfg QuietConfig) ([]domain.Record, QuietStats, error) {
	if len(records) == 0 {
		return nil, QuietStats{}, ErrNoPositions
	}
	var log = cfg.Logger
	log.Info().
		Int("records", len(records)).
		Int("maxDepth", cfg.MaxDepth).
		Int("threads", cfg.Threads).
		Msg("quiet started")

	g, ctx := errgroup.WithContext(ctx)

	var jobs = make(chan quietJob, 128)
	var results = make(chan quietResult, 128)
	var statuses = make([]quietStatus, len(records))
	var output = make([]domain.Record, len(records))
	var stats = QuietStats{Total: len(records)}

	g.Go(func() error {
		defer close(jobs)
		for i := range records {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- quietJob{index: i, record: records[i]}:
			}
		}
		return nil
	})

	g.Go(func() error {
		return collectQuiet(ctx, results, statuses, output, &stats, cfg.ProgressInterval, log)
	})

	var wg = &sync.WaitGroup{}
	for i := 0; i < max(1, cfg.Threads); i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return resolveRecords(ctx, jobs, results, quiet.NewQuietService(cfg.MaxDepth))
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, QuietStats{}, err
	}

	var result = make([]domain.Record, 0, stats.Kept+stats.Resolved)
	for i := range output {
		if statuses[i] == statusKept || statuses[i] == statusResolved {
			result = append(result, output[i])
		}
	}
	log.Info().
		Int("total", stats.Total).
		Int("kept", stats.Kept).
		Int("resolved", stats.Resolved).
		Int("droppedCheck", stats.DroppedCheck).
		Int("droppedFailed", stats.DroppedFailed).
		Msg("quiet finished")
	return result, stats, nil
}

func resolveRecords(
	ctx context.Context,
	jobs <-chan quietJob,
	results chan<- quietResult,
	qs *quiet.QuietService,
) error {
	for job := range jobs {
		var res, err = resolveRecord(qs, job)
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case results <- res:
		}
	}
	return nil
}

func resolveRecord(qs *quiet.QuietService, job quietJob) (quietResult, error) {
	var res = quietResult{index: job.index, record: job.record}
	var b, err = domain.ParseBoard(job.record.Fen)
	if err != nil {
		return res, fmt.Errorf("record %v: %w", job.index, err)
	}
	if b.OurKingInCheck() {
		res.status = statusCheck
		return res, nil
	}
	if qs.IsQuiet(&b) {
		res.status = statusKept
		return res, nil
	}
	var ok, result = qs.Resolve(&b)
	if !ok {
		res.status = statusFailed
		return res, nil
	}
	res.record.Fen = result.ToFen()
	res.status = statusResolved
	return res, nil
}

func collectQuiet(
	ctx context.Context,
	results <-chan quietResult,
	statuses []quietStatus,
	output []domain.Record,
	stats *QuietStats,
	interval time.Duration,
	log zerolog.Logger,
) error {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	var ticker = time.NewTicker(interval)
	defer ticker.Stop()

	var processed int
	var showProgress = func() {
		log.Info().
			Int("processed", processed).
			Int("total", stats.Total).
			Msg("quiet progress")
	}

LOOP:
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			showProgress()
		case res, ok := <-results:
			if !ok {
				break LOOP
			}
			statuses[res.index] = res.status
			output[res.index] = res.record
			switch res.status {
			case statusKept:
				stats.Kept++
			case statusResolved:
				stats.Resolved++
			case statusCheck:
				stats.DroppedCheck++
			case statusFailed:
				stats.DroppedFailed++
			}
			processed++
		}
	}
	showProgress()
	return nil
}
