package batch

import (
	"context"
	"errors"
	"image"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/roster-attendance/internal/attendance"
	"github.com/ironsheep/roster-attendance/internal/roster"
)

// Reference pool sizes.
const (
	DefaultWorkers        = 5
	DefaultAdmissionLimit = 3
)

// Extractor turns one image path into its binarized image and raw text.
type Extractor interface {
	Extract(ctx context.Context, path string) (*image.Gray, string, error)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkers sets the worker pool size. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithAdmissionLimit sets how many workers may enter the aggregator gate at
// once. Values below 1 are ignored.
func WithAdmissionLimit(k int) Option {
	return func(d *Dispatcher) {
		if k > 0 {
			d.admissionLimit = k
		}
	}
}

// WithProgress registers a sink called once per completed path.
func WithProgress(fn func(Outcome)) Option {
	return func(d *Dispatcher) {
		d.progress = fn
	}
}

// Dispatcher runs a batch of images through extract, parse and merge on a
// fixed worker pool.
type Dispatcher struct {
	extractor      Extractor
	workers        int
	admissionLimit int
	progress       func(Outcome)
}

// New creates a Dispatcher with the reference pool sizes unless overridden.
// The admission limit is capped at the pool size.
func New(extractor Extractor, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		extractor:      extractor,
		workers:        DefaultWorkers,
		admissionLimit: DefaultAdmissionLimit,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.admissionLimit > d.workers {
		d.admissionLimit = d.workers
	}
	return d
}

// Workers returns the pool size.
func (d *Dispatcher) Workers() int { return d.workers }

// AdmissionLimit returns the aggregator gate size.
func (d *Dispatcher) AdmissionLimit() int { return d.admissionLimit }

// tracker collects per-path results from all workers.
type tracker struct {
	mu        sync.Mutex
	total     int
	done      int
	processed int
	failures  []Failure
	progress  func(Outcome)
}

func (t *tracker) complete(path string, failure *Failure) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var err error
	if failure != nil {
		t.failures = append(t.failures, *failure)
		err = *failure
	} else {
		t.processed++
	}
	t.done++

	if t.progress != nil {
		t.progress(Outcome{Path: path, Err: err, Done: t.done, Total: t.total})
	}
}

// Run processes every path exactly once and blocks until all of them are
// merged or recorded as failures.
//
// An empty path list returns ErrNoImages without starting any work. Per-image
// failures never abort the batch. When ctx is done, paths not yet started
// are recorded as canceled and Run returns the partial Report with ctx.Err().
func (d *Dispatcher) Run(ctx context.Context, paths []string) (*Report, error) {
	if len(paths) == 0 {
		return nil, ErrNoImages
	}

	start := time.Now()
	batchID := uuid.NewString()
	logger := log.With().Str("batch", batchID).Logger()

	queue := NewQueue(paths)
	store := attendance.NewStore(d.admissionLimit)
	track := &tracker{total: len(paths), progress: d.progress}

	workers := min(d.workers, len(paths))
	logger.Info().
		Int("images", len(paths)).
		Int("workers", workers).
		Int("admission_limit", d.admissionLimit).
		Msg("Starting batch")

	// pending reaches zero only once every path is fully handled, not
	// merely dequeued.
	var pending sync.WaitGroup
	pending.Add(len(paths))

	var pool sync.WaitGroup
	for w := 1; w <= workers; w++ {
		pool.Add(1)
		go func(worker int) {
			defer pool.Done()
			wlog := logger.With().Int("worker", worker).Logger()
			for {
				path, ok := queue.Pop()
				if !ok {
					return
				}
				d.process(ctx, wlog, path, store, track)
				pending.Done()
			}
		}(w)
	}

	pending.Wait()
	pool.Wait()

	statuses := store.Snapshot()
	sort.SliceStable(track.failures, func(i, j int) bool {
		return track.failures[i].Path < track.failures[j].Path
	})

	report := &Report{
		BatchID:      batchID,
		Total:        len(paths),
		Processed:    track.processed,
		Failures:     track.failures,
		Statuses:     statuses,
		Counts:       attendance.Tally(statuses),
		Elapsed:      time.Since(start),
		PeakAdmitted: store.Gate().Peak(),
	}

	logger.Info().
		Int("processed", report.Processed).
		Int("failed", report.FailureCount()).
		Int("students", len(report.Counts)).
		Dur("elapsed", report.Elapsed).
		Msg("Batch complete")

	return report, ctx.Err()
}

func (d *Dispatcher) process(ctx context.Context, logger zerolog.Logger, path string, store *attendance.Store, track *tracker) {
	if err := ctx.Err(); err != nil {
		logger.Debug().Str("path", path).Msg("Skipping image, batch canceled")
		track.complete(path, &Failure{Path: path, Stage: StageCanceled, Err: err})
		return
	}

	start := time.Now()
	_, text, err := d.extractor.Extract(ctx, path)
	if err != nil {
		stage := StageExtract
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			stage = StageCanceled
		}
		logger.Warn().Err(err).Str("path", path).Str("stage", string(stage)).Msg("Skipping image")
		track.complete(path, &Failure{Path: path, Stage: stage, Err: err})
		return
	}

	rec, err := roster.Parse(text)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Str("stage", string(StageParse)).Msg("Skipping image")
		track.complete(path, &Failure{Path: path, Stage: StageParse, Err: err})
		return
	}

	store.Merge(rec)
	logger.Debug().
		Str("path", path).
		Int("students", len(rec)).
		Dur("elapsed", time.Since(start)).
		Msg("Image merged")
	track.complete(path, nil)
}
