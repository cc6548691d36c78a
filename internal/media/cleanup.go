package media

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sharath018/temple-registry/internal/metrics"
)

// DeleteJob asks for a remote asset to be removed. PublicID wins over URL;
// URL is only used to derive an identifier for legacy records.
type DeleteJob struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
	Kind     Kind   `json:"kind"`
	Reason   string `json:"reason"`
}

// CleanupQueue accepts best-effort deletions. Enqueue must not wait on the store.
type CleanupQueue interface {
	Enqueue(ctx context.Context, job DeleteJob) error
}

// Warning reports a deletion that was given up on.
type Warning struct {
	Job      DeleteJob
	Attempts int
	Err      error
}

var ErrQueueFull = errors.New("cleanup queue is full")

type JanitorOptions struct {
	Buffer      int
	MaxAttempts int
	Backoff     time.Duration
	Metrics     *metrics.Metrics
}

// Janitor runs remote deletions on supervised background workers, retrying
// with linear backoff. Failures are logged, counted and published on Warnings.
type Janitor struct {
	store    Store
	jobs     chan DeleteJob
	warnings chan Warning
	opts     JanitorOptions

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewJanitor(store Store, opts JanitorOptions) *Janitor {
	if opts.Buffer <= 0 {
		opts.Buffer = 256
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	return &Janitor{
		store:    store,
		jobs:     make(chan DeleteJob, opts.Buffer),
		warnings: make(chan Warning, opts.Buffer),
		opts:     opts,
	}
}

// Start launches workers that run until Close is called or ctx is done.
func (j *Janitor) Start(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		j.wg.Add(1)
		go func() {
			defer j.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-j.jobs:
					if !ok {
						return
					}
					j.process(ctx, job)
				}
			}
		}()
	}
}

func (j *Janitor) Enqueue(_ context.Context, job DeleteJob) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrQueueClosed
	}
	select {
	case j.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Warnings publishes abandoned deletions. Sends never block; unread warnings are dropped.
func (j *Janitor) Warnings() <-chan Warning {
	return j.warnings
}

// Close stops accepting jobs, lets workers drain the queue and waits for them.
func (j *Janitor) Close() {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return
	}
	j.closed = true
	close(j.jobs)
	j.mu.Unlock()
	j.wg.Wait()
}

func (j *Janitor) process(ctx context.Context, job DeleteJob) {
	id := job.PublicID
	if id == "" {
		derived, err := DerivePublicID(job.URL)
		if err != nil {
			j.warn(job, 0, err)
			return
		}
		id = derived
	}
	kind := job.Kind
	if kind == "" {
		kind = KindImage
	}

	var err error
	for attempt := 1; attempt <= j.opts.MaxAttempts; attempt++ {
		if err = j.store.Delete(ctx, id, kind); err == nil {
			j.opts.Metrics.ObserveCleanup("success")
			log.Debug().Str("public_id", id).Str("reason", job.Reason).Msg("media deleted")
			return
		}
		if attempt == j.opts.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			j.warn(job, attempt, ctx.Err())
			return
		case <-time.After(j.opts.Backoff * time.Duration(attempt)):
		}
	}
	j.warn(job, j.opts.MaxAttempts, err)
}

func (j *Janitor) warn(job DeleteJob, attempts int, err error) {
	j.opts.Metrics.ObserveCleanup("failure")
	log.Warn().Err(err).
		Str("public_id", job.PublicID).
		Str("url", job.URL).
		Str("reason", job.Reason).
		Int("attempts", attempts).
		Msg("⚠️ media deletion abandoned")

	select {
	case j.warnings <- Warning{Job: job, Attempts: attempts, Err: err}:
	default:
	}
}
