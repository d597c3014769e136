package async

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/joseph-ayodele/inspection-extractor/internal/common"
	"github.com/joseph-ayodele/inspection-extractor/internal/core"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = common.NewAppError("QUEUE_CLOSED", "queue is shutting down", common.ErrInvalidInput)

type ProcessorQueue struct {
	proc    *core.Processor
	pctx    *core.ProcessingContext
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool

	processed atomic.Int64
	failed    atomic.Int64
}

var _ Queue = (*ProcessorQueue)(nil)

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// NewProcessorQueue starts the workers. Every record and failure lands in pctx.
func NewProcessorQueue(proc *core.Processor, pctx *core.ProcessingContext, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		pctx:    pctx,
		logger:  logger,
		workers: 4,
		timeout: 2 * time.Minute,
		ch:      make(chan Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 1; i <= q.workers; i++ {
			q.wg.Add(1)
			go q.work(i)
		}
	})
}

func (q *ProcessorQueue) work(workerID int) {
	defer q.wg.Done()
	q.logger.Debug("worker.started", "worker_id", workerID)
	for job := range q.ch {
		if err := q.handle(job); err != nil {
			q.failed.Add(1)
			q.logger.Error("worker.job.failed", "worker_id", workerID, "path", job.Path,
				"code", common.CodeOf(err), "error", err)
			continue
		}
		q.processed.Add(1)
		q.logger.Info("worker.job.ok", "worker_id", workerID, "path", job.Path,
			"queued_ms", time.Since(job.SubmittedAt).Milliseconds())
	}
	q.logger.Debug("worker.stopped", "worker_id", workerID)
}

// handle runs one job under its own timeout. A panic while extracting is
// recorded as a failure of that document only.
func (q *ProcessorQueue) handle(job Job) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic while processing: %v", common.ErrInternal, r)
			q.pctx.AddFailure(filepath.Base(job.Path), err)
		}
	}()
	_, err = q.proc.ProcessFile(ctx, q.pctx, job.Path)
	return err
}

// Enqueue hands job to the workers. When the buffer is full it blocks until a
// worker frees a slot or ctx is done.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("queue.enqueue.closed", "path", job.Path)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queue.enqueued", "path", job.Path)
		return nil
	default:
	}
	q.logger.Warn("queue.full.backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs, drains the queue and waits for the workers,
// or returns early when ctx is done.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("queue.shutdown.interrupted")
	case <-done:
		q.logger.Info("queue.drained", "processed", q.processed.Load(), "failed", q.failed.Load())
	}
}

// Stats returns how many jobs produced a record and how many failed.
func (q *ProcessorQueue) Stats() (processed, failed int64) {
	return q.processed.Load(), q.failed.Load()
}
