// Package worker drains feedback cues off the queue and hands them to a
// player, so playback never runs on the game loop.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/velocity/internal/adapters/mq/queue"
	"github.com/okian/velocity/pkg/logger"
	"github.com/okian/velocity/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount  = 1
	poolShutdownTimeout = 30 * time.Second
)

// Event abstracts what workers read off the queue.
type Event = queue.Event

// Player renders one cue. It may block for the length of the cue.
type Player interface {
	Play(ctx context.Context, cue Event) error
}

// Queue defines how workers receive cues.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker plays cues using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for playing cues.
type InMemoryWorker struct {
	queue  Queue
	player Player
	name   string

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, player Player, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		player:   player,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.logger = w.logger.Named(w.name)

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	cues := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case cue, ok := <-cues:
			if !ok {
				return
			}

			if err := w.play(ctx, cue); err != nil {
				w.logger.Error(ctx, "error playing cue", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// play handles a single cue.
func (w *InMemoryWorker) play(ctx context.Context, cue Event) error { //nolint:gocritic // hugeParam: Event must be passed by value for channel semantics
	if err := w.player.Play(ctx, cue); err != nil {
		metrics.RecordFeedbackError()
		return fmt.Errorf("failed to play cue %s: %w", cue.Name, err)
	}

	var latency float64
	if !cue.Enqueued.IsZero() {
		latency = float64(time.Since(cue.Enqueued).Microseconds()) / 1000
	}
	metrics.RecordFeedbackPlayed(cue.Name, latency)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers    []*InMemoryWorker
	queue      Queue
	workerOpts []Option

	shutdownOnce sync.Once

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool. The pool logger is shared with its
// workers unless a worker option overrides it.
func NewPool(workerCount int, q Queue, player Player, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(pool)
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{
			WithName("worker-" + strconv.Itoa(i)),
			WithLogger(pool.logger),
		}, pool.workerOpts...)
		pool.workers[i] = NewInMemoryWorker(q, player, workerOpts...)
	}
	pool.logger = pool.logger.Named("worker-pool")

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Debug(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queue, stops the workers and waits for them. It
// returns the context error if a worker is still playing when ctx expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	p.signal()

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
		}
	}

	return nil
}

func (p *Pool) signal() {
	p.shutdownOnce.Do(func() {
		for _, w := range p.workers {
			w.shutdownOnce.Do(func() { close(w.shutdown) })
		}
	})
}
