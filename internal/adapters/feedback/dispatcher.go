package feedback

import (
	"context"
	"time"

	"github.com/okian/velocity/internal/adapters/mq/queue"
	"github.com/okian/velocity/internal/adapters/mq/worker"
	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/pkg/logger"
)

// Default dispatcher configuration constants.
const (
	defaultQueueSize = 32
	defaultWorkers   = 1
)

// Dispatcher implements the session's feedback port. Notify enqueues and
// returns; a worker pool plays the cues. A full queue drops the cue.
type Dispatcher struct {
	queue *queue.InMemoryQueue
	pool  *worker.Pool

	queueSize int
	workers   int
	now       func() time.Time
	logger    logger.Logger
}

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithQueueSize sets how many cues may wait for playback.
func WithQueueSize(size int) Option {
	return func(d *Dispatcher) {
		if size > 0 {
			d.queueSize = size
		}
	}
}

// WithWorkers sets the number of playback workers.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithLogger sets the dispatcher's logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithNow sets the clock used to stamp cues.
func WithNow(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDispatcher wires a bounded queue and a worker pool in front of player.
func NewDispatcher(player worker.Player, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queueSize: defaultQueueSize,
		workers:   defaultWorkers,
		now:       time.Now,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(d.queueSize),
		queue.WithBufferSize(d.queueSize),
	)
	d.pool = worker.NewPool(d.workers, d.queue, player, worker.WithPoolLogger(d.logger))
	return d
}

// Start launches the playback workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.pool.Start(ctx)
	d.logger.Info(ctx, "feedback dispatcher started",
		logger.Int("workers", d.workers),
		logger.Int("queue_size", d.queueSize),
	)
}

// Stop closes the queue and waits for the workers.
func (d *Dispatcher) Stop(ctx context.Context) error {
	return d.pool.Shutdown(ctx)
}

// Notify enqueues the cue for a judged tap.
func (d *Dispatcher) Notify(ctx context.Context, r model.TapResult) {
	d.enqueue(ctx, CueFor(r))
}

// Beat enqueues the metronome tick.
func (d *Dispatcher) Beat(ctx context.Context) {
	d.enqueue(ctx, BeatCue())
}

// Pending returns the number of cues waiting for playback.
func (d *Dispatcher) Pending(ctx context.Context) int {
	return d.queue.Len(ctx)
}

func (d *Dispatcher) enqueue(ctx context.Context, cue model.Cue) {
	cue.Enqueued = d.now()
	if !d.queue.Enqueue(ctx, cue) {
		d.logger.Debug(ctx, "feedback cue dropped", logger.String("cue", cue.Name))
	}
}
