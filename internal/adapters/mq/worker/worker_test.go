package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/velocity/internal/adapters/mq/queue"
	worker "github.com/okian/velocity/internal/adapters/mq/worker"
	model "github.com/okian/velocity/internal/domain/model"
	logging "github.com/okian/velocity/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	eventChan chan queue.Event
	closeOnce sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		eventChan: make(chan queue.Event, 128),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Event {
	return mq.eventChan
}

func (mq *mockQueue) Close() error {
	mq.closeOnce.Do(func() { close(mq.eventChan) })
	return nil
}

func (mq *mockQueue) addEvent(event queue.Event) { //nolint:gocritic // hugeParam: Event must be passed by value for channel semantics
	mq.eventChan <- event
}

type mockPlayer struct {
	played []string
	errors map[string]error
	mu     sync.RWMutex
}

func newMockPlayer() *mockPlayer {
	return &mockPlayer{errors: make(map[string]error)}
}

func (mp *mockPlayer) Play(ctx context.Context, cue model.Cue) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if err, exists := mp.errors[cue.Name]; exists {
		return err
	}
	mp.played = append(mp.played, cue.Name)
	return nil
}

func (mp *mockPlayer) setError(name string, err error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.errors[name] = err
}

func (mp *mockPlayer) count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return len(mp.played)
}

func (mp *mockPlayer) has(name string) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	for _, p := range mp.played {
		if p == name {
			return true
		}
	}
	return false
}

// blockingPlayer holds the first cue until release is closed.
type blockingPlayer struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (bp *blockingPlayer) Play(ctx context.Context, _ model.Cue) error {
	bp.once.Do(func() { close(bp.started) })
	<-bp.release
	return nil
}

func cue(name string) model.Cue {
	return model.Cue{Name: name, Tone: model.Tone{From: 440, To: 440, Duration: 50 * time.Millisecond}, Enqueued: time.Now()}
}

// eventually polls cond for up to a second.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		_ = logging.Init()

		queue := newMockQueue()
		player := newMockPlayer()

		convey.Convey("When creating a worker with custom options", func() {
			worker := worker.NewInMemoryWorker(
				queue, player,
				worker.WithName("test-worker"),
				worker.WithLogger(logging.Get()),
			)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(worker, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			worker := worker.NewInMemoryWorker(queue, player)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			go worker.Run(ctx)

			convey.Convey("And when a cue arrives", func() {
				queue.addEvent(cue("perfect"))

				convey.Convey("Then it should be played", func() {
					convey.So(eventually(func() bool { return player.has("perfect") }), convey.ShouldBeTrue)
				})
			})

			convey.Convey("And when playback fails", func() {
				player.setError("miss", errors.New("device busy"))
				queue.addEvent(cue("miss"))
				queue.addEvent(cue("good"))

				convey.Convey("Then the worker keeps going", func() {
					convey.So(eventually(func() bool { return player.has("good") }), convey.ShouldBeTrue)
					convey.So(player.has("miss"), convey.ShouldBeFalse)
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()

				err := worker.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(worker.Shutdown(shutdownCtx), convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When context is cancelled", func() {
			worker := worker.NewInMemoryWorker(queue, player)
			ctx, cancel := context.WithCancel(context.Background())

			go worker.Run(ctx)
			cancel()

			convey.Convey("Then the worker should stop", func() {
				select {
				case <-worker.Done():
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(time.Second):
					convey.So("worker still running", convey.ShouldBeEmpty)
				}
			})
		})

		convey.Convey("When the queue channel is closed", func() {
			worker := worker.NewInMemoryWorker(queue, player)
			go worker.Run(context.Background())
			_ = queue.Close()

			convey.Convey("Then the worker should stop", func() {
				select {
				case <-worker.Done():
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(time.Second):
					convey.So("worker still running", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new Pool", t, func() {
		_ = logging.Init()

		queue := newMockQueue()
		player := newMockPlayer()

		convey.Convey("When creating a pool with a non-positive count", func() {
			pool := worker.NewPool(0, queue, player)

			convey.Convey("Then it falls back to one worker", func() {
				convey.So(pool.Size(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When starting a pool", func() {
			pool := worker.NewPool(2, queue, player, worker.WithPoolLogger(logging.Get()))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pool.Start(ctx)

			convey.Convey("And when playing multiple cues", func() {
				for _, name := range []string{"perfect", "good", "miss"} {
					queue.addEvent(cue(name))
				}

				convey.Convey("Then all cues should be played", func() {
					convey.So(eventually(func() bool { return player.count() == 3 }), convey.ShouldBeTrue)
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
				defer shutdownCancel()

				err := pool.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
				})

				convey.Convey("And a second Shutdown is harmless", func() {
					convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When a worker is stuck in playback", func() {
			player := &blockingPlayer{started: make(chan struct{}), release: make(chan struct{})}
			pool := worker.NewPool(1, queue, player,
				worker.WithPoolLogger(logging.Get()),
				worker.WithWorkerOptions(worker.WithName("stuck")),
			)
			pool.Start(context.Background())
			defer close(player.release)

			queue.addEvent(cue("perfect"))
			<-player.started

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer shutdownCancel()
			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then Shutdown reports the timeout", func() {
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})
	})
}

func TestWorkerConcurrency(t *testing.T) {
	convey.Convey("Given a pool with multiple workers", t, func() {
		_ = logging.Init()

		queue := newMockQueue()
		player := newMockPlayer()

		pool := worker.NewPool(4, queue, player)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer func() { _ = pool.Shutdown(context.Background()) }()

		pool.Start(ctx)

		convey.Convey("When many producers add cues", func() {
			const cueCount = 100
			var wg sync.WaitGroup

			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func(producer int) {
					defer wg.Done()
					for j := 0; j < cueCount/5; j++ {
						queue.addEvent(cue(fmt.Sprintf("cue-%d-%d", producer, j)))
					}
				}(i)
			}
			wg.Wait()

			convey.Convey("Then every cue is played once", func() {
				convey.So(eventually(func() bool { return player.count() == cueCount }), convey.ShouldBeTrue)
			})
		})
	})
}
