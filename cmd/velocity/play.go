package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/gosuri/uilive"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/okian/velocity/internal/adapters/feedback"
	"github.com/okian/velocity/internal/adapters/http/api"
	service "github.com/okian/velocity/internal/app"
	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/internal/driver"
	"github.com/okian/velocity/pkg/logger"
	"github.com/okian/velocity/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 5 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// Input and display constants.
const (
	keyBufferSize  = 16
	tapBufferSize  = 8
	renderInterval = 50 * time.Millisecond
)

var errNotTerminal = errors.New("play needs an interactive terminal")

func (a *app) newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Args:  cobra.NoArgs,
		RunE:  a.runPlay,
	}
}

func (a *app) runPlay(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNotTerminal
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	// Teardown must outlive the game context.
	teardown := context.WithoutCancel(ctx)

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore(teardown, st)
	stats := a.guard(st)

	player, err := a.newPlayer()
	if err != nil {
		return err
	}
	dispatcher := feedback.NewDispatcher(player,
		feedback.WithQueueSize(a.cfg.FeedbackQueueSize),
		feedback.WithWorkers(a.cfg.FeedbackWorkers),
		feedback.WithLogger(logger.Named("feedback")),
	)
	dispatcher.Start(ctx)
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(teardown, shutdownTimeout)
		defer stopCancel()
		if err := dispatcher.Stop(stopCtx); err != nil {
			a.log.Warn(teardown, "feedback shutdown incomplete", logger.Error(err))
		}
	}()

	session, err := a.newSession(
		service.WithNotifier(dispatcher),
		service.WithStatsStore(stats),
	)
	if err != nil {
		return err
	}

	if a.cfg.HTTPEnabled {
		srv := a.serveHTTP(ctx, session, stats)
		defer a.shutdownHTTP(teardown, srv)
		go startSystemMetricsUpdater(ctx)
	}

	keys, err := keyboard.GetKeys(keyBufferSize)
	if err != nil {
		return fmt.Errorf("failed to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); err != nil {
			a.log.Warn(teardown, "failed to close keyboard", logger.Error(err))
		}
	}()

	taps := make(chan time.Time, tapBufferSize)
	go readKeys(ctx, keys, taps, cancel)

	out := cmd.OutOrStdout()
	status := uilive.New()
	status.Out = out
	view := newStatusView(status, renderInterval)

	_, _ = fmt.Fprintln(out, "tap SPACE on the beat; ESC or q quits")
	if err := session.Start(ctx, time.Now()); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	loop := driver.New(session, taps,
		driver.WithFrameInterval(a.cfg.FrameInterval()),
		driver.WithLogger(logger.Named("driver")),
		driver.OnBeat(func(ctx context.Context, at time.Time) {
			view.beat(at)
			if a.cfg.Metronome {
				dispatcher.Beat(ctx)
			}
		}),
		driver.OnTap(func(_ context.Context, r model.TapResult, _ time.Time) {
			view.tapped(r)
		}),
		driver.OnFrame(func(_ context.Context, now time.Time) {
			view.render(now, session.Snapshot(), session.Phase(now))
		}),
	)
	runErr := loop.Run(ctx)

	endCtx, endCancel := context.WithTimeout(teardown, shutdownTimeout)
	defer endCancel()
	final, err := session.End(endCtx)
	if err != nil {
		return errors.Join(runErr, fmt.Errorf("failed to end session: %w", err))
	}

	if err := writeSummary(out, final); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// newPlayer builds the cue player from the audio and haptics switches.
func (a *app) newPlayer() (*feedback.TonePlayer, error) {
	opts := []feedback.PlayerOption{
		feedback.WithVolume(a.cfg.Volume),
		feedback.WithPlayerLogger(logger.Named("player")),
	}
	if a.cfg.AudioEnabled {
		sink, err := feedback.NewSpeakerSink(feedback.DefaultSampleRate)
		if err != nil {
			return nil, err
		}
		opts = append(opts, feedback.WithSink(sink))
	}
	if a.cfg.HapticsEnabled {
		opts = append(opts, feedback.WithHaptics(feedback.NewLogHaptics(logger.Named("haptics"))))
	}
	return feedback.NewTonePlayer(opts...), nil
}

// readKeys turns key presses into tap instants. It closes taps when input ends.
func readKeys(ctx context.Context, keys <-chan keyboard.KeyEvent, taps chan<- time.Time, quit func()) {
	defer close(taps)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-keys:
			if !ok {
				return
			}
			at := time.Now()
			switch {
			case ev.Err != nil:
				quit()
				return
			case ev.Key == keyboard.KeyEsc, ev.Key == keyboard.KeyCtrlC, ev.Rune == 'q':
				quit()
				return
			case ev.Key == keyboard.KeySpace, ev.Key == keyboard.KeyEnter, ev.Rune == ' ':
				// Drop the tap rather than stall input when the loop is behind.
				select {
				case taps <- at:
				default:
				}
			}
		}
	}
}

func (a *app) serveHTTP(ctx context.Context, session api.SnapshotProvider, stats api.StatsLoader) *http.Server {
	mux := http.NewServeMux()
	api.NewServer(session, stats).Register(ctx, mux)

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		a.log.Info(ctx, "starting HTTP server", logger.String("addr", a.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error(ctx, "HTTP server failed", logger.Error(err))
		}
	}()
	return srv
}

func (a *app) shutdownHTTP(ctx context.Context, srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	a.log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater periodically publishes process metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
