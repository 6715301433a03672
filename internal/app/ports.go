package service

import (
	"context"

	"github.com/okian/velocity/internal/domain/model"
)

// Notifier receives one feedback request per judged tap. Implementations
// must return promptly; playback happens elsewhere.
type Notifier interface {
	Notify(ctx context.Context, result model.TapResult)
}

// StatsStore is the persisted-stats collaborator. It never fails towards the
// session: implementations swallow and log their own errors and Load returns
// a zero snapshot when nothing can be read.
type StatsStore interface {
	Load(ctx context.Context) model.Stats
	SaveHighScore(ctx context.Context, score int)
	SaveBestStreak(ctx context.Context, streak int)
	IncrementPerfects(ctx context.Context, n int)
	IncrementGames(ctx context.Context)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, model.TapResult) {}

type nopStore struct{}

func (nopStore) Load(context.Context) model.Stats       { return model.Stats{} }
func (nopStore) SaveHighScore(context.Context, int)     {}
func (nopStore) SaveBestStreak(context.Context, int)    {}
func (nopStore) IncrementPerfects(context.Context, int) {}
func (nopStore) IncrementGames(context.Context)         {}
