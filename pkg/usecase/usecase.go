package usecase

import (
	"time"

	"github.com/secmon-lab/pulse/pkg/domain/interfaces"
	"github.com/secmon-lab/pulse/pkg/service/quality"
	"github.com/secmon-lab/pulse/pkg/service/slack"
)

// UseCases bundles the sync engine and the read-only query facade.
// A single instance is constructed at startup and shared by all
// callers (scheduler, HTTP controller, CLI, agent tools).
type UseCases struct {
	repo  interfaces.Repository
	Sync  *SyncUseCase
	Query *QueryUseCase
}

type Option func(*UseCases)

// WithChatSource sets the chat source for the sync engine. Without a
// source, sync passes are permanently disabled no-ops.
func WithChatSource(svc slack.Service, channelID string) Option {
	return func(uc *UseCases) {
		uc.Sync.source = svc
		uc.Sync.channelID = channelID
	}
}

// WithScorer overrides the quality scorer
func WithScorer(scorer *quality.Scorer) Option {
	return func(uc *UseCases) {
		uc.Sync.scorer = scorer
	}
}

// WithRosterFile sets an optional CSV roster file merged into the user
// table at the start of each sync pass.
func WithRosterFile(path string) Option {
	return func(uc *UseCases) {
		uc.Sync.rosterPath = path
	}
}

// WithWindowOverride pins the fetch window bounds explicitly. A zero
// value leaves the corresponding bound computed per pass.
func WithWindowOverride(oldest, latest float64) Option {
	return func(uc *UseCases) {
		uc.Sync.oldestOverride = oldest
		uc.Sync.latestOverride = latest
	}
}

// WithClock overrides the wall clock (for tests)
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.Sync.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		Sync: &SyncUseCase{
			repo:   repo,
			scorer: quality.NewScorer(),
			now:    time.Now,
		},
		Query: &QueryUseCase{repo: repo},
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
