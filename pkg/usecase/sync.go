package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/interfaces"
	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
	"github.com/secmon-lab/pulse/pkg/service/quality"
	"github.com/secmon-lab/pulse/pkg/service/roster"
	"github.com/secmon-lab/pulse/pkg/service/slack"
	"github.com/secmon-lab/pulse/pkg/utils/logging"
	"golang.org/x/sync/singleflight"
)

// SyncUseCase orchestrates sync passes: fetch roster, fetch a message
// window, classify and persist check-ins, recompute absentees, advance
// the cursor. One instance is constructed at startup; the gate and
// cursor state live on it, not in globals.
//
// At most one pass executes at a time (mu). A pass holds no state
// across invocations beyond what is re-read from the repository, so a
// crashed pass is safely retried by the next tick.
type SyncUseCase struct {
	repo       interfaces.Repository
	source     slack.Service
	channelID  string
	scorer     *quality.Scorer
	rosterPath string
	now        func() time.Time

	// explicit fetch window overrides (0 = disabled)
	oldestOverride float64
	latestOverride float64

	mu    sync.Mutex
	group singleflight.Group
}

// Enabled reports whether the chat source is configured. Without it,
// sync passes are permanent no-ops rather than repeated failures.
func (uc *SyncUseCase) Enabled() bool {
	return uc.source != nil && uc.channelID != ""
}

// SyncDay runs one full sync pass for the target date. Any fetch or
// persistence failure aborts the pass without advancing the cursor, so
// the next pass retries the same window; upsert idempotence then yields
// effectively-once persistence.
func (uc *SyncUseCase) SyncDay(ctx context.Context, date types.Date) error {
	if !uc.Enabled() {
		logging.From(ctx).Debug("chat source not configured, skipping sync")
		return nil
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	logger := logging.From(ctx).With(
		"pass_id", uuid.NewString(),
		"date", date.String(),
	)
	start := uc.now()
	logger.Info("Starting sync pass")

	// FetchingRoster: a partial roster is never acceptable, absentee
	// derivation would be wrong. Abort before touching the store.
	rosterUsers, err := uc.fetchRoster(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch roster", goerr.V("date", date))
	}

	if err := uc.repo.User().UpsertMany(ctx, rosterUsers); err != nil {
		return goerr.Wrap(err, "failed to upsert roster users")
	}

	rosterIndex := make(map[types.UserID]*model.User, len(rosterUsers))
	for _, u := range rosterUsers {
		rosterIndex[u.ID] = u
	}

	// FetchingMessages: pagination is fully drained before anything is
	// persisted; a mid-pagination failure aborts with the cursor
	// untouched.
	oldest, latest, err := uc.fetchWindow(ctx, date)
	if err != nil {
		return err
	}

	var messages []*model.ChannelMessage
	if oldest <= latest {
		messages, err = uc.source.FetchMessages(ctx, uc.channelID, oldest, latest)
		if err != nil {
			return goerr.Wrap(err, "failed to fetch messages",
				goerr.V("oldest", oldest),
				goerr.V("latest", latest),
			)
		}
	}

	// Classifying + PersistingCheckins
	processed := 0
	for _, msg := range messages {
		user, ok := rosterIndex[msg.AuthorID]
		if !ok {
			continue
		}
		if !date.Contains(msg.TS) {
			continue
		}
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}

		result := uc.scorer.Assess(text)
		checkin := &model.CheckIn{
			UserID:   user.ID,
			Username: user.DisplayName(),
			TS:       msg.TS,
			Date:     date,
			Content:  text,
			Quality:  result.Label,
		}
		if err := uc.repo.CheckIn().Upsert(ctx, checkin); err != nil {
			return goerr.Wrap(err, "failed to persist check-in", goerr.V("user_id", user.ID))
		}
		processed++
	}

	// ComputingAbsentees: read check-ins back from the store, not from
	// the in-memory set, so users recorded by prior passes still count
	// as present.
	if err := uc.recomputeAbsentees(ctx, date, rosterUsers); err != nil {
		return err
	}

	// AdvancingCursor: a failure here is logged but does not roll back
	// the writes above; both are idempotent and recomputed next pass.
	if err := uc.repo.SyncState().AdvanceCursor(ctx, latest); err != nil {
		logger.Error("failed to advance sync cursor", "error", err.Error(), "latest", latest)
	}

	logger.Info("Sync pass complete",
		"messages", len(messages),
		"processed", processed,
		"roster", len(rosterUsers),
		"duration", time.Since(start).String(),
	)

	return nil
}

// SyncRecent runs N sequential passes with decreasing dates, each
// independent and individually idempotent.
func (uc *SyncUseCase) SyncRecent(ctx context.Context, days int) error {
	if days < 1 {
		days = 1
	}
	today := types.DateOf(uc.now())
	for offset := 0; offset < days; offset++ {
		if err := uc.SyncDay(ctx, today.AddDays(-offset)); err != nil {
			return err
		}
	}
	return nil
}

// RefreshDay triggers an on-demand pass for a date. Concurrent refresh
// requests for the same date are coalesced into one pass.
func (uc *SyncUseCase) RefreshDay(ctx context.Context, date types.Date) error {
	_, err, _ := uc.group.Do(date.String(), func() (any, error) {
		return nil, uc.SyncDay(ctx, date)
	})
	return err
}

// fetchRoster merges the optional CSV roster file with the workspace
// member listing. The CSV comes first so a live workspace profile
// overrides a stale file entry.
func (uc *SyncUseCase) fetchRoster(ctx context.Context) ([]*model.User, error) {
	merged := make(map[types.UserID]*model.User)
	var order []types.UserID

	if uc.rosterPath != "" {
		fileUsers, err := roster.Load(uc.rosterPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load roster file")
		}
		for _, u := range fileUsers {
			if _, ok := merged[u.ID]; !ok {
				order = append(order, u.ID)
			}
			merged[u.ID] = u
		}
	}

	members, err := uc.source.ListRosterMembers(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	for _, m := range members {
		u := &model.User{
			ID:        types.UserID(m.ID),
			Name:      m.Name,
			RealName:  m.RealName,
			Email:     m.Email,
			Title:     m.Title,
			Timezone:  m.Timezone,
			UpdatedAt: now,
		}
		if u.Name == "" {
			u.Name = m.ID
		}
		if u.RealName == "" {
			u.RealName = u.Name
		}
		if _, ok := merged[u.ID]; !ok {
			order = append(order, u.ID)
		}
		merged[u.ID] = u
	}

	users := make([]*model.User, 0, len(merged))
	for _, id := range order {
		users = append(users, merged[id])
	}
	return users, nil
}

// fetchWindow computes the [oldest, latest] fetch bounds for a target
// date. The lower bound is the persisted cursor when the pass targets
// the current day and the cursor is within the day; otherwise the start
// of the target day. The upper bound is clamped to the wall clock.
func (uc *SyncUseCase) fetchWindow(ctx context.Context, date types.Date) (float64, float64, error) {
	oldest := float64(date.Time().Unix())
	latest := float64(date.AddDays(1).Time().Unix())

	nowTS := float64(uc.now().UnixMilli()) / 1000
	if nowTS < latest {
		latest = nowTS
	}

	if date == types.DateOf(uc.now()) {
		cursor, err := uc.repo.SyncState().GetCursor(ctx)
		if err != nil {
			return 0, 0, goerr.Wrap(err, "failed to read sync cursor")
		}
		if cursor > oldest && cursor < latest {
			oldest = cursor
		}
	}

	if uc.oldestOverride > 0 {
		oldest = uc.oldestOverride
	}
	if uc.latestOverride > 0 {
		latest = uc.latestOverride
	}

	return oldest, latest, nil
}

// recomputeAbsentees destructively replaces the absentee set for the
// date with roster minus the stored check-in authors.
func (uc *SyncUseCase) recomputeAbsentees(ctx context.Context, date types.Date, rosterUsers []*model.User) error {
	stored, err := uc.repo.CheckIn().GetByDate(ctx, date)
	if err != nil {
		return goerr.Wrap(err, "failed to read back check-ins", goerr.V("date", date))
	}

	present := make(map[types.UserID]struct{}, len(stored))
	for _, c := range stored {
		present[c.UserID] = struct{}{}
	}

	var absentees []*model.Absentee
	for _, u := range rosterUsers {
		if _, ok := present[u.ID]; ok {
			continue
		}
		absentees = append(absentees, &model.Absentee{
			Date:     date,
			UserID:   u.ID,
			Username: u.DisplayName(),
		})
	}
	sort.Slice(absentees, func(i, j int) bool {
		return absentees[i].Username < absentees[j].Username
	})

	if err := uc.repo.Absentee().Replace(ctx, date, absentees); err != nil {
		return goerr.Wrap(err, "failed to replace absentees", goerr.V("date", date))
	}
	return nil
}
