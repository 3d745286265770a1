package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/interfaces"
	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
	"github.com/secmon-lab/pulse/pkg/repository"
)

// Window conventions. Both are trailing windows ending at the target
// date inclusive; see DESIGN.md for the calendar-week/month tradeoff.
const (
	weeklyWindowDays  = 7
	monthlyWindowDays = 30
)

// QueryUseCase is the read-only aggregation facade over the record
// store. It holds no state and is safe to call concurrently with an
// in-flight sync pass: every store mutation is atomic, so readers never
// observe a half-written absentee set.
type QueryUseCase struct {
	repo interfaces.Repository
}

// DailyCheckins returns all check-ins recorded on a date, ordered by TS
func (uc *QueryUseCase) DailyCheckins(ctx context.Context, date types.Date) ([]*model.CheckIn, error) {
	checkins, err := uc.repo.CheckIn().GetByDate(ctx, date)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get daily check-ins", goerr.V("date", date))
	}
	return checkins, nil
}

// AbsenteesOn returns the absentee set recorded for a date
func (uc *QueryUseCase) AbsenteesOn(ctx context.Context, date types.Date) ([]*model.Absentee, error) {
	absentees, err := uc.repo.Absentee().GetByDate(ctx, date)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get absentees", goerr.V("date", date))
	}
	return absentees, nil
}

// UserCheckin returns one user's check-in for a date.
// Returns ErrCheckinNotFound when none is recorded.
func (uc *QueryUseCase) UserCheckin(ctx context.Context, userID types.UserID, date types.Date) (*model.CheckIn, error) {
	checkin, err := uc.repo.CheckIn().GetByUserDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, goerr.Wrap(ErrCheckinNotFound, "no check-in recorded",
				goerr.V("user_id", userID), goerr.V("date", date))
		}
		return nil, goerr.Wrap(err, "failed to get user check-in",
			goerr.V("user_id", userID), goerr.V("date", date))
	}
	return checkin, nil
}

// Users returns all known roster users ordered by display name
func (uc *QueryUseCase) Users(ctx context.Context) ([]*model.User, error) {
	users, err := uc.repo.User().GetAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get users")
	}
	return users, nil
}

// DailySummary aggregates check-in quality for one date
func (uc *QueryUseCase) DailySummary(ctx context.Context, date types.Date) (*model.DailySummary, error) {
	checkins, err := uc.repo.CheckIn().GetByDate(ctx, date)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get check-ins for summary", goerr.V("date", date))
	}

	good := 0
	for _, c := range checkins {
		if c.Quality == types.QualityGood {
			good++
		}
	}

	return &model.DailySummary{
		Date:          date,
		TotalCheckins: len(checkins),
		GoodCheckins:  good,
		GoodPercent:   model.GoodPercent(good, len(checkins)),
	}, nil
}

// WeeklySummary groups check-ins by user over the trailing 7-day window
// ending at date inclusive. Every known roster user appears, including
// users with zero check-ins, ordered by display name.
func (uc *QueryUseCase) WeeklySummary(ctx context.Context, date types.Date) (*model.WeeklySummary, error) {
	start := date.AddDays(-(weeklyWindowDays - 1))

	checkins, err := uc.repo.CheckIn().GetRange(ctx, start, date)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get check-ins for weekly summary",
			goerr.V("start", start), goerr.V("end", date))
	}

	type counter struct{ total, good int }
	counts := make(map[types.UserID]*counter)
	for _, c := range checkins {
		cnt, ok := counts[c.UserID]
		if !ok {
			cnt = &counter{}
			counts[c.UserID] = cnt
		}
		cnt.total++
		if c.Quality == types.QualityGood {
			cnt.good++
		}
	}

	users, err := uc.repo.User().GetAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get users for weekly summary")
	}

	stats := make([]*model.WeeklyUserStat, 0, len(users))
	for _, u := range users {
		cnt := counts[u.ID]
		if cnt == nil {
			cnt = &counter{}
		}
		stats = append(stats, &model.WeeklyUserStat{
			UserID:       u.ID,
			Name:         u.DisplayName(),
			Checkins:     cnt.total,
			GoodCheckins: cnt.good,
			GoodPercent:  model.GoodPercent(cnt.good, cnt.total),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })

	return &model.WeeklySummary{Start: start, End: date, Stats: stats}, nil
}

// MonthlySummary groups check-ins by calendar day over the trailing
// 30-day window ending at date inclusive, with a day-ordered trend.
func (uc *QueryUseCase) MonthlySummary(ctx context.Context, date types.Date) (*model.MonthlySummary, error) {
	start := date.AddDays(-(monthlyWindowDays - 1))

	checkins, err := uc.repo.CheckIn().GetRange(ctx, start, date)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get check-ins for monthly summary",
			goerr.V("start", start), goerr.V("end", date))
	}

	type counter struct{ total, good int }
	byDay := make(map[types.Date]*counter)
	for _, c := range checkins {
		cnt, ok := byDay[c.Date]
		if !ok {
			cnt = &counter{}
			byDay[c.Date] = cnt
		}
		cnt.total++
		if c.Quality == types.QualityGood {
			cnt.good++
		}
	}

	days := make([]types.Date, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	summary := &model.MonthlySummary{
		Start: start,
		End:   date,
		Trend: make([]*model.TrendPoint, 0, len(days)),
	}
	for _, d := range days {
		cnt := byDay[d]
		summary.TotalCheckins += cnt.total
		summary.GoodCheckins += cnt.good
		summary.Trend = append(summary.Trend, &model.TrendPoint{
			Date:         d,
			Total:        cnt.total,
			GoodCheckins: cnt.good,
		})
	}
	summary.AvgGoodPercent = model.GoodPercent(summary.GoodCheckins, summary.TotalCheckins)

	return summary, nil
}
