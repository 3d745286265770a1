package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/pulse/pkg/agent/tool"
	"github.com/secmon-lab/pulse/pkg/domain/types"
	"github.com/secmon-lab/pulse/pkg/usecase"
	"github.com/secmon-lab/pulse/pkg/utils/logging"
)

// extractDate reads the optional date argument, defaulting to today
func extractDate(args map[string]any) (types.Date, error) {
	raw, _ := args["date"].(string)
	if raw == "" {
		return types.Today(), nil
	}
	return types.ParseDate(raw)
}

// refresh runs an on-demand sync pass for the date. A refresh failure
// is logged but does not block the answer: stale data beats no data
// when the chat API is briefly unavailable.
func refresh(ctx context.Context, uc *usecase.UseCases, date types.Date) {
	if err := uc.Sync.RefreshDay(ctx, date); err != nil {
		logging.From(ctx).Warn("refresh before report failed, answering from store",
			"date", date.String(), "error", err.Error())
	}
}

// dailyCheckinsTool lists all check-ins recorded for a date
type dailyCheckinsTool struct {
	uc *usecase.UseCases
}

func (t *dailyCheckinsTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_daily_checkins",
		Description: "Get all check-ins submitted on a given date, with each author's name, content, and quality label (good or bad).",
		Parameters: map[string]*gollem.Parameter{
			"date": {
				Type:        gollem.TypeString,
				Description: "Target date in YYYY-MM-DD format (default: today, UTC)",
				Required:    false,
			},
		},
	}
}

func (t *dailyCheckinsTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	date, err := extractDate(args)
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, fmt.Sprintf("Fetching check-ins for %s...", date))
	refresh(ctx, t.uc, date)

	checkins, err := t.uc.Query.DailyCheckins(ctx, date)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get daily check-ins", goerr.V("date", date))
	}

	items := make([]map[string]any, len(checkins))
	for i, c := range checkins {
		items[i] = map[string]any{
			"user_id":  string(c.UserID),
			"username": c.Username,
			"content":  c.Content,
			"quality":  string(c.Quality),
		}
	}
	return map[string]any{
		"date":     date.String(),
		"checkins": items,
		"count":    len(items),
	}, nil
}

// absenteesTool lists roster users with no check-in on a date
type absenteesTool struct {
	uc *usecase.UseCases
}

func (t *absenteesTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_absentees",
		Description: "Get the roster members who have not submitted a check-in on a given date.",
		Parameters: map[string]*gollem.Parameter{
			"date": {
				Type:        gollem.TypeString,
				Description: "Target date in YYYY-MM-DD format (default: today, UTC)",
				Required:    false,
			},
		},
	}
}

func (t *absenteesTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	date, err := extractDate(args)
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, fmt.Sprintf("Fetching absentees for %s...", date))
	refresh(ctx, t.uc, date)

	absentees, err := t.uc.Query.AbsenteesOn(ctx, date)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get absentees", goerr.V("date", date))
	}

	items := make([]map[string]any, len(absentees))
	for i, a := range absentees {
		items[i] = map[string]any{
			"user_id":  string(a.UserID),
			"username": a.Username,
		}
	}
	return map[string]any{
		"date":      date.String(),
		"absentees": items,
		"count":     len(items),
	}, nil
}

// userCheckinTool retrieves one user's check-in for a date
type userCheckinTool struct {
	uc *usecase.UseCases
}

func (t *userCheckinTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_user_checkin",
		Description: "Get one user's check-in for a given date, including its content and quality label. Reports when the user has not checked in.",
		Parameters: map[string]*gollem.Parameter{
			"user_id": {
				Type:        gollem.TypeString,
				Description: "The workspace user ID to look up",
				Required:    true,
			},
			"date": {
				Type:        gollem.TypeString,
				Description: "Target date in YYYY-MM-DD format (default: today, UTC)",
				Required:    false,
			},
		},
	}
}

func (t *userCheckinTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	userID, _ := args["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	date, err := extractDate(args)
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, fmt.Sprintf("Fetching check-in of %s for %s...", userID, date))
	refresh(ctx, t.uc, date)

	checkin, err := t.uc.Query.UserCheckin(ctx, types.UserID(userID), date)
	if err != nil {
		if errors.Is(err, usecase.ErrCheckinNotFound) {
			return map[string]any{
				"date":       date.String(),
				"user_id":    userID,
				"checked_in": false,
			}, nil
		}
		return nil, goerr.Wrap(err, "failed to get user check-in",
			goerr.V("user_id", userID), goerr.V("date", date))
	}

	return map[string]any{
		"date":       date.String(),
		"user_id":    userID,
		"username":   checkin.Username,
		"checked_in": true,
		"content":    checkin.Content,
		"quality":    string(checkin.Quality),
	}, nil
}

// cumulativeReportTool summarizes check-in quality over a trailing
// weekly or monthly window
type cumulativeReportTool struct {
	uc *usecase.UseCases
}

func (t *cumulativeReportTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_cumulative_report",
		Description: "Get an aggregated check-in report over a trailing window ending at the target date. 'week' covers 7 days grouped per user; 'month' covers 30 days with a per-day trend.",
		Parameters: map[string]*gollem.Parameter{
			"period": {
				Type:        gollem.TypeString,
				Description: "Aggregation window: 'week' or 'month'",
				Required:    true,
			},
			"date": {
				Type:        gollem.TypeString,
				Description: "End date of the window in YYYY-MM-DD format (default: today, UTC)",
				Required:    false,
			},
		},
	}
}

func (t *cumulativeReportTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	period, _ := args["period"].(string)
	if period != "week" && period != "month" {
		return nil, fmt.Errorf("period must be 'week' or 'month', got %q", period)
	}

	date, err := extractDate(args)
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, fmt.Sprintf("Building %sly report ending %s...", period, date))
	refresh(ctx, t.uc, date)

	if period == "week" {
		summary, err := t.uc.Query.WeeklySummary(ctx, date)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to build weekly summary", goerr.V("date", date))
		}

		stats := make([]map[string]any, len(summary.Stats))
		for i, s := range summary.Stats {
			stats[i] = map[string]any{
				"user_id":       string(s.UserID),
				"name":          s.Name,
				"checkins":      s.Checkins,
				"good_checkins": s.GoodCheckins,
				"good_percent":  s.GoodPercent,
			}
		}
		return map[string]any{
			"period": "week",
			"start":  summary.Start.String(),
			"end":    summary.End.String(),
			"stats":  stats,
		}, nil
	}

	summary, err := t.uc.Query.MonthlySummary(ctx, date)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build monthly summary", goerr.V("date", date))
	}

	trend := make([]map[string]any, len(summary.Trend))
	for i, p := range summary.Trend {
		trend[i] = map[string]any{
			"date":          p.Date.String(),
			"total":         p.Total,
			"good_checkins": p.GoodCheckins,
		}
	}
	return map[string]any{
		"period":           "month",
		"start":            summary.Start.String(),
		"end":              summary.End.String(),
		"total_checkins":   summary.TotalCheckins,
		"good_checkins":    summary.GoodCheckins,
		"avg_good_percent": summary.AvgGoodPercent,
		"trend":            trend,
	}, nil
}
