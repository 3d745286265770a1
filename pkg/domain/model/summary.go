package model

import (
	"math"

	"github.com/secmon-lab/pulse/pkg/domain/types"
)

// DailySummary aggregates check-in quality for a single date
type DailySummary struct {
	Date          types.Date `json:"date"`
	TotalCheckins int        `json:"total_checkins"`
	GoodCheckins  int        `json:"good_checkins"`
	GoodPercent   float64    `json:"good_percent"`
}

// WeeklyUserStat is the per-user aggregate over a weekly window
type WeeklyUserStat struct {
	UserID       types.UserID `json:"user_id"`
	Name         string       `json:"name"`
	Checkins     int          `json:"checkins"`
	GoodCheckins int          `json:"good_checkins"`
	GoodPercent  float64      `json:"good_percent"`
}

// WeeklySummary aggregates check-ins per user over the trailing 7-day
// window ending at End inclusive, ordered by display name.
type WeeklySummary struct {
	Start types.Date        `json:"start"`
	End   types.Date        `json:"end"`
	Stats []*WeeklyUserStat `json:"stats"`
}

// TrendPoint is one day's totals within a monthly summary
type TrendPoint struct {
	Date         types.Date `json:"date"`
	Total        int        `json:"total"`
	GoodCheckins int        `json:"good_checkins"`
}

// MonthlySummary aggregates check-ins per day over the trailing 30-day
// window ending at End inclusive, with a day-ordered trend.
type MonthlySummary struct {
	Start          types.Date    `json:"start"`
	End            types.Date    `json:"end"`
	TotalCheckins  int           `json:"total_checkins"`
	GoodCheckins   int           `json:"good_checkins"`
	AvgGoodPercent float64       `json:"avg_good_percent"`
	Trend          []*TrendPoint `json:"trend"`
}

// GoodPercent computes good/total*100 rounded to 2 decimals. A zero
// total yields 0, never NaN.
func GoodPercent(good, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(good)/float64(total)*10000) / 100
}
