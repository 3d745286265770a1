package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/cli/config"
	"github.com/secmon-lab/pulse/pkg/domain/types"
	"github.com/secmon-lab/pulse/pkg/usecase"
	"github.com/secmon-lab/pulse/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdReport() *cli.Command {
	var dateStr string
	var period string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "date",
			Usage:       "Target date (YYYY-MM-DD, defaults to today)",
			Destination: &dateStr,
		},
		&cli.StringFlag{
			Name:        "period",
			Usage:       "Report period (day, week or month)",
			Value:       "day",
			Destination: &period,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   "Print a check-in report to the terminal",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			date := types.Today()
			if dateStr != "" {
				d, err := types.ParseDate(dateStr)
				if err != nil {
					return goerr.Wrap(err, "invalid date", goerr.V("date", dateStr))
				}
				date = d
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo)

			switch period {
			case "day":
				return printDailyReport(ctx, uc, date)
			case "week":
				return printWeeklyReport(ctx, uc, date)
			case "month":
				return printMonthlyReport(ctx, uc, date)
			default:
				return goerr.New("invalid period, must be day, week or month", goerr.V("period", period))
			}
		},
	}
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	goodColor   = color.New(color.FgGreen)
	badColor    = color.New(color.FgRed)
	absentColor = color.New(color.FgYellow)
	dimColor    = color.New(color.Faint)
)

func printDailyReport(ctx context.Context, uc *usecase.UseCases, date types.Date) error {
	checkins, err := uc.Query.DailyCheckins(ctx, date)
	if err != nil {
		return goerr.Wrap(err, "failed to get daily check-ins")
	}
	absentees, err := uc.Query.AbsenteesOn(ctx, date)
	if err != nil {
		return goerr.Wrap(err, "failed to get absentees")
	}
	summary, err := uc.Query.DailySummary(ctx, date)
	if err != nil {
		return goerr.Wrap(err, "failed to get daily summary")
	}

	headerColor.Printf("Check-ins for %s\n\n", date)

	if len(checkins) == 0 {
		dimColor.Println("  (no check-ins)")
	}
	for _, ci := range checkins {
		label := goodColor.Sprint("good")
		if ci.Quality == types.QualityBad {
			label = badColor.Sprint("bad ")
		}
		fmt.Printf("  [%s] %-16s %s\n", label, ci.Username, firstLine(ci.Content))
	}

	if len(absentees) > 0 {
		fmt.Println()
		absentColor.Printf("Absent (%d):\n", len(absentees))
		for _, a := range absentees {
			fmt.Printf("  - %s\n", a.Username)
		}
	}

	fmt.Println()
	fmt.Printf("Total: %d, good: %d (%.1f%%)\n",
		summary.TotalCheckins, summary.GoodCheckins, summary.GoodPercent)
	return nil
}

func printWeeklyReport(ctx context.Context, uc *usecase.UseCases, date types.Date) error {
	summary, err := uc.Query.WeeklySummary(ctx, date)
	if err != nil {
		return goerr.Wrap(err, "failed to get weekly summary")
	}

	headerColor.Printf("Weekly report %s .. %s\n\n", summary.Start, summary.End)

	for _, stat := range summary.Stats {
		line := fmt.Sprintf("  %-24s %2d check-ins, %2d good (%.1f%%)",
			stat.Name, stat.Checkins, stat.GoodCheckins, stat.GoodPercent)
		if stat.Checkins == 0 {
			absentColor.Println(line)
		} else {
			fmt.Println(line)
		}
	}
	return nil
}

func printMonthlyReport(ctx context.Context, uc *usecase.UseCases, date types.Date) error {
	summary, err := uc.Query.MonthlySummary(ctx, date)
	if err != nil {
		return goerr.Wrap(err, "failed to get monthly summary")
	}

	headerColor.Printf("Monthly report %s .. %s\n\n", summary.Start, summary.End)
	fmt.Printf("Total: %d, good: %d (avg %.1f%%)\n\n",
		summary.TotalCheckins, summary.GoodCheckins, summary.AvgGoodPercent)

	for _, point := range summary.Trend {
		bar := strings.Repeat("█", point.GoodCheckins) + strings.Repeat("░", point.Total-point.GoodCheckins)
		fmt.Printf("  %s %s %d/%d\n", point.Date, goodColor.Sprint(bar), point.GoodCheckins, point.Total)
	}
	return nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx] + " …"
	}
	return s
}
