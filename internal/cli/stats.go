package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	flag "github.com/spf13/pflag"
)

func (a *App) statsCmd() *Command {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	today := fs.String("today", "", "reference day (YYYY-MM-DD)")

	return &Command{
		Flags: fs,
		Usage: "stats [--today YYYY-MM-DD]",
		Short: "Show today, 7-day and 30-day completion",
		Exec: func(ctx context.Context, _ []string) error {
			ref, err := a.referenceDay(*today)
			if err != nil {
				return err
			}
			s, err := a.Stats.Dashboard(ctx, ref)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "today:\t%d/%d\t%.0f%%\n", s.CompletedToday, s.TotalToday, s.SuccessRatio*100)
			fmt.Fprintf(tw, "7 days:\t%d/%d\n", s.WeeklyCompleted, s.WeeklyTotal)
			fmt.Fprintf(tw, "30 days:\t%d/%d\n", s.MonthlyCompleted, s.MonthlyTotal)
			fmt.Fprintf(tw, "overdue:\t%d\n", s.OverdueCount)
			return tw.Flush()
		},
	}
}

func (a *App) streakCmd() *Command {
	fs := flag.NewFlagSet("streak", flag.ContinueOnError)
	today := fs.String("today", "", "reference day (YYYY-MM-DD)")

	return &Command{
		Flags: fs,
		Usage: "streak [--today YYYY-MM-DD]",
		Short: "Show current and longest run of fully completed days",
		Exec: func(ctx context.Context, _ []string) error {
			ref, err := a.referenceDay(*today)
			if err != nil {
				return err
			}
			s, err := a.Stats.Streak(ctx, ref)
			if err != nil {
				return err
			}
			last := "-"
			if s.LastCompletionDate != nil {
				last = *s.LastCompletionDate
			}
			fmt.Fprintf(a.Out, "current: %d\nlongest: %d\nlast full day: %s\n", s.CurrentStreak, s.LongestStreak, last)
			return nil
		},
	}
}

func (a *App) trendCmd() *Command {
	fs := flag.NewFlagSet("trend", flag.ContinueOnError)
	today := fs.String("today", "", "reference day (YYYY-MM-DD)")
	days := fs.IntP("days", "n", 0, "number of days before the reference day")

	return &Command{
		Flags: fs,
		Usage: "trend [-n days] [--today YYYY-MM-DD]",
		Short: "Show the per-day completion series",
		Exec: func(ctx context.Context, _ []string) error {
			ref, err := a.referenceDay(*today)
			if err != nil {
				return err
			}
			n := *days
			if !fs.Changed("days") {
				n = a.TrendDays
			}
			points, err := a.Stats.Trend(ctx, ref, n)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tDONE\tTOTAL\tRATIO")
			for _, p := range points {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\n", p.Date, p.Completed, p.Total, p.Ratio)
			}
			return tw.Flush()
		},
	}
}
