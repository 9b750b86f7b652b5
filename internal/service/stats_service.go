package service

import (
	"context"
	"fmt"
	"time"

	"task-scheduler/internal/calendar"
	"task-scheduler/internal/model"
)

const (
	weekWindowDays   = 7
	monthWindowDays  = 30
	streakWindowDays = 90
)

// StatsService derives productivity figures from range queries. Every method
// takes the reference day explicitly; only its calendar date is used.
type StatsService struct {
	agenda RangeQuerier
}

func NewStatsService(agenda RangeQuerier) *StatsService {
	return &StatsService{agenda: agenda}
}

type dayTally struct {
	total     int
	completed int
}

// Dashboard runs three independent range queries (today, last 7 days, last 30
// days). Overdue entries are counted from the 30-day window.
func (s *StatsService) Dashboard(ctx context.Context, today time.Time) (model.DashboardStats, error) {
	day := calendar.Day(today)
	todayStr := calendar.Format(day)

	var stats model.DashboardStats

	todays, err := s.agenda.TasksForRange(ctx, todayStr, todayStr)
	if err != nil {
		return stats, fmt.Errorf("today window: %w", err)
	}
	weekly, err := s.agenda.TasksForRange(ctx, calendar.Format(calendar.AddDays(day, -weekWindowDays)), todayStr)
	if err != nil {
		return stats, fmt.Errorf("weekly window: %w", err)
	}
	monthly, err := s.agenda.TasksForRange(ctx, calendar.Format(calendar.AddDays(day, -monthWindowDays)), todayStr)
	if err != nil {
		return stats, fmt.Errorf("monthly window: %w", err)
	}

	stats.TotalToday, stats.CompletedToday = len(todays), countDone(todays)
	stats.WeeklyTotal, stats.WeeklyCompleted = len(weekly), countDone(weekly)
	stats.MonthlyTotal, stats.MonthlyCompleted = len(monthly), countDone(monthly)
	stats.SuccessRatio = ratio(stats.CompletedToday, stats.TotalToday)

	for _, e := range monthly {
		if e.Done() {
			continue
		}
		if d := e.Date(); d != "" && d < todayStr {
			stats.OverdueCount++
		}
	}

	return stats, nil
}

// Streak walks the last 90 days backwards from today. Days without entries
// neither extend nor break a run.
func (s *StatsService) Streak(ctx context.Context, today time.Time) (model.StreakInfo, error) {
	end := calendar.Day(today)
	start := calendar.AddDays(end, -streakWindowDays)

	var info model.StreakInfo
	byDate, err := s.tally(ctx, start, end)
	if err != nil {
		return info, err
	}

	days := calendar.Days(start, end)
	var temp int
	broken := false
	for i := len(days) - 1; i >= 0; i-- {
		t, ok := byDate[days[i]]
		if !ok || t.total == 0 {
			continue
		}
		if t.completed == t.total {
			temp++
			if info.LastCompletionDate == nil {
				d := days[i]
				info.LastCompletionDate = &d
			}
			continue
		}
		if !broken {
			info.CurrentStreak = temp
			broken = true
		}
		info.LongestStreak = max(info.LongestStreak, temp)
		temp = 0
	}

	if !broken {
		info.CurrentStreak = temp
	}
	info.LongestStreak = max(info.LongestStreak, temp)

	return info, nil
}

// Trend returns one point per day of [today-days, today], including empty days.
func (s *StatsService) Trend(ctx context.Context, today time.Time, days int) ([]model.TrendPoint, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: trend length %d is negative", ErrValidation, days)
	}
	end := calendar.Day(today)
	start := calendar.AddDays(end, -days)

	byDate, err := s.tally(ctx, start, end)
	if err != nil {
		return nil, err
	}

	points := make([]model.TrendPoint, 0, days+1)
	for _, d := range calendar.Days(start, end) {
		t := byDate[d]
		points = append(points, model.TrendPoint{
			Date:      d,
			Total:     t.total,
			Completed: t.completed,
			Ratio:     ratio(t.completed, t.total),
		})
	}
	return points, nil
}

func (s *StatsService) tally(ctx context.Context, start, end time.Time) (map[string]dayTally, error) {
	entries, err := s.agenda.TasksForRange(ctx, calendar.Format(start), calendar.Format(end))
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]dayTally)
	for _, e := range entries {
		d := e.Date()
		if d == "" {
			continue
		}
		t := byDate[d]
		t.total++
		if e.Done() {
			t.completed++
		}
		byDate[d] = t
	}
	return byDate, nil
}

func countDone(entries []model.Entry) int {
	n := 0
	for _, e := range entries {
		if e.Done() {
			n++
		}
	}
	return n
}

func ratio(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}
