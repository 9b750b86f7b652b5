package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"task-scheduler/internal/calendar"
	"task-scheduler/internal/model"
)

// ReminderService builds human-readable digests for daily notifications.
type ReminderService struct {
	agenda    RangeQuerier
	stats     *StatsService
	trendDays int
}

func NewReminderService(agenda RangeQuerier, stats *StatsService, trendDays int) *ReminderService {
	if trendDays <= 0 {
		trendDays = 7
	}
	return &ReminderService{agenda: agenda, stats: stats, trendDays: trendDays}
}

// DailySummary renders today's agenda together with dashboard, streak and trend figures.
func (s *ReminderService) DailySummary(ctx context.Context, today time.Time) (string, error) {
	day := calendar.Format(calendar.Day(today))

	entries, err := s.agenda.TasksForRange(ctx, day, day)
	if err != nil {
		return "", err
	}
	dash, err := s.stats.Dashboard(ctx, today)
	if err != nil {
		return "", err
	}
	streak, err := s.stats.Streak(ctx, today)
	if err != nil {
		return "", err
	}
	trend, err := s.stats.Trend(ctx, today, s.trendDays)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("📋 <b>Daily digest</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", day))

	b.WriteString("🔥 <b>Today</b>\n")
	if len(entries) == 0 {
		b.WriteString("— nothing scheduled\n")
	}
	for _, e := range entries {
		b.WriteString(formatEntry(e))
	}

	b.WriteString("\n📊 <b>Progress</b>\n")
	b.WriteString(fmt.Sprintf("Today: %d/%d (%.0f%%)\n", dash.CompletedToday, dash.TotalToday, dash.SuccessRatio*100))
	b.WriteString(fmt.Sprintf("Last 7 days: %d/%d\n", dash.WeeklyCompleted, dash.WeeklyTotal))
	b.WriteString(fmt.Sprintf("Last 30 days: %d/%d\n", dash.MonthlyCompleted, dash.MonthlyTotal))
	if dash.OverdueCount > 0 {
		b.WriteString(fmt.Sprintf("⚠️ Overdue: %d\n", dash.OverdueCount))
	}

	b.WriteString(fmt.Sprintf("\n🏆 Streak: %d (best %d)", streak.CurrentStreak, streak.LongestStreak))
	if streak.LastCompletionDate != nil {
		b.WriteString(fmt.Sprintf(", last full day %s", *streak.LastCompletionDate))
	}
	b.WriteByte('\n')

	b.WriteString("\n📈 <b>Trend</b>\n")
	b.WriteString(sparkline(trend))
	b.WriteByte('\n')

	return strings.TrimSpace(b.String()), nil
}

func formatEntry(e model.Entry) string {
	icon := "⬜"
	if e.Done() {
		icon = "✅"
	}
	title := html.EscapeString(strings.TrimSpace(e.Task.Title))
	line := fmt.Sprintf("%s %s", icon, title)
	if e.IsOccurrence() {
		line += " ♻️"
	}
	if e.Task.Priority == model.PriorityHigh {
		line += " ❗"
	}
	if e.Task.Category != nil && strings.TrimSpace(e.Task.Category.Name) != "" {
		line += fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(strings.TrimSpace(e.Task.Category.Name)))
	}
	return line + "\n"
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// sparkline draws one glyph per day; empty days are rendered as a dot.
func sparkline(points []model.TrendPoint) string {
	var b strings.Builder
	for _, p := range points {
		if p.Total == 0 {
			b.WriteRune('·')
			continue
		}
		idx := int(p.Ratio * float64(len(sparkLevels)-1))
		b.WriteRune(sparkLevels[idx])
	}
	return b.String()
}
