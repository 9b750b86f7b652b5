package model

// DashboardStats summarises completion over today, the last 7 days and the last 30 days.
type DashboardStats struct {
	TotalToday       int
	CompletedToday   int
	OverdueCount     int
	SuccessRatio     float64
	WeeklyCompleted  int
	WeeklyTotal      int
	MonthlyCompleted int
	MonthlyTotal     int
}

type StreakInfo struct {
	CurrentStreak      int
	LongestStreak      int
	LastCompletionDate *string
}

// TrendPoint is the completion tally of a single day.
type TrendPoint struct {
	Date      string
	Total     int
	Completed int
	Ratio     float64
}
