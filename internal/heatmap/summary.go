package heatmap

import "github.com/fastygo/streakmap/domain"

// Summarize totals a dense heatmap and attaches its streaks.
func Summarize(days []domain.HeatmapDay) domain.HeatmapSummary {
	streak := StreakFromDays(days)
	summary := domain.HeatmapSummary{
		CurrentStreak: streak.Current,
		BestStreak:    streak.Best,
	}
	for _, d := range days {
		summary.TotalCount += d.Count
		if d.Count > 0 {
			summary.ActiveDays++
		}
	}
	return summary
}
