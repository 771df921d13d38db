package heatmap

import (
	"slices"
	"time"

	"github.com/fastygo/streakmap/domain"
)

// StreakFromDays computes streaks over a dense, gap-free series sorted oldest first.
func StreakFromDays(days []domain.HeatmapDay) domain.StreakStats {
	var stats domain.StreakStats
	for _, d := range days {
		if d.Count > 0 {
			stats.Current++
		} else {
			stats.Current = 0
		}
		stats.Best = max(stats.Best, stats.Current)
	}
	return stats
}

type dayCount struct {
	date  time.Time
	count int
}

// StreaksFromEntries computes streaks per task from sparse activity rows.
//
// Rows may span many tasks and arrive in any order. Rows sharing a task and
// date are summed before streaks are evaluated, so a duplicate date never
// counts twice. Consecutive rows extend the current streak only when they are
// exactly one calendar day apart.
//
// When asOf is non-zero, rows dated after asOf are ignored and a streak whose
// last row is older than asOf is closed, so the result matches
// StreakFromDays over a window ending at asOf. Tasks without rows are absent
// from the result.
func StreaksFromEntries(entries []domain.ActivityEntry, asOf time.Time) (map[string]domain.StreakStats, error) {
	byTask := make(map[string]map[string]int)
	for _, entry := range entries {
		counts, ok := byTask[entry.TaskID]
		if !ok {
			counts = make(map[string]int)
			byTask[entry.TaskID] = counts
		}
		counts[entry.Date] += entry.Count
	}

	var cutoff time.Time
	if !asOf.IsZero() {
		cutoff = Truncate(asOf)
	}

	result := make(map[string]domain.StreakStats, len(byTask))
	for taskID, counts := range byTask {
		series := make([]dayCount, 0, len(counts))
		for date, count := range counts {
			parsed, err := ParseDay(date)
			if err != nil {
				return nil, err
			}
			if !cutoff.IsZero() && parsed.After(cutoff) {
				continue
			}
			series = append(series, dayCount{date: parsed, count: count})
		}
		if len(series) == 0 {
			continue
		}
		slices.SortFunc(series, func(a, b dayCount) int {
			return a.date.Compare(b.date)
		})

		stats := walk(series)
		if !cutoff.IsZero() && series[len(series)-1].date.Before(cutoff) {
			stats.Current = 0
		}
		result[taskID] = stats
	}
	return result, nil
}

func walk(series []dayCount) domain.StreakStats {
	var (
		stats domain.StreakStats
		last  time.Time
	)
	for i, d := range series {
		switch {
		case d.count <= 0:
			stats.Current = 0
		case i > 0 && daysBetween(last, d.date) == 1:
			stats.Current++
		default:
			stats.Current = 1
		}
		stats.Best = max(stats.Best, stats.Current)
		last = d.date
	}
	return stats
}
