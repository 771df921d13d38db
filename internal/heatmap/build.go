package heatmap

import (
	"fmt"
	"time"

	"github.com/fastygo/streakmap/domain"
)

// DefaultWindowDays is the trailing window rendered when callers do not configure one.
const DefaultWindowDays = 365

// Build produces a dense heatmap of windowDays days ending at today, oldest first.
//
// Entries sharing a date are summed. Entries outside the window are ignored.
// A negative window, or a negative aggregated count on a day inside the
// window, is reported as an error instead of producing a corrupted series.
func Build(task domain.Task, entries []domain.ActivityEntry, windowDays int, today time.Time) ([]domain.HeatmapDay, error) {
	if windowDays < 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("heatmap window must not be negative, got %d", windowDays))
	}

	counts := aggregate(entries)
	levels := sortLevels(task.IntensityLevels)
	end := Truncate(today)

	days := make([]domain.HeatmapDay, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		date := FormatDay(end.AddDate(0, 0, -i))
		count := counts[date]
		if count < 0 {
			return nil, domain.NewError(domain.ErrCodeInvalid,
				fmt.Sprintf("task %s has negative activity count %d on %s", task.ID, count, date))
		}
		days = append(days, domain.HeatmapDay{
			Date:  date,
			Count: count,
			Level: classifySorted(levels, count),
		})
	}
	return days, nil
}

// ForTask builds the heatmap of a task together with its summary.
func ForTask(task domain.Task, entries []domain.ActivityEntry, windowDays int, today time.Time) (domain.TaskHeatmap, error) {
	days, err := Build(task, entries, windowDays, today)
	if err != nil {
		return domain.TaskHeatmap{}, err
	}
	return domain.TaskHeatmap{
		Task:    task,
		Heatmap: days,
		Summary: Summarize(days),
	}, nil
}

func aggregate(entries []domain.ActivityEntry) map[string]int {
	counts := make(map[string]int, len(entries))
	for _, entry := range entries {
		counts[entry.Date] += entry.Count
	}
	return counts
}
