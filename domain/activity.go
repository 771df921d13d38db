package domain

import "time"

// DateLayout is the calendar-day format used for activity dates.
const DateLayout = "2006-01-02"

// ActivityEntry is the persisted counter for one task on one calendar day.
type ActivityEntry struct {
	ID        string                 `json:"id"`
	TaskID    string                 `json:"task_id"`
	UserID    string                 `json:"user_id"`
	Date      string                 `json:"date"`
	Count     int                    `json:"count"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// HeatmapDay is one cell of a rendered heatmap. A nil Level renders as empty.
type HeatmapDay struct {
	Date  string          `json:"date"`
	Count int             `json:"count"`
	Level *IntensityLevel `json:"level"`
}

// StreakStats holds run lengths of consecutive active days.
type StreakStats struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// HeatmapSummary aggregates a heatmap for display next to the grid.
type HeatmapSummary struct {
	TotalCount    int `json:"total_count"`
	ActiveDays    int `json:"active_days"`
	CurrentStreak int `json:"current_streak"`
	BestStreak    int `json:"best_streak"`
}

// TaskHeatmap bundles a task with its derived heatmap.
type TaskHeatmap struct {
	Task    Task           `json:"task"`
	Heatmap []HeatmapDay   `json:"heatmap"`
	Summary HeatmapSummary `json:"summary"`
}
