package domain

import "time"

// IntensityLevel is a labeled lower bound used to color a heatmap day.
type IntensityLevel struct {
	Label    string `json:"label" validate:"required"`
	MinCount int    `json:"min_count" validate:"min=1"`
	Color    string `json:"color" validate:"required"`
}

// Task is a user-defined activity tracked per calendar day.
type Task struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	IntensityLevels []IntensityLevel `json:"intensity_levels"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// DefaultIntensityLevels returns the levels assigned to tasks created without any.
func DefaultIntensityLevels() []IntensityLevel {
	return []IntensityLevel{
		{Label: "light", MinCount: 1, Color: "#D6E685"},
		{Label: "medium", MinCount: 3, Color: "#8CC665"},
		{Label: "heavy", MinCount: 5, Color: "#44A340"},
	}
}

func (t *Task) OwnedBy(userID string) bool {
	return t != nil && userID != "" && t.UserID == userID
}
