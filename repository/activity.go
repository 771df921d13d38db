package repository

import (
	"context"

	"github.com/fastygo/streakmap/domain"
)

// ActivityFilter selects activity rows. Empty fields are ignored; From and To
// are inclusive YYYY-MM-DD bounds.
type ActivityFilter struct {
	TaskID string
	UserID string
	From   string
	To     string
}

type ActivityRepository interface {
	// Increment adds entry.Count to the row keyed by (TaskID, Date), creating
	// it when missing. Concurrent increments on the same key are summed
	// atomically and the stored count never drops below zero.
	Increment(ctx context.Context, entry *domain.ActivityEntry) (*domain.ActivityEntry, error)
	List(ctx context.Context, filter ActivityFilter) ([]domain.ActivityEntry, error)
}
