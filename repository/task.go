package repository

import (
	"context"

	"github.com/fastygo/streakmap/domain"
)

// MaxPageSize caps the number of tasks a single List call returns.
const MaxPageSize = 100

type TaskFilter struct {
	UserID string
	Limit  int
	Offset int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// UpdateIntensityLevels replaces the levels of a task owned by userID in a single write.
	UpdateIntensityLevels(ctx context.Context, taskID, userID string, levels []domain.IntensityLevel) (*domain.Task, error)
	Delete(ctx context.Context, id, userID string) error
}

// ListAllTasks pages through List from filter.Offset until the store runs
// out of tasks. filter.Limit is ignored.
func ListAllTasks(ctx context.Context, repo TaskRepository, filter TaskFilter) ([]domain.Task, error) {
	filter.Limit = MaxPageSize
	var all []domain.Task
	for {
		page, err := repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < MaxPageSize {
			return all, nil
		}
		filter.Offset += len(page)
	}
}
