package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/streakmap/domain"
	appLogger "github.com/fastygo/streakmap/pkg/logger"
	"github.com/fastygo/streakmap/repository"
	"github.com/fastygo/streakmap/usecase"
)

type UseCase struct {
	tasks  repository.TaskRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		buffer: buffer,
		logger: logger,
	}
}

// ListTasks returns one page of the user's tasks, or all of them when
// filter.Limit is zero.
func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if filter.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	var (
		tasks []domain.Task
		err   error
	)
	if filter.Limit > 0 {
		tasks, err = uc.tasks.List(ctx, filter)
	} else {
		tasks, err = repository.ListAllTasks(ctx, uc.tasks, filter)
	}
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// GetTask returns a task owned by userID. Tasks owned by someone else are
// reported as missing so their existence is not disclosed.
func (uc *UseCase) GetTask(ctx context.Context, userID, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.OwnedBy(userID) {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// CreateTask assigns the default levels when none are given.
func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	task.Name = strings.TrimSpace(task.Name)
	if task.Name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task name is required")
	}
	if len(task.IntensityLevels) == 0 {
		task.IntensityLevels = domain.DefaultIntensityLevels()
	} else if err := ValidateLevels(task.IntensityLevels); err != nil {
		return nil, err
	}

	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task, err) {
			return task, nil
		}
		return nil, err
	}
	return created, nil
}

// UpdateIntensityLevels replaces all levels of a task at once.
func (uc *UseCase) UpdateIntensityLevels(ctx context.Context, userID, taskID string, levels []domain.IntensityLevel) (*domain.Task, error) {
	if len(levels) == 0 {
		return nil, domain.ErrInvalidLevels
	}
	if err := ValidateLevels(levels); err != nil {
		return nil, err
	}

	updated, err := uc.tasks.UpdateIntensityLevels(ctx, taskID, userID, levels)
	if err != nil {
		pending := &domain.Task{ID: taskID, UserID: userID, IntensityLevels: levels}
		if uc.shouldBuffer(ctx, usecase.OperationUpdateLevels, pending, err) {
			return pending, nil
		}
		return nil, err
	}
	return updated, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, userID, id string) error {
	if err := uc.tasks.Delete(ctx, id, userID); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationDelete, &domain.Task{ID: id, UserID: userID}, err) {
			return nil
		}
		return err
	}
	return nil
}

// ValidateLevels rejects levels that could never classify a day.
func ValidateLevels(levels []domain.IntensityLevel) error {
	for i, level := range levels {
		if level.MinCount < 1 {
			return domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("intensity level %d: min_count must be at least 1", i))
		}
		if strings.TrimSpace(level.Label) == "" {
			return domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("intensity level %d: label is required", i))
		}
	}
	return nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task, cause error) bool {
	if uc.buffer == nil || !usecase.Bufferable(cause) {
		return false
	}
	log := appLogger.FromContext(ctx, uc.logger)
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		log.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	log.Warn("task operation buffered", zap.String("operation", operation), zap.String("task_id", task.ID), zap.Error(cause))
	return true
}
