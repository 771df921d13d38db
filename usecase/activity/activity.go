package activity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/internal/heatmap"
	appLogger "github.com/fastygo/streakmap/pkg/logger"
	"github.com/fastygo/streakmap/repository"
	"github.com/fastygo/streakmap/usecase"
)

// Config tunes heatmap rendering.
type Config struct {
	WindowDays  int
	Parallelism int
	// Now defaults to time.Now. The calendar day is read in its location.
	Now func() time.Time
}

// RecordInput is a request to add Count to a task's counter for Date.
type RecordInput struct {
	TaskID   string
	Date     string
	Count    int
	Metadata map[string]interface{}
}

type UseCase struct {
	tasks      repository.TaskRepository
	activities repository.ActivityRepository
	buffer     usecase.OperationBuffer
	cfg        Config
	logger     *zap.Logger
}

func New(
	tasks repository.TaskRepository,
	activities repository.ActivityRepository,
	buffer usecase.OperationBuffer,
	cfg Config,
	logger *zap.Logger,
) *UseCase {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = heatmap.DefaultWindowDays
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 4
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:      tasks,
		activities: activities,
		buffer:     buffer,
		cfg:        cfg,
		logger:     logger,
	}
}

// WindowDays is the largest window the heatmap endpoints serve.
func (uc *UseCase) WindowDays() int {
	return uc.cfg.WindowDays
}

// Record adds to the counter of an owned task. Increments that cannot reach
// storage are buffered and replayed later.
func (uc *UseCase) Record(ctx context.Context, userID string, in RecordInput) (*domain.ActivityEntry, error) {
	if in.TaskID == "" || in.Date == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task_id, date, and count are required")
	}
	if _, err := heatmap.ParseDay(in.Date); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidDate.Message, err)
	}
	entry := &domain.ActivityEntry{
		TaskID:   in.TaskID,
		UserID:   userID,
		Date:     in.Date,
		Count:    in.Count,
		Metadata: in.Metadata,
	}

	// Ownership is checked again when a buffered increment is replayed.
	if _, err := uc.ownedTask(ctx, userID, in.TaskID); err != nil {
		if uc.canBuffer(err) {
			return uc.bufferEntry(ctx, entry, err)
		}
		return nil, err
	}

	stored, err := uc.activities.Increment(ctx, entry)
	if err != nil {
		if uc.canBuffer(err) {
			return uc.bufferEntry(ctx, entry, err)
		}
		return nil, err
	}
	return stored, nil
}

func (uc *UseCase) canBuffer(err error) bool {
	return uc.buffer != nil && usecase.Bufferable(err)
}

func (uc *UseCase) bufferEntry(ctx context.Context, entry *domain.ActivityEntry, cause error) (*domain.ActivityEntry, error) {
	log := appLogger.FromContext(ctx, uc.logger)
	if err := uc.buffer.BufferActivity(ctx, entry); err != nil {
		log.Error("failed to buffer activity", zap.Error(err))
		return nil, cause
	}
	log.Warn("activity increment buffered", zap.String("task_id", entry.TaskID), zap.Error(cause))
	return entry, nil
}

// TaskHeatmap renders one task over the last days days, or over the
// configured window when days is zero.
func (uc *UseCase) TaskHeatmap(ctx context.Context, userID, taskID string, days int) (*domain.TaskHeatmap, error) {
	window, err := uc.window(days)
	if err != nil {
		return nil, err
	}
	task, err := uc.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	view, err := uc.render(ctx, *task, window, uc.cfg.Now())
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Overview renders every task of the user. Tasks are rendered concurrently
// and returned in task list order.
func (uc *UseCase) Overview(ctx context.Context, userID string, days int) ([]domain.TaskHeatmap, error) {
	window, err := uc.window(days)
	if err != nil {
		return nil, err
	}
	tasks, err := repository.ListAllTasks(ctx, uc.tasks, repository.TaskFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	today := uc.cfg.Now()
	views := make([]domain.TaskHeatmap, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.Parallelism)
	for i := range tasks {
		i := i
		g.Go(func() error {
			view, err := uc.render(gctx, tasks[i], window, today)
			if err != nil {
				return fmt.Errorf("task %s: %w", tasks[i].ID, err)
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

// Streaks computes streaks for every task of the user from the raw activity
// rows. Tasks without any activity are omitted.
func (uc *UseCase) Streaks(ctx context.Context, userID string) (map[string]domain.StreakStats, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	entries, err := uc.activities.List(ctx, repository.ActivityFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	return heatmap.StreaksFromEntries(entries, uc.cfg.Now())
}

func (uc *UseCase) render(ctx context.Context, task domain.Task, window int, now time.Time) (domain.TaskHeatmap, error) {
	entries, err := uc.activities.List(ctx, repository.ActivityFilter{
		TaskID: task.ID,
		From:   heatmap.WindowStart(window, now),
		To:     heatmap.FormatDay(heatmap.Truncate(now)),
	})
	if err != nil {
		return domain.TaskHeatmap{}, err
	}
	return heatmap.ForTask(task, entries, window, now)
}

func (uc *UseCase) window(days int) (int, error) {
	switch {
	case days == 0:
		return uc.cfg.WindowDays, nil
	case days < 0 || days > uc.cfg.WindowDays:
		return 0, domain.NewError(domain.ErrCodeInvalid,
			fmt.Sprintf("days must be between 1 and %d", uc.cfg.WindowDays))
	default:
		return days, nil
	}
}

func (uc *UseCase) ownedTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.OwnedBy(userID) {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}
