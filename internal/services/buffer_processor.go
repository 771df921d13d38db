package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/internal/infrastructure/buffer"
	"github.com/fastygo/streakmap/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	// Retention is how long an item may wait before the cleanup job drops it.
	Retention time.Duration
}

// BufferProcessor replays buffered task and activity writes against the repositories.
type BufferProcessor struct {
	store        *buffer.Store
	monitor      ConnectionHealth
	taskRepo     repository.TaskRepository
	activityRepo repository.ActivityRepository
	logger       *zap.Logger
	cron         *cron.Cron
	cfg          ProcessorConfig

	// drainMu serializes scheduled drains with drains triggered on reconnect.
	drainMu sync.Mutex
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	taskRepo repository.TaskRepository,
	activityRepo repository.ActivityRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 72 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:        store,
		monitor:      monitor,
		taskRepo:     taskRepo,
		activityRepo: activityRepo,
		logger:       logger,
		cfg:          cfg,
		cron:         cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", max(int(cfg.Interval.Seconds()), 1))
	_, _ = bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	})
	_, _ = bp.cron.AddFunc("@hourly", func() {
		if _, err := bp.Cleanup(time.Now()); err != nil {
			bp.logger.Error("buffer cleanup failed", zap.Error(err))
		}
	})

	return bp
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started")
}

// Stop gracefully stops the scheduler.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain replays one batch of buffered items. Items rejected with a domain
// error are dropped at once; other failures are retried up to MaxRetries.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}
	bp.drainMu.Lock()
	defer bp.drainMu.Unlock()

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := bp.processItem(ctx, item)
		if err == nil {
			if err := bp.store.Remove(item); err != nil {
				bp.logger.Warn("failed to purge processed buffer item", zap.Error(err))
			}
			continue
		}

		log := bp.logger.With(
			zap.String("item_id", item.ID),
			zap.String("entity", item.Entity),
			zap.String("operation", item.Operation))

		var dErr *domain.Error
		if errors.As(err, &dErr) {
			log.Warn("dropping rejected buffer item", zap.Error(err))
			_ = bp.store.Remove(item)
			continue
		}

		log.Error("failed to process buffer item", zap.Error(err))
		item.Retries++
		if item.Retries >= bp.cfg.MaxRetries {
			log.Warn("dropping buffer item (max retries reached)")
			_ = bp.store.Remove(item)
			continue
		}
		if err := bp.store.Requeue(item); err != nil {
			log.Error("failed to requeue buffer item", zap.Error(err))
		}
	}
	return nil
}

// Cleanup drops items older than the retention period relative to now.
func (bp *BufferProcessor) Cleanup(now time.Time) (int, error) {
	if bp == nil || bp.store == nil {
		return 0, nil
	}
	removed, err := bp.store.Cleanup(now.Add(-bp.cfg.Retention))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		bp.logger.Warn("expired buffer items dropped", zap.Int("count", removed))
	}
	return removed, nil
}

// BufferOperation persists an item for later replay. When the monitor
// reports Postgres online the item is first tried immediately.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("buffer processor not configured")
	}

	if bp.monitor != nil && bp.monitor.IsOnline() {
		err := bp.processItem(ctx, item)
		if err == nil {
			return nil
		}
		var dErr *domain.Error
		if errors.As(err, &dErr) {
			return err
		}
		bp.logger.Warn("immediate processing failed, buffering", zap.Error(err))
	}
	return bp.store.Enqueue(item)
}

// Size returns the number of buffered items.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) processItem(ctx context.Context, item buffer.Item) error {
	switch item.Entity {
	case buffer.EntityTask:
		var task domain.Task
		if err := json.Unmarshal(item.Data, &task); err != nil {
			return domain.WrapError(domain.ErrCodeInvalid, "corrupt buffered task", err)
		}
		switch item.Operation {
		case buffer.OperationCreate:
			_, err := bp.taskRepo.Create(ctx, &task)
			return err
		case buffer.OperationUpdateLevels:
			_, err := bp.taskRepo.UpdateIntensityLevels(ctx, task.ID, task.UserID, task.IntensityLevels)
			return err
		case buffer.OperationDelete:
			return bp.taskRepo.Delete(ctx, task.ID, task.UserID)
		}

	case buffer.EntityActivity:
		if item.Operation != buffer.OperationIncrement {
			break
		}
		var entry domain.ActivityEntry
		if err := json.Unmarshal(item.Data, &entry); err != nil {
			return domain.WrapError(domain.ErrCodeInvalid, "corrupt buffered activity", err)
		}
		task, err := bp.taskRepo.GetByID(ctx, entry.TaskID)
		if err != nil {
			return err
		}
		if !task.OwnedBy(entry.UserID) {
			return domain.ErrTaskNotFound
		}
		_, err = bp.activityRepo.Increment(ctx, &entry)
		return err
	}
	return domain.NewError(domain.ErrCodeInvalid,
		fmt.Sprintf("unsupported buffer item %s/%s", item.Entity, item.Operation))
}
