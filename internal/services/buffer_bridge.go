package services

import (
	"context"
	"encoding/json"

	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/internal/infrastructure/buffer"
	"github.com/fastygo/streakmap/usecase"
)

// Replay order: creates, then level updates, then increments, then deletes.
var taskPriority = map[string]int{
	usecase.OperationCreate:       1,
	usecase.OperationUpdateLevels: 2,
	usecase.OperationDelete:       4,
}

const activityPriority = 3

type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if b.processor == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	priority, ok := taskPriority[operation]
	if !ok {
		return domain.NewError(domain.ErrCodeInvalid, "unsupported task operation "+operation)
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	item := buffer.Item{
		UserID:    task.UserID,
		Entity:    buffer.EntityTask,
		Operation: operation,
		Data:      payload,
		Priority:  priority,
	}
	return b.processor.BufferOperation(ctx, item)
}

func (b *BufferBridge) BufferActivity(ctx context.Context, entry *domain.ActivityEntry) error {
	if b.processor == nil || entry == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	item := buffer.Item{
		UserID:    entry.UserID,
		Entity:    buffer.EntityActivity,
		Operation: buffer.OperationIncrement,
		Data:      payload,
		Priority:  activityPriority,
	}
	return b.processor.BufferOperation(ctx, item)
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
