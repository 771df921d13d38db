package usecase

import (
	"context"
	"errors"

	"github.com/fastygo/streakmap/domain"
)

const (
	OperationCreate       = "create"
	OperationUpdateLevels = "update_levels"
	OperationDelete       = "delete"
	OperationIncrement    = "increment"
)

// OperationBuffer abstracts the buffer processor so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
	BufferActivity(ctx context.Context, entry *domain.ActivityEntry) error
}

// Bufferable reports whether a repository error is an outage worth buffering
// rather than a domain outcome such as not-found or forbidden.
func Bufferable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var dErr *domain.Error
	return !errors.As(err, &dErr)
}
