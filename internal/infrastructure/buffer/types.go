package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EntityTask     = "task"
	EntityActivity = "activity"

	OperationCreate       = "create"
	OperationUpdateLevels = "update_levels"
	OperationDelete       = "delete"
	OperationIncrement    = "increment"
)

// Item is a write that could not reach Postgres and waits to be replayed.
type Item struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	// EnqueuedAt is when the write was first buffered. Timestamp moves on
	// every requeue, EnqueuedAt never does.
	EnqueuedAt time.Time `json:"enqueued_at"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > 5 {
		i.Priority = 3
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
	if i.EnqueuedAt.IsZero() {
		i.EnqueuedAt = i.Timestamp
	}
}

func (i Item) enqueuedAt() time.Time {
	if i.EnqueuedAt.IsZero() {
		return i.Timestamp
	}
	return i.EnqueuedAt
}
