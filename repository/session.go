package repository

import (
	"context"

	"github.com/fastygo/streakmap/domain"
)

// SessionRepository stores login sessions until they expire.
type SessionRepository interface {
	// Get reports domain.ErrSessionNotFound for unknown and expired sessions.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}

// StateRepository keeps one-time OAuth state values between the redirect and the callback.
type StateRepository interface {
	Save(ctx context.Context, state string) error
	// Consume deletes the state and reports domain.ErrStateNotFound when it was unknown or expired.
	Consume(ctx context.Context, state string) error
}
