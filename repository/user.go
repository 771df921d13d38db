package repository

import (
	"context"

	"github.com/fastygo/streakmap/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	// UpsertByGoogleID creates the user on first login and refreshes the
	// profile fields afterwards. ID and timestamps are filled in on return.
	UpsertByGoogleID(ctx context.Context, user *domain.User) error
}
