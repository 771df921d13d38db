package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

// GetProfile returns the signed-in user. A session whose user has since
// been removed is treated as unauthenticated.
func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.WrapError(domain.ErrCodeUnauthorized, "session user no longer exists", err)
		}
		return nil, err
	}
	return user, nil
}
