package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/streakmap/domain"
	appLogger "github.com/fastygo/streakmap/pkg/logger"
	"github.com/fastygo/streakmap/repository"
)

// IdentityProvider runs an OAuth authorization code flow.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.Identity, error)
}

// TokenCodec converts sessions to and from cookie tokens.
type TokenCodec interface {
	Sign(session *domain.Session) (string, error)
	Verify(token string) (sessionID, userID string, err error)
}

// Login is the outcome of a completed OAuth callback.
type Login struct {
	User    *domain.User
	Session *domain.Session
	Token   string
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	states   repository.StateRepository
	provider IdentityProvider
	tokens   TokenCodec
	ttl      time.Duration
	logger   *zap.Logger
}

func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	states repository.StateRepository,
	provider IdentityProvider,
	tokens TokenCodec,
	ttl time.Duration,
	logger *zap.Logger,
) *UseCase {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		states:   states,
		provider: provider,
		tokens:   tokens,
		ttl:      ttl,
		logger:   logger,
	}
}

// BeginLogin stores a fresh state value and returns the provider consent URL.
func (uc *UseCase) BeginLogin(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := uc.states.Save(ctx, state); err != nil {
		return "", err
	}
	return uc.provider.AuthCodeURL(state), nil
}

// CompleteLogin validates the callback state, resolves the identity, upserts
// the user and opens a session.
func (uc *UseCase) CompleteLogin(ctx context.Context, state, code string) (*Login, error) {
	if err := uc.states.Consume(ctx, state); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.WrapError(domain.ErrCodeUnauthorized, "oauth state mismatch", err)
		}
		return nil, err
	}

	identity, err := uc.provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	user := &domain.User{}
	user.Apply(*identity)
	if err := uc.users.UpsertByGoogleID(ctx, user); err != nil {
		return nil, err
	}

	session, err := uc.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	token, err := uc.tokens.Sign(session)
	if err != nil {
		return nil, err
	}

	appLogger.FromContext(ctx, uc.logger).Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("provider", identity.Provider))
	return &Login{User: user, Session: session, Token: token}, nil
}

func (uc *UseCase) CreateSession(ctx context.Context, userID string) (*domain.Session, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Authenticate resolves a cookie token to a live session.
func (uc *UseCase) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	sessionID, userID, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}
