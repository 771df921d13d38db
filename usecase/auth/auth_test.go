package auth

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/internal/session"
	"github.com/fastygo/streakmap/repository/memory"
)

type fakeProvider struct {
	identity *domain.Identity
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*domain.Identity, error) {
	if code != "valid" {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "bad code")
	}
	return p.identity, nil
}

func newUseCase(t *testing.T) (*UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	provider := &fakeProvider{identity: &domain.Identity{Provider: "google", Subject: "g-42", Name: "Grace", Email: "grace@example.com"}}
	uc := New(store.Users(), store.Sessions(), store.States(), provider, session.NewTokens("secret", "test"), time.Hour, nil)
	return uc, store
}

func stateFrom(t *testing.T, redirect string) string {
	t.Helper()
	parsed, err := url.Parse(redirect)
	require.NoError(t, err)
	return parsed.Query().Get("state")
}

func TestLoginFlow(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t)

	redirect, err := uc.BeginLogin(ctx)
	require.NoError(t, err)
	state := stateFrom(t, redirect)
	require.NotEmpty(t, state)

	login, err := uc.CompleteLogin(ctx, state, "valid")
	require.NoError(t, err)
	assert.Equal(t, "g-42", login.User.GoogleID)
	assert.Equal(t, "Grace", login.User.Name)
	assert.NotEmpty(t, login.Token)

	user, err := store.Users().GetByGoogleID(ctx, "g-42")
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, user.ID)

	resolved, err := uc.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, login.Session.ID, resolved.ID)
	assert.Equal(t, user.ID, resolved.UserID)

	// The state is single use.
	_, err = uc.CompleteLogin(ctx, state, "valid")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestCompleteLogin_RepeatLoginKeepsUser(t *testing.T) {
	uc, _ := newUseCase(t)

	first := login(t, uc)
	second := login(t, uc)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.NotEqual(t, first.Session.ID, second.Session.ID)
}

func TestCompleteLogin_RejectsUnknownStateAndBadCode(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	_, err := uc.CompleteLogin(ctx, "forged", "valid")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))

	redirect, err := uc.BeginLogin(ctx)
	require.NoError(t, err)
	_, err = uc.CompleteLogin(ctx, stateFrom(t, redirect), "invalid")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestAuthenticate_AfterLogout(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)
	l := login(t, uc)

	require.NoError(t, uc.Logout(ctx, l.Session.ID))

	_, err := uc.Authenticate(ctx, l.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticate_RejectsGarbage(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Authenticate(context.Background(), "not-a-token")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func login(t *testing.T, uc *UseCase) *Login {
	t.Helper()
	ctx := context.Background()
	redirect, err := uc.BeginLogin(ctx)
	require.NoError(t, err)
	l, err := uc.CompleteLogin(ctx, stateFrom(t, redirect), "valid")
	require.NoError(t, err)
	return l
}
