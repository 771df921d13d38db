package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/internal/config"
)

func newTestProvider(t *testing.T, profile string, profileStatus int) *GoogleProvider {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(profileStatus)
		_, _ = w.Write([]byte(profile))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return newGoogleProvider(&oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, srv.URL+"/userinfo")
}

func TestGoogleProvider_Exchange(t *testing.T) {
	p := newTestProvider(t, `{"sub":"g-1","name":"Ada","email":"ada@example.com","picture":"https://img/ada.png"}`, http.StatusOK)

	identity, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, &domain.Identity{
		Provider:  ProviderGoogle,
		Subject:   "g-1",
		Name:      "Ada",
		Email:     "ada@example.com",
		AvatarURL: "https://img/ada.png",
	}, identity)
}

func TestGoogleProvider_ExchangeRejectsBadCode(t *testing.T) {
	p := newTestProvider(t, `{}`, http.StatusOK)

	_, err := p.Exchange(context.Background(), "bad-code")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))

	_, err = p.Exchange(context.Background(), "")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestGoogleProvider_ExchangeProfileErrors(t *testing.T) {
	p := newTestProvider(t, `{"name":"no subject"}`, http.StatusOK)
	_, err := p.Exchange(context.Background(), "good-code")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))

	p = newTestProvider(t, `oops`, http.StatusInternalServerError)
	_, err = p.Exchange(context.Background(), "good-code")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestNewGoogle_AuthCodeURL(t *testing.T) {
	p := NewGoogle(config.GoogleConfig{ClientID: "cid", ClientSecret: "sec", CallbackURL: "http://localhost:4000/auth/google/callback"})

	parsed, err := url.Parse(p.AuthCodeURL("state-xyz"))
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "accounts.google.com", parsed.Host)
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "state-xyz", q.Get("state"))
	assert.Equal(t, "http://localhost:4000/auth/google/callback", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "email")
}
