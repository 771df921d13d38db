package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/streakmap/pkg/httpcontext"
	authUC "github.com/fastygo/streakmap/usecase/auth"
)

// CookieConfig describes the session cookie set after login.
type CookieConfig struct {
	Name string
	// Secure cookies are sent with SameSite=None so a client on another
	// origin can use them; otherwise SameSite=Lax is used.
	Secure bool
}

type AuthHandler struct {
	baseHandler
	uc        *authUC.UseCase
	cookie    CookieConfig
	clientURL string
}

func NewAuthHandler(uc *authUC.UseCase, cookie CookieConfig, clientURL string, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		cookie:      cookie,
		clientURL:   clientURL,
	}
}

// @Summary Start Google sign-in
// @Tags auth
// @Router /auth/google [get]
func (h *AuthHandler) GoogleLogin(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	url, err := h.uc.BeginLogin(stdCtx)
	if err != nil {
		h.log(stdCtx).Error("failed to start oauth login", zap.Error(err))
		h.failLogin(ctx)
		return
	}
	redirect(ctx, url)
}

// @Summary Google sign-in callback
// @Tags auth
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	args := ctx.QueryArgs()
	if reason := args.Peek("error"); len(reason) > 0 {
		h.log(stdCtx).Warn("oauth consent denied", zap.ByteString("reason", reason))
		h.failLogin(ctx)
		return
	}

	login, err := h.uc.CompleteLogin(stdCtx, string(args.Peek("state")), string(args.Peek("code")))
	if err != nil {
		h.log(stdCtx).Warn("oauth callback failed", zap.Error(err))
		h.failLogin(ctx)
		return
	}

	h.setCookie(ctx, login.Token, login.Session.ExpiresAt)
	redirect(ctx, h.clientURL)
}

// @Summary End the current session
// @Tags auth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, httpcontext.SessionID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.setCookie(ctx, "", time.Unix(0, 0))
	ctx.SetStatusCode(http.StatusNoContent)
}

func (h *AuthHandler) failLogin(ctx *fasthttp.RequestCtx) {
	redirect(ctx, h.clientURL+"/login?error=oauth")
}

// redirect sets Location verbatim; fasthttp's ctx.Redirect would normalize it.
func redirect(ctx *fasthttp.RequestCtx, location string) {
	ctx.Response.Header.Set("Location", location)
	ctx.SetStatusCode(http.StatusFound)
}

func (h *AuthHandler) setCookie(ctx *fasthttp.RequestCtx, value string, expires time.Time) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(h.cookie.Name)
	cookie.SetValue(value)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetExpire(expires)
	cookie.SetSecure(h.cookie.Secure)
	if h.cookie.Secure {
		cookie.SetSameSite(fasthttp.CookieSameSiteNoneMode)
	} else {
		cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	}
	ctx.Response.Header.SetCookie(cookie)
}
