package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/streakmap/api/transport"
	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/pkg/httpcontext"
)

// SessionResolver turns a session token into a live session.
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// SessionAuth rejects requests without a valid session. The token is read
// from the session cookie, or from a Bearer Authorization header.
func SessionAuth(resolver SessionResolver, cookieName string, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			token := extractToken(ctx, cookieName)
			if token == "" {
				unauthorized(ctx)
				return
			}

			stdCtx, cancel := adapter.Attach(ctx)
			session, err := resolver.Authenticate(stdCtx, token)
			cancel()
			if err != nil {
				if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					logger.Error("session lookup failed",
						zap.String("request_id", httpcontext.RequestID(ctx)),
						zap.Error(err))
				} else {
					logger.Debug("rejected session token", zap.Error(err))
				}
				unauthorized(ctx)
				return
			}

			httpcontext.SetIdentity(ctx, session.UserID, session.ID)
			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx) {
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), domain.ErrUnauthorized.Message, nil))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusUnauthorized)
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx, cookieName string) string {
	if cookieName != "" {
		if cookie := ctx.Request.Header.Cookie(cookieName); len(cookie) > 0 {
			return string(cookie)
		}
	}
	header := string(ctx.Request.Header.Peek("Authorization"))
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
