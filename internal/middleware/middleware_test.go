package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/pkg/httpcontext"
)

type stubResolver struct {
	tokens map[string]domain.Session
	err    error
}

func (r stubResolver) Authenticate(_ context.Context, token string) (*domain.Session, error) {
	if r.err != nil {
		return nil, r.err
	}
	session, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return &session, nil
}

func echoUser(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBodyString(httpcontext.UserID(ctx) + "/" + httpcontext.SessionID(ctx))
}

func TestSessionAuth(t *testing.T) {
	resolver := stubResolver{tokens: map[string]domain.Session{"good": {ID: "s1", UserID: "u1"}}}
	handler := SessionAuth(resolver, "sid", nil, nil)(echoUser)

	tests := []struct {
		name   string
		setup  func(*fasthttp.Request)
		status int
		body   string
	}{
		{"no credentials", func(*fasthttp.Request) {}, http.StatusUnauthorized, ""},
		{"cookie", func(r *fasthttp.Request) { r.Header.SetCookie("sid", "good") }, http.StatusOK, "u1/s1"},
		{"bearer", func(r *fasthttp.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK, "u1/s1"},
		{"bad token", func(r *fasthttp.Request) { r.Header.SetCookie("sid", "forged") }, http.StatusUnauthorized, ""},
		{"non bearer header", func(r *fasthttp.Request) { r.Header.Set("Authorization", "good") }, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctx fasthttp.RequestCtx
			tt.setup(&ctx.Request)
			handler(&ctx)

			assert.Equal(t, tt.status, ctx.Response.StatusCode())
			if tt.body != "" {
				assert.Equal(t, tt.body, string(ctx.Response.Body()))
			} else {
				assert.Contains(t, string(ctx.Response.Body()), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}

func TestSessionAuth_StoreFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := SessionAuth(stubResolver{err: errors.New("redis down")}, "sid", nil, zap.New(core))(echoUser)

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetCookie("sid", "good")
	handler(&ctx)

	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	assert.Equal(t, 1, logs.FilterMessage("session lookup failed").Len())
}

func TestCORS(t *testing.T) {
	called := false
	handler := CORS("http://localhost:5173")(func(ctx *fasthttp.RequestCtx) { called = true })

	var preflight fasthttp.RequestCtx
	preflight.Request.Header.SetMethod(fasthttp.MethodOptions)
	handler(&preflight)
	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, preflight.Response.StatusCode())
	assert.Equal(t, "http://localhost:5173", string(preflight.Response.Header.Peek("Access-Control-Allow-Origin")))
	assert.Equal(t, "true", string(preflight.Response.Header.Peek("Access-Control-Allow-Credentials")))
	assert.NotEmpty(t, preflight.Response.Header.Peek("Access-Control-Allow-Methods"))

	var get fasthttp.RequestCtx
	handler(&get)
	assert.True(t, called)
	assert.Equal(t, "http://localhost:5173", string(get.Response.Header.Peek("Access-Control-Allow-Origin")))
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := Chain(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(http.StatusTeapot)
	}, AccessLog(zap.New(core)))

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/api/tasks")
	ctx.Request.Header.Set("X-Request-ID", "r-1")
	handler(&ctx)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/tasks", fields["path"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "r-1", string(ctx.Response.Header.Peek("X-Request-ID")))
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return func(ctx *fasthttp.RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}
	var ctx fasthttp.RequestCtx
	Chain(func(*fasthttp.RequestCtx) { order = append(order, "handler") }, mark("outer"), mark("inner"))(&ctx)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
