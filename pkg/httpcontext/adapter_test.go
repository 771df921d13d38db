package httpcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appLogger "github.com/fastygo/streakmap/pkg/logger"
)

func TestAttach_PropagatesRequestMetadata(t *testing.T) {
	var reqCtx fasthttp.RequestCtx
	reqCtx.Request.Header.Set("X-Request-ID", "abc-123")
	reqCtx.Request.Header.SetUserAgent("heatmap-client")
	SetIdentity(&reqCtx, "user-1", "sess-1")

	ctx, cancel := NewAdapter(time.Second).Attach(&reqCtx)
	defer cancel()

	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
	assert.Equal(t, "abc-123", string(reqCtx.Response.Header.Peek("X-Request-ID")))
	assert.Equal(t, "heatmap-client", ctx.Value(KeyUserAgent))
	assert.Equal(t, "user-1", UserID(&reqCtx))
	assert.Equal(t, "sess-1", SessionID(&reqCtx))

	core, logs := observer.New(zap.InfoLevel)
	appLogger.FromContext(ctx, zap.New(core)).Info("hello")
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "abc-123", fields["request_id"])
	assert.Equal(t, "user-1", fields["user_id"])
}

func TestRequestID_GeneratedOncePerRequest(t *testing.T) {
	var reqCtx fasthttp.RequestCtx
	first := RequestID(&reqCtx)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, RequestID(&reqCtx))
}

func TestUserID_Anonymous(t *testing.T) {
	var reqCtx fasthttp.RequestCtx
	assert.Empty(t, UserID(&reqCtx))
	ctx, cancel := NewAdapter(0).Attach(&reqCtx)
	defer cancel()
	assert.NotEqual(t, context.Background(), ctx)
}
