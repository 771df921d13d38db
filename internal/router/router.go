package router

import (
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/streakmap/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Profile  *apiHandler.ProfileHandler
	Task     *apiHandler.TaskHandler
	Activity *apiHandler.ActivityHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, logger *zap.Logger) *router.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := router.New()
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, recovered interface{}) {
		logger.Error("handler panic", zap.Any("panic", recovered), zap.ByteString("path", ctx.Path()))
		ctx.Error(`{"status":"error","code":"INTERNAL","error":"internal server error"}`, http.StatusInternalServerError)
		ctx.Response.Header.SetContentType("application/json")
	}

	r.GET("/health", handlers.Health.Check)

	// OAuth routes
	r.GET("/auth/google", handlers.Auth.GoogleLogin)
	r.GET("/auth/google/callback", handlers.Auth.GoogleCallback)
	r.POST("/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Protected routes
	api := r.Group("/api")
	api.GET("/user/me", authMiddleware(handlers.Profile.Me))

	api.GET("/tasks", authMiddleware(handlers.Task.List))
	api.POST("/tasks", authMiddleware(handlers.Task.Create))
	api.GET("/tasks/{id}", authMiddleware(handlers.Task.Get))
	api.PUT("/tasks/{id}/intensity", authMiddleware(handlers.Task.UpdateIntensity))
	api.DELETE("/tasks/{id}", authMiddleware(handlers.Task.Delete))

	api.POST("/activity", authMiddleware(handlers.Activity.Record))
	api.GET("/activity/task/{taskId}", authMiddleware(handlers.Activity.TaskHeatmap))
	api.GET("/activity/overview", authMiddleware(handlers.Activity.Overview))
	api.GET("/activity/streaks", authMiddleware(handlers.Activity.Streaks))

	return r
}
