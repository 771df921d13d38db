package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/streakmap/api/transport"
	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/pkg/httpcontext"
	"github.com/fastygo/streakmap/repository"
	activityUC "github.com/fastygo/streakmap/usecase/activity"
	taskUC "github.com/fastygo/streakmap/usecase/task"
)

type TaskHandler struct {
	baseHandler
	tasks    *taskUC.UseCase
	activity *activityUC.UseCase
}

func NewTaskHandler(tasks *taskUC.UseCase, activity *activityUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tasks:       tasks,
		activity:    activity,
	}
}

// @Summary List tasks
// @Tags tasks
// @Param includeHeatmap query bool false "attach heatmap and summary to each task"
// @Param limit query int false "page size, at most 100; all tasks when omitted"
// @Param offset query int false "tasks to skip"
// @Router /api/tasks [get]
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if ctx.QueryArgs().GetBool("includeHeatmap") {
		views, err := h.activity.Overview(stdCtx, h.userID(ctx), 0)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		h.respondList(ctx, views, transport.ListMeta{Count: len(views), WindowDays: h.activity.WindowDays()})
		return
	}

	filter, err := pageFilter(ctx, h.userID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	tasks, err := h.tasks.ListTasks(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, tasks, transport.ListMeta{Count: len(tasks)})
}

// @Summary Create task
// @Tags tasks
// @Router /api/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.CreateTaskRequest
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.tasks.CreateTask(stdCtx, &domain.Task{
		UserID:          h.userID(ctx),
		Name:            req.Name,
		Description:     req.Description,
		IntensityLevels: req.IntensityLevels,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Task with heatmap
// @Tags tasks
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	view, err := h.activity.TaskHeatmap(stdCtx, h.userID(ctx), pathParam(ctx, "id"), 0)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

// @Summary Replace intensity levels
// @Tags tasks
// @Router /api/tasks/{id}/intensity [put]
func (h *TaskHandler) UpdateIntensity(ctx *fasthttp.RequestCtx) {
	var req transport.UpdateIntensityRequest
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.tasks.UpdateIntensityLevels(stdCtx, h.userID(ctx), pathParam(ctx, "id"), req.IntensityLevels)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task and its activity
// @Tags tasks
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.tasks.DeleteTask(stdCtx, h.userID(ctx), pathParam(ctx, "id")); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

func pageFilter(ctx *fasthttp.RequestCtx, userID string) (repository.TaskFilter, error) {
	filter := repository.TaskFilter{UserID: userID}
	args := ctx.QueryArgs()
	if args.Has("limit") {
		limit, err := args.GetUint("limit")
		if err != nil || limit == 0 {
			return filter, domain.NewError(domain.ErrCodeInvalid, "limit must be a positive integer")
		}
		filter.Limit = limit
	}
	if args.Has("offset") {
		offset, err := args.GetUint("offset")
		if err != nil {
			return filter, domain.NewError(domain.ErrCodeInvalid, "offset must be a non-negative integer")
		}
		filter.Offset = offset
	}
	return filter, nil
}
