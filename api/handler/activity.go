package handler

import (
	"fmt"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/streakmap/api/transport"
	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/pkg/httpcontext"
	activityUC "github.com/fastygo/streakmap/usecase/activity"
)

type ActivityHandler struct {
	baseHandler
	uc *activityUC.UseCase
}

func NewActivityHandler(uc *activityUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Add to a day's counter
// @Tags activity
// @Router /api/activity [post]
func (h *ActivityHandler) Record(ctx *fasthttp.RequestCtx) {
	var req transport.RecordActivityRequest
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entry, err := h.uc.Record(stdCtx, h.userID(ctx), activityUC.RecordInput{
		TaskID:   req.TaskID,
		Date:     req.Date,
		Count:    *req.Count,
		Metadata: req.Metadata,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, entry)
}

// @Summary Heatmap of one task
// @Tags activity
// @Param days query int false "trailing window length"
// @Router /api/activity/task/{taskId} [get]
func (h *ActivityHandler) TaskHeatmap(ctx *fasthttp.RequestCtx) {
	days, err := h.days(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	view, err := h.uc.TaskHeatmap(stdCtx, h.userID(ctx), pathParam(ctx, "taskId"), days)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

// @Summary Heatmaps of all tasks
// @Tags activity
// @Router /api/activity/overview [get]
func (h *ActivityHandler) Overview(ctx *fasthttp.RequestCtx) {
	days, err := h.days(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	views, err := h.uc.Overview(stdCtx, h.userID(ctx), days)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	window := days
	if window == 0 {
		window = h.uc.WindowDays()
	}
	h.respondList(ctx, views, transport.ListMeta{Count: len(views), WindowDays: window})
}

// @Summary Streaks per task
// @Tags activity
// @Router /api/activity/streaks [get]
func (h *ActivityHandler) Streaks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	streaks, err := h.uc.Streaks(stdCtx, h.userID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"streaks": streaks})
}

// days reads the optional days query parameter. Absent means the full window.
func (h *ActivityHandler) days(ctx *fasthttp.RequestCtx) (int, error) {
	args := ctx.QueryArgs()
	if !args.Has("days") {
		return 0, nil
	}
	days, err := args.GetUint("days")
	if err != nil || days == 0 {
		return 0, domain.NewError(domain.ErrCodeInvalid,
			fmt.Sprintf("days must be between 1 and %d", h.uc.WindowDays()))
	}
	return days, nil
}
