package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/internal/middleware"
	"github.com/taskdeck/backend/pkg/httpcontext"
	taskUC "github.com/taskdeck/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks with pagination, search and sort
// @Tags tasks
// @Router /api/tasks [get]
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	filter, err := transport.BuildTaskFilter(ctx.QueryArgs(), middleware.UserID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, total, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	h.respondPaginated(ctx, tasks, transport.Pagination{
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})
}

// @Summary Fetch a single task
// @Tags tasks
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, id, middleware.UserID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, "", task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.CreateTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("Invalid payload"))
		return
	}

	endDate, err := parseDate(req.EndDate)
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("Invalid end date"))
		return
	}

	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		EndDate:     endDate,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, task, middleware.UserID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, "Task created successfully", created)
}

// @Summary Partially update a task
// @Tags tasks
// @Router /api/tasks/{id} [patch]
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	// A zero-byte body means "update nothing", same as {}.
	var req transport.UpdateTaskRequest
	if raw := ctx.PostBody(); len(raw) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("Invalid payload"))
			return
		}
	}

	input := taskUC.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		input.Priority = &priority
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("Invalid end date"))
			return
		}
		input.EndDate = &endDate
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, id, middleware.UserID(ctx), input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, "Task updated successfully", updated)
}

// @Summary Delete a task
// @Tags tasks
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id, middleware.UserID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, "Task deleted successfully", nil)
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("Missing task id"))
		return "", false
	}
	return id, true
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}
