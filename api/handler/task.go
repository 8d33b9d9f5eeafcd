package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/junaydb/kanban-board/api/transport"
	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/pagination"
	"github.com/junaydb/kanban-board/pkg/httpcontext"
	boardUC "github.com/junaydb/kanban-board/usecase/board"
	taskUC "github.com/junaydb/kanban-board/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc     *taskUC.UseCase
	boards *boardUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, boards *boardUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		boards:      boards,
	}
}

// @Summary Get one page of a board column
// @Tags tasks
// @Router /api/v1/boards/{boardId}/tasks/page [get]
func (h *TaskHandler) GetPage(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, boardID, ok := h.boardScope(ctx)
	if !ok {
		return
	}
	defer cancel()

	status, err := domain.ParseStatus(string(ctx.QueryArgs().Peek("status")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	sortBy, sortOrder, ok := h.parseSort(ctx)
	if !ok {
		return
	}

	page, err := h.uc.GetPage(stdCtx, taskUC.PageQuery{
		BoardID:  boardID,
		Status:   status,
		SortBy:   sortBy,
		Order:    sortOrder,
		PageSize: parseInt(string(ctx.QueryArgs().Peek("pageSize")), 0),
		Cursor:   string(ctx.QueryArgs().Peek("cursor")),
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(page.Tasks, transport.CursorMeta{Cursor: page.NextCursor}))
}

// @Summary List every task of a board grouped by status
// @Tags tasks
// @Router /api/v1/boards/{boardId}/tasks [get]
func (h *TaskHandler) GetAllGrouped(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, boardID, ok := h.boardScope(ctx)
	if !ok {
		return
	}
	defer cancel()

	sortBy, sortOrder, ok := h.parseSort(ctx)
	if !ok {
		return
	}

	grouped, err := h.uc.GetAllGrouped(stdCtx, boardID, sortBy, sortOrder)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, grouped)
}

// @Summary Count tasks on a board
// @Tags tasks
// @Router /api/v1/boards/{boardId}/tasks/count [get]
func (h *TaskHandler) GetCount(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, boardID, ok := h.boardScope(ctx)
	if !ok {
		return
	}
	defer cancel()

	var status *domain.TaskStatus
	if raw := string(ctx.QueryArgs().Peek("status")); raw != "" {
		parsed, err := domain.ParseStatus(raw)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		status = &parsed
	}

	count, err := h.uc.Count(stdCtx, boardID, status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int64{"count": count})
}

// @Summary Search board tasks by title prefix
// @Tags tasks
// @Router /api/v1/boards/{boardId}/tasks/search [get]
func (h *TaskHandler) Search(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, boardID, ok := h.boardScope(ctx)
	if !ok {
		return
	}
	defer cancel()

	tasks, err := h.uc.Search(stdCtx, boardID, string(ctx.QueryArgs().Peek("q")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Get a single task
// @Tags tasks
// @Router /api/v1/boards/{boardId}/tasks/{taskId} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, boardID, ok := h.boardScope(ctx)
	if !ok {
		return
	}
	defer cancel()

	taskID, ok := h.pathID(ctx, "taskId")
	if !ok {
		return
	}

	task, err := h.uc.GetTask(stdCtx, boardID, taskID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/boards/{boardId}/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, boardID, ok := h.boardScope(ctx)
	if !ok {
		return
	}
	defer cancel()

	task, ok := h.parseTask(ctx, boardID)
	if !ok {
		return
	}

	created, err := h.uc.CreateTask(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task status
// @Tags tasks
// @Router /api/v1/boards/{boardId}/tasks/{taskId}/status [patch]
func (h *TaskHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, boardID, ok := h.boardScope(ctx)
	if !ok {
		return
	}
	defer cancel()

	taskID, ok := h.pathID(ctx, "taskId")
	if !ok {
		return
	}

	var req transport.StatusUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	status, err := domain.ParseStatus(req.NewStatus)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	updated, err := h.uc.UpdateStatus(stdCtx, boardID, taskID, status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]domain.TaskStatus{"new_status": updated})
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/boards/{boardId}/tasks/{taskId} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, boardID, ok := h.boardScope(ctx)
	if !ok {
		return
	}
	defer cancel()

	taskID, ok := h.pathID(ctx, "taskId")
	if !ok {
		return
	}

	deleted, err := h.uc.DeleteTask(stdCtx, boardID, taskID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, deleted)
}

// @Summary Replace the board's drag order
// @Tags tasks
// @Router /api/v1/boards/{boardId}/positions [put]
func (h *TaskHandler) UpdatePositions(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, boardID, ok := h.boardScope(ctx)
	if !ok {
		return
	}
	defer cancel()

	var req transport.PositionsUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	err := h.uc.UpdatePositions(stdCtx, &domain.TaskPositions{
		BoardID:       boardID,
		TodoPos:       req.TodoPos,
		InProgressPos: req.InProgressPos,
		DonePos:       req.DonePos,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// boardScope authenticates the caller, parses the board path id, and checks
// board ownership before any task operation runs.
func (h *TaskHandler) boardScope(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc, int64, bool) {
	userID := h.userID(ctx)
	if userID == "" {
		return nil, nil, 0, false
	}
	boardID, ok := h.pathID(ctx, "boardId")
	if !ok {
		return nil, nil, 0, false
	}

	stdCtx, cancel := h.requestContext(ctx)
	if err := h.boards.VerifyOwnership(stdCtx, boardID, userID); err != nil {
		cancel()
		h.respondError(ctx, err)
		return nil, nil, 0, false
	}
	return stdCtx, cancel, boardID, true
}

func (h *TaskHandler) parseSort(ctx *fasthttp.RequestCtx) (pagination.SortBy, pagination.SortOrder, bool) {
	sortBy, err := pagination.ParseSortBy(string(ctx.QueryArgs().Peek("sortBy")))
	if err != nil {
		h.respondError(ctx, err)
		return "", "", false
	}
	sortOrder, err := pagination.ParseSortOrder(string(ctx.QueryArgs().Peek("sortOrder")))
	if err != nil {
		h.respondError(ctx, err)
		return "", "", false
	}
	return sortBy, sortOrder, true
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx, boardID int64) (*domain.Task, bool) {
	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	due, ok := h.parseTime(ctx, req.DueDate, "due_date")
	if !ok {
		return nil, false
	}
	dueTime, ok := h.parseTime(ctx, req.DueTime, "due_time")
	if !ok {
		return nil, false
	}

	return &domain.Task{
		BoardID:     boardID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		DueDate:     due,
		DueTime:     dueTime,
	}, true
}

func (h *TaskHandler) parseTime(ctx *fasthttp.RequestCtx, value, field string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		h.respondInvalid(ctx, "invalid "+field)
		return nil, false
	}
	return &parsed, true
}
