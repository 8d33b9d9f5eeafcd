package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/junaydb/kanban-board/api/transport"
	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/pkg/httpcontext"
	boardUC "github.com/junaydb/kanban-board/usecase/board"
)

type BoardHandler struct {
	baseHandler
	uc *boardUC.UseCase
}

func NewBoardHandler(uc *boardUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List the caller's boards
// @Tags boards
// @Router /api/v1/boards [get]
func (h *BoardHandler) ListBoards(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	boards, err := h.uc.ListBoards(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, boards)
}

// @Summary Create board
// @Tags boards
// @Router /api/v1/boards [post]
func (h *BoardHandler) CreateBoard(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.BoardCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateBoard(stdCtx, &domain.Board{UserID: userID, Title: req.Title})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Get a single board
// @Tags boards
// @Router /api/v1/boards/{boardId} [get]
func (h *BoardHandler) GetBoard(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, boardID, ok := h.ownedBoard(ctx)
	if !ok {
		return
	}
	defer cancel()

	board, err := h.uc.GetBoard(stdCtx, boardID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, board)
}

// @Summary Rename board
// @Tags boards
// @Router /api/v1/boards/{boardId}/title [patch]
func (h *BoardHandler) RenameBoard(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, boardID, ok := h.ownedBoard(ctx)
	if !ok {
		return
	}
	defer cancel()

	var req transport.BoardRenameRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	result, err := h.uc.Rename(stdCtx, boardID, req.Title)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(result.Board, transport.RenameMeta{Renamed: result.Renamed}))
}

// @Summary Delete board and everything on it
// @Tags boards
// @Router /api/v1/boards/{boardId} [delete]
func (h *BoardHandler) DeleteBoard(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, boardID, ok := h.ownedBoard(ctx)
	if !ok {
		return
	}
	defer cancel()

	if err := h.uc.DeleteBoard(stdCtx, boardID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *BoardHandler) ownedBoard(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc, int64, bool) {
	userID := h.userID(ctx)
	if userID == "" {
		return nil, nil, 0, false
	}
	boardID, idOK := h.pathID(ctx, "boardId")
	if !idOK {
		return nil, nil, 0, false
	}

	stdCtx, cancelFn := h.requestContext(ctx)
	if err := h.uc.VerifyOwnership(stdCtx, boardID, userID); err != nil {
		cancelFn()
		h.respondError(ctx, err)
		return nil, nil, 0, false
	}
	return stdCtx, cancelFn, boardID, true
}
