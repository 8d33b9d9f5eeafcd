package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/junaydb/kanban-board/api/transport"
	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/pkg/httpcontext"
	authUC "github.com/junaydb/kanban-board/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc         *authUC.UseCase
	defaultTTL time.Duration
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, defaultTTL time.Duration) *AuthHandler {
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		defaultTTL:  defaultTTL,
	}
}

type sessionResponse struct {
	Session *domain.Session `json:"session"`
	Token   string          `json:"token"`
}

// @Summary Open a session for an OAuth-verified identity
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	if req.UserID == "" {
		h.respondInvalid(ctx, "missing user id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, token, err := h.uc.Login(stdCtx, &domain.User{
		ID:       req.UserID,
		Username: req.Username,
		Email:    req.Email,
	}, h.ttl(req.TTL))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, sessionResponse{Session: session, Token: token})
}

// @Summary Extend a live session
// @Tags auth
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	var req transport.RefreshRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	if req.SessionID == "" {
		h.respondInvalid(ctx, "missing session id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, token, err := h.uc.Refresh(stdCtx, req.SessionID, h.ttl(req.TTL))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, sessionResponse{Session: session, Token: token})
}

func (h *AuthHandler) ttl(seconds int) time.Duration {
	if seconds <= 0 {
		return h.defaultTTL
	}
	return time.Duration(seconds) * time.Second
}
