package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/teamboard/backend/api/transport"
	"github.com/teamboard/backend/internal/middleware"
	"github.com/teamboard/backend/pkg/httpcontext"
	authUC "github.com/teamboard/backend/usecase/auth"
	"github.com/teamboard/backend/usecase/coordinator"
)

type AuthHandler struct {
	baseHandler
	auth        *authUC.UseCase
	coordinator *coordinator.Coordinator
}

func NewAuthHandler(auth *authUC.UseCase, coord *coordinator.Coordinator, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		auth:        auth,
		coordinator: coord,
	}
}

// @Summary Register a workspace with its first Owner
// @Tags auth
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterWorkspaceRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	if req.WorkspaceName == "" || req.WorkspaceSlug == "" || req.OwnerUsername == "" || req.OwnerPassword == "" {
		h.respondInvalid(ctx, "workspace name, slug, owner username and password are required")
		return
	}

	hash, err := authUC.HashPassword(req.OwnerPassword)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ws, owner, err := h.coordinator.RegisterWorkspace(stdCtx, req.WorkspaceName, req.WorkspaceSlug, req.OwnerUsername, hash)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, map[string]interface{}{
		"workspace": ws,
		"owner":     owner,
	})
}

// @Summary Log in to a workspace
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	if req.WorkspaceSlug == "" || req.Username == "" || req.Password == "" {
		h.respondInvalid(ctx, "workspace slug, username and password are required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, token, err := h.auth.Login(stdCtx, req.WorkspaceSlug, req.Username, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"token":   token,
		"session": session,
	})
}

// @Summary Refresh the current session token
// @Tags auth
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	sessionID := string(ctx.Request.Header.Peek(middleware.HeaderSessionID))
	if sessionID == "" {
		h.respondInvalid(ctx, "missing session")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, token, err := h.auth.RefreshSession(stdCtx, sessionID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"token":   token,
		"session": session,
	})
}

// @Summary Log out and revoke the session
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	sessionID := string(ctx.Request.Header.Peek(middleware.HeaderSessionID))
	if sessionID == "" {
		h.respondInvalid(ctx, "missing session")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.auth.RevokeSession(stdCtx, sessionID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
