package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/teamboard/backend/api/transport"
	"github.com/teamboard/backend/domain"
	"github.com/teamboard/backend/internal/middleware"
	"github.com/teamboard/backend/pkg/httpcontext"
	authUC "github.com/teamboard/backend/usecase/auth"
	"github.com/teamboard/backend/usecase/coordinator"
)

type UserHandler struct {
	baseHandler
	coordinator *coordinator.Coordinator
}

func NewUserHandler(coord *coordinator.Coordinator, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		coordinator: coord,
	}
}

// @Summary List workspace users
// @Tags users
// @Router /api/v1/users [get]
func (h *UserHandler) List(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}
	workspaceID := string(ctx.Request.Header.Peek(middleware.HeaderWorkspaceID))
	if workspaceID == "" {
		h.respondInvalid(ctx, "missing workspace id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, err := h.coordinator.ListUsers(stdCtx, actorID, workspaceID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, users)
}

// @Summary Create a user
// @Tags users
// @Router /api/v1/users [post]
func (h *UserHandler) Create(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}

	var req transport.UserRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	if req.Username == "" || req.Password == "" {
		h.respondInvalid(ctx, "username and password are required")
		return
	}

	hash, err := authUC.HashPassword(req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         domain.Role(req.Role),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.coordinator.CreateUser(stdCtx, actorID, user)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update a user
// @Tags users
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) Update(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing user id")
		return
	}

	var req transport.UserRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	user := &domain.User{
		ID:       id,
		Username: req.Username,
		Role:     domain.Role(req.Role),
	}
	if req.Password != "" {
		hash, err := authUC.HashPassword(req.Password)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		user.PasswordHash = hash
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.coordinator.UpdateUser(stdCtx, actorID, user)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete a user
// @Tags users
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing user id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.coordinator.DeleteUser(stdCtx, actorID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Delete the current workspace
// @Tags workspace
// @Router /api/v1/workspace [delete]
func (h *UserHandler) DeleteWorkspace(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == "" {
		return
	}
	workspaceID := string(ctx.Request.Header.Peek(middleware.HeaderWorkspaceID))
	if workspaceID == "" {
		h.respondInvalid(ctx, "missing workspace id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.coordinator.DeleteWorkspace(stdCtx, actorID, workspaceID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
