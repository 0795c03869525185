package handler

import (
	"net/http"
	"strconv"

	"github.com/gestio-app/gestio/internal/constants"
	"github.com/gestio-app/gestio/internal/dto"
	apperrors "github.com/gestio-app/gestio/internal/errors"
	"github.com/gestio-app/gestio/internal/service"
	ctxutil "github.com/gestio-app/gestio/pkg/context"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /users with page/limit/search query parameters.
func (h *UserHandler) List(c *gin.Context) {
	params := constants.ParsePaginationParams(c)
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "List")

	users, total, err := h.users.List(ctx, params.Page, params.Limit, params.Search)
	if err != nil {
		respondError(c, err)
		return
	}

	pageTotal := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	c.JSON(http.StatusOK, constants.BuildPageResponse(users, total, params.Page, pageTotal))
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Get")
	user, err := h.users.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{constants.ResponseFieldData: user})
}

// Update handles PUT /users/:id with a partial profile edit.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Update")
	user, err := h.users.Update(ctx, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		constants.ResponseFieldMessage: constants.MsgUpdated,
		constants.ResponseFieldData:    user,
	})
}

// UpdatePassword handles PUT /users/:id/password.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdatePassword")
	if err := h.users.UpdatePassword(ctx, id, req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgUpdated))
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Delete")
	if err := h.users.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, apperrors.ErrInvalidInput)
		return 0, false
	}
	return uint(id), true
}
