package handlers

import (
	"errors"
	"net/http"

	"equiptrack/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errCreateUser    = "failed to create user"
	errListUsers     = "failed to list users"
	errDeleteUser    = "failed to delete user"
	errResetPassword = "failed to reset password"
)

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"` // admin | scheduler | support; empty means support
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// @Summary      Create user
// @Description  Creates an account. Role defaults to support when omitted.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "Account data"
// @Success      201   {object}  models.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/admin/users [post]
// @Security     BearerAuth
func (h *Handler) createUser(c *gin.Context) {
	ctx := c.Request.Context()
	ident, ok := h.identityFrom(c)
	if !ok {
		return
	}
	var input createUserRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, err := h.services.Users.Create(ctx, ident, service.NewUserInput{
		Username: input.Username,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUsernameRequired),
			errors.Is(err, service.ErrPasswordRequired),
			errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errCreateUser, "user_create_failed", err, "username", input.Username)
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, users"
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/admin/users [get]
// @Security     BearerAuth
func (h *Handler) listUsers(c *gin.Context) {
	ctx := c.Request.Context()
	users, err := h.services.Users.List(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListUsers, "user_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(users),
		"users": users,
	})
}

// @Summary      Delete user
// @Description  Removes an account. The bootstrap admin account is refused. Test records kept by the account survive with the operator reference cleared.
// @Tags         admin
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/admin/users/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteUser(c *gin.Context) {
	ctx := c.Request.Context()
	ident, ok := h.identityFrom(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.services.Users.Delete(ctx, ident, id); err != nil {
		switch {
		case errors.Is(err, service.ErrProtectedUser):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errDeleteUser, "user_delete_failed", err, "user_id", id)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted, "id": id})
}

// @Summary      Reset user password
// @Description  Sets a new password for the account. The bootstrap admin account is refused.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "User ID"
// @Param        body  body      resetPasswordRequest  true  "New password"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/admin/users/{id}/password [put]
// @Security     BearerAuth
func (h *Handler) resetPassword(c *gin.Context) {
	ctx := c.Request.Context()
	ident, ok := h.identityFrom(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var input resetPasswordRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	if err := h.services.Users.ResetPassword(ctx, ident, id, input.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrProtectedUser):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrPasswordRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errResetPassword, "password_reset_failed", err, "user_id", id)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusPWReset, "id": id})
}
