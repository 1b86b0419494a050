package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/service"
	"github.com/shobhit-APP/smart-agriculture-backend/pkg/response"
)

// AdminHandler handles admin-only account management requests
type AdminHandler struct {
	admin *service.UserAdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin *service.UserAdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return 0, false
	}
	return id, true
}

// ListUsers pages through accounts
// GET /api/v1/admin/users?limit=&offset=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.admin.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	out := make([]interface{}, 0, len(users))
	for _, u := range users {
		out = append(out, service.UserToResponse(u))
	}
	response.Success(c, out)
}

// GetUser returns one account
// GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	user, err := h.admin.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, service.UserToResponse(user))
}

// BlockUser blocks an account
// POST /api/v1/admin/users/:id/block
func (h *AdminHandler) BlockUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.admin.BlockUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "user blocked"})
}

// UnblockUser restores a blocked account
// POST /api/v1/admin/users/:id/unblock
func (h *AdminHandler) UnblockUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.admin.UnblockUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "user unblocked"})
}

// Blocklist returns the cache-side blocklist snapshot
// GET /api/v1/admin/blocklist
func (h *AdminHandler) Blocklist(c *gin.Context) {
	response.Success(c, h.admin.BlocklistSnapshot(c.Request.Context()))
}
