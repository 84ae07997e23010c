package handler

import (
	"github.com/gin-gonic/gin"

	"vehicle-registry/internal/service"
)

// AdminHandler 后台端用户管理；登记审核复用 RegistrationHandler。
type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsers GET /users?offset=0&limit=20&q=ahmed（按 email/姓名模糊搜）
func (h *AdminHandler) ListUsers(c *gin.Context) {
	offset := atoiDefault(c.Query("offset"), 0)
	limit := atoiDefault(c.Query("limit"), 20)
	items, total, err := h.users.List(offset, limit, c.Query("q"))
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	writeOK(c, gin.H{"items": items, "total": total})
}

// BanUser POST /users/:id/ban（软删）
func (h *AdminHandler) BanUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.users.Ban(id); err != nil {
		writeServiceErr(c, err)
		return
	}
	writeOK(c, gin.H{"id": id})
}
