package handler

import (
	"github.com/gin-gonic/gin"

	"vehicle-registry/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Get GET /users/:id（密码散列不出网，见 domain.User 的 json tag）
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.users.Get(c.Param("id"))
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	writeOK(c, u)
}
