package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"vehicle-registry/internal/domain"
	"vehicle-registry/internal/service"
	resp "vehicle-registry/internal/transport/http/response"
)

type RegistrationHandler struct {
	regs *service.RegistrationService
}

func NewRegistrationHandler(regs *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{regs: regs}
}

// Create POST /registrations：一次请求创建车辆 + 车主 + 登记。
// 请求体里的 userId 忽略，提交人以令牌为准。
func (h *RegistrationHandler) Create(c *gin.Context) {
	var in service.CreateRegistrationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeErr(c, resp.CodeBadRequest, err.Error())
		return
	}
	reg, err := h.regs.Create(c.GetString("userId"), &in)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	writeOK(c, reg)
}

// List GET /registrations?userOnly=true&status=PENDING&offset=0&limit=20
func (h *RegistrationHandler) List(c *gin.Context) {
	userOnly := c.Query("userOnly") == "true"
	status := domain.Status(c.Query("status"))
	offset := atoiDefault(c.Query("offset"), 0)
	limit := atoiDefault(c.Query("limit"), 20)

	items, total, err := h.regs.List(c.GetString("userId"), c.GetString("role"), userOnly, status, offset, limit)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	writeOK(c, gin.H{"list": items, "total": total})
}

// Get GET /registrations/:id：详情带嵌套 vehicle/owner/user。
func (h *RegistrationHandler) Get(c *gin.Context) {
	reg, err := h.regs.Get(c.Request.Context(), c.Param("id"), c.GetString("userId"), c.GetString("role"))
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	writeOK(c, reg)
}

// UpdateStatus PATCH /registrations/:id/status：管理员审核。
func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	var in service.UpdateStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeErr(c, resp.CodeBadRequest, err.Error())
		return
	}
	reg, err := h.regs.UpdateStatus(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	writeOK(c, reg)
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
