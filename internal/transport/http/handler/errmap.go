package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vehicle-registry/internal/repo"
	"vehicle-registry/internal/service"
	resp "vehicle-registry/internal/transport/http/response"
)

func writeOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, resp.OK(data))
}

func writeErr(c *gin.Context, code int, msg string) {
	c.JSON(resp.Status(code), resp.Error(code, msg))
}

// writeServiceErr 服务层错误到响应包络的唯一映射点。
// 校验错误带字段级信息原样透出；存储错误不再细分，按 500 透出。
func writeServiceErr(c *gin.Context, err error) {
	var fe service.FieldErrors
	switch {
	case errors.As(err, &fe):
		c.JSON(resp.Status(resp.CodeBadRequest), gin.H{
			"code":   resp.CodeBadRequest,
			"msg":    fe.Error(),
			"data":   struct{}{},
			"fields": fe,
		})
	case errors.Is(err, service.ErrUserNotFound):
		writeErr(c, resp.CodeNotFound, "user not found")
	case errors.Is(err, service.ErrRegistrationNotFound):
		writeErr(c, resp.CodeNotFound, "registration not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeErr(c, resp.CodeUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrEmailTaken):
		writeErr(c, resp.CodeBadRequest, "email already registered")
	case errors.Is(err, service.ErrStateConflict):
		writeErr(c, resp.CodeStateConflict, "registration is not pending")
	case repo.IsDupKey(err):
		writeErr(c, resp.CodeBadRequest, "duplicate record")
	default:
		writeErr(c, resp.CodeServerError, err.Error())
	}
}
