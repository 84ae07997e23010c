package handler

import (
	"github.com/gin-gonic/gin"

	"vehicle-registry/internal/core/auth"
	"vehicle-registry/internal/service"
	resp "vehicle-registry/internal/transport/http/response"
)

type AuthHandler struct {
	users *service.UserService
	jwter *auth.JWTer
}

func NewAuthHandler(users *service.UserService, jwter *auth.JWTer) *AuthHandler {
	return &AuthHandler{users: users, jwter: jwter}
}

// Register POST /auth/register：开通市民账号，直接发令牌省一次登录。
func (h *AuthHandler) Register(c *gin.Context) {
	var in service.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeErr(c, resp.CodeBadRequest, err.Error())
		return
	}
	u, err := h.users.Register(&in)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	tok, err := h.jwter.Issue(u.ID, u.Role)
	if err != nil {
		writeErr(c, resp.CodeServerError, "issue token failed")
		return
	}
	writeOK(c, gin.H{"user": u, "accessToken": tok})
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in service.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeErr(c, resp.CodeBadRequest, err.Error())
		return
	}
	u, err := h.users.Login(&in)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	tok, err := h.jwter.Issue(u.ID, u.Role)
	if err != nil {
		writeErr(c, resp.CodeServerError, "issue token failed")
		return
	}
	writeOK(c, gin.H{"user": u, "accessToken": tok})
}

// Me GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.users.Get(c.GetString("userId"))
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	writeOK(c, u)
}

// UpdateMe PATCH /me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var in service.UpdateProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeErr(c, resp.CodeBadRequest, err.Error())
		return
	}
	u, err := h.users.UpdateProfile(c.GetString("userId"), &in)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	writeOK(c, u)
}
