package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/service"
)

// ==================== AuthController ====================

// AuthController login and current-user endpoints
type AuthController struct {
	authService *service.AuthService
	log         *zap.Logger
}

// NewAuthController creates the auth controller
func NewAuthController(authService *service.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{authService: authService, log: log}
}

// Login POST /api/login/
func (ctl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := ctl.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}

	ctl.log.Info("login", zap.String("username", req.Username))
	c.JSON(http.StatusOK, resp)
}

// Me GET /api/me/
func (ctl *AuthController) Me(c *gin.Context) {
	me, err := ctl.authService.Me(c.Request.Context())
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, me)
}
