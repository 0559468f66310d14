package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/service"
)

// ==================== UserController ====================

// UserController /api/users/
type UserController struct {
	userService *service.UserService
	log         *zap.Logger
}

// NewUserController creates the user controller
func NewUserController(userService *service.UserService, log *zap.Logger) *UserController {
	return &UserController{userService: userService, log: log}
}

// List GET /api/users/
func (ctl *UserController) List(c *gin.Context) {
	list, err := ctl.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

// Create POST /api/users/
func (ctl *UserController) Create(c *gin.Context) {
	var req dto.UserPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, err := ctl.userService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// Update PUT /api/users/:id/
func (ctl *UserController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UserPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, err := ctl.userService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Delete DELETE /api/users/:id/
func (ctl *UserController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctl.userService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
