package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/service"
)

// ==================== BusinessController ====================

// BusinessController /api/businesses/
type BusinessController struct {
	businessService *service.BusinessService
	log             *zap.Logger
}

func NewBusinessController(businessService *service.BusinessService, log *zap.Logger) *BusinessController {
	return &BusinessController{businessService: businessService, log: log}
}

func (ctl *BusinessController) List(c *gin.Context) {
	list, err := ctl.businessService.List(c.Request.Context())
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

func (ctl *BusinessController) Create(c *gin.Context) {
	var req dto.BusinessPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := ctl.businessService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (ctl *BusinessController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.BusinessPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := ctl.businessService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (ctl *BusinessController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctl.businessService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
