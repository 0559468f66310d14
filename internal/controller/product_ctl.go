package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/model"
	"marketadmin/internal/service"
)

// ==================== ProductController ====================

// ProductController /api/products/
type ProductController struct {
	productService *service.ProductService
	log            *zap.Logger
}

// NewProductController creates the product controller
func NewProductController(productService *service.ProductService, log *zap.Logger) *ProductController {
	return &ProductController{productService: productService, log: log}
}

// ListPublic GET /api/products/public/
func (ctl *ProductController) ListPublic(c *gin.Context) {
	list, err := ctl.productService.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

// List GET /api/products/
func (ctl *ProductController) List(c *gin.Context) {
	list, err := ctl.productService.List(c.Request.Context())
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

// Create POST /api/products/
func (ctl *ProductController) Create(c *gin.Context) {
	var req dto.ProductPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := ctl.productService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update PUT /api/products/:id/
func (ctl *ProductController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.ProductPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := ctl.productService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete DELETE /api/products/:id/
func (ctl *ProductController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctl.productService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Approve POST /api/products/:id/approve/
func (ctl *ProductController) Approve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := ctl.productService.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	ctl.log.Info("product approved", zap.Int64("product_id", id))
	c.JSON(http.StatusOK, p)
}

// nonNil lists serialize as [] rather than null
func nonNil[T model.Record](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
