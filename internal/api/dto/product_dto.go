package dto

import "marketadmin/internal/model"

// ==================== Product ====================

// ProductPayload create/update body for products.
// Business is always the caller's own business; the console never lets a draft choose it.
type ProductPayload struct {
	Name        string              `json:"name" binding:"required,max=255"`
	Description string              `json:"description" binding:"required"`
	Price       string              `json:"price" binding:"required"`
	Status      model.ProductStatus `json:"status" binding:"omitempty,oneof=draft pending_approval approved"`
	Business    int64               `json:"business,omitempty"`
}
