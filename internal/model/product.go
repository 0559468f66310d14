package model

import (
	"time"
)

// ==================== ProductStatus ====================

// ProductStatus approval lifecycle: draft -> pending_approval -> approved
type ProductStatus string

const (
	StatusDraft           ProductStatus = "draft"
	StatusPendingApproval ProductStatus = "pending_approval"
	StatusApproved        ProductStatus = "approved"
)

// ProductStatuses every status, lifecycle order
var ProductStatuses = []ProductStatus{StatusDraft, StatusPendingApproval, StatusApproved}

// Valid reports whether s is a known status
func (s ProductStatus) Valid() bool {
	return s.rank() >= 0
}

// Label human readable status, "pending approval"
func (s ProductStatus) Label() string {
	switch s {
	case StatusPendingApproval:
		return "pending approval"
	}
	return string(s)
}

// Terminal approved is the end of the lifecycle
func (s ProductStatus) Terminal() bool {
	return s == StatusApproved
}

// CanAdvanceTo only forward moves are allowed, staying put is not a move
func (s ProductStatus) CanAdvanceTo(next ProductStatus) bool {
	from, to := s.rank(), next.rank()
	return from >= 0 && to > from
}

func (s ProductStatus) rank() int {
	for i, st := range ProductStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// ==================== Product ====================

// Product marketplace listing owned by a business
type Product struct {
	BaseModel
	UpdatedAt time.Time `json:"updated_at"`

	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Price       string        `gorm:"size:32;not null" json:"price"` // decimal string, "9.99"
	Status      ProductStatus `gorm:"size:20;default:'draft';index" json:"status"`

	BusinessID int64 `gorm:"column:business_id;index;not null" json:"business"`
	CreatedBy  int64 `gorm:"index;not null" json:"created_by"`

	// server-derived, read only
	CreatedByName string `gorm:"-" json:"created_by_name"`
	BusinessName  string `gorm:"-" json:"business_name"`

	Owner   *Business `gorm:"foreignKey:BusinessID" json:"-"`
	Creator *User     `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (Product) TableName() string { return "products" }

func (p Product) RecordID() int64 { return p.ID }
func (Product) Kind() EntityKind  { return KindProduct }

// FillDerived copies relation names into the read-only display fields
func (p *Product) FillDerived() {
	if p.Owner != nil {
		p.BusinessName = p.Owner.Name
	}
	if p.Creator != nil {
		p.CreatedByName = p.Creator.Username
	}
}
