package model

// Business tenant owning users and products
type Business struct {
	BaseModel
	Name string `gorm:"size:255;not null" json:"name"`
}

func (Business) TableName() string { return "businesses" }

func (b Business) RecordID() int64 { return b.ID }
func (Business) Kind() EntityKind  { return KindBusiness }
