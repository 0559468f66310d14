package model

// User staff account; belongs to exactly one business
type User struct {
	BaseModel
	Username  string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string `gorm:"size:254" json:"email"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Role      Role   `gorm:"size:20;default:'viewer'" json:"role"`

	BusinessID int64 `gorm:"column:business_id;index" json:"business"`

	// write-only, never serialized
	Password string `gorm:"size:255;not null" json:"-"`
}

func (User) TableName() string { return "users" }

func (u User) RecordID() int64 { return u.ID }
func (User) Kind() EntityKind  { return KindUser }

// FullName first and last name joined by a single space
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Identity converts the account into the session identity
func (u User) Identity() *Identity {
	return &Identity{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Business:  u.BusinessID,
	}
}
