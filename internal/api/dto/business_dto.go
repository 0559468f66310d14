package dto

// BusinessPayload create/update body for businesses
type BusinessPayload struct {
	Name string `json:"name" binding:"required,max=255"`
}
