package model

// ==================== EntityKind ====================

// EntityKind tag selecting schema, permissions and list columns
type EntityKind string

const (
	KindProduct  EntityKind = "products"
	KindUser     EntityKind = "users"
	KindBusiness EntityKind = "businesses"
)

// Kinds navigation order
var Kinds = []EntityKind{KindProduct, KindUser, KindBusiness}

// Valid reports whether k is a known kind
func (k EntityKind) Valid() bool {
	switch k {
	case KindProduct, KindUser, KindBusiness:
		return true
	}
	return false
}

// Singular "product", "user", "business"
func (k EntityKind) Singular() string {
	switch k {
	case KindProduct:
		return "product"
	case KindUser:
		return "user"
	case KindBusiness:
		return "business"
	}
	return string(k)
}

// Title capitalized plural, used as tab label
func (k EntityKind) Title() string {
	switch k {
	case KindProduct:
		return "Products"
	case KindUser:
		return "Users"
	case KindBusiness:
		return "Businesses"
	}
	return string(k)
}

// ==================== Record ====================

// Record a stored entity as returned by the gateway
type Record interface {
	RecordID() int64
	Kind() EntityKind
}
