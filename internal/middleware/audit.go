package middleware

import (
	"context"
	"reflect"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketadmin/internal/model"
)

// ==================== Caller context ====================

type callerContextKey struct{}

// Caller the authenticated account behind a sandbox request
type Caller struct {
	UserID     int64
	Username   string
	Role       model.Role
	BusinessID int64
}

// CanSeeAllProducts admins and approvers work across businesses
func (c *Caller) CanSeeAllProducts() bool {
	return c != nil && (c.Role == model.RoleAdmin || c.Role == model.RoleApprover)
}

// CanApprove admins and approvers
func (c *Caller) CanApprove() bool {
	return c.CanSeeAllProducts()
}

// WithCaller stores the caller in ctx
func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// CallerFrom nil when the request is anonymous
func CallerFrom(ctx context.Context) *Caller {
	if caller, ok := ctx.Value(callerContextKey{}).(*Caller); ok {
		return caller
	}
	return nil
}

// ==================== Gin middleware ====================

// CallerContext copies the JWT identity into the request context for services and gorm callbacks
func CallerContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := GetUserID(c); userID > 0 {
			ctx := WithCaller(c.Request.Context(), &Caller{
				UserID:     userID,
				Username:   GetUsername(c),
				Role:       GetUserRole(c),
				BusinessID: GetBusinessID(c),
			})
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// ==================== GORM callbacks ====================

// RegisterAuditCallbacks fills CreatedBy and BusinessID from the caller on insert, when left zero
func RegisterAuditCallbacks(db *gorm.DB) error {
	return db.Callback().Create().Before("gorm:create").Register("audit:create", func(tx *gorm.DB) {
		if tx.Statement.Context == nil {
			return
		}

		caller := CallerFrom(tx.Statement.Context)
		if caller == nil {
			return
		}

		setAuditField(tx, "CreatedBy", caller.UserID)
		setAuditField(tx, "BusinessID", caller.BusinessID)
	})
}

// setAuditField only writes zero-valued fields
func setAuditField(tx *gorm.DB, fieldName string, value int64) {
	if tx.Statement.Schema == nil || value == 0 {
		return
	}

	field := tx.Statement.Schema.LookUpField(fieldName)
	if field == nil {
		return
	}

	switch tx.Statement.ReflectValue.Kind() {
	case reflect.Struct:
		if _, isZero := field.ValueOf(tx.Statement.Context, tx.Statement.ReflectValue); isZero {
			_ = field.Set(tx.Statement.Context, tx.Statement.ReflectValue, value)
		}
	case reflect.Slice:
		for i := 0; i < tx.Statement.ReflectValue.Len(); i++ {
			rv := tx.Statement.ReflectValue.Index(i)
			if _, isZero := field.ValueOf(tx.Statement.Context, rv); isZero {
				_ = field.Set(tx.Statement.Context, rv, value)
			}
		}
	}
}
