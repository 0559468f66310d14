package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"marketadmin/internal/middleware"
	"marketadmin/internal/model"
	"marketadmin/internal/repository"
	"marketadmin/internal/service"
)

// ==================== Helpers ====================

type productFixture struct {
	ctl      *ProductController
	products repository.ProductRepository
	editor   *middleware.Caller
	approver *middleware.Caller
}

func setupProductCtl(t *testing.T) *productFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Business{}, &model.User{}, &model.Product{}))
	require.NoError(t, middleware.RegisterAuditCallbacks(db))

	ctx := context.Background()
	acme := &model.Business{Name: "Acme"}
	require.NoError(t, repository.NewBusinessRepository(db).Create(ctx, acme))

	users := repository.NewUserRepository(db)
	ed := &model.User{Username: "ed", Role: model.RoleEditor, BusinessID: acme.ID, Password: "x"}
	require.NoError(t, users.Create(ctx, ed))
	ann := &model.User{Username: "ann", Role: model.RoleApprover, BusinessID: acme.ID, Password: "x"}
	require.NoError(t, users.Create(ctx, ann))

	products := repository.NewProductRepository(db)
	return &productFixture{
		ctl:      NewProductController(service.NewProductService(products), zap.NewNop()),
		products: products,
		editor:   &middleware.Caller{UserID: ed.ID, Username: ed.Username, Role: ed.Role, BusinessID: acme.ID},
		approver: &middleware.Caller{UserID: ann.ID, Username: ann.Username, Role: ann.Role, BusinessID: acme.ID},
	}
}

// router mounts the product handlers behind a fixed caller, nil for anonymous requests
func (f *productFixture) router(caller *middleware.Caller) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != nil {
			c.Request = c.Request.WithContext(middleware.WithCaller(c.Request.Context(), caller))
		}
		c.Next()
	})

	r.GET("/api/products/public/", f.ctl.ListPublic)
	r.GET("/api/products/", f.ctl.List)
	r.POST("/api/products/", f.ctl.Create)
	r.PUT("/api/products/:id/", f.ctl.Update)
	r.DELETE("/api/products/:id/", f.ctl.Delete)
	r.POST("/api/products/:id/approve/", f.ctl.Approve)
	return r
}

func send(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (f *productFixture) seed(t *testing.T, status model.ProductStatus) *model.Product {
	t.Helper()
	p := &model.Product{Name: "Mug", Description: "A mug", Price: "9.99", Status: status, BusinessID: f.editor.BusinessID, CreatedBy: f.editor.UserID}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

// ==================== ProductController ====================

func TestProductCtl_Create(t *testing.T) {
	f := setupProductCtl(t)
	r := f.router(f.editor)

	t.Run("created with normalized price", func(t *testing.T) {
		w := send(r, http.MethodPost, "/api/products/", gin.H{"name": "Mug", "description": "A mug", "price": "12.5"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var p model.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, "12.50", p.Price)
		assert.Equal(t, model.StatusDraft, p.Status)
		assert.Equal(t, f.editor.BusinessID, p.BusinessID)
		assert.Equal(t, "ed", p.CreatedByName)
	})

	tests := []struct {
		name    string
		price   string
		message string
	}{
		{"three decimal places", "9.999", "Ensure that there are no more than 2 decimal places."},
		{"eleven digits", "12345678901", "Ensure that there are no more than 10 digits in total."},
		{"hex literal", "0x10", "A valid number is required."},
		{"binary exponent", "1p3", "A valid number is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(r, http.MethodPost, "/api/products/", gin.H{"name": "Mug", "description": "A mug", "price": tt.price})
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string][]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, []string{tt.message}, body["price"])
		})
	}

	t.Run("missing required field", func(t *testing.T) {
		w := send(r, http.MethodPost, "/api/products/", gin.H{"name": "Mug"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid request body")
	})

	t.Run("anonymous", func(t *testing.T) {
		w := send(f.router(nil), http.MethodPost, "/api/products/", gin.H{"name": "Mug", "description": "A mug", "price": "1"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProductCtl_Lists(t *testing.T) {
	f := setupProductCtl(t)

	w := send(f.router(nil), http.MethodGet, "/api/products/public/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String(), "empty list is [] not null")

	f.seed(t, model.StatusDraft)
	f.seed(t, model.StatusApproved)

	w = send(f.router(f.editor), http.MethodGet, "/api/products/", nil)
	var all []model.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	w = send(f.router(nil), http.MethodGet, "/api/products/public/", nil)
	var public []model.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &public))
	require.Len(t, public, 1)
	assert.Equal(t, model.StatusApproved, public[0].Status)
}

func TestProductCtl_UpdateApproveDelete(t *testing.T) {
	f := setupProductCtl(t)
	p := f.seed(t, model.StatusDraft)
	path := "/api/products/" + strconv.FormatInt(p.ID, 10) + "/"

	w := send(f.router(f.editor), http.MethodPut, path, gin.H{"name": "Big mug", "description": "A mug", "price": "10", "status": "pending_approval"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"pending_approval"`)

	w = send(f.router(f.editor), http.MethodPut, path, gin.H{"name": "Big mug", "description": "A mug", "price": "10", "status": "draft"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "status never moves back")

	w = send(f.router(f.editor), http.MethodPost, path+"approve/", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(f.router(f.approver), http.MethodPost, path+"approve/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)

	w = send(f.router(f.editor), http.MethodPut, "/api/products/abc/", gin.H{"name": "x", "description": "y", "price": "1"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(f.router(f.editor), http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = send(f.router(f.editor), http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

