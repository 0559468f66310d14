package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/middleware"
	"marketadmin/internal/model"
	"marketadmin/internal/router"
	"marketadmin/pkg/net"
)

// ==================== Fixtures ====================

type staticTokens struct {
	mu    sync.Mutex
	token string
}

func (s *staticTokens) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *staticTokens) set(tok string) {
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
}

func setupGateway(t *testing.T) (*RESTGateway, *staticTokens) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	engine, err := router.NewSandbox(context.Background(), db, nil, router.SandboxConfig{
		JWT:           &middleware.JWTConfig{SecretKey: "gateway-test"},
		AdminUsername: "admin",
		AdminPassword: "admin-pass",
		AdminBusiness: "Sandbox",
	})
	require.NoError(t, err)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	tokens := &staticTokens{}
	client := net.NewAPIClient(net.ClientOptions{BaseURL: srv.URL + "/api/"})
	return NewRESTGateway(client, tokens, nil), tokens
}

func loginAs(t *testing.T, gw *RESTGateway, tokens *staticTokens, username, password string) *model.Identity {
	t.Helper()
	resp, err := gw.Login(context.Background(), username, password)
	require.NoError(t, err)
	tokens.set(resp.Access)
	return resp.User
}

// ==================== Tests ====================

func TestRESTGateway_Login(t *testing.T) {
	gw, tokens := setupGateway(t)
	ctx := context.Background()

	t.Run("bad password", func(t *testing.T) {
		_, err := gw.Login(ctx, "admin", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnauthorized)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "Invalid credentials", apiErr.Message)
	})

	t.Run("me before login", func(t *testing.T) {
		_, err := gw.Me(ctx)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("login then me", func(t *testing.T) {
		id := loginAs(t, gw, tokens, "admin", "admin-pass")
		assert.Equal(t, model.RoleAdmin, id.Role)

		me, err := gw.Me(ctx)
		require.NoError(t, err)
		assert.Equal(t, id.ID, me.ID)
		assert.Equal(t, id.Business, me.Business)
	})
}

func TestRESTGateway_ProductLifecycle(t *testing.T) {
	gw, tokens := setupGateway(t)
	ctx := context.Background()
	admin := loginAs(t, gw, tokens, "admin", "admin-pass")

	created, err := gw.CreateProduct(ctx, &dto.ProductPayload{
		Name:        "Mug",
		Description: "A mug",
		Price:       "9.99",
		Business:    admin.Business,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, created.Status)
	assert.Equal(t, "admin", created.CreatedByName)
	assert.Equal(t, "Sandbox", created.BusinessName)

	updated, err := gw.UpdateProduct(ctx, created.ID, &dto.ProductPayload{
		Name:        "Mug",
		Description: "A big mug",
		Price:       "10",
		Status:      model.StatusPendingApproval,
	})
	require.NoError(t, err)
	assert.Equal(t, "10.00", updated.Price)
	assert.Equal(t, model.StatusPendingApproval, updated.Status)

	public, err := gw.ListPublicProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)

	approved, err := gw.ApproveProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)

	tokens.set("")
	public, err = gw.ListPublicProducts(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "A big mug", public[0].Description)

	loginAs(t, gw, tokens, "admin", "admin-pass")
	require.NoError(t, gw.DeleteProduct(ctx, created.ID))

	list, err := gw.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = gw.DeleteProduct(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRESTGateway_ValidationMessage(t *testing.T) {
	gw, tokens := setupGateway(t)
	loginAs(t, gw, tokens, "admin", "admin-pass")

	_, err := gw.CreateProduct(context.Background(), &dto.ProductPayload{
		Name:        "Mug",
		Description: "A mug",
		Price:       "free",
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "price: A valid number is required.", apiErr.Message)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestRESTGateway_UsersAndBusinesses(t *testing.T) {
	gw, tokens := setupGateway(t)
	ctx := context.Background()
	loginAs(t, gw, tokens, "admin", "admin-pass")

	b, err := gw.CreateBusiness(ctx, &dto.BusinessPayload{Name: "Acme"})
	require.NoError(t, err)

	b, err = gw.UpdateBusiness(ctx, b.ID, &dto.BusinessPayload{Name: "Acme Ltd"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", b.Name)

	u, err := gw.CreateUser(ctx, &dto.UserPayload{
		Username: "ed",
		Email:    "ed@acme.test",
		Role:     model.RoleEditor,
		Business: b.ID,
		Password: "ed-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, b.ID, u.BusinessID)
	assert.Empty(t, u.Password)

	u, err = gw.UpdateUser(ctx, u.ID, &dto.UserPayload{
		Username:  "ed",
		Email:     "ed@acme.test",
		FirstName: "Ed",
		LastName:  "Itor",
		Role:      model.RoleEditor,
		Business:  b.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ed Itor", u.FullName())

	users, err := gw.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	// the editor logs in with the unchanged password and is refused admin routes
	loginAs(t, gw, tokens, "ed", "ed-pass")
	err = gw.DeleteBusiness(ctx, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	loginAs(t, gw, tokens, "admin", "admin-pass")
	require.NoError(t, gw.DeleteUser(ctx, u.ID))
	require.NoError(t, gw.DeleteBusiness(ctx, b.ID))

	businesses, err := gw.ListBusinesses(ctx)
	require.NoError(t, err)
	assert.Len(t, businesses, 1)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", ""},
		{"error", `{"error":"Invalid credentials"}`, "Invalid credentials"},
		{"detail", `{"detail":"Not found."}`, "Not found."},
		{"fields sorted", `{"price":["bad"],"name":["blank","short"]}`, "name: blank short; price: bad"},
		{"plain text", "  upstream down \n", "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage([]byte(tt.body)))
		})
	}
}
