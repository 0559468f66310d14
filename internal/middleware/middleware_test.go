package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketadmin/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var editor = &model.User{
	BaseModel:  model.BaseModel{ID: 7},
	Username:   "ed",
	Role:       model.RoleEditor,
	BusinessID: 3,
}

// ==================== Tokens ====================

func TestTokenIssuer_Pair(t *testing.T) {
	issuer := NewTokenIssuer(&JWTConfig{SecretKey: "s3cret", AccessTokenTTL: time.Minute})

	access, refresh, err := issuer.GenerateTokenPair(editor)
	require.NoError(t, err)

	claims, err := issuer.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, model.RoleEditor, claims.Role)
	assert.Equal(t, int64(3), claims.BusinessID)
	assert.Equal(t, subjectAccess, claims.Subject)

	claims, err = issuer.ParseToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, subjectRefresh, claims.Subject)

	other := NewTokenIssuer(&JWTConfig{SecretKey: "other"})
	_, err = other.ParseToken(access)
	assert.Error(t, err, "foreign signature")
}

func TestTokenExpiry(t *testing.T) {
	issuer := NewTokenIssuer(&JWTConfig{SecretKey: "s3cret", AccessTokenTTL: time.Hour})
	access, _, err := issuer.GenerateTokenPair(editor)
	require.NoError(t, err)

	exp, err := TokenExpiry(access)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	_, err = TokenExpiry("not-a-token")
	assert.Error(t, err)
}

// ==================== Gin middleware ====================

func protectedRouter(issuer *TokenIssuer, roles ...model.Role) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(issuer), RequireRole(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "business": GetBusinessID(c)})
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	issuer := NewTokenIssuer(&JWTConfig{SecretKey: "s3cret"})
	access, refresh, err := issuer.GenerateTokenPair(editor)
	require.NoError(t, err)

	tests := []struct {
		name   string
		router *gin.Engine
		token  string
		status int
	}{
		{"access token", protectedRouter(issuer, model.RoleEditor), access, http.StatusOK},
		{"no header", protectedRouter(issuer, model.RoleEditor), "", http.StatusUnauthorized},
		{"refresh token", protectedRouter(issuer, model.RoleEditor), refresh, http.StatusUnauthorized},
		{"garbage", protectedRouter(issuer, model.RoleEditor), "abc", http.StatusUnauthorized},
		{"wrong role", protectedRouter(issuer, model.RoleAdmin), access, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(tt.router, tt.token)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":7,"business":3}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"detail"`)
			}
		})
	}
}

// ==================== Limiter ====================

func TestCooldownLimiter(t *testing.T) {
	l := NewCooldownLimiter()
	key := LoginKey("10.0.0.1")

	assert.True(t, l.CheckOnly(key, time.Minute).Allowed)

	l.MarkExecuted(key)
	res := l.CheckOnly(key, time.Minute)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, 59*time.Second)
	assert.True(t, l.CheckOnly(key, 0).Allowed, "elapsed interval")

	l.Reset(key)
	assert.True(t, l.CheckOnly(key, time.Minute).Allowed)
}

// ==================== Outbound hooks ====================

type staticTokens string

func (s staticTokens) AccessToken() string { return string(s) }

func TestClientHooks(t *testing.T) {
	var gotAuth, gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get(HeaderRequestID)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := resty.New().SetBaseURL(srv.URL)
	client.OnBeforeRequest(BearerAuth(staticTokens("tok")))
	client.OnBeforeRequest(RequestID())

	_, err := client.R().Get("/")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Len(t, gotID, 36)

	_, err = client.R().SetHeader(HeaderRequestID, "fixed").Get("/")
	require.NoError(t, err)
	assert.Equal(t, "fixed", gotID)

	anon := resty.New().SetBaseURL(srv.URL)
	anon.OnBeforeRequest(BearerAuth(staticTokens("")))
	_, err = anon.R().Get("/")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}
