package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"marketadmin/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== Helpers ====================

func testContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// ==================== respondError ====================

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		key    string
		want   interface{}
	}{
		{"validation", &service.ValidationError{Field: "price", Message: "A valid number is required."},
			http.StatusBadRequest, "price", []interface{}{"A valid number is required."}},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "error", "Invalid credentials"},
		{"anonymous", service.ErrNotAuthenticated, http.StatusUnauthorized, "detail", "Authentication credentials were not provided."},
		{"forbidden", service.ErrPermissionDenied, http.StatusForbidden, "detail", "You do not have permission to perform this action."},
		{"self delete", service.ErrDeleteSelf, http.StatusForbidden, "detail", "You cannot delete your own account."},
		{"wrapped not found", fmt.Errorf("approve: %w", service.ErrProductNotFound), http.StatusNotFound, "detail", "Not found."},
		{"business not found", service.ErrBusinessNotFound, http.StatusNotFound, "detail", "Not found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(http.MethodGet, "/api/products/")
			respondError(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.want, decodeBody(t, w)[tt.key])
		})
	}
}

func TestRespondError_UnexpectedIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	c, w := testContext(http.MethodPost, "/api/users/")

	respondError(c, zap.New(core), errors.New("disk full"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error.", decodeBody(t, w)["detail"])
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "disk full", logs.All()[0].ContextMap()["error"])
}

// ==================== pathID ====================

func TestPathID(t *testing.T) {
	tests := []struct {
		param string
		id    int64
		ok    bool
	}{
		{"12", 12, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			c, w := testContext(http.MethodGet, "/api/products/"+tt.param+"/")
			c.Params = gin.Params{{Key: "id", Value: tt.param}}

			id, ok := pathID(c)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
			if !ok {
				assert.Equal(t, http.StatusNotFound, w.Code)
			}
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Not allowed.", capitalize("not allowed"))
	assert.Equal(t, "Already upper.", capitalize("Already upper"))
}
