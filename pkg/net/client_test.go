package net

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIClient_Defaults(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	calls := 0
	client := NewAPIClient(ClientOptions{BaseURL: srv.URL})
	client.OnAfterResponse(func(_ *resty.Client, _ *resty.Response) error {
		calls++
		return nil
	})

	resp, err := client.R().Get("/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode())
	assert.Equal(t, 1, calls, "no retries")
	assert.Equal(t, "marketadmin/1.0", gotUA)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, 20*time.Second, client.GetClient().Timeout)
	assert.False(t, client.IsProxySet())
}

func TestNewAPIClient_Proxy(t *testing.T) {
	client := NewAPIClient(ClientOptions{
		BaseURL: "http://market.test/api/",
		Timeout: time.Second,
		Proxy:   "http://127.0.0.1:3128",
	})
	assert.True(t, client.IsProxySet())
	assert.Equal(t, time.Second, client.GetClient().Timeout)
}
