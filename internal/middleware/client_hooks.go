package middleware

import (
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// ==================== Outbound hooks (resty) ====================

// HeaderRequestID correlation header shared by the console and the sandbox API
const HeaderRequestID = "X-Request-ID"

// TokenSource supplies the current access token, empty when logged out
type TokenSource interface {
	AccessToken() string
}

// BearerAuth attaches "Authorization: Bearer <token>" when a session is active
func BearerAuth(tokens TokenSource) resty.RequestMiddleware {
	return func(_ *resty.Client, r *resty.Request) error {
		if tokens == nil {
			return nil
		}
		if tok := tokens.AccessToken(); tok != "" {
			r.SetAuthToken(tok)
		}
		return nil
	}
}

// RequestID stamps every outbound call with a fresh correlation id
func RequestID() resty.RequestMiddleware {
	return func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(HeaderRequestID) == "" {
			r.SetHeader(HeaderRequestID, uuid.NewString())
		}
		return nil
	}
}
