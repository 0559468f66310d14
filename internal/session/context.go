// Package session holds who is logged into the console.
// A Context is built on login, handed explicitly to the dashboard, and cleared on logout.
package session

import (
	"sync"

	"marketadmin/internal/model"
)

// Context the authenticated identity and its tokens
type Context struct {
	mu           sync.RWMutex
	identity     *model.Identity
	accessToken  string
	refreshToken string
}

// New copies identity so later changes by the caller do not leak in
func New(identity *model.Identity, accessToken, refreshToken string) *Context {
	var id *model.Identity
	if identity != nil {
		cp := *identity
		id = &cp
	}
	return &Context{identity: id, accessToken: accessToken, refreshToken: refreshToken}
}

// Identity copy of the current identity, nil when logged out
func (c *Context) Identity() *model.Identity {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.identity == nil {
		return nil
	}
	cp := *c.identity
	return &cp
}

// Role empty when logged out
func (c *Context) Role() model.Role {
	if id := c.Identity(); id != nil {
		return id.Role
	}
	return ""
}

// Business the identity's owning business, 0 when logged out
func (c *Context) Business() int64 {
	if id := c.Identity(); id != nil {
		return id.Business
	}
	return 0
}

func (c *Context) Authenticated() bool {
	return c.Identity() != nil
}

// AccessToken satisfies middleware.TokenSource
func (c *Context) AccessToken() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *Context) RefreshToken() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshToken
}

// Clear drops identity and tokens; the Context stays usable and reports unauthenticated
func (c *Context) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.identity = nil
	c.accessToken = ""
	c.refreshToken = ""
	c.mu.Unlock()
}
