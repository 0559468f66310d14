package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/middleware"
	"marketadmin/internal/model"
)

// ==================== RESTGateway ====================

// RESTGateway talks to the marketplace REST API (trailing-slash routes under /api)
type RESTGateway struct {
	client *resty.Client
	log    *zap.Logger
}

var _ Gateway = (*RESTGateway)(nil)

// NewRESTGateway wires auth and request-id hooks onto client
func NewRESTGateway(client *resty.Client, tokens middleware.TokenSource, log *zap.Logger) *RESTGateway {
	if log == nil {
		log = zap.NewNop()
	}
	client.OnBeforeRequest(middleware.RequestID())
	client.OnBeforeRequest(middleware.BearerAuth(tokens))
	return &RESTGateway{client: client, log: log.Named("gateway")}
}

// ==================== Auth ====================

func (g *RESTGateway) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	req := &dto.LoginRequest{Username: username, Password: password}
	if err := g.do(ctx, http.MethodPost, "login/", req, &out); err != nil {
		return nil, err
	}
	if out.User == nil || out.Access == "" {
		return nil, fmt.Errorf("login: incomplete response")
	}
	return &out, nil
}

func (g *RESTGateway) Me(ctx context.Context) (*model.Identity, error) {
	var out model.Identity
	if err := g.do(ctx, http.MethodGet, "me/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ==================== Products ====================

func (g *RESTGateway) ListPublicProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := g.do(ctx, http.MethodGet, "products/public/", nil, &out)
	return out, err
}

func (g *RESTGateway) ListProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := g.do(ctx, http.MethodGet, "products/", nil, &out)
	return out, err
}

func (g *RESTGateway) CreateProduct(ctx context.Context, p *dto.ProductPayload) (*model.Product, error) {
	var out model.Product
	if err := g.do(ctx, http.MethodPost, "products/", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *RESTGateway) UpdateProduct(ctx context.Context, id int64, p *dto.ProductPayload) (*model.Product, error) {
	var out model.Product
	if err := g.do(ctx, http.MethodPut, fmt.Sprintf("products/%d/", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *RESTGateway) DeleteProduct(ctx context.Context, id int64) error {
	return g.do(ctx, http.MethodDelete, fmt.Sprintf("products/%d/", id), nil, nil)
}

func (g *RESTGateway) ApproveProduct(ctx context.Context, id int64) (*model.Product, error) {
	var out model.Product
	if err := g.do(ctx, http.MethodPost, fmt.Sprintf("products/%d/approve/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ==================== Users ====================

func (g *RESTGateway) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := g.do(ctx, http.MethodGet, "users/", nil, &out)
	return out, err
}

func (g *RESTGateway) CreateUser(ctx context.Context, u *dto.UserPayload) (*model.User, error) {
	var out model.User
	if err := g.do(ctx, http.MethodPost, "users/", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *RESTGateway) UpdateUser(ctx context.Context, id int64, u *dto.UserPayload) (*model.User, error) {
	var out model.User
	if err := g.do(ctx, http.MethodPut, fmt.Sprintf("users/%d/", id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *RESTGateway) DeleteUser(ctx context.Context, id int64) error {
	return g.do(ctx, http.MethodDelete, fmt.Sprintf("users/%d/", id), nil, nil)
}

// ==================== Businesses ====================

func (g *RESTGateway) ListBusinesses(ctx context.Context) ([]model.Business, error) {
	var out []model.Business
	err := g.do(ctx, http.MethodGet, "businesses/", nil, &out)
	return out, err
}

func (g *RESTGateway) CreateBusiness(ctx context.Context, b *dto.BusinessPayload) (*model.Business, error) {
	var out model.Business
	if err := g.do(ctx, http.MethodPost, "businesses/", b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *RESTGateway) UpdateBusiness(ctx context.Context, id int64, b *dto.BusinessPayload) (*model.Business, error) {
	var out model.Business
	if err := g.do(ctx, http.MethodPut, fmt.Sprintf("businesses/%d/", id), b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *RESTGateway) DeleteBusiness(ctx context.Context, id int64) error {
	return g.do(ctx, http.MethodDelete, fmt.Sprintf("businesses/%d/", id), nil, nil)
}

// ==================== Transport helpers ====================

// do executes one call; out may be nil for bodiless answers
func (g *RESTGateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := g.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		g.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode(), Message: errorMessage(resp.Body())}
		g.log.Warn("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
			zap.String("request_id", resp.Request.Header.Get(middleware.HeaderRequestID)),
		)
		return apiErr
	}

	g.log.Debug("request ok", zap.String("method", method), zap.String("path", path), zap.Duration("took", resp.Time()))
	return nil
}

// errorMessage flattens the API's error bodies: {"error": ".."}, {"detail": ".."} or {"field": ["msg", ..]}
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var simple dto.ErrorResponse
	if err := json.Unmarshal(body, &simple); err == nil && simple.Message() != "" {
		return simple.Message()
	}

	var fields map[string][]string
	if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+strings.Join(fields[k], " "))
		}
		return strings.Join(parts, "; ")
	}

	return strings.TrimSpace(string(body))
}
