package dashboard

import (
	"context"
	"sync"
	"time"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/gateway"
	"marketadmin/internal/model"
)

// fakeGateway in-memory marketplace; records every payload and fails calls named in fail
type fakeGateway struct {
	mu sync.Mutex

	products   []model.Product
	users      []model.User
	businesses []model.Business
	nextID     int64

	productPayloads []*dto.ProductPayload
	userPayloads    []*dto.UserPayload
	calls           []string
	fail            map[string]error
}

var _ gateway.Gateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &fakeGateway{
		nextID: 100,
		fail:   map[string]error{},
		businesses: []model.Business{
			{BaseModel: model.BaseModel{ID: 1, CreatedAt: now}, Name: "Acme"},
			{BaseModel: model.BaseModel{ID: 2, CreatedAt: now}, Name: "Globex"},
		},
		users: []model.User{
			{BaseModel: model.BaseModel{ID: 1}, Username: "root", Email: "root@acme.io", Role: model.RoleAdmin, BusinessID: 1},
			{BaseModel: model.BaseModel{ID: 2}, Username: "ed", Email: "ed@acme.io", FirstName: "Ed", LastName: "Itor", Role: model.RoleEditor, BusinessID: 1},
			{BaseModel: model.BaseModel{ID: 3}, Username: "vic", Email: "vic@globex.io", Role: model.RoleViewer, BusinessID: 2},
			{BaseModel: model.BaseModel{ID: 4}, Username: "ghost", Email: "ghost@nowhere.io", Role: model.RoleViewer, BusinessID: 99},
		},
		products: []model.Product{
			{BaseModel: model.BaseModel{ID: 10}, Name: "Coffee Mug", Description: "Ceramic", Price: "9.90", Status: model.StatusPendingApproval, BusinessID: 1, CreatedBy: 2},
			{BaseModel: model.BaseModel{ID: 11}, Name: "Tea Pot", Description: "Holds a MUG worth of tea", Price: "25.00", Status: model.StatusDraft, BusinessID: 1, CreatedBy: 2},
			{BaseModel: model.BaseModel{ID: 12}, Name: "Spoon", Description: "Steel", Price: "1.50", Status: model.StatusApproved, BusinessID: 1, CreatedBy: 2},
		},
	}
}

func (g *fakeGateway) record(op string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, op)
	return g.fail[op]
}

func (g *fakeGateway) setFail(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.fail, op)
		return
	}
	g.fail[op] = err
}

func (g *fakeGateway) countCalls(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (g *fakeGateway) Login(context.Context, string, string) (*dto.LoginResponse, error) {
	return nil, g.record("login")
}

func (g *fakeGateway) Me(context.Context) (*model.Identity, error) {
	return nil, g.record("me")
}

func (g *fakeGateway) ListPublicProducts(ctx context.Context) ([]model.Product, error) {
	if err := g.record("list_public"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []model.Product
	for _, p := range g.products {
		if p.Status == model.StatusApproved {
			out = append(out, p)
		}
	}
	return out, nil
}

func (g *fakeGateway) ListProducts(context.Context) ([]model.Product, error) {
	if err := g.record("list_products"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]model.Product(nil), g.products...), nil
}

func (g *fakeGateway) CreateProduct(_ context.Context, p *dto.ProductPayload) (*model.Product, error) {
	if err := g.record("create_product"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.productPayloads = append(g.productPayloads, p)
	g.nextID++
	status := p.Status
	if status == "" {
		status = model.StatusDraft
	}
	prod := model.Product{
		BaseModel:   model.BaseModel{ID: g.nextID},
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Status:      status,
		BusinessID:  p.Business,
	}
	g.products = append(g.products, prod)
	return &prod, nil
}

func (g *fakeGateway) UpdateProduct(_ context.Context, id int64, p *dto.ProductPayload) (*model.Product, error) {
	if err := g.record("update_product"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.productPayloads = append(g.productPayloads, p)
	for i := range g.products {
		if g.products[i].ID == id {
			g.products[i].Name = p.Name
			g.products[i].Description = p.Description
			g.products[i].Price = p.Price
			g.products[i].Status = p.Status
			prod := g.products[i]
			return &prod, nil
		}
	}
	return nil, &gateway.APIError{Status: 404, Message: "Not found."}
}

func (g *fakeGateway) DeleteProduct(_ context.Context, id int64) error {
	if err := g.record("delete_product"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, p := range g.products {
		if p.ID == id {
			g.products = append(g.products[:i], g.products[i+1:]...)
			return nil
		}
	}
	return &gateway.APIError{Status: 404, Message: "Not found."}
}

func (g *fakeGateway) ApproveProduct(_ context.Context, id int64) (*model.Product, error) {
	if err := g.record("approve_product"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.products {
		if g.products[i].ID == id {
			g.products[i].Status = model.StatusApproved
			prod := g.products[i]
			return &prod, nil
		}
	}
	return nil, &gateway.APIError{Status: 404, Message: "Not found."}
}

func (g *fakeGateway) ListUsers(context.Context) ([]model.User, error) {
	if err := g.record("list_users"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]model.User(nil), g.users...), nil
}

func (g *fakeGateway) CreateUser(_ context.Context, u *dto.UserPayload) (*model.User, error) {
	if err := g.record("create_user"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.userPayloads = append(g.userPayloads, u)
	g.nextID++
	user := model.User{BaseModel: model.BaseModel{ID: g.nextID}, Username: u.Username, Email: u.Email, Role: u.Role, BusinessID: u.Business}
	g.users = append(g.users, user)
	return &user, nil
}

func (g *fakeGateway) UpdateUser(_ context.Context, id int64, u *dto.UserPayload) (*model.User, error) {
	if err := g.record("update_user"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.userPayloads = append(g.userPayloads, u)
	for i := range g.users {
		if g.users[i].ID == id {
			g.users[i].Username = u.Username
			g.users[i].Email = u.Email
			g.users[i].FirstName = u.FirstName
			g.users[i].LastName = u.LastName
			g.users[i].Role = u.Role
			g.users[i].BusinessID = u.Business
			user := g.users[i]
			return &user, nil
		}
	}
	return nil, &gateway.APIError{Status: 404, Message: "Not found."}
}

func (g *fakeGateway) DeleteUser(_ context.Context, id int64) error {
	if err := g.record("delete_user"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, u := range g.users {
		if u.ID == id {
			g.users = append(g.users[:i], g.users[i+1:]...)
			return nil
		}
	}
	return &gateway.APIError{Status: 404, Message: "Not found."}
}

func (g *fakeGateway) ListBusinesses(context.Context) ([]model.Business, error) {
	if err := g.record("list_businesses"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]model.Business(nil), g.businesses...), nil
}

func (g *fakeGateway) CreateBusiness(_ context.Context, b *dto.BusinessPayload) (*model.Business, error) {
	if err := g.record("create_business"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	biz := model.Business{BaseModel: model.BaseModel{ID: g.nextID}, Name: b.Name}
	g.businesses = append(g.businesses, biz)
	return &biz, nil
}

func (g *fakeGateway) UpdateBusiness(_ context.Context, id int64, b *dto.BusinessPayload) (*model.Business, error) {
	if err := g.record("update_business"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.businesses {
		if g.businesses[i].ID == id {
			g.businesses[i].Name = b.Name
			biz := g.businesses[i]
			return &biz, nil
		}
	}
	return nil, &gateway.APIError{Status: 404, Message: "Not found."}
}

func (g *fakeGateway) DeleteBusiness(_ context.Context, id int64) error {
	if err := g.record("delete_business"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, b := range g.businesses {
		if b.ID == id {
			g.businesses = append(g.businesses[:i], g.businesses[i+1:]...)
			return nil
		}
	}
	return &gateway.APIError{Status: 404, Message: "Not found."}
}
