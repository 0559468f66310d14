package dashboard

import (
	"context"
	"fmt"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/gateway"
	"marketadmin/internal/model"
	"marketadmin/pkg/utils"
)

// ==================== Product ====================

type productEntity struct{}

var _ Hinter = productEntity{}

func (productEntity) Kind() model.EntityKind { return model.KindProduct }

// statusOptions the form offers draft and pending approval, never a backward move, never approved.
// An approved product keeps its status as a read-only value.
func statusOptions(target model.Record) ([]Option, bool) {
	current := model.StatusDraft
	if p, ok := target.(model.Product); ok {
		current = p.Status
	}
	if current.Terminal() {
		return []Option{{Value: string(current), Label: current.Label()}}, true
	}

	var opts []Option
	for _, st := range []model.ProductStatus{model.StatusDraft, model.StatusPendingApproval} {
		if st == current || current.CanAdvanceTo(st) {
			opts = append(opts, Option{Value: string(st), Label: st.Label()})
		}
	}
	return opts, false
}

func (productEntity) Fields(target model.Record, _ Lookup) []Field {
	opts, locked := statusOptions(target)
	return []Field{
		{Name: "name", Label: "Name", Type: FieldText, Required: true},
		{Name: "description", Label: "Description", Type: FieldTextArea, Required: true},
		{Name: "price", Label: "Price", Type: FieldDecimal, Required: true},
		{Name: "status", Label: "Status", Type: FieldSelect, Required: true, ReadOnly: locked, Options: opts},
	}
}

func (productEntity) Blank(*model.Identity) Draft {
	return Draft{"name": "", "description": "", "price": "", "status": string(model.StatusDraft)}
}

func (productEntity) Project(r model.Record) Draft {
	p, _ := r.(model.Product)
	return Draft{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"status":      string(p.Status),
	}
}

func (e productEntity) Validate(d Draft, target model.Record) []FieldError {
	fields := e.Fields(target, nil)
	errs := requireFields(d, fields)

	if n := utils.WordCount(d.Get("description")); n > utils.MaxDescriptionWords {
		errs = append(errs, FieldError{
			Field:   "description",
			Message: fmt.Sprintf("description must not exceed %d words (currently %d)", utils.MaxDescriptionWords, n),
		})
	}
	if d.Get("price") != "" {
		if _, err := utils.NormalizePrice(d.Get("price")); err != nil {
			errs = append(errs, FieldError{Field: "price", Message: err.Error()})
		}
	}
	if fe := checkOption(d, fields[3]); fe != nil {
		errs = append(errs, *fe)
	}
	return errs
}

// Hint word counter under the description, "n / 100 words"
func (productEntity) Hint(field string, d Draft) string {
	if field != "description" {
		return ""
	}
	return fmt.Sprintf("%d / %d words", utils.WordCount(d.Get("description")), utils.MaxDescriptionWords)
}

func (productEntity) Columns() []string {
	return []string{"Name", "Description", "Price", "Status", "Created By", "Business"}
}

func (productEntity) Cells(r model.Record, _ Lookup) []string {
	p, _ := r.(model.Product)
	return []string{p.Name, p.Description, "$" + p.Price, p.Status.Label(), p.CreatedByName, p.BusinessName}
}

func (productEntity) Searchable(r model.Record) []string {
	p, _ := r.(model.Product)
	return []string{p.Name, p.Description}
}

func (productEntity) Discriminator(r model.Record) string {
	p, _ := r.(model.Product)
	return string(p.Status)
}

func (productEntity) FilterOptions() []string {
	opts := []string{FilterAll}
	for _, st := range model.ProductStatuses {
		opts = append(opts, string(st))
	}
	return opts
}

// ==================== Gateway binding ====================

func (productEntity) List(ctx context.Context, gw gateway.Gateway) ([]model.Record, error) {
	list, err := gw.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return records(list), nil
}

// payload business always comes from the session, never from the draft
func productPayload(d Draft, identity *model.Identity) *dto.ProductPayload {
	price, err := utils.NormalizePrice(d.Get("price"))
	if err != nil {
		price = d.Get("price")
	}
	p := &dto.ProductPayload{
		Name:        d.Get("name"),
		Description: d.Get("description"),
		Price:       price,
		Status:      model.ProductStatus(d.Get("status")),
	}
	if identity != nil {
		p.Business = identity.Business
	}
	return p
}

func (productEntity) Create(ctx context.Context, gw gateway.Gateway, d Draft, identity *model.Identity) error {
	_, err := gw.CreateProduct(ctx, productPayload(d, identity))
	return err
}

func (productEntity) Update(ctx context.Context, gw gateway.Gateway, id int64, d Draft, identity *model.Identity) error {
	_, err := gw.UpdateProduct(ctx, id, productPayload(d, identity))
	return err
}

func (productEntity) Delete(ctx context.Context, gw gateway.Gateway, id int64) error {
	return gw.DeleteProduct(ctx, id)
}

// records widens a typed slice to []model.Record, never nil
func records[T model.Record](list []T) []model.Record {
	out := make([]model.Record, 0, len(list))
	for _, r := range list {
		out = append(out, r)
	}
	return out
}
