package dashboard

import (
	"context"
	"strconv"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/gateway"
	"marketadmin/internal/model"
)

// ==================== Business ====================

type businessEntity struct{}

func (businessEntity) Kind() model.EntityKind { return model.KindBusiness }

func (businessEntity) Fields(model.Record, Lookup) []Field {
	return []Field{{Name: "name", Label: "Name", Type: FieldText, Required: true}}
}

func (businessEntity) Blank(*model.Identity) Draft {
	return Draft{"name": ""}
}

func (businessEntity) Project(r model.Record) Draft {
	b, _ := r.(model.Business)
	return Draft{"name": b.Name}
}

func (e businessEntity) Validate(d Draft, target model.Record) []FieldError {
	return requireFields(d, e.Fields(target, nil))
}

func (businessEntity) Columns() []string {
	return []string{"Business Name", "Created", "Users"}
}

// Cells users count is taken from the loaded user collection
func (businessEntity) Cells(r model.Record, lk Lookup) []string {
	b, _ := r.(model.Business)
	count := 0
	if lk != nil {
		count = lk.UserCount(b.ID)
	}
	created := ""
	if !b.CreatedAt.IsZero() {
		created = b.CreatedAt.Format("2006-01-02")
	}
	return []string{b.Name, created, strconv.Itoa(count)}
}

func (businessEntity) Searchable(r model.Record) []string {
	b, _ := r.(model.Business)
	return []string{b.Name}
}

func (businessEntity) Discriminator(model.Record) string { return "" }

func (businessEntity) FilterOptions() []string { return nil }

// ==================== Gateway binding ====================

func (businessEntity) List(ctx context.Context, gw gateway.Gateway) ([]model.Record, error) {
	list, err := gw.ListBusinesses(ctx)
	if err != nil {
		return nil, err
	}
	return records(list), nil
}

func (businessEntity) Create(ctx context.Context, gw gateway.Gateway, d Draft, _ *model.Identity) error {
	_, err := gw.CreateBusiness(ctx, &dto.BusinessPayload{Name: d.Get("name")})
	return err
}

func (businessEntity) Update(ctx context.Context, gw gateway.Gateway, id int64, d Draft, _ *model.Identity) error {
	_, err := gw.UpdateBusiness(ctx, id, &dto.BusinessPayload{Name: d.Get("name")})
	return err
}

func (businessEntity) Delete(ctx context.Context, gw gateway.Gateway, id int64) error {
	return gw.DeleteBusiness(ctx, id)
}
