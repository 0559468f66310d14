package dashboard

import (
	"context"
	"strconv"
	"strings"

	"marketadmin/internal/api/dto"
	"marketadmin/internal/gateway"
	"marketadmin/internal/model"
)

// ==================== User ====================

// NoBusiness shown when a user's business is not among the loaded businesses
const NoBusiness = "N/A"

type userEntity struct{}

func (userEntity) Kind() model.EntityKind { return model.KindUser }

// Fields the password input only exists while creating
func (userEntity) Fields(target model.Record, lk Lookup) []Field {
	roles := make([]Option, 0, len(model.Roles))
	for _, r := range model.Roles {
		roles = append(roles, Option{Value: string(r), Label: string(r)})
	}

	business := Field{Name: "business", Label: "Business", Type: FieldText, Required: true}
	if lk != nil {
		if list := lk.Businesses(); len(list) > 0 {
			business.Type = FieldSelect
			for _, b := range list {
				business.Options = append(business.Options, Option{Value: strconv.FormatInt(b.ID, 10), Label: b.Name})
			}
		}
	}

	fields := []Field{
		{Name: "username", Label: "Username", Type: FieldText, Required: true},
		{Name: "email", Label: "Email", Type: FieldEmail, Required: true},
		{Name: "first_name", Label: "First name", Type: FieldText},
		{Name: "last_name", Label: "Last name", Type: FieldText},
		{Name: "role", Label: "Role", Type: FieldSelect, Options: roles},
		business,
	}
	if target == nil {
		fields = append(fields, Field{Name: "password", Label: "Password", Type: FieldPassword, Required: true})
	}
	return fields
}

func (userEntity) Blank(*model.Identity) Draft {
	return Draft{
		"username":   "",
		"email":      "",
		"first_name": "",
		"last_name":  "",
		"role":       string(model.RoleViewer),
		"business":   "",
		"password":   "",
	}
}

// Project no password key at all
func (userEntity) Project(r model.Record) Draft {
	u, _ := r.(model.User)
	d := Draft{
		"username":   u.Username,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"role":       string(u.Role),
		"business":   "",
	}
	if u.BusinessID != 0 {
		d["business"] = strconv.FormatInt(u.BusinessID, 10)
	}
	return d
}

func (e userEntity) Validate(d Draft, target model.Record) []FieldError {
	errs := requireFields(d, e.Fields(target, nil))

	if email := d.Get("email"); email != "" && !strings.Contains(email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "enter a valid email address"})
	}
	if role := d.Get("role"); role != "" && !model.Role(role).Valid() {
		errs = append(errs, FieldError{Field: "role", Message: "unknown role " + strconv.Quote(role)})
	}
	if b := d.Get("business"); b != "" {
		if id, err := strconv.ParseInt(b, 10, 64); err != nil || id <= 0 {
			errs = append(errs, FieldError{Field: "business", Message: "select a business"})
		}
	}
	return errs
}

func (userEntity) Columns() []string {
	return []string{"Username", "Name", "Email", "Role", "Business"}
}

func (userEntity) Cells(r model.Record, lk Lookup) []string {
	u, _ := r.(model.User)
	return []string{u.Username, u.FullName(), u.Email, string(u.Role), businessName(lk, u.BusinessID)}
}

func businessName(lk Lookup, id int64) string {
	if lk == nil {
		return NoBusiness
	}
	if name, ok := lk.BusinessName(id); ok {
		return name
	}
	return NoBusiness
}

func (userEntity) Searchable(r model.Record) []string {
	u, _ := r.(model.User)
	return []string{u.Username, u.Email, u.FullName()}
}

func (userEntity) Discriminator(r model.Record) string {
	u, _ := r.(model.User)
	return string(u.Role)
}

func (userEntity) FilterOptions() []string {
	opts := []string{FilterAll}
	for _, r := range model.Roles {
		opts = append(opts, string(r))
	}
	return opts
}

// ==================== Gateway binding ====================

func (userEntity) List(ctx context.Context, gw gateway.Gateway) ([]model.Record, error) {
	list, err := gw.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return records(list), nil
}

// userPayload password only travels when creating
func userPayload(d Draft, withPassword bool) *dto.UserPayload {
	business, _ := strconv.ParseInt(d.Get("business"), 10, 64)
	p := &dto.UserPayload{
		Username:  d.Get("username"),
		Email:     d.Get("email"),
		FirstName: d.Get("first_name"),
		LastName:  d.Get("last_name"),
		Role:      model.Role(d.Get("role")),
		Business:  business,
	}
	if withPassword {
		p.Password = d.Get("password")
	}
	return p
}

func (userEntity) Create(ctx context.Context, gw gateway.Gateway, d Draft, _ *model.Identity) error {
	_, err := gw.CreateUser(ctx, userPayload(d, true))
	return err
}

func (userEntity) Update(ctx context.Context, gw gateway.Gateway, id int64, d Draft, _ *model.Identity) error {
	_, err := gw.UpdateUser(ctx, id, userPayload(d, false))
	return err
}

func (userEntity) Delete(ctx context.Context, gw gateway.Gateway, id int64) error {
	return gw.DeleteUser(ctx, id)
}
