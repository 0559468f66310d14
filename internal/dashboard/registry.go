package dashboard

import (
	"context"
	"fmt"
	"strings"

	"marketadmin/internal/gateway"
	"marketadmin/internal/model"
)

// ==================== Draft ====================

// Draft unsaved form values keyed by field name
type Draft map[string]string

// Get "" for missing fields
func (d Draft) Get(field string) string {
	return d[field]
}

// Has reports whether field is part of the draft at all
func (d Draft) Has(field string) bool {
	_, ok := d[field]
	return ok
}

// Clone independent copy
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ==================== Fields ====================

// FieldType input widget hint
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextArea FieldType = "textarea"
	FieldDecimal  FieldType = "decimal"
	FieldEmail    FieldType = "email"
	FieldPassword FieldType = "password"
	FieldSelect   FieldType = "select"
)

// Option one choice of a select field
type Option struct {
	Value string
	Label string
}

// Field one editable input
type Field struct {
	Name     string
	Label    string
	Type     FieldType
	Required bool
	ReadOnly bool
	Options  []Option
}

// FieldError a client-side validation failure; it blocks submission, it is never raised
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ==================== Lookup ====================

// Lookup cross-collection data the display projection needs
type Lookup interface {
	Businesses() []model.Business
	BusinessName(id int64) (string, bool)
	UserCount(business int64) int
}

// ==================== Entity ====================

// Entity everything the engine knows about one kind.
// target is the record being edited, nil while creating.
type Entity interface {
	Kind() model.EntityKind

	Fields(target model.Record, lk Lookup) []Field
	Blank(identity *model.Identity) Draft
	Project(r model.Record) Draft
	Validate(d Draft, target model.Record) []FieldError

	Columns() []string
	Cells(r model.Record, lk Lookup) []string
	Searchable(r model.Record) []string
	// Discriminator value matched by the list filter, "" when the kind has none
	Discriminator(r model.Record) string
	FilterOptions() []string

	List(ctx context.Context, gw gateway.Gateway) ([]model.Record, error)
	Create(ctx context.Context, gw gateway.Gateway, d Draft, identity *model.Identity) error
	Update(ctx context.Context, gw gateway.Gateway, id int64, d Draft, identity *model.Identity) error
	Delete(ctx context.Context, gw gateway.Gateway, id int64) error
}

// Hinter optional per-field helper text, e.g. a word counter
type Hinter interface {
	Hint(field string, d Draft) string
}

// ==================== Registry ====================

// Registry kind -> strategy
type Registry struct {
	entities map[model.EntityKind]Entity
}

// NewRegistry the three built-in kinds
func NewRegistry() *Registry {
	r := &Registry{entities: map[model.EntityKind]Entity{}}
	r.Register(productEntity{})
	r.Register(userEntity{})
	r.Register(businessEntity{})
	return r
}

// Register replaces any strategy for the same kind
func (r *Registry) Register(e Entity) {
	r.entities[e.Kind()] = e
}

// Entity nil for unknown kinds
func (r *Registry) Entity(kind model.EntityKind) Entity {
	return r.entities[kind]
}

// ==================== shared helpers ====================

func requireFields(d Draft, fields []Field) []FieldError {
	var errs []FieldError
	for _, f := range fields {
		if f.Required && strings.TrimSpace(d.Get(f.Name)) == "" {
			errs = append(errs, FieldError{Field: f.Name, Message: f.Label + " is required"})
		}
	}
	return errs
}

func checkOption(d Draft, f Field) *FieldError {
	v := d.Get(f.Name)
	if v == "" || f.Options == nil {
		return nil
	}
	for _, o := range f.Options {
		if o.Value == v {
			return nil
		}
	}
	return &FieldError{Field: f.Name, Message: fmt.Sprintf("%q is not a valid choice", v)}
}
