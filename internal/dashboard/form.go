package dashboard

import (
	"errors"

	"marketadmin/internal/model"
)

// FormState where the create/edit form is in its lifecycle
type FormState int

const (
	FormClosed FormState = iota
	FormCreating
	FormEditing
)

func (s FormState) String() string {
	switch s {
	case FormCreating:
		return "creating"
	case FormEditing:
		return "editing"
	}
	return "closed"
}

// Form holds at most one draft, scoped to one entity kind.
// Submitting is a sub-state of Creating/Editing: the draft is frozen until the call resolves.
type Form struct {
	entity     Entity
	state      FormState
	target     model.Record
	draft      Draft
	submitting bool
	ticket     uint64
	lastErr    error
}

// State Closed, Creating or Editing
func (f *Form) State() FormState { return f.state }

func (f *Form) IsOpen() bool { return f.state != FormClosed }

func (f *Form) Submitting() bool { return f.submitting }

// Kind kind of the open draft, "" when closed
func (f *Form) Kind() model.EntityKind {
	if f.entity == nil || f.state == FormClosed {
		return ""
	}
	return f.entity.Kind()
}

// Target record being edited, nil while creating or closed
func (f *Form) Target() model.Record { return f.target }

// Draft copy of the current values
func (f *Form) Draft() Draft {
	if f.draft == nil {
		return nil
	}
	return f.draft.Clone()
}

// Err failure of the last submission, cleared by the next one
func (f *Form) Err() error { return f.lastErr }

// OpenCreate seeds a blank draft; any previous draft is discarded
func (f *Form) OpenCreate(e Entity, identity *model.Identity) {
	f.reset()
	f.entity = e
	f.state = FormCreating
	f.draft = e.Blank(identity)
}

// OpenEdit seeds the draft from r; only editable fields are copied
func (f *Form) OpenEdit(e Entity, r model.Record) {
	f.reset()
	f.entity = e
	f.state = FormEditing
	f.target = r
	f.draft = e.Project(r)
}

// Cancel discards the draft. A submission already on the wire still completes; its result no longer touches the form.
func (f *Form) Cancel() {
	f.reset()
}

// Fields the inputs of the open form
func (f *Form) Fields(lk Lookup) []Field {
	if !f.IsOpen() {
		return nil
	}
	return f.entity.Fields(f.target, lk)
}

// Set updates one field of the draft
func (f *Form) Set(field, value string) error {
	if !f.IsOpen() {
		return ErrFormClosed
	}
	if f.submitting {
		return ErrSubmitInFlight
	}

	for _, fd := range f.entity.Fields(f.target, nil) {
		if fd.Name != field {
			continue
		}
		if fd.ReadOnly {
			return ErrReadOnlyField
		}
		f.draft[field] = value
		return nil
	}
	return ErrUnknownField
}

// Errors advisory validation of the current draft
func (f *Form) Errors() []FieldError {
	if !f.IsOpen() {
		return nil
	}
	return f.entity.Validate(f.draft, f.target)
}

// CanSubmit false while invalid or while a submission is in flight
func (f *Form) CanSubmit() bool {
	return f.IsOpen() && !f.submitting && len(f.Errors()) == 0
}

// Hint helper text for field, "" when the kind has none
func (f *Form) Hint(field string) string {
	if !f.IsOpen() {
		return ""
	}
	if h, ok := f.entity.(Hinter); ok {
		return h.Hint(field, f.draft)
	}
	return ""
}

// BeginSubmit enters Submitting and hands out a snapshot of the draft plus a ticket for CompleteSubmit
func (f *Form) BeginSubmit() (Draft, uint64, error) {
	if !f.IsOpen() {
		return nil, 0, ErrFormClosed
	}
	if f.submitting {
		return nil, 0, ErrSubmitInFlight
	}
	if errs := f.Errors(); len(errs) > 0 {
		return nil, 0, &InvalidDraftError{Errors: errs}
	}

	f.ticket++
	f.submitting = true
	f.lastErr = nil
	return f.draft.Clone(), f.ticket, nil
}

// CompleteSubmit success closes the form, failure returns to Creating/Editing with the draft intact.
// Stale tickets (form cancelled or reopened since) are ignored; it reports whether the ticket applied.
func (f *Form) CompleteSubmit(ticket uint64, err error) bool {
	if !f.submitting || ticket != f.ticket {
		return false
	}

	f.submitting = false
	if err != nil {
		f.lastErr = err
		return true
	}
	f.reset()
	return true
}

// reset keeps the ticket counter so late completions stay recognizable as stale
func (f *Form) reset() {
	f.entity = nil
	f.state = FormClosed
	f.target = nil
	f.draft = nil
	f.submitting = false
	f.lastErr = nil
}

// ==================== Errors ====================

var (
	ErrFormClosed     = errors.New("no form is open")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	ErrUnknownField   = errors.New("field is not part of this form")
	ErrReadOnlyField  = errors.New("field cannot be changed")
	ErrInvalidDraft   = errors.New("draft is not valid")
)

// InvalidDraftError submission refused by client-side validation; Is(ErrInvalidDraft)
type InvalidDraftError struct {
	Errors []FieldError
}

func (e *InvalidDraftError) Error() string {
	if len(e.Errors) == 0 {
		return ErrInvalidDraft.Error()
	}
	return ErrInvalidDraft.Error() + ": " + e.Errors[0].Error()
}

func (e *InvalidDraftError) Is(target error) bool {
	return target == ErrInvalidDraft
}
