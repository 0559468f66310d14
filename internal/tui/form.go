package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"marketadmin/internal/dashboard"
)

// formView one text input per draft field; select fields cycle through their options instead of taking text
type formView struct {
	fields []dashboard.Field
	inputs []textinput.Model
	focus  int

	// attempted a submit was refused, so errors on empty fields are shown too
	attempted bool
}

func newFormView(ctrl *dashboard.Controller) formView {
	f := formView{}
	f.sync(ctrl)
	return f
}

// sync rebuilds the inputs from the controller's draft, keeping focus
func (f *formView) sync(ctrl *dashboard.Controller) {
	draft := ctrl.Form().Draft()
	f.fields = ctrl.Fields()
	f.inputs = make([]textinput.Model, len(f.fields))
	for i, fd := range f.fields {
		in := textinput.New()
		in.Prompt = ""
		in.SetValue(draft.Get(fd.Name))
		if fd.Type == dashboard.FieldPassword {
			in.EchoMode = textinput.EchoPassword
		}
		f.inputs[i] = in
	}
	if f.focus >= len(f.inputs) {
		f.focus = 0
	}
}

func (f *formView) current() (dashboard.Field, bool) {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return dashboard.Field{}, false
	}
	return f.fields[f.focus], true
}

func (f *formView) focusCmd() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	if fd, ok := f.current(); !ok || fd.Type == dashboard.FieldSelect || fd.ReadOnly {
		return nil
	}
	return f.inputs[f.focus].Focus()
}

func (f *formView) move(delta int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.focusCmd()
}

// cycleOption false when the focused field is not a select
func (f *formView) cycleOption(ctrl *dashboard.Controller, dir int) bool {
	fd, ok := f.current()
	if !ok || fd.Type != dashboard.FieldSelect {
		return false
	}
	if fd.ReadOnly || len(fd.Options) == 0 {
		return true
	}

	idx := -1
	value := f.inputs[f.focus].Value()
	for i, o := range fd.Options {
		if o.Value == value {
			idx = i
		}
	}
	next := fd.Options[(idx+dir+len(fd.Options))%len(fd.Options)]
	if dir > 0 && idx < 0 {
		next = fd.Options[0]
	}
	if err := ctrl.SetField(fd.Name, next.Value); err == nil {
		f.inputs[f.focus].SetValue(next.Value)
	}
	return true
}

func (f *formView) input(ctrl *dashboard.Controller, msg tea.KeyMsg) tea.Cmd {
	fd, ok := f.current()
	if !ok || fd.Type == dashboard.FieldSelect || fd.ReadOnly {
		return nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if err := ctrl.SetField(fd.Name, f.inputs[f.focus].Value()); err != nil {
		// frozen while submitting: put the draft value back
		f.inputs[f.focus].SetValue(ctrl.Form().Draft().Get(fd.Name))
	}
	return cmd
}

func (f formView) view(ctrl *dashboard.Controller) string {
	form := ctrl.Form()

	title := "New " + form.Kind().Singular()
	if form.Target() != nil {
		title = "Edit " + form.Kind().Singular()
	}

	errs := map[string]string{}
	for _, e := range form.Errors() {
		if _, seen := errs[e.Field]; !seen {
			errs[e.Field] = e.Message
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	for i, fd := range f.fields {
		label := labelStyle
		if i == f.focus {
			label = focusedLabel
		}
		name := fd.Label
		if fd.Required {
			name += "*"
		}
		b.WriteString(label.Render(name))
		b.WriteString(f.fieldValue(i, fd))
		b.WriteString("\n")

		if hint := form.Hint(fd.Name); hint != "" {
			b.WriteString(hintStyle.Render(hint))
			b.WriteString("\n")
		}
		if msg, bad := errs[fd.Name]; bad && (f.attempted || f.inputs[i].Value() != "") {
			b.WriteString(hintStyle.Render(errorStyle.Render(msg)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case form.Submitting():
		b.WriteString(statusStyle.Render("saving..."))
	case form.Err() != nil:
		b.WriteString(errorStyle.Render("save failed: " + form.Err().Error()))
	case !form.CanSubmit():
		b.WriteString(statusStyle.Render(fmt.Sprintf("%d field(s) need attention", len(errs))))
	default:
		b.WriteString(statusStyle.Render("ready to save"))
	}
	return boxStyle.Render(b.String())
}

func (f formView) fieldValue(i int, fd dashboard.Field) string {
	if fd.Type != dashboard.FieldSelect {
		if fd.ReadOnly {
			return readOnlyStyle.Render(f.inputs[i].Value())
		}
		return f.inputs[i].View()
	}

	value := f.inputs[i].Value()
	label := value
	for _, o := range fd.Options {
		if o.Value == value {
			label = o.Label
		}
	}
	if label == "" {
		label = "-"
	}
	if fd.ReadOnly {
		return readOnlyStyle.Render(label)
	}
	if i == f.focus {
		return "‹ " + label + " ›"
	}
	return label
}
