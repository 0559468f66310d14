package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Search  key.Binding
	Filter  key.Binding
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Approve key.Binding
	View    key.Binding
	Refresh key.Binding
	Dismiss key.Binding
	Logout  key.Binding
	Quit    key.Binding
	Help    key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Confirm key.Binding
	Decline key.Binding
	NextFld key.Binding
	PrevFld key.Binding
	NextOpt key.Binding
	PrevOpt key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:    key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Approve: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")),
		View:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "read more")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss errors")),
		Logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		Decline: key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		NextFld: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevFld: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		NextOpt: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next option")),
		PrevOpt: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev option")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Search, k.Filter, k.New, k.Edit, k.Delete, k.Approve, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Search, k.Filter},
		{k.New, k.Edit, k.Delete, k.Approve},
		{k.View, k.Refresh, k.Dismiss},
		{k.Logout, k.Quit, k.Help},
	}
}

// formHelp bindings shown while the form is open
type formHelp struct{ k keyMap }

func (f formHelp) ShortHelp() []key.Binding {
	return []key.Binding{f.k.NextFld, f.k.PrevFld, f.k.PrevOpt, f.k.NextOpt, f.k.Submit, f.k.Cancel}
}

func (f formHelp) FullHelp() [][]key.Binding { return [][]key.Binding{f.ShortHelp()} }
