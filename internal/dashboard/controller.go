package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"marketadmin/internal/gateway"
	"marketadmin/internal/model"
	"marketadmin/internal/session"
)

// Options controller settings
type Options struct {
	// ShowErrors surfaces gateway failures as notices; failures are logged either way
	ShowErrors bool
	Logger     *zap.Logger
	Registry   *Registry
	// MaxNotices oldest notices are dropped beyond this, default 20
	MaxNotices int
}

// Notice a non-blocking failure report
type Notice struct {
	Kind    model.EntityKind
	Op      string
	Message string
	At      time.Time
}

// PendingDelete a delete waiting for confirmation
type PendingDelete struct {
	Kind  model.EntityKind
	ID    int64
	Label string
}

// RowActions controls offered for one row
type RowActions struct {
	Edit    bool
	Delete  bool
	Approve bool
}

// ==================== Controller ====================

// Controller the dashboard view state. Owned by one goroutine; gateway work leaves as Effects
// and comes back as Events. Collections live exactly as long as the session.
type Controller struct {
	session    *session.Context
	gw         gateway.Gateway
	reg        *Registry
	log        *zap.Logger
	showErrors bool
	maxNotices int

	active      model.EntityKind
	query       string
	filter      string
	collections map[model.EntityKind][]model.Record
	loaded      map[model.EntityKind]bool
	loading     map[model.EntityKind]bool
	generation  map[model.EntityKind]uint64

	form          Form
	approval      Approval
	pendingDelete *PendingDelete
	notices       []Notice
	loggedOut     bool
}

var _ Lookup = (*Controller)(nil)

// New products is the default tab
func New(sc *session.Context, gw gateway.Gateway, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.MaxNotices <= 0 {
		opts.MaxNotices = 20
	}

	return &Controller{
		session:     sc,
		gw:          gw,
		reg:         opts.Registry,
		log:         opts.Logger.Named("dashboard"),
		showErrors:  opts.ShowErrors,
		maxNotices:  opts.MaxNotices,
		active:      model.KindProduct,
		filter:      FilterAll,
		collections: map[model.EntityKind][]model.Record{},
		loaded:      map[model.EntityKind]bool{},
		loading:     map[model.EntityKind]bool{},
		generation:  map[model.EntityKind]uint64{},
	}
}

// ==================== Session ====================

// Identity nil once logged out
func (c *Controller) Identity() *model.Identity {
	if c.loggedOut {
		return nil
	}
	return c.session.Identity()
}

func (c *Controller) Authenticated() bool {
	return c.Identity() != nil
}

func (c *Controller) role() model.Role {
	if id := c.Identity(); id != nil {
		return id.Role
	}
	return ""
}

// Logout tears the view down: session, collections, draft, confirmation and in-flight bookkeeping.
// Events arriving afterwards are dropped.
func (c *Controller) Logout() {
	c.session.Clear()
	c.loggedOut = true
	c.collections = map[model.EntityKind][]model.Record{}
	c.loaded = map[model.EntityKind]bool{}
	c.loading = map[model.EntityKind]bool{}
	c.form.Cancel()
	c.approval.reset()
	c.pendingDelete = nil
	c.notices = nil
	c.query = ""
	c.filter = FilterAll
	c.active = model.KindProduct
}

// ==================== Navigation ====================

// Active the selected tab
func (c *Controller) Active() model.EntityKind { return c.active }

// Tabs visible tabs for the session's role
func (c *Controller) Tabs() []model.EntityKind {
	return Tabs(c.role())
}

// Capabilities of the session's role on kind
func (c *Controller) Capabilities(kind model.EntityKind) Capabilities {
	return Resolve(c.role(), kind)
}

// Mount initial loads: products always, users and businesses for admins
func (c *Controller) Mount() []Effect {
	var effects []Effect
	for _, kind := range c.Tabs() {
		if eff := c.Load(kind); eff != nil {
			effects = append(effects, eff)
		}
	}
	return effects
}

// SelectTab switching discards any open draft and pending confirmation and resets search and filter
func (c *Controller) SelectTab(kind model.EntityKind) error {
	if !Visible(c.role(), kind) {
		return ErrTabNotVisible
	}
	if kind == c.active {
		return nil
	}
	c.active = kind
	c.form.Cancel()
	c.pendingDelete = nil
	c.query = ""
	c.filter = FilterAll
	return nil
}

// ==================== Loading ====================

// Load full fetch of kind; responses of earlier loads for the same kind are discarded once this one is issued
func (c *Controller) Load(kind model.EntityKind) Effect {
	if !Visible(c.role(), kind) {
		return nil
	}
	e := c.reg.Entity(kind)
	if e == nil {
		return nil
	}

	c.generation[kind]++
	gen := c.generation[kind]
	c.loading[kind] = true
	gw := c.gw

	return func(ctx context.Context) Event {
		list, err := e.List(ctx, gw)
		return LoadedEvent{Kind: kind, Generation: gen, Records: list, Err: err}
	}
}

// Refresh reloads the active tab
func (c *Controller) Refresh() []Effect {
	if eff := c.Load(c.active); eff != nil {
		return []Effect{eff}
	}
	return nil
}

// Loading a fetch for kind is outstanding
func (c *Controller) Loading(kind model.EntityKind) bool { return c.loading[kind] }

// Loaded at least one fetch for kind succeeded
func (c *Controller) Loaded(kind model.EntityKind) bool { return c.loaded[kind] }

// Records latest fetched collection of kind
func (c *Controller) Records(kind model.EntityKind) []model.Record {
	return c.collections[kind]
}

// ==================== Search & filter ====================

func (c *Controller) Query() string  { return c.query }
func (c *Controller) Filter() string { return c.filter }

func (c *Controller) SetQuery(q string) {
	c.query = q
}

// SetFilter accepts "all" plus the active kind's filter values
func (c *Controller) SetFilter(f string) error {
	if f == "" {
		f = FilterAll
	}
	for _, opt := range c.FilterOptions() {
		if opt == f {
			c.filter = f
			return nil
		}
	}
	if f == FilterAll {
		c.filter = f
		return nil
	}
	return ErrUnknownFilter
}

// FilterOptions filter values of the active kind, empty when it has no filter
func (c *Controller) FilterOptions() []string {
	if e := c.reg.Entity(c.active); e != nil {
		return e.FilterOptions()
	}
	return nil
}

// Rows the active collection after search and filter
func (c *Controller) Rows() []model.Record {
	return Filter(c.reg.Entity(c.active), c.collections[c.active], c.query, c.filter)
}

// Columns headings of the active kind
func (c *Controller) Columns() []string {
	if e := c.reg.Entity(c.active); e != nil {
		return e.Columns()
	}
	return nil
}

// Cells display projection of r, derived fields resolved against the loaded collections
func (c *Controller) Cells(r model.Record) []string {
	if e := c.reg.Entity(r.Kind()); e != nil {
		return e.Cells(r, c)
	}
	return nil
}

// CanCreate create control for the active tab
func (c *Controller) CanCreate() bool {
	return c.Capabilities(c.active).Create
}

// Actions row controls; approve only for products not yet approved and not already being approved
func (c *Controller) Actions(r model.Record) RowActions {
	caps := c.Capabilities(r.Kind())
	acts := RowActions{Edit: caps.Edit, Delete: caps.Delete}
	if p, ok := r.(model.Product); ok {
		acts.Approve = CanApprove(caps, p) && !c.approval.Pending(p.ID)
	}
	return acts
}

// ==================== Lookup ====================

// Businesses loaded businesses
func (c *Controller) Businesses() []model.Business {
	list := make([]model.Business, 0, len(c.collections[model.KindBusiness]))
	for _, r := range c.collections[model.KindBusiness] {
		if b, ok := r.(model.Business); ok {
			list = append(list, b)
		}
	}
	return list
}

// BusinessName false when id is not among the loaded businesses
func (c *Controller) BusinessName(id int64) (string, bool) {
	for _, r := range c.collections[model.KindBusiness] {
		if b, ok := r.(model.Business); ok && b.ID == id {
			return b.Name, true
		}
	}
	return "", false
}

// UserCount loaded users belonging to business
func (c *Controller) UserCount(business int64) int {
	n := 0
	for _, r := range c.collections[model.KindUser] {
		if u, ok := r.(model.User); ok && u.BusinessID == business {
			n++
		}
	}
	return n
}

// ==================== Form ====================

// Form the create/edit form; read-only access for rendering
func (c *Controller) Form() *Form { return &c.form }

// Fields inputs of the open form
func (c *Controller) Fields() []Field { return c.form.Fields(c) }

// OpenCreate blank draft for the active tab
func (c *Controller) OpenCreate() error {
	if !c.Authenticated() {
		return ErrNotAuthenticated
	}
	if !c.CanCreate() {
		return ErrNotPermitted
	}
	c.pendingDelete = nil
	c.form.OpenCreate(c.reg.Entity(c.active), c.Identity())
	return nil
}

// OpenEdit prefilled draft for record id of the active tab
func (c *Controller) OpenEdit(id int64) error {
	if !c.Capabilities(c.active).Edit {
		return ErrNotPermitted
	}
	r, ok := c.find(c.active, id)
	if !ok {
		return ErrRecordNotFound
	}
	c.pendingDelete = nil
	c.form.OpenEdit(c.reg.Entity(c.active), r)
	return nil
}

func (c *Controller) SetField(name, value string) error {
	return c.form.Set(name, value)
}

func (c *Controller) CancelForm() {
	c.form.Cancel()
}

// Submit freezes the draft and returns the create/update call
func (c *Controller) Submit() (Effect, error) {
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if !c.form.IsOpen() {
		return nil, ErrFormClosed
	}

	e := c.form.entity
	target := c.form.Target()
	draft, ticket, err := c.form.BeginSubmit()
	if err != nil {
		return nil, err
	}

	kind := e.Kind()
	identity := c.Identity()
	gw := c.gw
	create := target == nil
	var id int64
	if !create {
		id = target.RecordID()
	}

	return func(ctx context.Context) Event {
		var err error
		if create {
			err = e.Create(ctx, gw, draft, identity)
		} else {
			err = e.Update(ctx, gw, id, draft, identity)
		}
		return SubmittedEvent{Kind: kind, Ticket: ticket, Create: create, Err: err}
	}, nil
}

// ==================== Delete ====================

// RequestDelete first step: remember what to delete, nothing is sent yet
func (c *Controller) RequestDelete(id int64) error {
	if !c.Capabilities(c.active).Delete {
		return ErrNotPermitted
	}
	r, ok := c.find(c.active, id)
	if !ok {
		return ErrRecordNotFound
	}
	c.pendingDelete = &PendingDelete{Kind: c.active, ID: id, Label: c.label(r)}
	return nil
}

// PendingDelete nil when nothing awaits confirmation
func (c *Controller) PendingDelete() *PendingDelete {
	if c.pendingDelete == nil {
		return nil
	}
	cp := *c.pendingDelete
	return &cp
}

// ConfirmDelete second step: returns the delete call
func (c *Controller) ConfirmDelete() (Effect, error) {
	pd := c.pendingDelete
	if pd == nil {
		return nil, ErrNoPendingDelete
	}
	c.pendingDelete = nil

	if !c.Capabilities(pd.Kind).Delete {
		return nil, ErrNotPermitted
	}
	e := c.reg.Entity(pd.Kind)
	gw := c.gw
	kind, id := pd.Kind, pd.ID

	return func(ctx context.Context) Event {
		return DeletedEvent{Kind: kind, ID: id, Err: e.Delete(ctx, gw, id)}
	}, nil
}

// CancelDelete declining has no side effect
func (c *Controller) CancelDelete() {
	c.pendingDelete = nil
}

// ==================== Approve ====================

// Approve one product per call
func (c *Controller) Approve(id int64) (Effect, error) {
	r, ok := c.find(model.KindProduct, id)
	if !ok {
		return nil, ErrRecordNotFound
	}
	p := r.(model.Product)
	if err := c.approval.Begin(c.Capabilities(model.KindProduct), p); err != nil {
		return nil, err
	}

	gw := c.gw
	return func(ctx context.Context) Event {
		_, err := gw.ApproveProduct(ctx, id)
		return ApprovedEvent{ID: id, Err: err}
	}, nil
}

// Describe full product for the description viewer
func (c *Controller) Describe(id int64) (model.Product, error) {
	r, ok := c.find(model.KindProduct, id)
	if !ok {
		return model.Product{}, ErrRecordNotFound
	}
	return r.(model.Product), nil
}

// ==================== Events ====================

// Handle applies one event and returns the follow-up loads it requires.
// Reloads are issued only after a mutation succeeded.
func (c *Controller) Handle(ev Event) []Effect {
	if c.loggedOut {
		return nil
	}

	switch ev := ev.(type) {
	case LoadedEvent:
		c.handleLoaded(ev)
	case SubmittedEvent:
		c.form.CompleteSubmit(ev.Ticket, ev.Err)
		if ev.Err != nil {
			op := "update"
			if ev.Create {
				op = "create"
			}
			c.fail(ev.Kind, op, ev.Err)
			return nil
		}
		return c.reload(ev.Kind)
	case DeletedEvent:
		if ev.Err != nil {
			c.fail(ev.Kind, "delete", ev.Err)
			return nil
		}
		kinds := []model.EntityKind{ev.Kind}
		if ev.Kind == model.KindBusiness {
			// the server removes the business's users and products with it
			kinds = append(kinds, model.KindUser, model.KindProduct)
		}
		return c.reload(kinds...)
	case ApprovedEvent:
		c.approval.Complete(ev.ID)
		if ev.Err != nil {
			c.fail(model.KindProduct, "approve", ev.Err)
			return nil
		}
		return c.reload(model.KindProduct)
	}
	return nil
}

func (c *Controller) handleLoaded(ev LoadedEvent) {
	if ev.Generation != c.generation[ev.Kind] {
		c.log.Debug("stale load discarded", zap.String("kind", string(ev.Kind)), zap.Uint64("generation", ev.Generation))
		return
	}
	c.loading[ev.Kind] = false

	if ev.Err != nil {
		// keep the previous collection
		c.fail(ev.Kind, "load", ev.Err)
		return
	}
	if ev.Records == nil {
		ev.Records = []model.Record{}
	}
	c.collections[ev.Kind] = ev.Records
	c.loaded[ev.Kind] = true
}

func (c *Controller) reload(kinds ...model.EntityKind) []Effect {
	var effects []Effect
	for _, k := range kinds {
		if eff := c.Load(k); eff != nil {
			effects = append(effects, eff)
		}
	}
	return effects
}

// ==================== Notices ====================

func (c *Controller) fail(kind model.EntityKind, op string, err error) {
	c.log.Warn("gateway call failed", zap.String("kind", string(kind)), zap.String("op", op), zap.Error(err))

	c.notices = append(c.notices, Notice{
		Kind:    kind,
		Op:      op,
		Message: fmt.Sprintf("could not %s %s: %s", op, kind.Singular(), describeErr(err)),
		At:      time.Now(),
	})
	if len(c.notices) > c.maxNotices {
		c.notices = c.notices[len(c.notices)-c.maxNotices:]
	}
}

// Notices pending failure reports; empty when errors are configured to stay silent
func (c *Controller) Notices() []Notice {
	if !c.showErrors {
		return nil
	}
	return append([]Notice(nil), c.notices...)
}

func (c *Controller) DismissNotices() {
	c.notices = nil
}

func describeErr(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// ==================== helpers ====================

func (c *Controller) find(kind model.EntityKind, id int64) (model.Record, bool) {
	for _, r := range c.collections[kind] {
		if r.RecordID() == id {
			return r, true
		}
	}
	return nil, false
}

func (c *Controller) label(r model.Record) string {
	switch v := r.(type) {
	case model.Product:
		return v.Name
	case model.User:
		return v.Username
	case model.Business:
		return v.Name
	}
	return fmt.Sprintf("#%d", r.RecordID())
}

// ==================== Errors ====================

var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrTabNotVisible    = errors.New("tab is not available for this role")
	ErrNotPermitted     = errors.New("action is not permitted for this role")
	ErrRecordNotFound   = errors.New("record is not in the loaded collection")
	ErrNoPendingDelete  = errors.New("no delete awaiting confirmation")
	ErrUnknownFilter    = errors.New("unknown filter value")
)
