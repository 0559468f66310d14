package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marketadmin/internal/model"
)

func TestResolve(t *testing.T) {
	all := Capabilities{Create: true, Edit: true, Delete: true, Approve: true}
	write := Capabilities{Create: true, Edit: true, Delete: true}

	tests := []struct {
		name string
		role model.Role
		kind model.EntityKind
		want Capabilities
	}{
		{"admin products", model.RoleAdmin, model.KindProduct, all},
		{"approver products", model.RoleApprover, model.KindProduct, all},
		{"editor products", model.RoleEditor, model.KindProduct, write},
		{"viewer products", model.RoleViewer, model.KindProduct, Capabilities{}},
		{"admin users", model.RoleAdmin, model.KindUser, all},
		{"admin businesses", model.RoleAdmin, model.KindBusiness, all},
		{"editor users", model.RoleEditor, model.KindUser, Capabilities{}},
		{"approver businesses", model.RoleApprover, model.KindBusiness, Capabilities{}},
		{"unknown role", model.Role("owner"), model.KindProduct, Capabilities{}},
		{"empty role", "", model.KindProduct, Capabilities{}},
		{"unknown kind", model.RoleAdmin, model.EntityKind("orders"), Capabilities{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.role, tt.kind)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Resolve(tt.role, tt.kind), "same input, same answer")
		})
	}
}

func TestResolve_ApproveImpliesEdit(t *testing.T) {
	for _, role := range append(append([]model.Role{}, model.Roles...), "", "owner") {
		for _, kind := range model.Kinds {
			caps := Resolve(role, kind)
			if caps.Approve {
				assert.True(t, caps.Edit, "%s/%s", role, kind)
			}
			if caps.Edit || caps.Delete {
				assert.True(t, Visible(role, kind), "%s/%s actions on a hidden tab", role, kind)
			}
		}
	}
}

func TestTabs(t *testing.T) {
	assert.Equal(t, []model.EntityKind{model.KindProduct, model.KindUser, model.KindBusiness}, Tabs(model.RoleAdmin))
	assert.Equal(t, []model.EntityKind{model.KindProduct}, Tabs(model.RoleEditor))
	assert.Equal(t, []model.EntityKind{model.KindProduct}, Tabs(model.RoleApprover))
	assert.Equal(t, []model.EntityKind{model.KindProduct}, Tabs(model.RoleViewer))
	assert.Empty(t, Tabs(""))
	assert.Empty(t, Tabs("owner"))
}
