package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketadmin/internal/model"
)

func sampleProducts() []model.Record {
	return records(newFakeGateway().products)
}

func names(rs []model.Record) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		switch v := r.(type) {
		case model.Product:
			out = append(out, v.Name)
		case model.User:
			out = append(out, v.Username)
		case model.Business:
			out = append(out, v.Name)
		}
	}
	return out
}

func TestFilter_Search(t *testing.T) {
	products := NewRegistry().Entity(model.KindProduct)
	users := NewRegistry().Entity(model.KindUser)

	tests := []struct {
		name   string
		e      Entity
		rs     []model.Record
		query  string
		filter string
		want   []string
	}{
		{"empty query keeps all", products, sampleProducts(), "", FilterAll, []string{"Coffee Mug", "Tea Pot", "Spoon"}},
		{"case-insensitive name and description", products, sampleProducts(), "mug", "", []string{"Coffee Mug", "Tea Pot"}},
		{"upper query", products, sampleProducts(), "MUG", FilterAll, []string{"Coffee Mug", "Tea Pot"}},
		{"status filter", products, sampleProducts(), "", string(model.StatusDraft), []string{"Tea Pot"}},
		{"query and filter", products, sampleProducts(), "mug", string(model.StatusPendingApproval), []string{"Coffee Mug"}},
		{"no match", products, sampleProducts(), "kettle", FilterAll, []string{}},
		{"user full name", users, records(newFakeGateway().users), "ed itor", FilterAll, []string{"ed"}},
		{"user role filter", users, records(newFakeGateway().users), "", string(model.RoleViewer), []string{"vic", "ghost"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(tt.e, tt.rs, tt.query, tt.filter)))
		})
	}
}

func TestFilter_BusinessesIgnoreFilter(t *testing.T) {
	e := NewRegistry().Entity(model.KindBusiness)
	rs := records(newFakeGateway().businesses)

	assert.Equal(t, []string{"Acme", "Globex"}, names(Filter(e, rs, "", "draft")))
	assert.Equal(t, []string{"Globex"}, names(Filter(e, rs, "glob", "admin")))
}

func TestFilter_Properties(t *testing.T) {
	e := NewRegistry().Entity(model.KindProduct)
	rs := sampleProducts()
	before := append([]model.Record(nil), rs...)

	t.Run("identity", func(t *testing.T) {
		assert.Equal(t, rs, Filter(e, rs, "", FilterAll))
		assert.Equal(t, rs, Filter(e, rs, "", ""))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := Filter(e, rs, "mug", string(model.StatusDraft))
		assert.Equal(t, once, Filter(e, once, "mug", string(model.StatusDraft)))
	})

	t.Run("input untouched", func(t *testing.T) {
		Filter(e, rs, "spoon", string(model.StatusApproved))
		assert.Equal(t, before, rs)
	})

	t.Run("empty input", func(t *testing.T) {
		got := Filter(e, nil, "x", FilterAll)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("nil entity", func(t *testing.T) {
		got := Filter(nil, rs, "", FilterAll)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}
