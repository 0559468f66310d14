package dashboard

import (
	"strings"

	"marketadmin/internal/model"
)

// FilterAll filter value that lets every record through
const FilterAll = "all"

// Filter the rows of records visible for query and filter.
// Case-insensitive substring match on the kind's searchable fields, AND discriminator == filter
// unless filter is "" or "all". Kinds without a discriminator ignore the filter.
// Pure: records is never modified, order is kept, the result is never nil.
func Filter(e Entity, records []model.Record, query, filter string) []model.Record {
	out := make([]model.Record, 0, len(records))
	if e == nil {
		return out
	}

	q := strings.ToLower(query)
	discriminated := filter != "" && filter != FilterAll && len(e.FilterOptions()) > 0
	for _, r := range records {
		if !matchesQuery(e, r, q) {
			continue
		}
		if discriminated && e.Discriminator(r) != filter {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(e Entity, r model.Record, q string) bool {
	if q == "" {
		return true
	}
	for _, field := range e.Searchable(r) {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
