// Package query builds list queries from an explicit specification instead
// of ad-hoc filter chains in every handler.
package query

import (
	"strings"

	"gorm.io/gorm"
)

// Filter is an exact-match condition on a column.
type Filter struct {
	Column string
	Value  any
}

// ListSpec describes the shape of a list query: equality filters, a
// case-insensitive search term over a fixed set of columns, ordering and
// pagination. Columns are chosen by handlers from allow-lists, never taken
// from the request verbatim.
type ListSpec struct {
	Filters       []Filter
	SearchTerm    string
	SearchColumns []string
	OrderBy       string
	Descending    bool
	Limit         int
	Offset        int
}

func (s ListSpec) Apply(db *gorm.DB) *gorm.DB {
	for _, f := range s.Filters {
		db = db.Where(f.Column+" = ?", f.Value)
	}

	if s.SearchTerm != "" && len(s.SearchColumns) > 0 {
		pattern := "%" + strings.ToLower(s.SearchTerm) + "%"
		clauses := make([]string, len(s.SearchColumns))
		args := make([]any, len(s.SearchColumns))
		for i, col := range s.SearchColumns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		db = db.Where(strings.Join(clauses, " OR "), args...)
	}

	if s.OrderBy != "" {
		direction := " ASC"
		if s.Descending {
			direction = " DESC"
		}
		db = db.Order(s.OrderBy + direction)
	}

	if s.Limit > 0 {
		db = db.Limit(s.Limit)
	}
	if s.Offset > 0 {
		db = db.Offset(s.Offset)
	}
	return db
}

// Order resolves a requested sort key against an allow-list, falling back
// to the default column when the key is unknown or empty. A leading "-"
// requests descending order.
func Order(requested string, allowed map[string]string, fallback string, fallbackDesc bool) (string, bool) {
	descending := false
	key := requested
	if strings.HasPrefix(key, "-") {
		descending = true
		key = key[1:]
	}
	if column, ok := allowed[key]; ok {
		return column, descending
	}
	return fallback, fallbackDesc
}
