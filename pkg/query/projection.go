// Package query builds parameterized PostgreSQL SELECT statements from a
// projection of view names onto table columns.
package query

import (
	"slices"
	"strings"
)

// ProjectionMap maps view names (the names clients filter and sort by) onto
// alias-qualified columns of a single table. Column order follows Project calls.
type ProjectionMap struct {
	table   string
	alias   string
	index   map[string]string
	columns []string
}

// NewProjectionMap starts a projection over schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		table: schema + "." + table,
		alias: alias,
		index: map[string]string{},
	}
}

// Project maps column to viewName and appends it to the select list.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.index[viewName] = qualified
	p.columns = append(p.columns, qualified)
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string { return p.alias }

// Table returns the FROM clause target, "schema.table alias".
func (p *ProjectionMap) Table() string { return p.table + " " + p.alias }

// Column resolves viewName to its qualified column. Unmapped names pass through
// unchanged; callers that take names from requests must check Has first.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.index[viewName]; ok {
		return col
	}
	return viewName
}

// Has reports whether viewName is mapped.
func (p *ProjectionMap) Has(viewName string) bool {
	_, ok := p.index[viewName]
	return ok
}

// Columns returns the select list.
func (p *ProjectionMap) Columns() string { return strings.Join(p.columns, ", ") }

// ColumnList returns a copy of the qualified columns in select order.
func (p *ProjectionMap) ColumnList() []string { return slices.Clone(p.columns) }
