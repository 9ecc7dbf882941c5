package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// condition renders one WHERE term. bind records an argument and returns its
// positional placeholder.
type condition func(bind func(arg any) string) string

// SortField is one ORDER BY term. Field is a view name from the projection.
type SortField struct {
	Field      string
	Descending bool
}

// Builder assembles SELECT statements over a projection. Conditions are ANDed
// and arguments are numbered in the order the conditions were added.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder starts a query over projection. defaultSort applies when no
// explicit order is set.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{projection: projection, defaultSort: defaultSort}
}

// ParseSortFields parses "name,-createdAt" into sort fields; a leading "-"
// sorts descending. Empty input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Build returns the filtered, ordered SELECT.
func (b *Builder) Build() (string, []any) {
	where, args := b.where()
	return b.selectFrom() + where + b.orderBy(), args
}

// BuildCount returns SELECT COUNT(*) with the same filters.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return "SELECT COUNT(*) FROM " + b.projection.Table() + where, args
}

// BuildPage returns Build limited to one page. page is one-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.where()
	return fmt.Sprintf("%s%s%s LIMIT %d OFFSET %d",
		b.selectFrom(), where, b.orderBy(), pageSize, (page-1)*pageSize,
	), args
}

// BuildSingle selects the row whose idField equals id, ignoring other conditions.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	return b.selectFrom() + " WHERE " + b.projection.Column(idField) + " = $1", []any{id}
}

// BuildSingleOrNull returns the filtered SELECT limited to one row, ordered
// so the first row is deterministic.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	where, args := b.where()
	return b.selectFrom() + where + b.orderBy() + " LIMIT 1", args
}

// OrderByFields replaces the default sort.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereContains matches a case-insensitive substring. Nil or empty is a no-op.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.compare(field, "ILIKE", "%"+*value+"%")
}

// WhereEquals matches equality. A nil value is a no-op.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.compare(field, "=", value)
}

// WhereAtLeast matches field >= value. A nil value is a no-op.
func (b *Builder) WhereAtLeast(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.compare(field, ">=", value)
}

// WhereIn matches any of values. An empty list is a no-op.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}
	col := b.projection.Column(field)
	return b.add(func(bind func(any) string) string {
		ph := make([]string, len(values))
		for i, v := range values {
			ph[i] = bind(v)
		}
		return col + " IN (" + strings.Join(ph, ", ") + ")"
	})
}

// WhereTagged matches rows whose JSONB array column contains value as an
// element. Nil or empty is a no-op.
func (b *Builder) WhereTagged(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col := b.projection.Column(field)
	return b.add(func(bind func(any) string) string {
		return col + " @> jsonb_build_array(" + bind(*value) + "::text)"
	})
}

// WhereNullable matches equality, or IS NULL when value is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	if isNil(value) {
		col := b.projection.Column(field)
		return b.add(func(func(any) string) string { return col + " IS NULL" })
	}
	return b.compare(field, "=", value)
}

// WhereSearch matches a case-insensitive substring in any of fields.
// Nil or empty search is a no-op.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}
	pattern := "%" + *search + "%"
	return b.add(func(bind func(any) string) string {
		terms := make([]string, len(fields))
		for i, f := range fields {
			terms[i] = b.projection.Column(f) + " ILIKE " + bind(pattern)
		}
		return "(" + strings.Join(terms, " OR ") + ")"
	})
}

func (b *Builder) compare(field, op string, value any) *Builder {
	col := b.projection.Column(field)
	return b.add(func(bind func(any) string) string {
		return col + " " + op + " " + bind(value)
	})
}

func (b *Builder) add(c condition) *Builder {
	b.conditions = append(b.conditions, c)
	return b
}

func (b *Builder) selectFrom() string {
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.Table()
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	bind := func(arg any) string {
		args = append(args, arg)
		return "$" + strconv.Itoa(len(args))
	}

	terms := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		terms[i] = c(bind)
	}
	return " WHERE " + strings.Join(terms, " AND "), args
}

func (b *Builder) orderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}

	var terms []string
	for _, f := range fields {
		// client-supplied names never reach the SQL unless mapped
		if !b.projection.Has(f.Field) {
			continue
		}
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		terms = append(terms, b.projection.Column(f.Field)+dir)
	}

	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
