// Package query builds SQL SELECT statements with PostgreSQL positional
// parameters. Conditions compose with AND; a builder is immutable, so a
// shared base can be extended per query without copying state by hand.
package query

import (
	"fmt"
	"strings"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

type Builder struct {
	table        string
	selectCols   []string
	whereClauses []Condition
	groupByCol   string
	orderByCol   string
	orderByDir   Direction
	limitVal     int
	offsetVal    int
}

// From creates a new Builder for the specified table.
func From(table string) *Builder {
	return &Builder{table: table}
}

// Select specifies the expressions to retrieve. Without it, SELECT *.
func (b *Builder) Select(columns ...string) *Builder {
	nb := b.clone()
	nb.selectCols = append(nb.selectCols, columns...)
	return nb
}

// Where adds conditions, combined with AND.
func (b *Builder) Where(conditions ...Condition) *Builder {
	nb := b.clone()
	nb.whereClauses = append(nb.whereClauses, conditions...)
	return nb
}

// GroupBy sets a GROUP BY column.
func (b *Builder) GroupBy(column string) *Builder {
	nb := b.clone()
	nb.groupByCol = column
	return nb
}

// OrderBy sets the sort column and direction.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	nb := b.clone()
	nb.orderByCol = column
	nb.orderByDir = direction
	return nb
}

// Limit sets the maximum number of rows to return.
func (b *Builder) Limit(limit int) *Builder {
	nb := b.clone()
	nb.limitVal = limit
	return nb
}

// Offset sets the number of rows to skip.
func (b *Builder) Offset(offset int) *Builder {
	nb := b.clone()
	nb.offsetVal = offset
	return nb
}

// Count derives a COUNT(*) query with the same FROM and WHERE clauses,
// dropping sorting and pagination.
func (b *Builder) Count() *Builder {
	nb := b.clone()
	nb.selectCols = []string{"COUNT(*)"}
	nb.groupByCol = ""
	nb.orderByCol = ""
	nb.limitVal = 0
	nb.offsetVal = 0
	return nb
}

// Build renders the SQL text and its argument list.
func (b *Builder) Build() (string, []interface{}) {
	var sql strings.Builder
	var args []interface{}

	sql.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.selectCols, ", "))
	}
	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	if len(b.whereClauses) > 0 {
		sql.WriteString(" WHERE ")
		parts := make([]string, 0, len(b.whereClauses))
		argIndex := 1
		for _, cond := range b.whereClauses {
			fragment, condArgs := cond.SQL(argIndex)
			parts = append(parts, fragment)
			args = append(args, condArgs...)
			argIndex += len(condArgs)
		}
		sql.WriteString(strings.Join(parts, " AND "))
	}

	if b.groupByCol != "" {
		sql.WriteString(" GROUP BY ")
		sql.WriteString(b.groupByCol)
	}

	if b.orderByCol != "" {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(b.orderByCol)
		if b.orderByDir == Desc {
			sql.WriteString(" DESC")
		} else {
			sql.WriteString(" ASC")
		}
	}

	if b.limitVal > 0 {
		sql.WriteString(fmt.Sprintf(" LIMIT %d", b.limitVal))
	}
	if b.offsetVal > 0 {
		sql.WriteString(fmt.Sprintf(" OFFSET %d", b.offsetVal))
	}

	return sql.String(), args
}

func (b *Builder) clone() *Builder {
	nb := &Builder{
		table:      b.table,
		groupByCol: b.groupByCol,
		orderByCol: b.orderByCol,
		orderByDir: b.orderByDir,
		limitVal:   b.limitVal,
		offsetVal:  b.offsetVal,
	}
	nb.selectCols = append([]string(nil), b.selectCols...)
	nb.whereClauses = append([]Condition(nil), b.whereClauses...)
	return nb
}

// String renders a human-readable representation for debugging.
func (b *Builder) String() string {
	sql, args := b.Build()
	return fmt.Sprintf("SQL: %s\nArgs: %v", sql, args)
}
