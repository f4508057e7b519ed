// Package sqlbuild assembles the WHERE clauses shared by the SQL stores.
//
// The builder renders placeholders for the target dialect and escapes LIKE
// wildcards so search text always matches literally.
package sqlbuild

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects placeholder and case-insensitive match syntax.
type Dialect int

const (
	// Postgres uses $n placeholders and ILIKE.
	Postgres Dialect = iota
	// SQLite uses ? placeholders and LIKE over CaseFoldFunc on both sides,
	// since LIKE alone only folds ASCII letters.
	SQLite
)

// CaseFoldFunc is the SQL function SQLite stores must register to lowercase
// text with full Unicode rules.
const CaseFoldFunc = "casefold"

// WhereBuilder accumulates AND-ed conditions and their arguments.
type WhereBuilder struct {
	dialect    Dialect
	conditions []string
	args       []any
	argIndex   int
}

// NewWhereBuilder returns an empty builder for dialect.
func NewWhereBuilder(dialect Dialect) *WhereBuilder {
	return &WhereBuilder{dialect: dialect, argIndex: 1}
}

// placeholder registers arg and returns its placeholder text.
func (wb *WhereBuilder) placeholder(arg any) string {
	wb.args = append(wb.args, arg)
	idx := wb.argIndex
	wb.argIndex++
	if wb.dialect == Postgres {
		return "$" + strconv.Itoa(idx)
	}
	return "?"
}

// Add appends "column = value". Empty string values are skipped.
func (wb *WhereBuilder) Add(column string, value any) {
	if s, ok := value.(string); ok && s == "" {
		return
	}
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s = %s", QuoteIdentifier(column), wb.placeholder(value)))
}

// AddCompare appends "column op value", e.g. AddCompare("created_at", ">=", t).
func (wb *WhereBuilder) AddCompare(column, op string, value any) {
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s %s %s", QuoteIdentifier(column), op, wb.placeholder(value)))
}

// AddSearch appends an OR group matching text as a case-insensitive
// substring of any of columns. Empty text or no columns add nothing.
func (wb *WhereBuilder) AddSearch(text string, columns []string) {
	if text == "" || len(columns) == 0 {
		return
	}
	pattern := "%" + EscapeLike(text) + "%"
	parts := make([]string, len(columns))
	for i, col := range columns {
		if wb.dialect == SQLite {
			parts[i] = fmt.Sprintf(`%s(%s) LIKE %s(%s) ESCAPE '\'`, CaseFoldFunc, QuoteIdentifier(col), CaseFoldFunc, wb.placeholder(pattern))
			continue
		}
		parts[i] = fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, QuoteIdentifier(col), wb.placeholder(pattern))
	}
	wb.conditions = append(wb.conditions, "("+strings.Join(parts, " OR ")+")")
}

// Build renders " WHERE ..." (or "" when empty) and the argument list.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

// Limit renders " LIMIT n" for positive n.
func Limit(n int) string {
	if n <= 0 {
		return ""
	}
	return " LIMIT " + strconv.Itoa(n)
}

// EscapeLike escapes LIKE wildcards and the escape character itself.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// QuoteIdentifier quotes a SQL identifier to prevent injection.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
