package storage

import (
	"fmt"
	"strings"
)

// Placeholder renders the bind parameter for the n-th argument (1-based).
type Placeholder func(n int) string

// QuestionMark is the placeholder style of MySQL and SQLite.
func QuestionMark(int) string { return "?" }

// Dollar is the placeholder style of Postgres.
func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

// AtP is the placeholder style of SQL Server (go-mssqldb).
func AtP(n int) string { return fmt.Sprintf("@p%d", n) }

// BuildInsert returns a multi-row INSERT of nrows rows into table. table and
// columns must already be quoted for the dialect.
//
//	INSERT INTO t (a, b) VALUES (?, ?), (?, ?)
func BuildInsert(table string, columns []string, nrows int, ph Placeholder) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("storage: insert: columns must not be empty")
	}
	if nrows <= 0 {
		return "", fmt.Errorf("storage: insert: nrows must be > 0")
	}

	var b strings.Builder
	b.Grow(32 + len(table) + nrows*len(columns)*6)
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES ")

	n := 1
	for r := 0; r < nrows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range columns {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(ph(n))
			n++
		}
		b.WriteByte(')')
	}
	return b.String(), nil
}

// MaxRows returns how many rows of ncols columns fit under a driver's bind
// parameter limit.
func MaxRows(paramLimit, ncols int) int {
	if ncols <= 0 {
		return 0
	}
	return paramLimit / ncols
}

// QuoteFQN quotes each dot-separated part of name with quote.
func QuoteFQN(name string, quote func(string) string) string {
	parts := strings.Split(name, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, quote(p))
		}
	}
	return strings.Join(out, ".")
}

// QuoteAll maps quote over names.
func QuoteAll(names []string, quote func(string) string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quote(n)
	}
	return out
}
