package statement

import (
	"fmt"
	"strings"
)

// placeholder renders the Nth (1-based) bound-parameter placeholder for
// a backend: Postgres uses $1, $2, ...; MySQL and SQLite both use a
// plain positional "?".
func placeholder(backend Backend, n int) string {
	if backend == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// SelectColumn is one projected expression of a Select, optionally
// aliased (e.g. "COUNT(*)" AS "rows").
type SelectColumn struct {
	Expr  string
	Alias string
}

// Condition is one ANDed predicate of a Select's WHERE clause. Expr may
// contain positional placeholders ("?") which are rewritten to the
// target backend's placeholder style; Args supplies their bound values
// in order.
type Condition struct {
	Expr string
	Args []any
}

// OrderBy is one ORDER BY term.
type OrderBy struct {
	Column string
	Desc   bool
}

// Select builds parameterized SELECT statements: a FROM table or a
// FROM subquery (mutually exclusive), ANDed WHERE conditions, and an
// optional ORDER BY. It backs both host-authored queries and the
// engine's own introspection (query_tables, has_table, has_column).
type Select struct {
	Columns      []SelectColumn
	From         string
	FromSubquery *Select
	SubqueryAs   string
	Where        []Condition
	OrderBy      []OrderBy
}

func (s Select) Build(backend Backend) (string, []any, error) {
	sql, params, err := s.buildRaw(backend)
	if err != nil {
		return "", nil, err
	}
	return rewritePlaceholders(sql, backend), params, nil
}

// buildRaw assembles the statement with literal "?" placeholders,
// regardless of backend; only the outermost Select.Build call rewrites
// them to the target dialect's style, so a subquery's own placeholders
// are numbered correctly relative to the whole statement.
func (s Select) buildRaw(backend Backend) (string, []any, error) {
	var sb strings.Builder
	var params []any
	sb.WriteString("SELECT ")
	cols := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c.Alias != "" {
			cols = append(cols, fmt.Sprintf("%s AS %s", c.Expr, quoteIdent(backend, c.Alias)))
		} else {
			cols = append(cols, c.Expr)
		}
	}
	if len(cols) == 0 {
		cols = []string{"*"}
	}
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM ")
	switch {
	case s.FromSubquery != nil:
		sub, subParams, err := s.FromSubquery.buildRaw(backend)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString("(")
		sb.WriteString(sub)
		sb.WriteString(") AS ")
		sb.WriteString(quoteIdent(backend, s.SubqueryAs))
		params = append(params, subParams...)
	default:
		sb.WriteString(s.From)
	}
	if len(s.Where) > 0 {
		sb.WriteString(" WHERE ")
		clauses := make([]string, len(s.Where))
		for i, cond := range s.Where {
			clauses[i] = cond.Expr
			params = append(params, cond.Args...)
		}
		sb.WriteString(strings.Join(clauses, " AND "))
	}
	if len(s.OrderBy) > 0 {
		terms := make([]string, len(s.OrderBy))
		for i, ob := range s.OrderBy {
			dir := "ASC"
			if ob.Desc {
				dir = "DESC"
			}
			terms[i] = fmt.Sprintf("%s %s", quoteIdent(backend, ob.Column), dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(terms, ", "))
	}
	return sb.String(), params, nil
}

// rewritePlaceholders converts the "?" placeholders emitted while
// assembling a statement into the target backend's style, numbering
// them in left-to-right order for Postgres.
func rewritePlaceholders(sql string, backend Backend) string {
	if backend != Postgres {
		return sql
	}
	var sb strings.Builder
	n := 0
	for _, r := range sql {
		if r == '?' {
			n++
			sb.WriteString(placeholder(backend, n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Insert builds "INSERT INTO table (cols...) VALUES (...)".
type Insert struct {
	Table   string
	Columns []string
	Values  []any
}

func (ins Insert) Build(backend Backend) (string, []any, error) {
	if len(ins.Columns) != len(ins.Values) {
		return "", nil, fmt.Errorf("statement: Insert into %q has %d columns but %d values", ins.Table, len(ins.Columns), len(ins.Values))
	}
	placeholders := make([]string, len(ins.Values))
	for i := range ins.Values {
		placeholders[i] = placeholder(backend, i+1)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(backend, ins.Table), joinIdents(backend, ins.Columns), strings.Join(placeholders, ", "))
	return sql, ins.Values, nil
}

// Update builds "UPDATE table SET col = ? [, ...] WHERE ...".
type Update struct {
	Table  string
	Set    map[string]any
	Where  []Condition
	Order  []string // deterministic column order for Set, since map iteration isn't
}

func (u Update) Build(backend Backend) (string, []any, error) {
	order := u.Order
	if len(order) == 0 {
		for col := range u.Set {
			order = append(order, col)
		}
	}
	var sb strings.Builder
	var params []any
	sb.WriteString("UPDATE ")
	sb.WriteString(quoteIdent(backend, u.Table))
	sb.WriteString(" SET ")
	assigns := make([]string, len(order))
	for i, col := range order {
		assigns[i] = fmt.Sprintf("%s = ?", quoteIdent(backend, col))
		params = append(params, u.Set[col])
	}
	sb.WriteString(strings.Join(assigns, ", "))
	if len(u.Where) > 0 {
		clauses := make([]string, len(u.Where))
		for i, cond := range u.Where {
			clauses[i] = cond.Expr
			params = append(params, cond.Args...)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}
	return rewritePlaceholders(sb.String(), backend), params, nil
}

// Delete builds "DELETE FROM table WHERE ...".
type Delete struct {
	Table string
	Where []Condition
}

func (d Delete) Build(backend Backend) (string, []any, error) {
	var sb strings.Builder
	var params []any
	sb.WriteString("DELETE FROM ")
	sb.WriteString(quoteIdent(backend, d.Table))
	if len(d.Where) > 0 {
		clauses := make([]string, len(d.Where))
		for i, cond := range d.Where {
			clauses[i] = cond.Expr
			params = append(params, cond.Args...)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}
	return rewritePlaceholders(sb.String(), backend), params, nil
}
