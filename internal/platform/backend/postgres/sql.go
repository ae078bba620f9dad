package postgres

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"kaliroot-admin/internal/platform/backend"
)

var comparison = map[backend.Op]string{
	backend.OpEq:    "=",
	backend.OpNeq:   "<>",
	backend.OpLt:    "<",
	backend.OpLte:   "<=",
	backend.OpGt:    ">",
	backend.OpGte:   ">=",
	backend.OpLike:  "LIKE",
	backend.OpILike: "ILIKE",

	backend.OpIsDistinct: "IS DISTINCT FROM",
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

type argList struct {
	args []any
}

func (a *argList) add(v any) string {
	a.args = append(a.args, v)
	return "$" + strconv.Itoa(len(a.args))
}

func buildSelect(q backend.Query) (string, []any, error) {
	if q.Table == "" {
		return "", nil, fmt.Errorf("select: empty table")
	}
	cols := "*"
	if list := q.ColumnList(); len(list) > 0 {
		quoted := make([]string, len(list))
		for i, c := range list {
			quoted[i] = ident(c)
		}
		cols = strings.Join(quoted, ", ")
	}

	var args argList
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, ident(q.Table))
	if err := writeWhere(&b, &args, q.Filters); err != nil {
		return "", nil, err
	}
	if len(q.Orders) > 0 {
		parts := make([]string, len(q.Orders))
		for i, o := range q.Orders {
			dir := "DESC"
			if o.Ascending {
				dir = "ASC"
			}
			parts[i] = ident(o.Column) + " " + dir
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if q.Max > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(q.Max))
	}
	return b.String(), args.args, nil
}

func buildCount(q backend.Query) (string, []any, error) {
	if q.Table == "" {
		return "", nil, fmt.Errorf("count: empty table")
	}
	var args argList
	var b strings.Builder
	b.WriteString("SELECT count(*) FROM " + ident(q.Table))
	if err := writeWhere(&b, &args, q.Filters); err != nil {
		return "", nil, err
	}
	return b.String(), args.args, nil
}

func buildInsert(table string, records []map[string]any) (string, []any, error) {
	colSet := map[string]struct{}{}
	for _, r := range records {
		for k := range r {
			colSet[k] = struct{}{}
		}
	}
	if len(colSet) == 0 {
		return "", nil, fmt.Errorf("insert %s: no columns", table)
	}
	cols := make([]string, 0, len(colSet))
	for k := range colSet {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = ident(c)
	}

	var args argList
	tuples := make([]string, len(records))
	for i, r := range records {
		vals := make([]string, len(cols))
		for j, c := range cols {
			v, ok := r[c]
			if !ok {
				vals[j] = "DEFAULT"
				continue
			}
			vals[j] = args.add(v)
		}
		tuples[i] = "(" + strings.Join(vals, ", ") + ")"
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		ident(table), strings.Join(quoted, ", "), strings.Join(tuples, ", "))
	return sql, args.args, nil
}

func buildUpdate(table string, values map[string]any, filters []backend.Filter) (string, []any, error) {
	if err := backend.ValidateFilters(filters, true); err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, fmt.Errorf("update %s: no values", table)
	}
	cols := make([]string, 0, len(values))
	for k := range values {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	var args argList
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = ident(c) + " = " + args.add(values[c])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s", ident(table), strings.Join(sets, ", "))
	if err := writeWhere(&b, &args, filters); err != nil {
		return "", nil, err
	}
	return b.String(), args.args, nil
}

func buildDelete(table string, filters []backend.Filter) (string, []any, error) {
	if err := backend.ValidateFilters(filters, true); err != nil {
		return "", nil, err
	}
	var args argList
	var b strings.Builder
	b.WriteString("DELETE FROM " + ident(table))
	if err := writeWhere(&b, &args, filters); err != nil {
		return "", nil, err
	}
	return b.String(), args.args, nil
}

func writeWhere(b *strings.Builder, args *argList, filters []backend.Filter) error {
	if err := backend.ValidateFilters(filters, false); err != nil {
		return err
	}
	if len(filters) == 0 {
		return nil
	}
	conds := make([]string, len(filters))
	for i, f := range filters {
		cond, err := condition(args, f)
		if err != nil {
			return err
		}
		conds[i] = cond
	}
	b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	return nil
}

func condition(args *argList, f backend.Filter) (string, error) {
	col := ident(f.Column)
	if f.Op == backend.OpIs {
		switch strings.ToLower(backend.FormatValue(f.Value)) {
		case "null":
			return col + " IS NULL", nil
		case "true":
			return col + " IS TRUE", nil
		case "false":
			return col + " IS FALSE", nil
		default:
			return "", fmt.Errorf("%w: is %v", backend.ErrInvalidFilter, f.Value)
		}
	}
	op := comparison[f.Op]
	v := f.Value
	if f.Op == backend.OpLike || f.Op == backend.OpILike {
		// PostgREST patterns use * as the wildcard
		v = strings.ReplaceAll(backend.FormatValue(v), "*", "%")
	}
	return col + " " + op + " " + args.add(v), nil
}
