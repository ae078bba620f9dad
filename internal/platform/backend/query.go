package backend

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Op is a filter operator. The names follow the PostgREST operators.
type Op string

const (
	OpEq    Op = "eq"
	OpNeq   Op = "neq"
	OpLt    Op = "lt"
	OpLte   Op = "lte"
	OpGt    Op = "gt"
	OpGte   Op = "gte"
	OpLike  Op = "like"
	OpILike Op = "ilike"
	OpIs    Op = "is"
	// OpIsDistinct is neq that also matches NULL.
	OpIsDistinct Op = "isdistinct"
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, value any) Filter { return Filter{Column: column, Op: OpEq, Value: value} }

type Order struct {
	Column    string
	Ascending bool
}

// Query describes a read against a single table. Build it with From.
type Query struct {
	Table   string
	Columns string
	Filters []Filter
	Orders  []Order
	Max     int
}

// From starts a query on table selecting every column.
func From(table string) Query {
	return Query{Table: table, Columns: "*"}
}

func (q Query) Select(columns string) Query {
	q.Columns = columns
	return q
}

func (q Query) Where(f Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), f)
	return q
}

func (q Query) Eq(column string, v any) Query    { return q.Where(Filter{column, OpEq, v}) }
func (q Query) Neq(column string, v any) Query   { return q.Where(Filter{column, OpNeq, v}) }
func (q Query) Lt(column string, v any) Query    { return q.Where(Filter{column, OpLt, v}) }
func (q Query) Lte(column string, v any) Query   { return q.Where(Filter{column, OpLte, v}) }
func (q Query) Gt(column string, v any) Query    { return q.Where(Filter{column, OpGt, v}) }
func (q Query) Gte(column string, v any) Query   { return q.Where(Filter{column, OpGte, v}) }
func (q Query) Like(column string, v any) Query  { return q.Where(Filter{column, OpLike, v}) }
func (q Query) ILike(column string, v any) Query { return q.Where(Filter{column, OpILike, v}) }
func (q Query) Is(column string, v any) Query    { return q.Where(Filter{column, OpIs, v}) }

func (q Query) IsDistinct(column string, v any) Query {
	return q.Where(Filter{column, OpIsDistinct, v})
}

func (q Query) Order(column string, ascending bool) Query {
	q.Orders = append(append([]Order(nil), q.Orders...), Order{Column: column, Ascending: ascending})
	return q
}

func (q Query) Limit(n int) Query {
	q.Max = n
	return q
}

// ColumnList splits Columns into trimmed names. "*" yields nil.
func (q Query) ColumnList() []string {
	cols := strings.TrimSpace(q.Columns)
	if cols == "" || cols == "*" {
		return nil
	}
	parts := strings.Split(cols, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (o Op) Valid() bool {
	switch o {
	case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte, OpLike, OpILike, OpIs, OpIsDistinct:
		return true
	}
	return false
}

// FormatValue renders a filter value the way PostgREST expects it in a query string.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if val == nil {
			return "null"
		}
		return val.UTC().Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(val)
	}
}
