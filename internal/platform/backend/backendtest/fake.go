// Package backendtest provides an in-memory backend.Backend for tests.
package backendtest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"kaliroot-admin/internal/platform/backend"
)

type Call struct {
	Method  string
	Table   string
	Query   backend.Query
	Values  any
	Filters []backend.Filter
}

// Fake keeps rows per table as generic maps and records every call.
type Fake struct {
	mu     sync.Mutex
	tables map[string][]map[string]any
	errs   map[string]error
	Calls  []Call
}

var _ backend.Backend = (*Fake)(nil)

func New() *Fake {
	return &Fake{tables: map[string][]map[string]any{}, errs: map[string]error{}}
}

// Seed replaces the rows of table. Rows may be structs or maps.
func (f *Fake) Seed(table string, rows any) *Fake {
	data, err := json.Marshal(rows)
	if err != nil {
		panic(err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		panic(err)
	}
	f.mu.Lock()
	f.tables[table] = records
	f.mu.Unlock()
	return f
}

// Fail makes every call against table return err.
func (f *Fake) Fail(table string, err error) *Fake {
	f.mu.Lock()
	f.errs[table] = err
	f.mu.Unlock()
	return f
}

func (f *Fake) Rows(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.tables[table]...)
}

// CallsTo returns recorded calls of method against table.
func (f *Fake) CallsTo(method, table string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if c.Method == method && c.Table == table {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) record(c Call) error {
	f.Calls = append(f.Calls, c)
	return f.errs[c.Table]
}

func (f *Fake) Select(_ context.Context, q backend.Query, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "select", Table: q.Table, Query: q}); err != nil {
		return err
	}
	rows := matching(f.tables[q.Table], q.Filters)
	for i := len(q.Orders) - 1; i >= 0; i-- {
		o := q.Orders[i]
		sort.SliceStable(rows, func(a, b int) bool {
			c := compare(rows[a][o.Column], rows[b][o.Column])
			if o.Ascending {
				return c < 0
			}
			return c > 0
		})
	}
	if q.Max > 0 && len(rows) > q.Max {
		rows = rows[:q.Max]
	}
	if cols := q.ColumnList(); len(cols) > 0 {
		projected := make([]map[string]any, len(rows))
		for i, r := range rows {
			p := map[string]any{}
			for _, c := range cols {
				p[c] = r[c]
			}
			projected[i] = p
		}
		rows = projected
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (f *Fake) Count(_ context.Context, q backend.Query) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "count", Table: q.Table, Query: q}); err != nil {
		return 0, err
	}
	return int64(len(matching(f.tables[q.Table], q.Filters))), nil
}

func (f *Fake) Insert(_ context.Context, table string, rows any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "insert", Table: table, Values: rows}); err != nil {
		return err
	}
	records, err := asRecords(rows)
	if err != nil {
		return err
	}
	for _, r := range records {
		if _, ok := r["id"]; !ok {
			r["id"] = float64(len(f.tables[table]) + 1)
		}
		f.tables[table] = append(f.tables[table], r)
	}
	return nil
}

func (f *Fake) Update(_ context.Context, table string, values any, filters ...backend.Filter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "update", Table: table, Values: values, Filters: filters}); err != nil {
		return err
	}
	if err := backend.ValidateFilters(filters, true); err != nil {
		return err
	}
	records, err := asRecords(values)
	if err != nil {
		return err
	}
	for _, r := range f.tables[table] {
		if matches(r, filters) {
			for k, v := range records[0] {
				r[k] = v
			}
		}
	}
	return nil
}

func (f *Fake) Delete(_ context.Context, table string, filters ...backend.Filter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "delete", Table: table, Filters: filters}); err != nil {
		return err
	}
	if err := backend.ValidateFilters(filters, true); err != nil {
		return err
	}
	kept := f.tables[table][:0]
	for _, r := range f.tables[table] {
		if !matches(r, filters) {
			kept = append(kept, r)
		}
	}
	f.tables[table] = kept
	return nil
}

func asRecords(v any) ([]map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var many []map[string]any
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}
	var one map[string]any
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("rows must be objects: %w", err)
	}
	return []map[string]any{one}, nil
}

func matching(rows []map[string]any, filters []backend.Filter) []map[string]any {
	var out []map[string]any
	for _, r := range rows {
		if matches(r, filters) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r map[string]any, filters []backend.Filter) bool {
	for _, f := range filters {
		v, present := r[f.Column]
		c := compare(v, f.Value)
		switch f.Op {
		case backend.OpEq:
			if !present || c != 0 {
				return false
			}
		case backend.OpNeq:
			// SQL semantics: NULL <> x is not true
			if v == nil || c == 0 {
				return false
			}
		case backend.OpIsDistinct:
			if f.Value == nil {
				if v == nil {
					return false
				}
			} else if v != nil && c == 0 {
				return false
			}
		case backend.OpLt:
			if v == nil || c >= 0 {
				return false
			}
		case backend.OpLte:
			if v == nil || c > 0 {
				return false
			}
		case backend.OpGt:
			if v == nil || c <= 0 {
				return false
			}
		case backend.OpGte:
			if v == nil || c < 0 {
				return false
			}
		case backend.OpIs:
			if backend.FormatValue(f.Value) == "null" && v != nil {
				return false
			}
		case backend.OpLike, backend.OpILike:
			pattern := strings.Trim(backend.FormatValue(f.Value), "*%")
			if !strings.Contains(strings.ToLower(backend.FormatValue(v)), strings.ToLower(pattern)) {
				return false
			}
		}
	}
	return true
}

func compare(a, b any) int {
	as, bs := backend.FormatValue(a), backend.FormatValue(b)
	af, aErr := strconv.ParseFloat(as, 64)
	bf, bErr := strconv.ParseFloat(bs, 64)
	if aErr == nil && bErr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(as, bs)
}
