// Package postgres implements backend.Backend over a direct pgx connection
// to the same database Supabase fronts.
package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"kaliroot-admin/internal/platform/backend"
)

var _ backend.Backend = (*Client)(nil)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Client struct {
	db   querier
	pool *pgxpool.Pool
}

// Open connects a pool and pings it.
func Open(ctx context.Context, databaseURL string) (*Client, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Client{db: pool, pool: pool}, nil
}

func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// HealthCheck pings the pool.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.pool == nil {
		return nil
	}
	return c.pool.Ping(ctx)
}

func (c *Client) Select(ctx context.Context, q backend.Query, dest any) error {
	sql, args, err := buildSelect(q)
	if err != nil {
		return err
	}
	rows, err := c.db.Query(ctx, sql, args...)
	if err != nil {
		return mapError(err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return mapError(err)
	}
	if records == nil {
		records = []map[string]any{}
	}
	// rows go through JSON so dest decodes exactly like the rest driver
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s rows: %w", q.Table, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s rows: %w", q.Table, err)
	}
	return nil
}

func (c *Client) Count(ctx context.Context, q backend.Query) (int64, error) {
	sql, args, err := buildCount(q)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := c.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (c *Client) Insert(ctx context.Context, table string, rows any) error {
	records, err := toRecords(rows)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	sql, args, err := buildInsert(table, records)
	if err != nil {
		return err
	}
	if _, err := c.db.Exec(ctx, sql, args...); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *Client) Update(ctx context.Context, table string, values any, filters ...backend.Filter) error {
	records, err := toRecords(values)
	if err != nil {
		return err
	}
	if len(records) != 1 {
		return fmt.Errorf("update %s: expected a single set of values, got %d", table, len(records))
	}
	sql, args, err := buildUpdate(table, records[0], filters)
	if err != nil {
		return err
	}
	if _, err := c.db.Exec(ctx, sql, args...); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, table string, filters ...backend.Filter) error {
	sql, args, err := buildDelete(table, filters)
	if err != nil {
		return err
	}
	if _, err := c.db.Exec(ctx, sql, args...); err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &backend.Error{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
		}
	}
	return err
}

// toRecords accepts a map, a slice of maps, or anything that encodes to a
// JSON object or array of objects.
func toRecords(v any) ([]map[string]any, error) {
	switch val := v.(type) {
	case map[string]any:
		return []map[string]any{val}, nil
	case []map[string]any:
		return val, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	data = bytes.TrimSpace(data)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []map[string]any
	if len(data) > 0 && data[0] == '[' {
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode rows: %w", err)
		}
	} else {
		var one map[string]any
		if err := dec.Decode(&one); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		records = []map[string]any{one}
	}
	for _, r := range records {
		for k, val := range r {
			if num, ok := val.(json.Number); ok {
				if i, err := num.Int64(); err == nil {
					r[k] = i
				} else if f, err := num.Float64(); err == nil {
					r[k] = f
				}
			}
		}
	}
	return records, nil
}
