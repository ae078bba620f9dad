// Package backend is the generic table client for the hosted relational
// database. Two drivers implement Backend: rest (Supabase PostgREST) and
// postgres (direct pgx connection).
package backend

import (
	"context"
	"errors"
	"fmt"
)

// Table names of the KaliRoot schema.
const (
	TableUsers       = "usuarios"
	TableResources   = "download_resources"
	TableAuditLog    = "audit_log"
	TableUserModules = "user_modules"
	TableBadges      = "badges"
)

// CodeUndefinedTable is the Postgres SQLSTATE for a missing relation.
const CodeUndefinedTable = "42P01"

// Backend issues single pass-through requests. There are no retries and no
// transactions; every call is independent.
type Backend interface {
	// Select decodes the matching rows into dest, a pointer to a slice.
	Select(ctx context.Context, q Query, dest any) error
	// Count returns the number of rows matching q without fetching them.
	Count(ctx context.Context, q Query) (int64, error)
	// Insert adds rows, a struct, map or slice of either.
	Insert(ctx context.Context, table string, rows any) error
	// Update sets values on every row matching filters.
	Update(ctx context.Context, table string, values any, filters ...Filter) error
	// Delete removes every row matching filters.
	Delete(ctx context.Context, table string, filters ...Filter) error
}

// Error is the error object reported by the backend.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

var (
	ErrNoBackend     = errors.New("backend: no backend bound to context")
	ErrUnfiltered    = errors.New("backend: update and delete require at least one filter")
	ErrInvalidFilter = errors.New("backend: invalid filter")
)

// IsUndefinedTable reports whether err is a missing-table error.
func IsUndefinedTable(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == CodeUndefinedTable
}

// ValidateFilters checks operators and column names of a write filter set.
func ValidateFilters(filters []Filter, requireOne bool) error {
	if requireOne && len(filters) == 0 {
		return ErrUnfiltered
	}
	for _, f := range filters {
		if f.Column == "" || !f.Op.Valid() {
			return fmt.Errorf("%w: %q %q", ErrInvalidFilter, f.Column, f.Op)
		}
	}
	return nil
}

type ctxKey struct{}

// WithBackend binds b to ctx for the repositories of the current request.
func WithBackend(ctx context.Context, b Backend) context.Context {
	return context.WithValue(ctx, ctxKey{}, b)
}

// FromContext returns the Backend bound by WithBackend.
func FromContext(ctx context.Context) (Backend, error) {
	b, ok := ctx.Value(ctxKey{}).(Backend)
	if !ok || b == nil {
		return nil, ErrNoBackend
	}
	return b, nil
}

// Resolver yields the Backend a repository should talk to.
type Resolver interface {
	Resolve(ctx context.Context) (Backend, error)
}

// ContextResolver resolves the Backend bound to the request context.
type ContextResolver struct{}

func (ContextResolver) Resolve(ctx context.Context) (Backend, error) {
	return FromContext(ctx)
}

// Static always resolves to the wrapped Backend. Used by the CLI and tests.
type Static struct {
	Backend Backend
}

func (s Static) Resolve(context.Context) (Backend, error) {
	if s.Backend == nil {
		return nil, ErrNoBackend
	}
	return s.Backend, nil
}
