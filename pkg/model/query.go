// Model for reading and writing organisms, genes, proteins, secretion
// systems, articles and profiles.

package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const (
	DefaultPage = 1
	MaxLimit    = 100
)

// Page is a 1-based page request. Normalize before use.
type Page struct {
	Page  int
	Limit int
}

// Normalize applies the default page, the route's default limit and the cap.
func (p Page) Normalize(defaultLimit int) Page {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages rounds up.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// where accumulates AND-ed conditions with their arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

// getOne runs a single-row query, mapping no rows to ErrNotFound.
func getOne(ctx context.Context, q sqlx.QueryerContext, dest any, query string, args ...any) error {
	err := sqlx.GetContext(ctx, q, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// selectIn runs query with an IN (?) clause expanded over ids.
func selectIn(ctx context.Context, q sqlx.ExtContext, dest any, query string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	expanded, args, err := sqlx.In(query, ids)
	if err != nil {
		return fmt.Errorf("expand in clause: %w", err)
	}
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(expanded), args...)
}

func uniq(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func rebind(q sqlx.ExtContext, query string) string {
	return q.Rebind(query)
}
