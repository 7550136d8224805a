// Package databasetest provides an in-memory database.DB for introspector
// tests. Result sets are canned rows chosen by a handler function.
package databasetest

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/koustreak/kyselygen/internal/database"
)

// Handler returns the rows for a query. Returning an error fails the Query call.
type Handler func(sql string, args []any) ([][]any, error)

// DB is a fake database.DB driven by a Handler. It is safe for concurrent use.
type DB struct {
	Handler Handler

	mu      sync.Mutex
	queries []string
	closed  bool
}

// Routes builds a Handler that returns the rows registered for the first key
// contained in the query text.
func Routes(routes map[string][][]any) Handler {
	return func(sql string, _ []any) ([][]any, error) {
		for key, rows := range routes {
			if strings.Contains(sql, key) {
				return rows, nil
			}
		}
		return nil, nil
	}
}

func (d *DB) Ping(context.Context) error { return nil }

func (d *DB) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

// Closed reports whether Close was called.
func (d *DB) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Queries returns every SQL text seen so far.
func (d *DB) Queries() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.queries...)
}

func (d *DB) Query(ctx context.Context, sql string, args ...any) (database.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.queries = append(d.queries, sql)
	d.mu.Unlock()

	data, err := d.Handler(sql, args)
	if err != nil {
		return nil, err
	}
	return &Rows{data: data, pos: -1}, nil
}

func (d *DB) QueryRow(ctx context.Context, sql string, args ...any) (database.Row, error) {
	rows, err := d.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return &Row{rows: rows.(*Rows)}, nil
}

// Rows iterates over canned values.
type Rows struct {
	data   [][]any
	pos    int
	closed bool
}

// NewRows wraps canned values as database.Rows.
func NewRows(data [][]any) *Rows {
	return &Rows{data: data, pos: -1}
}

func (r *Rows) Next() bool {
	if r.closed {
		return false
	}
	r.pos++
	return r.pos < len(r.data)
}

// Scan assigns each canned value to the matching destination pointer.
// A nil value stores the destination's zero value.
func (r *Rows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.data) {
		return fmt.Errorf("scan called without a current row")
	}
	row := r.data[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		elem := target.Elem()
		if row[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		val := reflect.ValueOf(row[i])
		if !val.Type().AssignableTo(elem.Type()) {
			return fmt.Errorf("scan: cannot assign %s to %s at column %d", val.Type(), elem.Type(), i)
		}
		elem.Set(val)
	}
	return nil
}

func (r *Rows) Close()     { r.closed = true }
func (r *Rows) Err() error { return nil }

// Row scans the first canned row.
type Row struct {
	rows *Rows
}

func (r *Row) Scan(dest ...any) error {
	defer r.rows.Close()
	if !r.rows.Next() {
		return fmt.Errorf("no rows in result set")
	}
	return r.rows.Scan(dest...)
}
