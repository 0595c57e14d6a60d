// Package view turns resource rows into the tables and pages the admin UI
// renders: column definitions with cell formatters, per-row actions, page
// composition and spreadsheet export.
package view

import (
	"strconv"

	"nutripae/internal/model"

	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionView       Action = "view"
	ActionEdit       Action = "edit"
	ActionDelete     Action = "delete"
	ActionCancel     Action = "cancel"
	ActionShip       Action = "ship"
	ActionActivate   Action = "activate"
	ActionDeactivate Action = "deactivate"
)

// DefaultActions is offered on every row unless a table overrides it.
var DefaultActions = []Action{ActionView, ActionEdit, ActionDelete}

// Column is one table column: a header and how to format a row's cell.
type Column[T any] struct {
	Key    string
	Header string
	Cell   func(T) string
}

// Table describes how rows of T are shown.
type Table[T model.Entity] struct {
	Columns []Column[T]
	// Actions picks the row actions; nil means DefaultActions.
	Actions func(T) []Action
}

type Row struct {
	ID      string   `json:"id"`
	Cells   []string `json:"cells"`
	Actions []Action `json:"actions"`
}

// Rendered is the wire form of a table.
type Rendered struct {
	Keys    []string `json:"keys"`
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

func (t Table[T]) Render(rows []T) Rendered {
	out := Rendered{
		Keys:    make([]string, len(t.Columns)),
		Headers: make([]string, len(t.Columns)),
		Rows:    make([]Row, 0, len(rows)),
	}
	for i, c := range t.Columns {
		out.Keys[i] = c.Key
		out.Headers[i] = c.Header
	}
	for _, r := range rows {
		row := Row{ID: r.EntityID(), Cells: make([]string, len(t.Columns))}
		for i, c := range t.Columns {
			row.Cells[i] = c.Cell(r)
		}
		if t.Actions != nil {
			row.Actions = t.Actions(r)
		} else {
			row.Actions = DefaultActions
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// ── Cell helpers ─────────────────────────────────────────────────────────────

func Text[T any](key, header string, get func(T) string) Column[T] {
	return Column[T]{Key: key, Header: header, Cell: get}
}

func Int[T any](key, header string, get func(T) int) Column[T] {
	return Column[T]{Key: key, Header: header, Cell: func(v T) string { return strconv.Itoa(get(v)) }}
}

func Decimal[T any](key, header string, get func(T) decimal.Decimal) Column[T] {
	return Column[T]{Key: key, Header: header, Cell: func(v T) string { return get(v).String() }}
}

// Money renders with two decimals.
func Money[T any](key, header string, get func(T) decimal.Decimal) Column[T] {
	return Column[T]{Key: key, Header: header, Cell: func(v T) string { return get(v).StringFixed(2) }}
}

func Optional[T any](key, header string, get func(T) *string) Column[T] {
	return Column[T]{Key: key, Header: header, Cell: func(v T) string {
		if s := get(v); s != nil {
			return *s
		}
		return ""
	}}
}

// Date shows only the calendar part of an ISO timestamp.
func Date[T any](key, header string, get func(T) string) Column[T] {
	return Column[T]{Key: key, Header: header, Cell: func(v T) string { return dateOnly(get(v)) }}
}

func Bool[T any](key, header string, get func(T) bool) Column[T] {
	return Column[T]{Key: key, Header: header, Cell: func(v T) string {
		if get(v) {
			return "Sí"
		}
		return "No"
	}}
}

// Lookup resolves a catalog or parent id through names; unknown ids are
// shown as the bare number.
func Lookup[T any](key, header string, names map[int]string, get func(T) int) Column[T] {
	return Column[T]{Key: key, Header: header, Cell: func(v T) string {
		id := get(v)
		if n, ok := names[id]; ok {
			return n
		}
		return strconv.Itoa(id)
	}}
}

func dateOnly(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}
