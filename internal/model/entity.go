// Package model holds the flat DTOs returned by the upstream services, plus
// the two tables the BFF owns (operators and the audit log). Resource
// models carry no behaviour beyond identity and a few derived helpers.
package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// The services exchange quantities and prices as JSON numbers.
func init() { decimal.MarshalJSONWithoutQuotes = true }

// Entity is implemented by every upstream resource so generic code can
// address rows by id regardless of the service's id type.
type Entity interface {
	EntityID() string
}

func intID(id int) string { return strconv.Itoa(id) }

// CatalogItem is an entry of a low-churn reference list (genders, document types…).
type CatalogItem struct {
	ID   int    `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
}

func (c CatalogItem) EntityID() string { return intID(c.ID) }
