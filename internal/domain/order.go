package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BreakdownEntry is one jurisdiction's contribution to the composite tax.
type BreakdownEntry struct {
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
}

// Order is an immutable ledger entry produced by ProcessOrder.
type Order struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Lat            decimal.Decimal `json:"lat" db:"lat"`
	Lon            decimal.Decimal `json:"lon" db:"lon"`
	Subtotal       decimal.Decimal `json:"subtotal" db:"subtotal"`
	OrderTimestamp time.Time       `json:"order_timestamp" db:"order_timestamp"`

	GeoState       string `json:"geo_state" db:"geo_state"`
	GeoCounty      string `json:"geo_county" db:"geo_county"`
	GeoLocality    string `json:"geo_locality" db:"geo_locality"`
	GeoSource      string `json:"geo_source" db:"geo_source"`
	GeoRawResponse []byte `json:"geo_raw_response,omitempty" db:"geo_raw_response"`

	CompositeRate decimal.Decimal  `json:"composite_rate" db:"composite_rate"`
	TaxAmount     decimal.Decimal  `json:"tax_amount" db:"tax_amount"`
	TotalAmount   decimal.Decimal  `json:"total_amount" db:"total_amount"`
	Jurisdictions []string         `json:"jurisdictions" db:"jurisdictions"`
	Breakdown     []BreakdownEntry `json:"breakdown" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// OrderPage is one page of a paginated order listing.
type OrderPage struct {
	Orders []*Order `json:"orders"`
	Total  int64    `json:"total"`
	Page   int      `json:"page"`
	Limit  int      `json:"limit"`
}

// OrderOrdering describes the sort field and direction for listing orders.
type OrderOrdering struct {
	Field      string // "id" or "created_at"
	Descending bool
}
