package dto

import "time"

// ProcessOrderRequest is the inbound payload for a single-order computation.
type ProcessOrderRequest struct {
	Lat       float64    `json:"lat" validate:"min=-90,max=90"`
	Lon       float64    `json:"lon" validate:"min=-180,max=180"`
	Subtotal  string     `json:"subtotal" validate:"required"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// BreakdownEntryResponse is one jurisdiction's contribution to the composite
// tax, rendered for the wire.
type BreakdownEntryResponse struct {
	Name      string `json:"name"`
	Rate      string `json:"rate"`
	TaxAmount string `json:"tax_amount"`
}

// OrderResponse is the full persisted order record.
type OrderResponse struct {
	ID             string                   `json:"id"`
	Lat            string                   `json:"lat"`
	Lon            string                   `json:"lon"`
	Subtotal       string                   `json:"subtotal"`
	OrderTimestamp time.Time                `json:"order_timestamp"`
	GeoState       string                   `json:"geo_state"`
	GeoCounty      string                   `json:"geo_county"`
	GeoLocality    string                   `json:"geo_locality,omitempty"`
	GeoSource      string                   `json:"geo_source"`
	CompositeRate  string                   `json:"composite_rate"`
	TaxAmount      string                   `json:"tax_amount"`
	TotalAmount    string                   `json:"total_amount"`
	Jurisdictions  []string                 `json:"jurisdictions"`
	Breakdown      []BreakdownEntryResponse `json:"breakdown"`
	CreatedAt      time.Time                `json:"created_at"`
}

// ListOrdersRequest describes a paginated order listing query.
type ListOrdersRequest struct {
	Ordering string `json:"ordering"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	Limit    int    `json:"limit" validate:"omitempty,min=1,max=500"`
}

// ListOrdersResponse is one page of orders.
type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}
