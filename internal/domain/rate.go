package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateRecord is one row of the temporal, hierarchical rate table.
type RateRecord struct {
	ID           int64           `json:"id" db:"id"`
	State        string          `json:"state" db:"state"`
	County       string          `json:"county" db:"county"`
	Locality     string          `json:"locality" db:"locality"`
	RateState    decimal.Decimal `json:"rate_state" db:"rate_state"`
	RateCounty   decimal.Decimal `json:"rate_county" db:"rate_county"`
	RateLocality decimal.Decimal `json:"rate_locality" db:"rate_locality"`
	RateSpecial  decimal.Decimal `json:"rate_special" db:"rate_special"`
	ValidFrom    time.Time       `json:"valid_from" db:"valid_from"`
	ValidTo      *time.Time      `json:"valid_to,omitempty" db:"valid_to"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// CompositeRate sums the four rate components into the composite rate.
func (r *RateRecord) CompositeRate() decimal.Decimal {
	return r.RateState.Add(r.RateCounty).Add(r.RateLocality).Add(r.RateSpecial)
}
