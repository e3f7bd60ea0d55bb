package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/decimalx"
	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/domain/repository"
	"github.com/sells-group/taxengine/internal/geo/resolver"
	apperrors "github.com/sells-group/taxengine/internal/pkg/errors"
	"github.com/sells-group/taxengine/internal/usecase/dto"
)

const genericCountyLabel = "County (Generic)"
const specialDistrictLabel = "Special District"

// TaxUseCase computes and persists sales-tax orders: resolve the
// jurisdiction for a coordinate, look up the applicable rate, assemble the
// composite rate and breakdown, and persist the result atomically.
type TaxUseCase struct {
	resolver  resolver.Resolver
	rateRepo  repository.RateRepository
	orderRepo repository.OrderRepository
	logger    *zap.Logger
}

// NewTaxUseCase constructs a TaxUseCase bound to a single resolver variant,
// selected at wiring time.
func NewTaxUseCase(
	res resolver.Resolver,
	rateRepo repository.RateRepository,
	orderRepo repository.OrderRepository,
	logger *zap.Logger,
) *TaxUseCase {
	return &TaxUseCase{
		resolver:  res,
		rateRepo:  rateRepo,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// ProcessOrder resolves the jurisdiction for (lat, lon), consults the rate
// store, assembles the composite tax, and persists the resulting Order in
// one atomic step.
func (uc *TaxUseCase) ProcessOrder(ctx context.Context, req dto.ProcessOrderRequest) (*dto.OrderResponse, error) {
	subtotal, err := parseSubtotal(req.Subtotal)
	if err != nil {
		return nil, apperrors.ErrInvalidSubtotal
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}

	geo, err := uc.resolver.Resolve(ctx, req.Lat, req.Lon)
	if err != nil {
		uc.logger.Error("resolver failed", zap.Error(err))
		return nil, apperrors.ErrResolverUnavailable
	}

	rec, err := uc.rateRepo.FetchRate(ctx, geo.State, geo.County, geo.Locality, ts)
	if err != nil {
		uc.logger.Error("rate lookup failed", zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	order := &domain.Order{
		Lat:            decimal.NewFromFloat(req.Lat).Truncate(6),
		Lon:            decimal.NewFromFloat(req.Lon).Truncate(6),
		Subtotal:       subtotal,
		OrderTimestamp: ts,
		GeoState:       geo.State,
		GeoCounty:      geo.County,
		GeoLocality:    geo.Locality,
		GeoSource:      uc.resolver.ProviderName(),
		GeoRawResponse: geo.RawResponse,
	}

	assembleTax(order, rec, subtotal)

	if err := uc.orderRepo.Insert(ctx, order); err != nil {
		uc.logger.Error("order insert failed", zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	resp := dto.FromOrder(order)
	return &resp, nil
}

// assembleTax fills in order's composite rate, breakdown, jurisdictions, and
// totals from the matched rate record (or zeroes them out on a rate miss).
func assembleTax(order *domain.Order, rec *domain.RateRecord, subtotal decimal.Decimal) {
	if rec == nil {
		order.CompositeRate = decimal.Zero
		order.TaxAmount = decimal.Zero
		order.TotalAmount = subtotal
		order.Breakdown = []domain.BreakdownEntry{}
		order.Jurisdictions = []string{}
		return
	}

	compositeRate := rec.RateState.Add(rec.RateCounty).Add(rec.RateLocality).Add(rec.RateSpecial)

	jurisdictions := []string{rec.State, rec.County}
	if rec.RateLocality.IsPositive() && rec.Locality != "" {
		jurisdictions = append(jurisdictions, rec.Locality)
	}
	if rec.RateSpecial.IsPositive() {
		jurisdictions = append(jurisdictions, specialDistrictLabel)
	}

	var breakdown []domain.BreakdownEntry
	if rec.RateState.IsPositive() {
		breakdown = append(breakdown, breakdownEntry(rec.State, rec.RateState, subtotal))
	}
	if rec.RateCounty.IsPositive() {
		countyName := rec.County
		if countyName == "" {
			countyName = genericCountyLabel
		}
		breakdown = append(breakdown, breakdownEntry(countyName, rec.RateCounty, subtotal))
	}
	if rec.RateLocality.IsPositive() {
		breakdown = append(breakdown, breakdownEntry(rec.Locality, rec.RateLocality, subtotal))
	}
	if rec.RateSpecial.IsPositive() {
		breakdown = append(breakdown, breakdownEntry(specialDistrictLabel, rec.RateSpecial, subtotal))
	}
	if breakdown == nil {
		breakdown = []domain.BreakdownEntry{}
	}

	order.CompositeRate = decimalx.Rate4(compositeRate)
	order.Jurisdictions = jurisdictions
	order.Breakdown = breakdown
	order.TaxAmount = decimalx.Money2(subtotal.Mul(order.CompositeRate))
	order.TotalAmount = subtotal.Add(order.TaxAmount)
}

func breakdownEntry(name string, rate, subtotal decimal.Decimal) domain.BreakdownEntry {
	return domain.BreakdownEntry{
		Name:      name,
		Rate:      rate,
		TaxAmount: decimalx.Money2(subtotal.Mul(rate)),
	}
}

// parseSubtotal coerces a decimal-string subtotal to the 2-digit money
// discipline via exact string parsing, rejecting negatives and malformed
// input.
func parseSubtotal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, apperrors.ErrInvalidSubtotal
	}
	return decimalx.Money2(d), nil
}
