package dto

import "github.com/sells-group/taxengine/internal/domain"

// FromOrder renders a persisted Order for the wire.
func FromOrder(o *domain.Order) OrderResponse {
	breakdown := make([]BreakdownEntryResponse, len(o.Breakdown))
	for i, e := range o.Breakdown {
		breakdown[i] = BreakdownEntryResponse{
			Name:      e.Name,
			Rate:      e.Rate.StringFixed(4),
			TaxAmount: e.TaxAmount.StringFixed(2),
		}
	}

	jurisdictions := o.Jurisdictions
	if jurisdictions == nil {
		jurisdictions = []string{}
	}

	return OrderResponse{
		ID:             o.ID.String(),
		Lat:            o.Lat.StringFixed(6),
		Lon:            o.Lon.StringFixed(6),
		Subtotal:       o.Subtotal.StringFixed(2),
		OrderTimestamp: o.OrderTimestamp,
		GeoState:       o.GeoState,
		GeoCounty:      o.GeoCounty,
		GeoLocality:    o.GeoLocality,
		GeoSource:      o.GeoSource,
		CompositeRate:  o.CompositeRate.StringFixed(4),
		TaxAmount:      o.TaxAmount.StringFixed(2),
		TotalAmount:    o.TotalAmount.StringFixed(2),
		Jurisdictions:  jurisdictions,
		Breakdown:      breakdown,
		CreatedAt:      o.CreatedAt,
	}
}

// FromImportJob renders a background import job for the wire.
func FromImportJob(j *domain.ImportJob) ImportJobResponse {
	errorReport := make([]ImportRowErrorResponse, len(j.ErrorReport))
	for i, e := range j.ErrorReport {
		errorReport[i] = ImportRowErrorResponse{Row: e.Row, Error: e.Error}
	}

	return ImportJobResponse{
		ID:            j.ID.String(),
		Status:        string(j.Status),
		TotalRows:     j.TotalRows,
		ProcessedRows: j.ProcessedRows,
		SuccessRows:   j.SuccessRows,
		FailedRows:    j.FailedRows,
		ErrorReport:   errorReport,
		GlobalError:   j.GlobalError,
		CreatedAt:     j.CreatedAt,
		StartedAt:     j.StartedAt,
		FinishedAt:    j.FinishedAt,
	}
}
