package handler

import (
	"strings"

	"aerox/internal/decision/models"
)

// ProcessRequest is the HTTP request body for POST /api/booking/process.
type ProcessRequest struct {
	CompanyID          string  `json:"company_id"`
	CompanyName        string  `json:"company_name"`
	BookingAmount      float64 `json:"booking_amount"`
	CurrentOutstanding float64 `json:"current_outstanding"`
	CreditLimit        float64 `json:"credit_limit"`
	Route              string  `json:"route"`
	BookingDate        string  `json:"booking_date"`
}

// Validate normalizes and validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ProcessRequest) Validate() error {
	r.CompanyID = strings.TrimSpace(r.CompanyID)
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	return r.Booking().Validate()
}

// Booking converts the request into the domain value type.
func (r *ProcessRequest) Booking() models.BookingRequest {
	return models.BookingRequest{
		CompanyID:          r.CompanyID,
		CompanyName:        r.CompanyName,
		BookingAmount:      r.BookingAmount,
		CurrentOutstanding: r.CurrentOutstanding,
		CreditLimit:        r.CreditLimit,
		Route:              r.Route,
		BookingDate:        r.BookingDate,
	}
}
